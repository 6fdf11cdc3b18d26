package table

import (
	"bytes"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/riskboard/internal/domain/level"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
)

type sortKey struct {
	col  Column
	desc bool
}

type sortValue struct {
	text []byte
	rank int
	at   time.Time
	ok   bool
	tie  []byte
}

type keyedRow[T Row] struct {
	row    T
	values []sortValue
}

// Sort returns a stably sorted copy of rows. Entries naming unknown or
// unsortable columns are skipped; an empty config keeps input order.
func Sort[T Row](rows []T, schema Schema, sc view.SortConfig) []T {
	keys := resolveKeys(schema, sc)
	if len(keys) == 0 {
		return slices.Clone(rows)
	}

	// Collators are not safe for concurrent use.
	coll := collate.New(language.English)
	var buf collate.Buffer

	keyed := make([]keyedRow[T], len(rows))
	for i, r := range rows {
		vals := make([]sortValue, len(keys))
		for j, k := range keys {
			vals[j] = extract(r, k.col, coll, &buf)
		}
		keyed[i] = keyedRow[T]{row: r, values: vals}
	}

	slices.SortStableFunc(keyed, func(a, b keyedRow[T]) int {
		for i, k := range keys {
			c := compareValues(k.col.Kind, a.values[i], b.values[i])
			if c == 0 {
				continue
			}
			if k.desc {
				return -c
			}
			return c
		}
		return 0
	})

	out := make([]T, len(keyed))
	for i, k := range keyed {
		out[i] = k.row
	}
	return out
}

func resolveKeys(schema Schema, sc view.SortConfig) []sortKey {
	var keys []sortKey
	for _, e := range sc.Entries() {
		col, ok := schema.Column(e.Field)
		if !ok || !col.Kind.Sortable() {
			continue
		}
		keys = append(keys, sortKey{col: col, desc: e.Direction == view.Desc})
	}
	return keys
}

func extract(r Row, col Column, coll *collate.Collator, buf *collate.Buffer) sortValue {
	raw := r.Field(col.source())
	var v sortValue
	switch col.Kind {
	case KindLevel:
		v.rank = level.Parse(raw).Rank()
	case KindSourceLevel:
		v.rank = level.ParseSource(raw).Rank()
	case KindDate:
		v.at, v.ok = record.ParseTime(raw)
	default:
		v.text = coll.KeyFromString(buf, raw)
	}
	if col.Tiebreak != "" {
		v.tie = coll.KeyFromString(buf, r.Field(col.Tiebreak))
	}
	return v
}

func compareValues(kind Kind, a, b sortValue) int {
	var c int
	switch kind {
	case KindLevel, KindSourceLevel:
		c = cmpInt(a.rank, b.rank)
	case KindDate:
		c = compareDates(a, b)
	default:
		c = bytes.Compare(a.text, b.text)
	}
	if c != 0 {
		return c
	}
	return bytes.Compare(a.tie, b.tie)
}

// Unparseable dates sort below every valid date and tie with each other.
func compareDates(a, b sortValue) int {
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		return -1
	case !b.ok:
		return 1
	}
	return a.at.Compare(b.at)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
