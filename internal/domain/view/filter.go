package view

import (
	"fmt"
	"sort"
	"time"
)

// MaxFilterValues bounds the accepted values per field.
const MaxFilterValues = 64

// DateRange is an inclusive [Start, End] interval. A zero bound is unset.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsActive reports whether both bounds are set; a half-open range passes
// everything.
func (r DateRange) IsActive() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports whether t lies within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// FilterSet maps field names to accepted values plus one optional date range.
// An empty value set for a field is pass-through.
type FilterSet struct {
	values    map[string][]string
	dateRange DateRange
}

// NewFilterSet validates and creates a FilterSet.
func NewFilterSet(values map[string][]string, dateRange DateRange) (FilterSet, error) {
	fs := FilterSet{dateRange: dateRange}
	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() && dateRange.End.Before(dateRange.Start) {
		return FilterSet{}, fmt.Errorf("date range end is before start")
	}
	for field, vals := range values {
		if field == "" {
			return FilterSet{}, fmt.Errorf("filter field is required")
		}
		if len(vals) > MaxFilterValues {
			return FilterSet{}, fmt.Errorf("too many values for %q (max %d)", field, MaxFilterValues)
		}
		fs = fs.With(field, vals...)
	}
	return fs, nil
}

// With returns a copy of fs accepting vals for field. Empty vals clears the field.
func (fs FilterSet) With(field string, vals ...string) FilterSet {
	out := FilterSet{values: make(map[string][]string, len(fs.values)+1), dateRange: fs.dateRange}
	for k, v := range fs.values {
		out.values[k] = v
	}
	uniq := make([]string, 0, len(vals))
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	if len(uniq) == 0 {
		delete(out.values, field)
	} else {
		out.values[field] = uniq
	}
	return out
}

// Toggle adds value to field's accepted set, or removes it when present.
func (fs FilterSet) Toggle(field, value string) FilterSet {
	cur := fs.values[field]
	next := make([]string, 0, len(cur)+1)
	found := false
	for _, v := range cur {
		if v == value {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, value)
	}
	return fs.With(field, next...)
}

// WithDateRange returns a copy of fs with the date range replaced.
func (fs FilterSet) WithDateRange(r DateRange) FilterSet {
	out := fs.With("")
	out.dateRange = r
	return out
}

// Values returns the accepted values for field (nil means no constraint).
func (fs FilterSet) Values(field string) []string { return fs.values[field] }

// DateRange returns the date range constraint.
func (fs FilterSet) DateRange() DateRange { return fs.dateRange }

// Fields returns the constrained field names in sorted order.
func (fs FilterSet) Fields() []string {
	out := make([]string, 0, len(fs.values))
	for k := range fs.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether fs constrains nothing.
func (fs FilterSet) IsEmpty() bool {
	return len(fs.values) == 0 && !fs.dateRange.IsActive()
}
