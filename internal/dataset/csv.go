package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a header row followed by data rows. Short rows leave the
// missing columns empty; extra cells are dropped. Fully blank rows are skipped.
func ParseCSV(r io.Reader) ([]record.Record, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var out []record.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(out)+1, err)
		}
		if blank(row) {
			continue
		}
		rec := make(record.Record, len(header))
		for i, h := range header {
			if h == "" || i >= len(row) {
				continue
			}
			rec[h] = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// NewsFromRecords builds news rows, dropping rows without a title. Each row
// keeps its position in the file as its ID.
func NewsFromRecords(recs []record.Record) []record.News {
	out := make([]record.News, 0, len(recs))
	for i, r := range recs {
		n := record.NewsFromRecord(i, r)
		if n.Title == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// CompaniesFromRecords builds company rows, dropping rows without a name.
func CompaniesFromRecords(recs []record.Record) []record.Company {
	out := make([]record.Company, 0, len(recs))
	for _, r := range recs {
		c := record.CompanyFromRecord(r)
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
