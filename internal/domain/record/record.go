// Package record holds the typed views over parsed CSV rows.
package record

import "strings"

// Record is one parsed CSV row keyed by header name.
type Record map[string]string

// Get returns the trimmed value for column, or "" when absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// GetOr returns the value for column, or def when the value is empty.
func (r Record) GetOr(column, def string) string {
	if v := r.Get(column); v != "" {
		return v
	}
	return def
}

// ParseList splits a list literal such as "['Credit', 'Legal']" into its
// items. Brackets and single quotes are stripped; empty items are dropped.
func ParseList(field string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '\'':
			return -1
		}
		return r
	}, field)
	if strings.TrimSpace(cleaned) == "" {
		return nil
	}

	parts := strings.Split(cleaned, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
