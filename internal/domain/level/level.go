// Package level defines the ordinal ratings used by risk, opportunity and
// source reputation columns.
package level

import "strings"

// Level is a risk or opportunity rating.
type Level string

// Rating constants in ascending order.
const (
	None   Level = "None"
	Low    Level = "Low"
	Medium Level = "Medium"
	High   Level = "High"
)

var levels = []Level{None, Low, Medium, High}

// All returns the levels in ascending order.
func All() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Parse returns the level for s, or None when s is empty.
// Unrecognized values are kept verbatim so they still show up in facets.
func Parse(s string) Level {
	s = strings.TrimSpace(s)
	if s == "" {
		return None
	}
	for _, l := range levels {
		if strings.EqualFold(s, string(l)) {
			return l
		}
	}
	return Level(s)
}

// Rank returns the ordinal position of l. Unknown levels rank -1, below None.
func (l Level) Rank() int {
	for i, v := range levels {
		if v == l {
			return i
		}
	}
	return -1
}

// IsValid reports whether l is one of the four known levels.
func (l Level) IsValid() bool { return l.Rank() >= 0 }

// Compare orders two level strings by rank.
func Compare(a, b string) int {
	return Parse(a).Rank() - Parse(b).Rank()
}

// Source is a source reputation grade, A (most reputable) through D.
type Source string

// Source grades in ascending order.
const (
	SourceA Source = "A"
	SourceB Source = "B"
	SourceC Source = "C"
	SourceD Source = "D"
)

var sources = []Source{SourceA, SourceB, SourceC, SourceD}

// AllSources returns the source grades in ascending order.
func AllSources() []Source {
	out := make([]Source, len(sources))
	copy(out, sources)
	return out
}

// ParseSource returns the grade for s. Empty input and the "X-Level" label
// form are accepted; empty defaults to D.
func ParseSource(s string) Source {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "-Level")
	if s == "" {
		return SourceD
	}
	for _, g := range sources {
		if strings.EqualFold(s, string(g)) {
			return g
		}
	}
	return Source(s)
}

// Rank returns the ordinal position of g, or -1 when unknown.
func (g Source) Rank() int {
	for i, v := range sources {
		if v == g {
			return i
		}
	}
	return -1
}

// Label is the display form used in filter menus, e.g. "A-Level".
func (g Source) Label() string { return string(g) + "-Level" }
