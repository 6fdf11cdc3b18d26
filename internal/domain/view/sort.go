package view

import (
	"fmt"
	"strings"
)

// MaxSortEntries bounds the number of sort keys in one configuration.
const MaxSortEntries = 8

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid reports whether d is asc or desc.
func (d Direction) IsValid() bool { return d == Asc || d == Desc }

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SortEntry is one key of a multi-key sort.
type SortEntry struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// SortConfig is an ordered list of sort keys; position is priority, first wins.
// A field appears at most once.
type SortConfig struct {
	entries []SortEntry
}

// NewSortConfig validates and creates a SortConfig.
func NewSortConfig(entries ...SortEntry) (SortConfig, error) {
	if len(entries) > MaxSortEntries {
		return SortConfig{}, fmt.Errorf("too many sort keys (max %d)", MaxSortEntries)
	}
	seen := make(map[string]struct{}, len(entries))
	out := make([]SortEntry, 0, len(entries))
	for _, e := range entries {
		if e.Field == "" {
			return SortConfig{}, fmt.Errorf("sort field is required")
		}
		if e.Direction == "" {
			e.Direction = Asc
		}
		if !e.Direction.IsValid() {
			return SortConfig{}, fmt.Errorf("invalid sort direction %q for %q", e.Direction, e.Field)
		}
		if _, dup := seen[e.Field]; dup {
			return SortConfig{}, fmt.Errorf("duplicate sort field %q", e.Field)
		}
		seen[e.Field] = struct{}{}
		out = append(out, e)
	}
	return SortConfig{entries: out}, nil
}

// ParseSort parses "field:dir,field:dir". An omitted direction means asc.
func ParseSort(s string) (SortConfig, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortConfig{}, nil
	}
	return ParseSortList(strings.Split(s, ","))
}

// ParseSortList parses a list of "field:dir" items.
func ParseSortList(items []string) (SortConfig, error) {
	entries := make([]SortEntry, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		field, dir, _ := strings.Cut(item, ":")
		entries = append(entries, SortEntry{
			Field:     strings.TrimSpace(field),
			Direction: Direction(strings.ToLower(strings.TrimSpace(dir))),
		})
	}
	return NewSortConfig(entries...)
}

// Entries returns a copy of the sort keys in priority order.
func (c SortConfig) Entries() []SortEntry {
	out := make([]SortEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// IsEmpty reports whether no sort key is set.
func (c SortConfig) IsEmpty() bool { return len(c.entries) == 0 }

// String renders the config in ParseSort form.
func (c SortConfig) String() string {
	parts := make([]string, len(c.entries))
	for i, e := range c.entries {
		parts[i] = e.Field + ":" + string(e.Direction)
	}
	return strings.Join(parts, ",")
}

func (c SortConfig) index(field string) int {
	for i, e := range c.entries {
		if e.Field == field {
			return i
		}
	}
	return -1
}

// Toggle adds field as the lowest-priority ascending key, or flips its
// direction when already present.
func (c SortConfig) Toggle(field string) SortConfig {
	out := c.Entries()
	if i := c.index(field); i >= 0 {
		out[i].Direction = out[i].Direction.Flip()
		return SortConfig{entries: out}
	}
	if len(out) >= MaxSortEntries {
		return c
	}
	return SortConfig{entries: append(out, SortEntry{Field: field, Direction: Asc})}
}

// MoveUp raises the priority of field by one position.
func (c SortConfig) MoveUp(field string) SortConfig {
	i := c.index(field)
	if i <= 0 {
		return c
	}
	out := c.Entries()
	out[i], out[i-1] = out[i-1], out[i]
	return SortConfig{entries: out}
}

// MoveDown lowers the priority of field by one position.
func (c SortConfig) MoveDown(field string) SortConfig {
	i := c.index(field)
	if i < 0 || i == len(c.entries)-1 {
		return c
	}
	out := c.Entries()
	out[i], out[i+1] = out[i+1], out[i]
	return SortConfig{entries: out}
}

// Remove drops field from the configuration.
func (c SortConfig) Remove(field string) SortConfig {
	i := c.index(field)
	if i < 0 {
		return c
	}
	out := c.Entries()
	return SortConfig{entries: append(out[:i], out[i+1:]...)}
}

// Move shifts field one position up (higher priority) or down.
func (c SortConfig) Move(field string, up bool) SortConfig {
	if up {
		return c.MoveUp(field)
	}
	return c.MoveDown(field)
}
