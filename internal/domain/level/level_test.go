package level

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"", None},
		{"  ", None},
		{"high", High},
		{"Medium", Medium},
		{"LOW", Low},
		{"Severe", Level("Severe")},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRank_Order(t *testing.T) {
	if !(None.Rank() < Low.Rank() && Low.Rank() < Medium.Rank() && Medium.Rank() < High.Rank()) {
		t.Fatal("expected None < Low < Medium < High")
	}
	if Level("Severe").Rank() != -1 {
		t.Error("unknown level should rank -1")
	}
}

func TestCompare_SortsAscending(t *testing.T) {
	in := []string{"High", "None", "Medium"}
	slices.SortStableFunc(in, Compare)
	want := []string{"None", "Medium", "High"}
	if !slices.Equal(in, want) {
		t.Errorf("got %v, want %v", in, want)
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
	}{
		{"", SourceD},
		{"A", SourceA},
		{"b", SourceB},
		{"C-Level", SourceC},
		{"Z", Source("Z")},
	}
	for _, tt := range tests {
		if got := ParseSource(tt.in); got != tt.want {
			t.Errorf("ParseSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if SourceA.Label() != "A-Level" {
		t.Errorf("Label() = %q", SourceA.Label())
	}
}
