package layout

import (
	"reflect"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Position
	}{
		{name: "single", raw: "7", want: Position{Kind: KindSingle, Slot: 7}},
		{name: "single with spaces", raw: " 12 ", want: Position{Kind: KindSingle, Slot: 12}},
		{name: "two pole range", raw: "1-3", want: Position{Kind: KindRange, Slot: 1, End: 3}},
		{name: "three pole range", raw: "2-6", want: Position{Kind: KindRange, Slot: 2, End: 6}},
		{name: "tandem half A", raw: "14A", want: Position{Kind: KindTandemHalf, Slot: 14, Half: HalfA}},
		{name: "tandem half lowercase", raw: "14b", want: Position{Kind: KindTandemHalf, Slot: 14, Half: HalfB}},
		{name: "combined tandem", raw: "14A/14B", want: Position{Kind: KindCombinedTandem, Slot: 14}},
		{name: "combined tandem lowercase", raw: "9a/9b", want: Position{Kind: KindCombinedTandem, Slot: 9}},
		{name: "combined mismatched slots", raw: "14A/15B", want: Position{Kind: KindUnparseable}},
		{name: "combined duplicate suffix", raw: "14A/14A", want: Position{Kind: KindUnparseable}},
		{name: "combined reversed halves", raw: "14B/14A", want: Position{Kind: KindUnparseable}},
		{name: "range mixed parity", raw: "1-2", want: Position{Kind: KindUnparseable}},
		{name: "range backwards", raw: "5-1", want: Position{Kind: KindUnparseable}},
		{name: "range single slot", raw: "3-3", want: Position{Kind: KindUnparseable}},
		{name: "slot zero", raw: "0", want: Position{Kind: KindUnparseable}},
		{name: "empty", raw: "", want: Position{Kind: KindUnparseable}},
		{name: "half C", raw: "4C", want: Position{Kind: KindUnparseable}},
		{name: "words", raw: "main", want: Position{Kind: KindUnparseable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePosition(tt.raw)
			tt.want.Raw = tt.raw
			if got != tt.want {
				t.Errorf("ParsePosition(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPositionCoversAndPoles(t *testing.T) {
	tests := []struct {
		raw    string
		covers []int
		poles  int
	}{
		{raw: "5", covers: []int{5}, poles: 1},
		{raw: "1-3", covers: []int{1, 3}, poles: 2},
		{raw: "2-6", covers: []int{2, 4, 6}, poles: 3},
		{raw: "14A", covers: []int{14}, poles: 1},
		{raw: "14A/14B", covers: []int{14}, poles: 1},
		{raw: "x", covers: nil, poles: 0},
	}

	for _, tt := range tests {
		p := ParsePosition(tt.raw)
		if got := p.Covers(); !reflect.DeepEqual(got, tt.covers) {
			t.Errorf("%q covers %v, want %v", tt.raw, got, tt.covers)
		}
		if got := p.Poles(); got != tt.poles {
			t.Errorf("%q poles %d, want %d", tt.raw, got, tt.poles)
		}
	}
}

func TestPositionString(t *testing.T) {
	for raw, want := range map[string]string{
		"7":       "7",
		"1-3":     "1-3",
		"14a":     "14A",
		"9a/9b":   "9A/9B",
		"garbage": "garbage",
	} {
		if got := ParsePosition(raw).String(); got != want {
			t.Errorf("ParsePosition(%q).String() = %q, want %q", raw, got, want)
		}
	}
}

func TestColumnOf(t *testing.T) {
	if ColumnOf(1) != ColumnLeft || ColumnOf(13) != ColumnLeft {
		t.Error("odd slots belong to the left column")
	}
	if ColumnOf(2) != ColumnRight || ColumnOf(40) != ColumnRight {
		t.Error("even slots belong to the right column")
	}
}

func TestEffectivePoles(t *testing.T) {
	tests := []struct {
		name string
		b    Breaker
		want int
	}{
		{name: "range without pole count", b: Breaker{Position: "1-3"}, want: 2},
		{name: "range with stale pole count", b: Breaker{Position: "2-6", PoleCount: 1}, want: 3},
		{name: "range disagrees with pole count", b: Breaker{Position: "1-3", PoleCount: 3}, want: 2},
		{name: "single with pole count", b: Breaker{Position: "5", PoleCount: 2}, want: 2},
		{name: "single without pole count", b: Breaker{Position: "5"}, want: 1},
		{name: "unparseable", b: Breaker{Position: "?"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectivePoles(tt.b); got != tt.want {
				t.Errorf("EffectivePoles() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSourceID(t *testing.T) {
	tests := map[string]string{
		"brk-7-A": "brk-7",
		"brk-7-B": "brk-7",
		"brk-7":   "brk-7",
		"-A":      "-A",
		"A":       "A",
	}
	for id, want := range tests {
		if got := SourceID(id); got != want {
			t.Errorf("SourceID(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestWithPosition(t *testing.T) {
	in := []Breaker{{ID: "a", Position: "5"}, {ID: "b", Position: "7"}}

	out, ok := WithPosition(in, "a", "6")
	if !ok {
		t.Fatal("expected breaker a to be found")
	}
	if out[0].Position != "6" {
		t.Errorf("patched position = %q, want 6", out[0].Position)
	}
	if in[0].Position != "5" {
		t.Error("input collection was mutated")
	}

	if _, ok := WithPosition(in, "missing", "1"); ok {
		t.Error("expected missing breaker to report ok=false")
	}
}
