package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a breaker position notation.
type Kind int

const (
	KindUnparseable Kind = iota
	KindSingle
	KindRange
	KindTandemHalf
	KindCombinedTandem
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindRange:
		return "range"
	case KindTandemHalf:
		return "tandem_half"
	case KindCombinedTandem:
		return "combined_tandem"
	default:
		return "unparseable"
	}
}

// Half names one side of a shared tandem slot.
type Half string

const (
	HalfA Half = "A"
	HalfB Half = "B"
)

// Column is a side of a two-column panel.
type Column string

const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
)

// ColumnOf returns the column a slot number lives in: odd left, even right.
func ColumnOf(slot int) Column {
	if slot%2 == 0 {
		return ColumnRight
	}
	return ColumnLeft
}

// Position is the parsed form of a breaker's raw position string.
//
//	Single:         Slot
//	Range:          Slot (start), End
//	TandemHalf:     Slot, Half
//	CombinedTandem: Slot (both halves)
type Position struct {
	Kind Kind
	Slot int
	End  int
	Half Half
	Raw  string
}

var (
	singleRe   = regexp.MustCompile(`^(\d+)$`)
	rangeRe    = regexp.MustCompile(`^(\d+)-(\d+)$`)
	halfRe     = regexp.MustCompile(`^(\d+)([AB])$`)
	combinedRe = regexp.MustCompile(`^(\d+)A/(\d+)B$`)
)

// ParsePosition classifies a raw position string. It never fails: strings matching
// none of the notations come back as KindUnparseable.
func ParsePosition(raw string) Position {
	bad := Position{Kind: KindUnparseable, Raw: raw}
	s := strings.ToUpper(strings.TrimSpace(raw))

	if m := singleRe.FindStringSubmatch(s); m != nil {
		n, ok := slotNumber(m[1])
		if !ok {
			return bad
		}
		return Position{Kind: KindSingle, Slot: n, Raw: raw}
	}

	if m := rangeRe.FindStringSubmatch(s); m != nil {
		start, ok1 := slotNumber(m[1])
		end, ok2 := slotNumber(m[2])
		// a range walks one column, so both ends share parity
		if !ok1 || !ok2 || end <= start || (end-start)%2 != 0 {
			return bad
		}
		return Position{Kind: KindRange, Slot: start, End: end, Raw: raw}
	}

	if m := halfRe.FindStringSubmatch(s); m != nil {
		n, ok := slotNumber(m[1])
		if !ok {
			return bad
		}
		return Position{Kind: KindTandemHalf, Slot: n, Half: Half(m[2]), Raw: raw}
	}

	if m := combinedRe.FindStringSubmatch(s); m != nil {
		a, ok1 := slotNumber(m[1])
		b, ok2 := slotNumber(m[2])
		if !ok1 || !ok2 || a != b {
			return bad
		}
		return Position{Kind: KindCombinedTandem, Slot: a, Raw: raw}
	}

	return bad
}

// slotNumber parses a 1-based slot number.
func slotNumber(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Covers lists every slot number the position physically occupies, anchor first.
func (p Position) Covers() []int {
	switch p.Kind {
	case KindSingle, KindTandemHalf, KindCombinedTandem:
		return []int{p.Slot}
	case KindRange:
		slots := make([]int, 0, (p.End-p.Slot)/2+1)
		for n := p.Slot; n <= p.End; n += 2 {
			slots = append(slots, n)
		}
		return slots
	default:
		return nil
	}
}

// Last is the highest slot number the position covers, or 0 when unparseable.
func (p Position) Last() int {
	switch p.Kind {
	case KindRange:
		return p.End
	case KindUnparseable:
		return 0
	default:
		return p.Slot
	}
}

// Poles is the pole count implied by the notation alone.
func (p Position) Poles() int {
	switch p.Kind {
	case KindRange:
		return (p.End-p.Slot)/2 + 1
	case KindUnparseable:
		return 0
	default:
		return 1
	}
}

// IsTandem reports whether the position shares its slot with another breaker.
func (p Position) IsTandem() bool {
	return p.Kind == KindTandemHalf || p.Kind == KindCombinedTandem
}

// String renders the canonical notation.
func (p Position) String() string {
	switch p.Kind {
	case KindSingle:
		return strconv.Itoa(p.Slot)
	case KindRange:
		return fmt.Sprintf("%d-%d", p.Slot, p.End)
	case KindTandemHalf:
		return fmt.Sprintf("%d%s", p.Slot, p.Half)
	case KindCombinedTandem:
		return fmt.Sprintf("%dA/%dB", p.Slot, p.Slot)
	default:
		return p.Raw
	}
}
