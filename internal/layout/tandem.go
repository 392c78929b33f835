package layout

import "sort"

// TandemPair is one physical slot shared by two half-size breakers. Either half may
// be empty; the pair still reserves room for both.
type TandemPair struct {
	Slot int      `json:"slot"`
	A    *Breaker `json:"a"`
	B    *Breaker `json:"b"`
}

// Halves returns the populated halves, A before B.
func (p *TandemPair) Halves() []Breaker {
	out := make([]Breaker, 0, 2)
	if p.A != nil {
		out = append(out, *p.A)
	}
	if p.B != nil {
		out = append(out, *p.B)
	}
	return out
}

// Half returns the breaker at h, or nil.
func (p *TandemPair) Half(h Half) *Breaker {
	if h == HalfA {
		return p.A
	}
	return p.B
}

func (p *TandemPair) set(h Half, b Breaker) {
	if h == HalfA {
		p.A = &b
		return
	}
	p.B = &b
}

// TandemGroups maps a shared slot number to its pair.
type TandemGroups map[int]*TandemPair

// Slots returns the grouped slot numbers in ascending order.
func (g TandemGroups) Slots() []int {
	slots := make([]int, 0, len(g))
	for n := range g {
		slots = append(slots, n)
	}
	sort.Ints(slots)
	return slots
}

// GroupTandems groups every tandem breaker by the slot it shares. Combined records
// ("14A/14B") are expanded into two virtual halves. When two records claim the same
// half, the first in input order keeps it and the other is reported.
func GroupTandems(breakers []Breaker) (TandemGroups, []Issue) {
	groups, issues, _ := groupTandems(parseAll(breakers))
	return groups, issues
}

// groupTandems also returns the records that lost a half to an earlier claim.
func groupTandems(entries []parsed) (TandemGroups, []Issue, []Breaker) {
	groups := make(TandemGroups)
	var (
		issues []Issue
		losers []Breaker
	)

	for _, e := range entries {
		if !e.pos.IsTandem() {
			continue
		}
		n := e.pos.Slot
		pair, ok := groups[n]
		if !ok {
			pair = &TandemPair{Slot: n}
		}

		var halves []Breaker
		if e.pos.Kind == KindCombinedTandem {
			halves = []Breaker{VirtualHalf(e.b, n, HalfA), VirtualHalf(e.b, n, HalfB)}
		} else {
			halves = []Breaker{e.b}
		}

		// all halves of one record go in together or not at all
		taken := ""
		for _, h := range halves {
			half := HalfOf(h)
			if cur := pair.Half(half); cur != nil {
				taken = ownerID(*cur)
				break
			}
		}
		if taken != "" {
			issues = append(issues, Issue{
				Kind:          IssueTandemConflict,
				BreakerID:     e.b.ID,
				Position:      e.b.Position,
				Slot:          n,
				ConflictsWith: taken,
			})
			losers = append(losers, e.b)
			continue
		}

		for _, h := range halves {
			pair.set(HalfOf(h), h)
		}
		groups[n] = pair
	}

	return groups, issues, losers
}

// HalfOf returns the half a tandem-half breaker occupies.
func HalfOf(b Breaker) Half {
	p := ParsePosition(b.Position)
	if p.Kind == KindTandemHalf {
		return p.Half
	}
	return ""
}

// ownerID names the persisted record behind a breaker, virtual or not.
func ownerID(b Breaker) string {
	if b.Virtual {
		return b.SourceID
	}
	return b.ID
}
