package layout

import "errors"

// ErrNegativeSlots is returned for a panel with a negative slot count.
var ErrNegativeSlots = errors.New("layout: negative slot count")

// Content says what a grid cell holds.
type Content string

const (
	ContentEmpty    Content = "empty"
	ContentOccupied Content = "occupied"
	ContentCovered  Content = "covered"
	ContentTandem   Content = "tandem"
)

// Slot is one cell of the panel grid.
type Slot struct {
	Column    Column      `json:"column"`
	Number    int         `json:"number"`
	Content   Content     `json:"content"`
	Breaker   *Breaker    `json:"breaker,omitempty"`
	Poles     int         `json:"poles,omitempty"`
	CoveredBy string      `json:"covered_by,omitempty"`
	Tandem    *TandemPair `json:"tandem,omitempty"`
}

// Grid is the two-column layout of a panel. Left[i] and Right[i] hold slot numbers
// 2i+1 and 2i+2, so renderers can walk both columns in lockstep.
type Grid struct {
	TotalSlots int          `json:"total_slots"`
	Left       []Slot       `json:"left"`
	Right      []Slot       `json:"right"`
	Tandems    TandemGroups `json:"tandems"`
	Unplaced   []Breaker    `json:"unplaced"`
	Issues     []Issue      `json:"issues"`
}

type parsed struct {
	b   Breaker
	pos Position
}

func parseAll(breakers []Breaker) []parsed {
	out := make([]parsed, len(breakers))
	for i, b := range breakers {
		out[i] = parsed{b: b, pos: ParsePosition(b.Position)}
	}
	return out
}

type claim struct {
	owner  string
	tandem bool
}

// BuildGrid lays out breakers on a panel of totalSlots slots. Bad data never fails
// the build: unparseable, conflicting and out-of-range breakers are left unplaced and
// reported in Issues. When two breakers want the same slot, the first in input order
// keeps it.
func BuildGrid(breakers []Breaker, totalSlots int) (*Grid, error) {
	if totalSlots < 0 {
		return nil, ErrNegativeSlots
	}

	perColumn := (totalSlots + 1) / 2
	capacity := perColumn * 2

	grid := &Grid{
		TotalSlots: totalSlots,
		Left:       make([]Slot, 0, perColumn),
		Right:      make([]Slot, 0, perColumn),
		Unplaced:   []Breaker{},
		Issues:     []Issue{},
	}

	claims := make(map[int]claim)
	accepted := make([]parsed, 0, len(breakers))

	for _, e := range parseAll(breakers) {
		if e.pos.Kind == KindUnparseable {
			grid.reject(e.b, Issue{Kind: IssueUnparseable, BreakerID: e.b.ID, Position: e.b.Position})
			continue
		}

		// bound check before Covers so a range's size is limited by the panel
		if last := e.pos.Last(); last > capacity {
			grid.reject(e.b, Issue{Kind: IssueOutOfRange, BreakerID: e.b.ID, Position: e.b.Position, Slot: last})
			continue
		}
		covers := e.pos.Covers()

		conflict := false
		for _, n := range covers {
			c, taken := claims[n]
			if !taken || (c.tandem && e.pos.IsTandem()) {
				continue
			}
			grid.reject(e.b, Issue{
				Kind:          IssueSlotConflict,
				BreakerID:     e.b.ID,
				Position:      e.b.Position,
				Slot:          n,
				ConflictsWith: c.owner,
			})
			conflict = true
			break
		}
		if conflict {
			continue
		}

		for _, n := range covers {
			if _, taken := claims[n]; !taken {
				claims[n] = claim{owner: e.b.ID, tandem: e.pos.IsTandem()}
			}
		}
		accepted = append(accepted, e)
	}

	tandems, tandemIssues, losers := groupTandems(accepted)
	grid.Tandems = tandems
	grid.Issues = append(grid.Issues, tandemIssues...)
	grid.Unplaced = append(grid.Unplaced, losers...)

	occupants := make(map[int]parsed)
	covered := make(map[int]string)
	for _, e := range accepted {
		switch e.pos.Kind {
		case KindSingle:
			occupants[e.pos.Slot] = e
		case KindRange:
			occupants[e.pos.Slot] = e
			for _, n := range e.pos.Covers()[1:] {
				covered[n] = e.b.ID
			}
		}
	}

	resolve := func(n int) Slot {
		s := Slot{Column: ColumnOf(n), Number: n, Content: ContentEmpty}
		if e, ok := occupants[n]; ok {
			b := e.b
			s.Content = ContentOccupied
			s.Breaker = &b
			s.Poles = EffectivePoles(b)
			return s
		}
		if pair, ok := tandems[n]; ok {
			s.Content = ContentTandem
			s.Tandem = pair
			return s
		}
		if owner, ok := covered[n]; ok {
			s.Content = ContentCovered
			s.CoveredBy = owner
		}
		return s
	}

	for i := 1; i <= perColumn; i++ {
		grid.Left = append(grid.Left, resolve(2*i-1))
		grid.Right = append(grid.Right, resolve(2*i))
	}

	return grid, nil
}

func (g *Grid) reject(b Breaker, issue Issue) {
	g.Unplaced = append(g.Unplaced, b)
	g.Issues = append(g.Issues, issue)
}

// Slot returns the cell for slot number n.
func (g *Grid) Slot(n int) (Slot, bool) {
	if n < 1 {
		return Slot{}, false
	}
	i := (n - 1) / 2
	col := g.Left
	if ColumnOf(n) == ColumnRight {
		col = g.Right
	}
	if i >= len(col) {
		return Slot{}, false
	}
	return col[i], true
}

// Locate finds the cell holding the breaker with the given id, including tandem
// halves addressed by their synthetic id.
func (g *Grid) Locate(id string) (Slot, bool) {
	for i := range g.Left {
		for _, s := range []Slot{g.Left[i], g.Right[i]} {
			switch s.Content {
			case ContentOccupied:
				if s.Breaker.ID == id {
					return s, true
				}
			case ContentTandem:
				for _, h := range s.Tandem.Halves() {
					if h.ID == id {
						return s, true
					}
				}
			}
		}
	}
	return Slot{}, false
}

// IssuesFor returns every issue that names the breaker, as subject or as the
// earlier claimant.
func (g *Grid) IssuesFor(id string) []Issue {
	var out []Issue
	for _, i := range g.Issues {
		if i.BreakerID == id || i.ConflictsWith == id {
			out = append(out, i)
		}
	}
	return out
}

// Breakers returns every placed breaker in slot order, left before right within a
// row and tandem halves A before B.
func (g *Grid) Breakers() []Breaker {
	var out []Breaker
	for i := range g.Left {
		for _, s := range []Slot{g.Left[i], g.Right[i]} {
			switch s.Content {
			case ContentOccupied:
				out = append(out, *s.Breaker)
			case ContentTandem:
				out = append(out, s.Tandem.Halves()...)
			}
		}
	}
	return out
}
