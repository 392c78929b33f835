package cli

import (
	"fmt"
	"io"
	"strings"

	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"

	"github.com/fatih/color"
)

const cellWidth = 28

var (
	onColor      = color.New(color.FgGreen)
	offColor     = color.New(color.FgRed)
	tandemColor  = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
	issueColor   = color.New(color.FgYellow)
	headingColor = color.New(color.Bold)
)

// RenderGrid prints the two columns side by side. Covered slots show as │ and
// tandem slots as A|B. When a highlight is active, lit cells are marked with *
// and everything else is dimmed.
func RenderGrid(w io.Writer, name string, g *layout.Grid, state highlight.State) {
	headingColor.Fprintf(w, "%s (%d slots)\n", name, g.TotalSlots)

	for i := range g.Left {
		left, right := g.Left[i], g.Right[i]
		fmt.Fprintf(w, "%3d  %s  %s  %-3d\n",
			left.Number,
			renderCell(left, state),
			renderCell(right, state),
			right.Number)
	}

	if len(g.Unplaced) > 0 {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Unplaced:")
		for _, b := range g.Unplaced {
			fmt.Fprintf(w, "  %s (%q)\n", displayName(b), b.Position)
		}
	}
	renderIssues(w, g.Issues)
}

func renderCell(s layout.Slot, state highlight.State) string {
	text, c, lit := cellText(s, state)

	marker := " "
	if state.Mode != highlight.ModeNone && lit {
		marker = "*"
	}
	text = marker + truncate(text, cellWidth-1)
	text += strings.Repeat(" ", cellWidth-len([]rune(text)))

	if state.Mode != highlight.ModeNone && !lit {
		c = dimColor
	}
	return c.Sprint(text)
}

func cellText(s layout.Slot, state highlight.State) (string, *color.Color, bool) {
	switch s.Content {
	case layout.ContentOccupied:
		b := s.Breaker
		text := displayName(*b)
		if b.Amperage > 0 {
			text += fmt.Sprintf(" %dA", b.Amperage)
		}
		if s.Poles > 1 {
			text += fmt.Sprintf(" %dP", s.Poles)
		}
		return text, energized(b.IsEnergized), state.BreakerLit(b.ID)
	case layout.ContentCovered:
		return "│", dimColor, state.BreakerLit(s.CoveredBy)
	case layout.ContentTandem:
		lit := false
		names := make([]string, 2)
		for i, h := range []layout.Half{layout.HalfA, layout.HalfB} {
			names[i] = "-"
			if b := s.Tandem.Half(h); b != nil {
				names[i] = displayName(*b)
				lit = lit || state.BreakerLit(b.ID)
			}
		}
		return names[0] + "|" + names[1], tandemColor, lit
	default:
		return "-", dimColor, false
	}
}

func renderIssues(w io.Writer, issues []layout.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(w)
	headingColor.Fprintf(w, "Issues (%d):\n", len(issues))
	for _, i := range issues {
		issueColor.Fprintf(w, "  [%s] %s\n", i.Kind, i.String())
	}
}

// RenderHighlight prints the selection and the devices it lights
func RenderHighlight(w io.Writer, snap *Snapshot, state highlight.State) {
	headingColor.Fprintf(w, "Highlight: %s", state.Mode)
	if state.Anchor != "" {
		fmt.Fprintf(w, " %s", state.Anchor)
	}
	fmt.Fprintln(w)

	switch {
	case state.Unassigned:
		fmt.Fprintln(w, "  device is not wired to any breaker")
	case state.Breaker != "":
		fmt.Fprintf(w, "  breaker: %s\n", state.Breaker)
	case len(state.Breakers) > 0:
		fmt.Fprintf(w, "  breakers: %s\n", strings.Join(state.Breakers, ", "))
	}

	if len(state.Devices) == 0 {
		fmt.Fprintln(w, "  no devices")
	}
	for _, id := range state.Devices {
		onColor.Fprintf(w, "  • %s", snap.DeviceName(id))
		if name := snap.DeviceName(id); name != id {
			fmt.Fprintf(w, " (%s)", id)
		}
		fmt.Fprintln(w)
	}
	renderIssues(w, state.Issues)
}

func displayName(b layout.Breaker) string {
	if b.Label != "" {
		return b.Label
	}
	return b.ID
}

func energized(on bool) *color.Color {
	if on {
		return onColor
	}
	return offColor
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
