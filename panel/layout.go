package panel

import "github.com/ionut-t/moded/core"

// Layout composes the panels of a screen. Render returns them bottom to
// top: later panels are drawn over earlier ones.
type Layout struct {
	Panels []core.Panel
}

// NewLayout returns the standard screen layout styled with theme.
func NewLayout(theme Theme) *Layout {
	return &Layout{Panels: []core.Panel{
		Editor{Theme: theme},
		Modeline{Theme: theme},
		Suggestions{Theme: theme},
		Combo{Theme: theme},
		FilePicker{Theme: theme},
	}}
}

// Render renders every panel with something to show.
func (l *Layout) Render(s *core.State) []core.UiPanel {
	var out []core.UiPanel
	for _, p := range l.Panels {
		ui := p.Render(s)
		if ui.Size.Width == 0 || ui.Size.Height == 0 {
			continue
		}
		out = append(out, ui)
	}
	return out
}
