package widget

import "route-alternatives/internal/domain"

// Style maps "selected or not" to paint. Every non-selected layer shares
// the same background paint.
type Style struct {
	Foreground domain.Paint
	Background domain.Paint
}

func DefaultStyle() Style {
	return Style{
		Foreground: domain.Paint{Color: "#6366f1", Width: 6, Opacity: 1},
		Background: domain.Paint{Color: "#94a3b8", Width: 5, Opacity: 0.6},
	}
}

func (s Style) PaintFor(selected bool) domain.Paint {
	if selected {
		return s.Foreground
	}
	return s.Background
}
