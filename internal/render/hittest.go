package render

import "github.com/ideaspark/wireframe/internal/scene"

// HandleSize is the side of the square resize handle.
const HandleSize = 16

// lineTolerance widens thin elements so they can be picked.
const lineTolerance = 4

// HitTest returns the id of the frontmost top-level element containing the
// point, or "" when the point hits empty canvas. Groups are picked as a
// whole by their bounds.
func HitTest(s scene.Scene, x, y float64) string {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		el := s.Elements[i]
		if pickBounds(el).Contains(x, y) {
			return el.ID
		}
	}
	return ""
}

func pickBounds(el scene.Element) scene.Bounds {
	b := el.Bounds
	if b.Width < 2*lineTolerance {
		b.X -= lineTolerance
		b.Width += 2 * lineTolerance
	}
	if b.Height < 2*lineTolerance {
		b.Y -= lineTolerance
		b.Height += 2 * lineTolerance
	}
	return b
}

// HandleBounds is the resize handle centred on the bottom-right corner of b.
func HandleBounds(b scene.Bounds) scene.Bounds {
	return scene.Bounds{
		X:      b.Right() - HandleSize/2,
		Y:      b.Bottom() - HandleSize/2,
		Width:  HandleSize,
		Height: HandleSize,
	}
}

// HandleAt reports whether the point is on the resize handle of b.
func HandleAt(b scene.Bounds, x, y float64) bool {
	return HandleBounds(b).Contains(x, y)
}
