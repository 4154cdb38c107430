package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
	"red":   "#ff0000",
	"green": "#008000",
	"blue":  "#0000ff",
	"gray":  "#808080",
	"grey":  "#808080",
}

// ParseColor reads a CSS colour: #rgb, #rrggbb, rgb(), rgba() or one of a
// few names. The result's alpha is multiplied by opacity. It reports false
// for "", "transparent", "none" and anything it cannot read.
func ParseColor(s string, opacity float64) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[s]; ok {
		s = hex
	}
	alpha := 1.0

	var c colorful.Color
	switch {
	case s == "" || s == "transparent" || s == "none":
		return color.NRGBA{}, false
	case strings.HasPrefix(s, "#"):
		var err error
		if c, err = colorful.Hex(s); err != nil {
			return color.NRGBA{}, false
		}
	case strings.HasPrefix(s, "rgb"):
		var ok bool
		if c, alpha, ok = parseRGBA(s); !ok {
			return color.NRGBA{}, false
		}
	default:
		return color.NRGBA{}, false
	}

	r, g, b := c.Clamped().RGB255()
	a := math.Max(0, math.Min(alpha*opacity, 1))
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}, true
}

func parseRGBA(s string) (colorful.Color, float64, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return colorful.Color{}, 0, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, 0, false
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		v[i] = f
	}
	return colorful.Color{R: v[0] / 255, G: v[1] / 255, B: v[2] / 255}, v[3], true
}
