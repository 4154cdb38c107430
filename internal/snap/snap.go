// Package snap quantizes canvas coordinates to a grid.
package snap

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Named grid presets. "none" is an identity snap, not a disabled one.
var presets = map[string]float64{
	"none":   1,
	"small":  4,
	"medium": 8,
	"large":  16,
}

// Snap returns value rounded to the nearest multiple of cell.
func Snap(value, cell float64) (float64, error) {
	if cell <= 0 || math.IsNaN(cell) || math.IsInf(cell, 0) {
		return 0, fmt.Errorf("grid cell size %v: %w", cell, ErrInvalidConfiguration)
	}
	return math.Round(value/cell) * cell, nil
}

// Preset returns the cell size for a named preset.
func Preset(name string) (float64, error) {
	cell, ok := presets[name]
	if !ok {
		return 0, fmt.Errorf("unknown grid preset %q: %w", name, ErrInvalidConfiguration)
	}
	return cell, nil
}

// PresetNames returns the preset names ordered by cell size.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return presets[names[i]] < presets[names[j]] })
	return names
}

// Grid is a validated cell size. The zero value snaps with cell size 1.
type Grid struct {
	cell float64
}

func NewGrid(cell float64) (Grid, error) {
	if _, err := Snap(0, cell); err != nil {
		return Grid{}, err
	}
	return Grid{cell: cell}, nil
}

func (g Grid) Cell() float64 {
	if g.cell == 0 {
		return 1
	}
	return g.cell
}

// Apply snaps v. It cannot fail because the cell size was validated by NewGrid.
func (g Grid) Apply(v float64) float64 {
	c := g.Cell()
	return math.Round(v/c) * c
}

// Point snaps both coordinates.
func (g Grid) Point(x, y float64) (float64, float64) {
	return g.Apply(x), g.Apply(y)
}
