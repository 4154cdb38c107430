package editor

import (
	"fmt"

	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/snap"
)

const DefaultDevice = "desktop"

type Device struct {
	Name string     `json:"name"`
	Size scene.Size `json:"size"`
}

var devices = []Device{
	{Name: "desktop", Size: scene.Size{Width: 1280, Height: 800}},
	{Name: "tablet", Size: scene.Size{Width: 768, Height: 1024}},
	{Name: "mobile", Size: scene.Size{Width: 375, Height: 667}},
}

// Devices lists the canvas presets, widest first.
func Devices() []Device {
	out := make([]Device, len(devices))
	copy(out, devices)
	return out
}

// DeviceSize returns the canvas size of a preset.
func DeviceSize(name string) (scene.Size, error) {
	for _, d := range devices {
		if d.Name == name {
			return d.Size, nil
		}
	}
	return scene.Size{}, fmt.Errorf("device preset %q: %w", name, snap.ErrInvalidConfiguration)
}
