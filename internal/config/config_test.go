package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ideaspark/wireframe/internal/snap"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wireframe.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WIREFRAME_DATA_DIR", "/tmp/wf")
	t.Setenv("WIREFRAME_ALLOWED_ORIGINS", " http://a.test ,,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabasePath != filepath.Join("/tmp/wf", "wireframe.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.AssetDir != filepath.Join("/tmp/wf", "assets") {
		t.Errorf("AssetDir = %q", cfg.AssetDir)
	}
	if got := cfg.Origins(); len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("Origins() = %v", got)
	}
}

func TestLoadSettings(t *testing.T) {
	path := writeSettings(t, `
grid_preset = "medium"
history_capacity = 5
device = "mobile"
background = "#fafafa"
`)
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	cell, _ := s.Cell()
	if cell != 8 || s.HistoryCapacity != 5 || s.Device != "mobile" || s.Background != "#fafafa" {
		t.Errorf("settings = %+v, cell %v", s, cell)
	}

	opts := s.EditorOptions("doc_1")
	if opts.GridSize != 8 || opts.Device != "mobile" || opts.DocumentID != "doc_1" {
		t.Errorf("EditorOptions() = %+v", opts)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if s != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative grid", "grid_size = -4"},
		{"unknown preset", `grid_preset = "huge"`},
		{"zero capacity", "history_capacity = 0"},
		{"unknown device", `device = "watch"`},
		{"unknown key", `snap = true`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tt.content))
			if !errors.Is(err, snap.ErrInvalidConfiguration) {
				t.Errorf("LoadSettings() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	if _, err := LoadSettings(writeSettings(t, "grid_size = ")); err == nil {
		t.Error("LoadSettings() error = nil for malformed TOML")
	}
}
