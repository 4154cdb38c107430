package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/ideaspark/wireframe/internal/editor"
	"github.com/ideaspark/wireframe/internal/history"
	"github.com/ideaspark/wireframe/internal/snap"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`
	DatabasePath   string `envconfig:"DATABASE_PATH"`
	AssetDir       string `envconfig:"ASSET_DIR"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	SettingsFile   string `envconfig:"SETTINGS_FILE" default:"./wireframe.toml"`
}

// Load reads WIREFRAME_-prefixed environment variables. Paths left empty
// are placed under DataDir.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("wireframe", &cfg); err != nil {
		return nil, err
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "wireframe.db")
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = filepath.Join(cfg.DataDir, "assets")
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Settings are the editor defaults applied to every new controller.
type Settings struct {
	GridPreset      string  `toml:"grid_preset"`
	GridSize        float64 `toml:"grid_size"` // overrides GridPreset when set
	HistoryCapacity int     `toml:"history_capacity"`
	Device          string  `toml:"device"`
	Background      string  `toml:"background"`
}

func DefaultSettings() Settings {
	return Settings{
		GridPreset:      "none",
		HistoryCapacity: history.DefaultCapacity,
		Device:          editor.DefaultDevice,
		Background:      "#ffffff",
	}
}

// LoadSettings reads a TOML settings file over DefaultSettings. A missing
// file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	md, err := toml.DecodeFile(path, &s)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("settings %s: unknown key %q: %w", path, undecoded[0].String(), snap.ErrInvalidConfiguration)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects settings the editor cannot run with.
func (s Settings) Validate() error {
	if _, err := s.Cell(); err != nil {
		return err
	}
	if s.HistoryCapacity < 1 {
		return fmt.Errorf("history capacity %d: %w", s.HistoryCapacity, snap.ErrInvalidConfiguration)
	}
	if _, err := editor.DeviceSize(s.Device); err != nil {
		return err
	}
	return nil
}

// Cell returns the configured grid cell size.
func (s Settings) Cell() (float64, error) {
	if s.GridSize != 0 {
		if _, err := snap.NewGrid(s.GridSize); err != nil {
			return 0, err
		}
		return s.GridSize, nil
	}
	return snap.Preset(s.GridPreset)
}

// EditorOptions builds controller options for a document.
func (s Settings) EditorOptions(documentID string) editor.Options {
	cell, err := s.Cell()
	if err != nil {
		cell = 1
	}
	return editor.Options{
		DocumentID:      documentID,
		GridSize:        cell,
		HistoryCapacity: s.HistoryCapacity,
		Device:          s.Device,
		Background:      s.Background,
	}
}
