// Package config loads the editor settings file and watches it for edits.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pagebuilder/internal/domain"
)

// Config is the editor configuration.
type Config struct {
	History   HistorySettings   `yaml:"history"`
	Grid      GridSettings      `yaml:"grid"`
	Clipboard ClipboardSettings `yaml:"clipboard"`
	Keyboard  KeyboardSettings  `yaml:"keyboard"`
	Autosave  AutosaveSettings  `yaml:"autosave"`
	Storage   StorageSettings   `yaml:"storage"`
}

type HistorySettings struct {
	Capacity int `yaml:"capacity"`
}

type GridSettings struct {
	Enabled  bool    `yaml:"enabled"`
	CellSize float64 `yaml:"cell_size"`
	Snap     bool    `yaml:"snap"`
}

// ClipboardSettings controls paste placement and the OS clipboard mirror.
type ClipboardSettings struct {
	PasteOffset float64 `yaml:"paste_offset"`
	System      bool    `yaml:"system"`
}

// KeyboardSettings are the arrow-key steps of keyboard drag.
type KeyboardSettings struct {
	Step     float64 `yaml:"step"`
	FineStep float64 `yaml:"fine_step"`
}

// AutosaveSettings takes a robfig/cron spec such as "@every 30s". An empty
// schedule disables autosave.
type AutosaveSettings struct {
	Schedule string `yaml:"schedule"`
}

type StorageSettings struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		History:   HistorySettings{Capacity: 100},
		Grid:      GridSettings{Enabled: true, CellSize: 8, Snap: true},
		Clipboard: ClipboardSettings{PasteOffset: 16, System: true},
		Keyboard:  KeyboardSettings{Step: 10, FineStep: 1},
		Autosave:  AutosaveSettings{Schedule: "@every 30s"},
		Storage:   StorageSettings{Path: filepath.Join(home, ".local", "share", "pagebuilder", "pagebuilder.db")},
	}
}

// DefaultPath is ~/.config/pagebuilder/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pagebuilder", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) normalize() {
	d := Default()
	if c.History.Capacity <= 0 {
		c.History.Capacity = d.History.Capacity
	}
	if c.Grid.CellSize <= 0 {
		c.Grid.CellSize = d.Grid.CellSize
	}
	if c.Keyboard.Step <= 0 {
		c.Keyboard.Step = d.Keyboard.Step
	}
	if c.Keyboard.FineStep <= 0 {
		c.Keyboard.FineStep = d.Keyboard.FineStep
	}
	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
}

// GridConfig converts the grid section to the canvas type.
func (c *Config) GridConfig() domain.GridConfig {
	return domain.GridConfig{Enabled: c.Grid.Enabled, CellSize: c.Grid.CellSize, Snap: c.Grid.Snap}
}
