package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagebuilder/internal/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.History.Capacity != 100 || cfg.Grid.CellSize != 8 || !cfg.Grid.Snap {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Keyboard.Step != 10 || cfg.Keyboard.FineStep != 1 || cfg.Clipboard.PasteOffset != 16 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Autosave.Schedule != "@every 30s" {
		t.Errorf("autosave = %q", cfg.Autosave.Schedule)
	}
}

func TestLoad_OverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
history:
  capacity: 20
grid:
  enabled: true
  cell_size: 0
  snap: false
keyboard:
  step: 5
autosave:
  schedule: ""
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.History.Capacity != 20 {
		t.Errorf("capacity = %d", cfg.History.Capacity)
	}
	if cfg.Grid.CellSize != 8 {
		t.Errorf("cell size should fall back to 8, got %v", cfg.Grid.CellSize)
	}
	if g := cfg.GridConfig(); g.SnapActive() {
		t.Errorf("snap disabled in file, got %+v", g)
	}
	if cfg.Keyboard.Step != 5 || cfg.Keyboard.FineStep != 1 {
		t.Errorf("keyboard = %+v", cfg.Keyboard)
	}
	if cfg.Autosave.Schedule != "" {
		t.Errorf("autosave should be disabled, got %q", cfg.Autosave.Schedule)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("history: [unclosed"), 0644)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := config.Default()
	cfg.Keyboard.Step = 12
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Keyboard.Step != 12 {
		t.Errorf("step = %v", got.Keyboard.Step)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Save(path, config.Default()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *config.Config, 4)
	if err := config.Watch(ctx, path, func(c *config.Config) { reloaded <- c }); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.History.Capacity = 7
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-reloaded:
		if c.History.Capacity != 7 {
			t.Errorf("capacity = %d", c.History.Capacity)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
}
