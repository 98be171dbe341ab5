package service

import (
	"fmt"
	"strconv"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main Wails window size between sessions.
// Stored as two rows of the app_settings table.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	settings Settings
}

func NewWindowSettingsService(settings Settings) *WindowSettingsService {
	return &WindowSettingsService{settings: settings}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1440
	defaultWindowHeight = 900
	minWindowWidth      = 800
	minWindowHeight     = 600
)

// LoadWindowSize returns the saved window dimensions. Missing, unreadable
// or too small values fall back to the defaults.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	return WindowSize{
		Width:  s.load(settingWindowWidth, minWindowWidth, defaultWindowWidth),
		Height: s.load(settingWindowHeight, minWindowHeight, defaultWindowHeight),
	}
}

func (s *WindowSettingsService) load(key string, min, def int) int {
	v, ok, err := s.settings.Get(key)
	if err != nil || !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return def
	}
	return n
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if width < minWindowWidth || height < minWindowHeight {
		return fmt.Errorf("window settings: %dx%d is below the minimum size", width, height)
	}
	if err := s.settings.Set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.settings.Set(settingWindowHeight, strconv.Itoa(height))
}
