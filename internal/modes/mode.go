package modes

import (
	"fmt"
	"strings"
)

// Mode is a picker presentation state.
type Mode string

const (
	ModeCamera  Mode = "camera"
	ModeLibrary Mode = "library"
)

// ParseMode accepts "camera" or "library", case-insensitively.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeCamera:
		return ModeCamera, nil
	case ModeLibrary:
		return ModeLibrary, nil
	default:
		return "", fmt.Errorf("unknown picker mode %q (want camera or library)", value)
	}
}

// FlashState is the camera flash indicator shown in place of the
// affirmative action.
type FlashState string

const (
	FlashOff  FlashState = "off"
	FlashOn   FlashState = "on"
	FlashAuto FlashState = "auto"
)

// ActionBar describes the controls shown for the current mode.
type ActionBar struct {
	Mode Mode
	// Cancel is always offered.
	Cancel bool
	// Affirmative is offered in library mode only.
	Affirmative        bool
	AffirmativeEnabled bool
	// Flash is set in camera mode only.
	Flash   FlashState
	Loading bool
}

// barState is the input the action bar is computed from.
type barState struct {
	mode           Mode
	selectionCount int
	minimum        int
	maximum        int
	override       bool
	loading        bool
	flash          FlashState
}

func computeBar(s barState) ActionBar {
	bar := ActionBar{Mode: s.mode, Cancel: true, Loading: s.loading}
	switch s.mode {
	case ModeLibrary:
		bar.Affirmative = true
		withinMax := s.maximum <= 0 || s.selectionCount <= s.maximum
		bar.AffirmativeEnabled = !s.loading && withinMax && (s.selectionCount >= s.minimum || s.override)
	case ModeCamera:
		bar.Flash = s.flash
		if bar.Flash == "" {
			bar.Flash = FlashAuto
		}
	}
	return bar
}
