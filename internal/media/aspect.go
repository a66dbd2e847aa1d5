package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AspectRatio is a width:height ratio in whole units.
type AspectRatio struct {
	W int
	H int
}

func (r AspectRatio) String() string { return fmt.Sprintf("%d:%d", r.W, r.H) }

// Float returns W/H.
func (r AspectRatio) Float() float64 { return float64(r.W) / float64(r.H) }

// CropPolicy decides whether photos go through the crop stage.
type CropPolicy struct {
	Enabled bool
	Ratio   AspectRatio
}

// NoCrop disables the crop stage.
var NoCrop = CropPolicy{}

// CropTo enables the crop stage with the given ratio.
func CropTo(w, h int) CropPolicy {
	return CropPolicy{Enabled: true, Ratio: AspectRatio{W: w, H: h}}
}

func (p CropPolicy) String() string {
	if !p.Enabled {
		return "none"
	}
	return p.Ratio.String()
}

// ParseCropPolicy accepts "none" (or an empty string) and "w:h" ratios such
// as "1:1" or "4:5".
func ParseCropPolicy(value string) (CropPolicy, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" || trimmed == "none" {
		return NoCrop, nil
	}
	w, h, ok := strings.Cut(trimmed, ":")
	if !ok {
		return NoCrop, fmt.Errorf("crop aspect %q: expected none or w:h", value)
	}
	wn, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return NoCrop, fmt.Errorf("crop aspect %q: width: %w", value, err)
	}
	hn, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return NoCrop, fmt.Errorf("crop aspect %q: height: %w", value, err)
	}
	if wn <= 0 || hn <= 0 {
		return NoCrop, errors.New("crop aspect: width and height must be positive")
	}
	return CropTo(wn, hn), nil
}
