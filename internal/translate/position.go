// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import "github.com/olegiv/wp2astro/internal/config"

// Position classes assigned by the classifier. Exactly one applies to
// any dimension pair.
const (
	PositionSmall     = "small"
	PositionPortrait  = "portrait"
	PositionLandscape = "landscape"
	PositionSquare    = "square"
	PositionDefault   = "default"
)

// Thresholds hold the four configurable classifier boundaries.
type Thresholds struct {
	SmallWidthMax     int     // widths below this are "small"
	PortraitRatioMax  float64 // w/h at or below this is "portrait"
	LandscapeRatioMin float64 // w/h at or above this is "landscape"
	SquareTolerance   float64 // |w/h - 1| within this is "square"
}

// ThresholdsFromConfig pulls the classifier boundaries out of the run
// configuration.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		SmallWidthMax:     cfg.SmallWidthMax,
		PortraitRatioMax:  cfg.PortraitRatioMax,
		LandscapeRatioMin: cfg.LandscapeRatioMin,
		SquareTolerance:   cfg.SquareTolerance,
	}
}

// ClassifyPosition picks the layout class for an image from its pixel
// dimensions. The checks run in fixed precedence so the classes are
// mutually exclusive and exhaustive:
//
//  1. unknown dimensions        -> default
//  2. width < SmallWidthMax     -> small
//  3. |ratio-1| <= tolerance    -> square
//  4. ratio <= PortraitRatioMax -> portrait
//  5. ratio >= LandscapeRatioMin-> landscape
//  6. anything else             -> default
func ClassifyPosition(width, height int, t Thresholds) string {
	if width <= 0 || height <= 0 {
		return PositionDefault
	}
	if width < t.SmallWidthMax {
		return PositionSmall
	}

	ratio := float64(width) / float64(height)
	diff := ratio - 1
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= t.SquareTolerance:
		return PositionSquare
	case ratio <= t.PortraitRatioMax:
		return PositionPortrait
	case ratio >= t.LandscapeRatioMin:
		return PositionLandscape
	default:
		return PositionDefault
	}
}

// layoutTreatments maps a position class to the rendering treatment
// the Astro Image component applies.
var layoutTreatments = map[string]string{
	PositionSmall:     "float",
	PositionPortrait:  "float",
	PositionSquare:    "centered",
	PositionLandscape: "full-width",
	PositionDefault:   "centered",
}

// LayoutTreatment returns the rendering treatment for a position class.
func LayoutTreatment(position string) string {
	if t, ok := layoutTreatments[position]; ok {
		return t
	}
	return layoutTreatments[PositionDefault]
}
