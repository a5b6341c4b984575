// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package download

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // WebP decoder
)

// Probe reads the pixel dimensions of a local image without decoding
// the full bitmap. EXIF orientations 5-8 rotate the frame, so width
// and height are swapped for those.
func Probe(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image config: %w", err)
	}

	if _, err := f.Seek(0, 0); err == nil {
		if orientationSwapsAxes(readOrientation(f)) {
			return cfg.Height, cfg.Width, nil
		}
	}
	return cfg.Width, cfg.Height, nil
}

// probeQuiet is Probe with undecodable formats (SVG) reduced to zero
// dimensions instead of an error.
func probeQuiet(path string) (width, height int) {
	w, h, err := Probe(path)
	if err != nil {
		return 0, 0
	}
	return w, h
}

// readOrientation returns the EXIF orientation tag, 1 (normal) when
// missing or unreadable.
func readOrientation(f *os.File) int {
	x, err := exif.Decode(f)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func orientationSwapsAxes(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}

// downscale rewrites an image in place when it is wider than maxWidth,
// preserving aspect ratio. AutoOrientation bakes the EXIF rotation in
// so the saved file needs no tag.
func downscale(path string, maxWidth int) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}

	if img.Bounds().Dx() <= maxWidth {
		return nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	if err := imaging.Save(resized, path); err != nil {
		return fmt.Errorf("saving resized image: %w", err)
	}
	return nil
}
