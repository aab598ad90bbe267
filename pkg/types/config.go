// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ScaleTag is the anisotropic DefaultScale pair written into each output
// file. The default 0.75 1.0 yields an effective 1.33x horizontal stretch
// when the image is de-squeezed on playback.
type ScaleTag struct {
	// Horizontal is the horizontal scale factor.
	Horizontal float64 `json:"horizontal" yaml:"horizontal"`

	// Vertical is the vertical scale factor.
	Vertical float64 `json:"vertical" yaml:"vertical"`
}

// DefaultScale is the de-squeeze factor applied when no scale is configured.
var DefaultScale = ScaleTag{Horizontal: 0.75, Vertical: 1.0}

// String renders the tag in exiftool argument form, e.g. "0.75 1.0".
func (s ScaleTag) String() string {
	return trimFloat(s.Horizontal) + " " + trimFloat(s.Vertical)
}

// ParseScale parses a "H V" pair (e.g. "0.75 1.0") into a ScaleTag.
func ParseScale(value string) (ScaleTag, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return ScaleTag{}, fmt.Errorf(`scale must be two numbers "H V", got %q`, value)
	}
	h, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ScaleTag{}, fmt.Errorf("parsing horizontal scale %q: %w", fields[0], err)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return ScaleTag{}, fmt.Errorf("parsing vertical scale %q: %w", fields[1], err)
	}
	if h <= 0 || v <= 0 {
		return ScaleTag{}, fmt.Errorf("scale factors must be positive, got %q", value)
	}
	return ScaleTag{Horizontal: h, Vertical: v}, nil
}

// trimFloat formats a factor without trailing zeros but always with at
// least one decimal place, matching exiftool's accepted tag syntax.
func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// BatchConfig holds settings for one de-squeeze batch run.
type BatchConfig struct {
	// InputDir is the directory scanned for source DNG files. It is never
	// written to.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the stretched copies. Empty means
	// <input_dir>/OUTPUT. Created (with parents) if absent.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// Scale is the DefaultScale pair written to each processed file.
	Scale ScaleTag `json:"scale" yaml:"scale"`

	// LensModel gates the tag rewrite: when non-empty, only files whose
	// LensModel tag matches it get the scale tag; the rest are plain
	// copies. Empty applies the scale to every file.
	LensModel string `json:"lens_model,omitempty" yaml:"lens_model,omitempty"`
}

// OutputPath returns the effective output directory for cfg.
func (c BatchConfig) OutputPath() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Join(c.InputDir, "OUTPUT")
}

// JournalConfig holds settings for the run journal.
type JournalConfig struct {
	// Dir is the directory holding the journal SQLite database
	// (default ".desqueeze").
	Dir string `json:"dir" yaml:"dir"`
}
