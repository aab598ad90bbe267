// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exiftool wraps the external exiftool binary behind a capability
// interface so the batch driver never shells out directly.
// Implements: prd001-batch-driver (external tool boundary).
package exiftool

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

const binExiftool = "exiftool"

// Tool provides the metadata operations the batch driver needs: reading the
// lens model of a source file and rewriting the scale tag of an output file
// in place.
type Tool interface {
	// Version returns the exiftool version string found at preflight.
	Version() string

	// ReadLensModel returns the LensModel tag of the file at path, or ""
	// when the file carries no lens tag.
	ReadLensModel(path string) (string, error)

	// ApplyScale overwrites the DefaultScale tag of the file at path in
	// place, keeping no backup copy. The returned error carries the
	// captured tool output on failure.
	ApplyScale(path string, scale types.ScaleTag) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunOut(name string, args ...string) (string, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunOut(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

// tool implements Tool over a located exiftool binary.
type tool struct {
	path    string
	version string
	exec    executor
}

func (t *tool) Version() string { return t.version }

func (t *tool) ReadLensModel(path string) (string, error) {
	// -s3 prints the bare tag value with no "Lens Model :" prefix.
	out, err := t.exec.RunOut(t.path, "-s3", "-LensModel", path)
	if err != nil {
		return "", fmt.Errorf("reading LensModel of %s: %w (%s)", path, err, strings.TrimSpace(out))
	}
	return strings.TrimSpace(out), nil
}

func (t *tool) ApplyScale(path string, scale types.ScaleTag) error {
	out, err := t.exec.RunOut(t.path,
		"-overwrite_original",
		"-DefaultScale="+scale.String(),
		path,
	)
	if err != nil {
		return fmt.Errorf("exiftool failed on %s: %w (%s)", path, err, strings.TrimSpace(out))
	}
	if sig := errorSignature(out); sig != "" {
		return fmt.Errorf("exiftool reported an error on %s: %s", path, sig)
	}
	return nil
}

// errorSignature scans captured exiftool output for known failure text.
// Exiftool exits 0 in some per-file error modes, so exit status alone is
// not trusted.
func errorSignature(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Error:") || strings.Contains(line, "files weren't updated") {
			return line
		}
	}
	return ""
}

var defaultExec = &osExecutor{}

// Detect locates exiftool on PATH and runs a single preflight invocation
// (-ver). Returns an error when the binary is absent or not executable, so
// callers can fail before touching any file.
func Detect() (Tool, error) {
	return detect(defaultExec)
}

func detect(exec executor) (Tool, error) {
	path, err := exec.LookPath(binExiftool)
	if err != nil {
		return nil, fmt.Errorf("exiftool not found on PATH: %w", err)
	}

	out, err := exec.RunOut(path, "-ver")
	if err != nil {
		return nil, fmt.Errorf("exiftool at %s is not runnable: %w", path, err)
	}

	return &tool{
		path:    path,
		version: strings.TrimSpace(out),
		exec:    exec,
	}, nil
}
