// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch implements the sequential de-squeeze conversion driver:
// discover DNG files, copy each into the output directory, rewrite the
// scale tag on the copy, stop at the first failure.
// Implements: prd001-batch-driver (R1-R6).
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/dng-desqueeze/internal/exiftool"
	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

const (
	// targetExt is the only source extension processed, matched
	// case-insensitively.
	targetExt = ".dng"

	// outputSuffix is appended to the source stem to form the output name.
	outputSuffix = "_stretched"
)

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int

	// FailedFile names the file that aborted the run, if any.
	FailedFile string

	// Diagnostic carries the captured tool or copy error for FailedFile.
	Diagnostic string
}

// Total returns the total number of candidates examined.
func (r BatchResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether the run aborted on a file.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Discover returns the candidate source filenames in dir: regular entries
// with a .dng extension (any case), in lexicographic order. The ordering
// only fixes which file is reported first on failure and keeps logs
// reproducible.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), targetExt) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// OutputName maps a source filename to its output filename,
// e.g. "A.dng" -> "A_stretched.dng".
func OutputName(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + outputSuffix + ext
}

// Run executes one batch over cfg.InputDir, writing per-file status lines
// and a final summary to w. Fatal preconditions (missing input directory,
// uncreatable output directory) return an error with nothing processed.
// Per-file failures abort the loop but are reported through the result,
// not the error; earlier outputs are kept.
func Run(tool exiftool.Tool, cfg types.BatchConfig, w io.Writer) (BatchResult, []types.FileRecord, error) {
	var result BatchResult

	names, err := Discover(cfg.InputDir)
	if err != nil {
		return result, nil, err
	}

	outDir := cfg.OutputPath()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	records := make([]types.FileRecord, 0, len(names))
	for _, name := range names {
		rec := processFile(tool, cfg, name, outDir, w)
		records = append(records, rec)

		switch rec.Status {
		case types.StatusStretched, types.StatusCopied:
			result.Processed++
		case types.StatusSkipped:
			result.Skipped++
		case types.StatusFailed:
			result.Failed++
			result.FailedFile = rec.Source
			result.Diagnostic = rec.Detail
		}

		if rec.Status == types.StatusFailed {
			fmt.Fprintf(w, "stopping: first failure at %s\n", name)
			break
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d processed, %d skipped, %d failed (total: %d)\n",
		result.Processed, result.Skipped, result.Failed, result.Total())
	return result, records, nil
}

// processFile handles one candidate: skip if the output exists, otherwise
// copy and rewrite the tag. The source is only ever opened read-only.
func processFile(tool exiftool.Tool, cfg types.BatchConfig, name, outDir string, w io.Writer) types.FileRecord {
	rec := types.FileRecord{
		Source: filepath.Join(cfg.InputDir, name),
		Output: filepath.Join(outDir, OutputName(name)),
	}

	if _, err := os.Stat(rec.Output); err == nil {
		rec.Status = types.StatusSkipped
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		return rec
	}

	// Lens-model gating: only the configured lens gets the scale tag.
	applyScale := true
	if cfg.LensModel != "" {
		lens, err := tool.ReadLensModel(rec.Source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read lens for %s: %v\n", name, err)
		}
		rec.LensModel = lens
		applyScale = lens == cfg.LensModel
	}

	if err := copyFile(rec.Source, rec.Output); err != nil {
		rec.Status = types.StatusFailed
		rec.Detail = err.Error()
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return rec
	}

	if applyScale {
		if err := tool.ApplyScale(rec.Output, cfg.Scale); err != nil {
			// The partial output is left in place; cleanup is the
			// operator's call on rerun.
			rec.Status = types.StatusFailed
			rec.Detail = err.Error()
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			return rec
		}
	}

	if err := os.Chmod(rec.Output, 0o666); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not set permissions on %s: %v\n", rec.Output, err)
	}

	if applyScale {
		rec.Status = types.StatusStretched
		if rec.LensModel != "" {
			fmt.Fprintf(w, "stretched: %s (%s, scale %s)\n", name, rec.LensModel, cfg.Scale)
		} else {
			fmt.Fprintf(w, "stretched: %s (scale %s)\n", name, cfg.Scale)
		}
	} else {
		rec.Status = types.StatusCopied
		fmt.Fprintf(w, "copied: %s (lens %q, no de-squeeze)\n", name, rec.LensModel)
	}
	return rec
}

// copyFile copies src to dst verbatim. dst must not exist; src is opened
// read-only.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}
