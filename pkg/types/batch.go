// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FileStatus describes the outcome of one candidate file in a batch run.
type FileStatus string

const (
	// StatusStretched means the file was copied and its scale tag rewritten.
	StatusStretched FileStatus = "stretched"

	// StatusCopied means the file was copied without a tag rewrite
	// (lens-model gating excluded it).
	StatusCopied FileStatus = "copied"

	// StatusSkipped means the output file already existed.
	StatusSkipped FileStatus = "skipped"

	// StatusFailed means the copy or the tag rewrite failed; the batch
	// stops at this file.
	StatusFailed FileStatus = "failed"
)

// FileRecord is the per-file outcome kept for the journal and the report.
type FileRecord struct {
	// Source is the source file path within the input directory.
	Source string `json:"source" yaml:"source"`

	// Output is the target path under the output directory.
	Output string `json:"output" yaml:"output"`

	// LensModel is the lens read from the source, when gating is active.
	LensModel string `json:"lens_model,omitempty" yaml:"lens_model,omitempty"`

	// Status is the file's terminal state.
	Status FileStatus `json:"status" yaml:"status"`

	// Detail carries the diagnostic text for failed files.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// RunReport is the YAML document written by the --report flag.
type RunReport struct {
	// GeneratedAt is the report timestamp in RFC 3339 UTC.
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	// InputDir is the directory that was scanned.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory outputs were written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Scale is the DefaultScale pair applied to stretched files.
	Scale string `json:"scale" yaml:"scale"`

	// Processed counts files copied and tagged (or plain-copied) this run.
	Processed int `json:"processed" yaml:"processed"`

	// Skipped counts files whose output already existed.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Failed counts files that aborted the run (0 or 1 under fail-fast).
	Failed int `json:"failed" yaml:"failed"`

	// Files holds the per-file records in processing order.
	Files []FileRecord `json:"files" yaml:"files"`
}
