// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

// BuildReport assembles the YAML run report from a finished batch.
func BuildReport(cfg types.BatchConfig, result BatchResult, records []types.FileRecord) types.RunReport {
	return types.RunReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputPath(),
		Scale:       cfg.Scale.String(),
		Processed:   result.Processed,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		Files:       records,
	}
}

// WriteReport marshals the report to YAML at path, creating parent
// directories as needed. The write goes through a temp file and rename so
// a crash never leaves a truncated report.
func WriteReport(path string, report types.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalizing report: %w", err)
	}
	return nil
}
