package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dng-desqueeze/internal/batch"
	"github.com/pdiddy/dng-desqueeze/internal/exiftool"
	"github.com/pdiddy/dng-desqueeze/internal/journal"
	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

const (
	defaultInputDir   = "TEST_IMAGE"
	defaultJournalDir = ".desqueeze"
)

func init() {
	rootCmd.Flags().String("input-dir", "", "directory scanned for DNG files (default TEST_IMAGE)")
	rootCmd.Flags().String("output-dir", "", "directory for stretched copies (default <input-dir>/OUTPUT)")
	rootCmd.Flags().String("scale", "", `DefaultScale pair written to each file (default "0.75 1.0")`)
	rootCmd.Flags().String("lens-model", "", "only de-squeeze files with this LensModel tag; others are plain copies")
	rootCmd.Flags().String("report", "", "write a YAML run report to this path")
	rootCmd.Flags().Bool("no-journal", false, "skip recording the run in the journal database")
}

// stringSetting resolves a flag against the viper config: explicit flag
// wins, then the config/env value, then the built-in default.
func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := stringSetting(cmd, "input-dir", "input_dir", defaultInputDir)
	outputDir := stringSetting(cmd, "output-dir", "output_dir", "")
	lensModel := stringSetting(cmd, "lens-model", "lens_model", "")

	scale := types.DefaultScale
	if raw := stringSetting(cmd, "scale", "scale", ""); raw != "" {
		parsed, err := types.ParseScale(raw)
		if err != nil {
			return err
		}
		scale = parsed
	}

	cfg := types.BatchConfig{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Scale:     scale,
		LensModel: lensModel,
	}

	// Preflight: locate exiftool before touching any file.
	tool, err := exiftool.Detect()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Using exiftool %s\n", tool.Version())

	started := time.Now()
	result, records, err := batch.Run(tool, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if noJournal, _ := cmd.Flags().GetBool("no-journal"); !noJournal {
		recordRun(cfg.InputDir, started, result, records)
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		report := batch.BuildReport(cfg, result, records)
		if err := batch.WriteReport(reportPath, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("batch stopped at %s: %s", result.FailedFile, result.Diagnostic)
	}
	return nil
}

// recordRun appends the run to the journal database. Journal problems are
// warnings only; the batch outcome stands regardless.
func recordRun(inputDir string, started time.Time, result batch.BatchResult, records []types.FileRecord) {
	dir := viper.GetString("journal.dir")
	if dir == "" {
		dir = defaultJournalDir
	}

	store, err := journal.NewStore(types.JournalConfig{Dir: dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(context.Background(), inputDir, started,
		result.Processed, result.Skipped, result.Failed, records); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}
