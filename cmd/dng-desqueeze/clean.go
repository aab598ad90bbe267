package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dng-desqueeze/internal/batch"
	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Empty the output directory",
	Long: `Clean deletes every entry under the output directory, or creates it
empty if it does not exist. Running it again is a no-op. Source files are
never touched.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().String("input-dir", "", "directory scanned for DNG files (default TEST_IMAGE)")
	cleanCmd.Flags().String("output-dir", "", "directory to empty (default <input-dir>/OUTPUT)")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := types.BatchConfig{
		InputDir:  stringSetting(cmd, "input-dir", "input_dir", defaultInputDir),
		OutputDir: stringSetting(cmd, "output-dir", "output_dir", ""),
	}
	return batch.Clean(cfg.OutputPath(), os.Stdout)
}
