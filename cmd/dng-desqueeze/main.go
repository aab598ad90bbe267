// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dng-desqueeze CLI.
// Implements: prd001-batch-driver, prd002-run-journal (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Invoked bare it runs a full batch with the
// configured defaults, so no arguments are ever required.
var rootCmd = &cobra.Command{
	Use:   "dng-desqueeze",
	Short: "Batch de-squeeze anamorphic DNG files via exiftool",
	Long: `dng-desqueeze copies every DNG file in the input directory into an
OUTPUT directory and rewrites the copy's DefaultScale tag with exiftool,
producing a 1.33x horizontal stretch on playback. Originals are never
touched. Outputs that already exist are skipped, so reruns only do the
remaining work; the first per-file error stops the batch.`,
	RunE: runBatch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dng-desqueeze.yaml or ~/.config/dng-desqueeze/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dng-desqueeze")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dng-desqueeze"))
		}
	}

	viper.SetEnvPrefix("DNG_DESQUEEZE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
