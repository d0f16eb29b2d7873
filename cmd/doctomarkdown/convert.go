// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
	"github.com/Oglaf/DocToMarkdown/internal/history"
	"github.com/Oglaf/DocToMarkdown/internal/pipeline"
	"github.com/Oglaf/DocToMarkdown/internal/settings"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <document>",
	Short: "Convert one document to wiki Markdown",
	Long: `Convert runs the full pipeline for a single document: conversion to
Markdown, relocation of extracted images into <wiki-root>/.attachments/,
rewriting of image links to the /.attachments form, and (with --ai) a
refinement pass through the configured Azure OpenAI deployment.

Flags override saved settings for this invocation only. Environment
variables with the DOCTOMARKDOWN_ prefix sit between the two.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("output", ".", "folder receiving the converted Markdown file")
	convertCmd.Flags().String("wiki-root", "", "wiki repository root (where .attachments lives)")
	convertCmd.Flags().String("pandoc", "", "pandoc binary for non-PDF input")
	convertCmd.Flags().Bool("ai", false, "refine the result with the configured Azure OpenAI deployment")
	convertCmd.Flags().String("prompt", "", "instruction for the AI refinement step")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadSettingsOrDefaults(cmd)

	flagStr := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	aiEnabled := cfg.AIEnabled
	if cmd.Flags().Changed("ai") {
		aiEnabled, _ = cmd.Flags().GetBool("ai")
	}

	job := types.Job{
		Source:     args[0],
		OutputDir:  flagStr("output"),
		WikiRoot:   firstNonEmpty(flagStr("wiki-root"), viper.GetString("wiki_root"), cfg.WikiRoot),
		PandocPath: firstNonEmpty(flagStr("pandoc"), viper.GetString("pandoc_path"), cfg.PandocPath),
		DocIntel:   cfg.DocIntel,
		AIEnabled:  aiEnabled,
		AI:         cfg.OpenAI,
		AIPrompt:   firstNonEmpty(flagStr("prompt"), cfg.AIPrompt),
	}

	runner := pipeline.NewRunner(cmd.ErrOrStderr())
	started := time.Now()

	handle, err := runner.Run(job)
	if err != nil {
		return err
	}
	res := handle.Wait()

	recordHistory(cmd, job, res, started)

	if res.Status == types.StatusFailed {
		return fmt.Errorf("%s: %w", res.FailedStage, res.Err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.MarkdownPath)
	return nil
}

// loadSettingsOrDefaults reads the persisted settings, falling back to
// defaults when the file is missing or unreadable.
func loadSettingsOrDefaults(cmd *cobra.Command) types.Settings {
	store := settings.NewStore(configDir())
	cfg, err := store.Load()
	if errors.Is(err, apperr.ErrConfigUnreadable) {
		// A corrupt file is worth a warning; a missing one is the
		// normal first run.
		if _, statErr := os.Stat(store.ConfigPath); statErr == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using defaults\n", err)
		}
		return types.DefaultSettings()
	}
	return cfg
}

// recordHistory appends the run to the local history database. Best
// effort only: failures are logged and the conversion result stands.
func recordHistory(cmd *cobra.Command, job types.Job, res types.Result, started time.Time) {
	store, err := history.NewStore(configDir())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), job, res, started, time.Now()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: recording history: %v\n", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
