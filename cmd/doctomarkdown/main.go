// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doctomarkdown CLI: convert a
// DOCX or PDF document into an Azure DevOps Wiki compliant Markdown
// page, with settings persisted between runs and an optional AI
// refinement pass.
package main

import (
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the doctomarkdown CLI.
var rootCmd = &cobra.Command{
	Use:   "doctomarkdown",
	Short: "Convert documents to Azure DevOps Wiki Markdown",
	Long: `doctomarkdown converts a single document into a Markdown file that follows
Azure DevOps Wiki conventions. DOCX (and other pandoc-readable formats) go
through a pandoc subprocess; PDF goes through the Azure Document
Intelligence API. Extracted images are relocated into the wiki's
.attachments folder and image links are rewritten to the wiki's absolute
/.attachments form. An optional step sends the result to an Azure OpenAI
deployment for refinement.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config-dir", "", "directory holding config.yaml, key.bin, and history.db (default: user config dir)")
}

func initConfig() {
	viper.SetEnvPrefix("DOCTOMARKDOWN")
	viper.AutomaticEnv()

	if dir, _ := rootCmd.PersistentFlags().GetString("config-dir"); dir != "" {
		viper.Set("config_dir", dir)
	}
}

// configDir resolves the directory holding the settings file, the
// sealing key, and the history database.
func configDir() string {
	if dir := viper.GetString("config_dir"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "doctomarkdown")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
