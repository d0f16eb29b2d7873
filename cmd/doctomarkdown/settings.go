// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Oglaf/DocToMarkdown/internal/settings"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the persisted configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettingsOrDefaults(cmd)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pandoc_path:         %s\n", cfg.PandocPath)
		fmt.Fprintf(out, "wiki_root:           %s\n", cfg.WikiRoot)
		fmt.Fprintf(out, "ai_enabled:          %t\n", cfg.AIEnabled)
		fmt.Fprintf(out, "ai_prompt:           %s\n", cfg.AIPrompt)
		fmt.Fprintf(out, "docintel.endpoint:   %s\n", cfg.DocIntel.Endpoint)
		fmt.Fprintf(out, "docintel.key:        %s\n", maskSecret(cfg.DocIntel.Key))
		fmt.Fprintf(out, "docintel.model:      %s\n", cfg.DocIntel.Model)
		fmt.Fprintf(out, "openai.endpoint:     %s\n", cfg.OpenAI.Endpoint)
		fmt.Fprintf(out, "openai.key:          %s\n", maskSecret(cfg.OpenAI.Key))
		fmt.Fprintf(out, "openai.deployment:   %s\n", cfg.OpenAI.Deployment)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set key=value [key=value...]",
	Short: "Change settings and save the whole configuration",
	Long: `Set applies one or more key=value pairs to the current settings and
saves the result. Secret values are sealed before they are written.

Keys: pandoc_path, wiki_root, ai_enabled, ai_prompt,
docintel.endpoint, docintel.key, docintel.model,
openai.endpoint, openai.key, openai.deployment`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettingsOrDefaults(cmd)

		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			if err := applySetting(&cfg, strings.TrimSpace(key), value); err != nil {
				return err
			}
		}

		store := settings.NewStore(configDir())
		if err := store.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "settings saved to %s\n", store.ConfigPath)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// applySetting mutates one field of cfg by key name.
func applySetting(cfg *types.Settings, key, value string) error {
	switch key {
	case "pandoc_path":
		cfg.PandocPath = value
	case "wiki_root":
		cfg.WikiRoot = value
	case "ai_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ai_enabled: %w", err)
		}
		cfg.AIEnabled = b
	case "ai_prompt":
		cfg.AIPrompt = value
	case "docintel.endpoint":
		cfg.DocIntel.Endpoint = value
	case "docintel.key":
		cfg.DocIntel.Key = value
	case "docintel.model":
		cfg.DocIntel.Model = value
	case "openai.endpoint":
		cfg.OpenAI.Endpoint = value
	case "openai.key":
		cfg.OpenAI.Key = value
	case "openai.deployment":
		cfg.OpenAI.Deployment = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// maskSecret hides a secret's value while showing whether it is set.
func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "********"
}
