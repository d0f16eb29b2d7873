// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings persists the user configuration between runs. Paths
// and flags are written in clear YAML for inspectability; the two API
// keys are sealed with an authenticated cipher keyed by a local key
// file, so corrupted or tampered ciphertext is detected at load time
// instead of silently misdecrypting.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

const (
	configFile = "config.yaml"
	keyFile    = "key.bin"
)

// Store reads and writes the settings file and its sealing key.
type Store struct {
	ConfigPath string
	KeyPath    string
}

// NewStore returns a Store keeping config.yaml and key.bin under dir.
func NewStore(dir string) *Store {
	return &Store{
		ConfigPath: filepath.Join(dir, configFile),
		KeyPath:    filepath.Join(dir, keyFile),
	}
}

// fileSettings mirrors types.Settings on disk, with the secret fields
// replaced by their sealed form.
type fileSettings struct {
	PandocPath string           `yaml:"pandoc_path"`
	WikiRoot   string           `yaml:"wiki_root"`
	AIEnabled  bool             `yaml:"ai_enabled"`
	AIPrompt   string           `yaml:"ai_prompt"`
	DocIntel   fileDocIntel     `yaml:"document_intelligence"`
	OpenAI     fileAzureOpenAI  `yaml:"azure_openai"`
}

type fileDocIntel struct {
	Endpoint  string `yaml:"endpoint"`
	KeySealed string `yaml:"key_sealed"`
	Model     string `yaml:"model"`
}

type fileAzureOpenAI struct {
	Endpoint   string `yaml:"endpoint"`
	KeySealed  string `yaml:"key_sealed"`
	Deployment string `yaml:"deployment"`
}

// Load reads the settings file and unseals the secret fields. Every
// failure mode (missing file, bad YAML, missing key, tampered
// ciphertext) wraps apperr.ErrConfigUnreadable; callers are expected to
// fall back to types.DefaultSettings().
func (s *Store) Load() (types.Settings, error) {
	data, err := os.ReadFile(s.ConfigPath)
	if err != nil {
		return types.Settings{}, fmt.Errorf("%w: reading %s: %v", apperr.ErrConfigUnreadable, s.ConfigPath, err)
	}

	var f fileSettings
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.Settings{}, fmt.Errorf("%w: parsing %s: %v", apperr.ErrConfigUnreadable, s.ConfigPath, err)
	}

	key, err := loadOrCreateKey(s.KeyPath)
	if err != nil {
		return types.Settings{}, fmt.Errorf("%w: %v", apperr.ErrConfigUnreadable, err)
	}

	docIntelKey, err := open(key, f.DocIntel.KeySealed)
	if err != nil {
		return types.Settings{}, fmt.Errorf("%w: document intelligence key: %v", apperr.ErrConfigUnreadable, err)
	}
	openAIKey, err := open(key, f.OpenAI.KeySealed)
	if err != nil {
		return types.Settings{}, fmt.Errorf("%w: azure openai key: %v", apperr.ErrConfigUnreadable, err)
	}

	return types.Settings{
		PandocPath: f.PandocPath,
		WikiRoot:   f.WikiRoot,
		AIEnabled:  f.AIEnabled,
		AIPrompt:   f.AIPrompt,
		DocIntel: types.DocIntelConfig{
			Endpoint: f.DocIntel.Endpoint,
			Key:      docIntelKey,
			Model:    f.DocIntel.Model,
		},
		OpenAI: types.AzureOpenAIConfig{
			Endpoint:   f.OpenAI.Endpoint,
			Key:        openAIKey,
			Deployment: f.OpenAI.Deployment,
		},
	}, nil
}

// Save seals the secret fields and writes the whole settings file,
// creating the parent directory and the key file on first use. Failures
// wrap apperr.ErrConfigWrite. Secret values never appear in error text.
func (s *Store) Save(cfg types.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrConfigWrite, err)
	}

	key, err := loadOrCreateKey(s.KeyPath)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrConfigWrite, err)
	}

	docIntelSealed, err := seal(key, cfg.DocIntel.Key)
	if err != nil {
		return fmt.Errorf("%w: sealing document intelligence key: %v", apperr.ErrConfigWrite, err)
	}
	openAISealed, err := seal(key, cfg.OpenAI.Key)
	if err != nil {
		return fmt.Errorf("%w: sealing azure openai key: %v", apperr.ErrConfigWrite, err)
	}

	f := fileSettings{
		PandocPath: cfg.PandocPath,
		WikiRoot:   cfg.WikiRoot,
		AIEnabled:  cfg.AIEnabled,
		AIPrompt:   cfg.AIPrompt,
		DocIntel: fileDocIntel{
			Endpoint:  cfg.DocIntel.Endpoint,
			KeySealed: docIntelSealed,
			Model:     cfg.DocIntel.Model,
		},
		OpenAI: fileAzureOpenAI{
			Endpoint:   cfg.OpenAI.Endpoint,
			KeySealed:  openAISealed,
			Deployment: cfg.OpenAI.Deployment,
		},
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: marshaling settings: %v", apperr.ErrConfigWrite, err)
	}
	if err := os.WriteFile(s.ConfigPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperr.ErrConfigWrite, s.ConfigPath, err)
	}
	return nil
}
