// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// pandocExtensions lists the non-PDF extensions handed to the pandoc
// subprocess path. PDF input goes to Document Intelligence instead.
var pandocExtensions = map[string]bool{
	".docx": true,
	".doc":  true,
	".odt":  true,
	".rtf":  true,
}

// SupportedExtension reports whether ext (with leading dot, any case)
// is a document format the pipeline accepts.
func SupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".pdf" || pandocExtensions[ext]
}

// Job describes one requested conversion with its full set of resolved
// inputs. It is created when the caller triggers a conversion, consumed
// by the pipeline runner, and discarded after completion.
type Job struct {
	// Source is the path of the document to convert.
	Source string `json:"source" yaml:"source"`

	// OutputDir is the folder receiving the converted Markdown file.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// WikiRoot is the wiki repository root holding .attachments/.
	WikiRoot string `json:"wiki_root" yaml:"wiki_root"`

	// PandocPath is the converter binary for non-PDF input.
	PandocPath string `json:"pandoc_path" yaml:"pandoc_path"`

	// DocIntel credentials are consumed only for PDF input.
	DocIntel DocIntelConfig `json:"document_intelligence" yaml:"document_intelligence"`

	// AIEnabled turns on the refinement step; when set, AI credentials
	// and AIPrompt must be complete.
	AIEnabled bool              `json:"ai_enabled" yaml:"ai_enabled"`
	AI        AzureOpenAIConfig `json:"azure_openai" yaml:"azure_openai"`
	AIPrompt  string            `json:"ai_prompt" yaml:"ai_prompt"`
}

// Validate checks that all required fields are present, referenced paths
// exist, and the source extension is supported. AI credentials are only
// required when AIEnabled is set.
func (j Job) Validate() error {
	if err := validation.ValidateStruct(&j,
		validation.Field(&j.Source, validation.Required, validation.By(pathExists), validation.By(supportedSource)),
		validation.Field(&j.OutputDir, validation.Required),
		validation.Field(&j.WikiRoot, validation.Required, validation.By(pathExists)),
	); err != nil {
		return err
	}

	if !j.AIEnabled {
		return nil
	}
	return validation.Errors{
		"azure_openai.endpoint":   requireNonEmpty(j.AI.Endpoint),
		"azure_openai.key":        requireNonEmpty(j.AI.Key),
		"azure_openai.deployment": requireNonEmpty(j.AI.Deployment),
		"ai_prompt":               requireNonEmpty(j.AIPrompt),
	}.Filter()
}

// pathExists is an ozzo rule requiring the string value to name an
// existing filesystem path. Empty values are left to the Required rule.
func pathExists(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("path does not exist: %s", s)
	}
	return nil
}

// supportedSource is an ozzo rule requiring a supported document extension.
func supportedSource(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	ext := filepath.Ext(s)
	if !SupportedExtension(ext) {
		return fmt.Errorf("unsupported document extension %q", ext)
	}
	return nil
}

func requireNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
