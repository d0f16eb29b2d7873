// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared records of the conversion pipeline:
// persisted settings, the immutable conversion job, and the result
// returned to the caller.
package types

// DocIntelConfig holds the Azure Document Intelligence credentials used
// for the PDF conversion path.
type DocIntelConfig struct {
	// Endpoint is the resource endpoint, e.g. "https://myres.cognitiveservices.azure.com".
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Key is the API key. Stored ciphertext-only on disk.
	Key string `json:"-" yaml:"-"`

	// Model is the analysis model identifier (default "prebuilt-layout").
	Model string `json:"model" yaml:"model"`
}

// AzureOpenAIConfig holds the Azure OpenAI credentials used for the
// optional AI refinement step.
type AzureOpenAIConfig struct {
	// Endpoint is the Azure OpenAI resource endpoint.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Key is the API key. Stored ciphertext-only on disk.
	Key string `json:"-" yaml:"-"`

	// Deployment is the model deployment name.
	Deployment string `json:"deployment" yaml:"deployment"`
}

// Settings is the user configuration persisted between runs. Path and
// flag fields are stored in clear text for inspectability; the API keys
// are sealed by the settings store before they touch disk.
type Settings struct {
	// PandocPath is the pandoc binary used for the subprocess
	// conversion path. May be a bare name resolved via PATH.
	PandocPath string `json:"pandoc_path" yaml:"pandoc_path"`

	// WikiRoot is the last-used wiki repository root (where
	// .attachments lives).
	WikiRoot string `json:"wiki_root" yaml:"wiki_root"`

	// AIEnabled turns on the AI refinement step after post-processing.
	AIEnabled bool `json:"ai_enabled" yaml:"ai_enabled"`

	// AIPrompt is the user instruction sent with the Markdown when
	// refinement is enabled.
	AIPrompt string `json:"ai_prompt" yaml:"ai_prompt"`

	DocIntel DocIntelConfig    `json:"document_intelligence" yaml:"document_intelligence"`
	OpenAI   AzureOpenAIConfig `json:"azure_openai" yaml:"azure_openai"`
}

// DefaultSettings returns the configuration used when no settings file
// exists yet or the existing one cannot be read.
func DefaultSettings() Settings {
	return Settings{
		PandocPath: "pandoc",
		DocIntel: DocIntelConfig{
			Model: "prebuilt-layout",
		},
	}
}
