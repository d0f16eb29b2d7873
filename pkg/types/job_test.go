// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validJob returns a job that passes validation, backed by real temp paths.
func validJob(t *testing.T) Job {
	t.Helper()
	srcDir := t.TempDir()
	source := filepath.Join(srcDir, "report.docx")
	if err := os.WriteFile(source, []byte("docx"), 0o644); err != nil {
		t.Fatal(err)
	}
	return Job{
		Source:    source,
		OutputDir: filepath.Join(t.TempDir(), "out"),
		WikiRoot:  t.TempDir(),
	}
}

func TestValidateOK(t *testing.T) {
	if err := validJob(t).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Job)
	}{
		{"missing source", func(j *Job) { j.Source = "" }},
		{"missing output dir", func(j *Job) { j.OutputDir = "" }},
		{"missing wiki root", func(j *Job) { j.WikiRoot = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			job := validJob(t)
			tc.mutate(&job)
			if err := job.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateSourceMustExist(t *testing.T) {
	job := validJob(t)
	job.Source = filepath.Join(t.TempDir(), "ghost.docx")

	err := job.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "path does not exist") {
		t.Errorf("err = %v", err)
	}
}

func TestValidateWikiRootMustExist(t *testing.T) {
	job := validJob(t)
	job.WikiRoot = filepath.Join(t.TempDir(), "nowhere")

	if err := job.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateUnsupportedExtension(t *testing.T) {
	srcDir := t.TempDir()
	source := filepath.Join(srcDir, "notes.txt")
	if err := os.WriteFile(source, []byte("txt"), 0o644); err != nil {
		t.Fatal(err)
	}

	job := validJob(t)
	job.Source = source

	err := job.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "unsupported document extension") {
		t.Errorf("err = %v", err)
	}
}

func TestValidateAIRequiresCredentials(t *testing.T) {
	job := validJob(t)
	job.AIEnabled = true
	job.AIPrompt = "polish"
	job.AI = AzureOpenAIConfig{Endpoint: "https://e", Key: "k", Deployment: "d"}

	if err := job.Validate(); err != nil {
		t.Fatalf("complete AI config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Job)
		field  string
	}{
		{"missing endpoint", func(j *Job) { j.AI.Endpoint = "" }, "azure_openai.endpoint"},
		{"missing key", func(j *Job) { j.AI.Key = "" }, "azure_openai.key"},
		{"missing deployment", func(j *Job) { j.AI.Deployment = "" }, "azure_openai.deployment"},
		{"blank prompt", func(j *Job) { j.AIPrompt = "   " }, "ai_prompt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := job
			tc.mutate(&j)
			err := j.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("err %v should name %s", err, tc.field)
			}
		})
	}
}

func TestValidateAIDisabledIgnoresCredentials(t *testing.T) {
	job := validJob(t)
	job.AIEnabled = false
	// No AI config at all: still valid.
	if err := job.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".docx", true},
		{".DOCX", true},
		{".doc", true},
		{".odt", true},
		{".rtf", true},
		{".pdf", true},
		{".PDF", true},
		{".txt", false},
		{".md", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := SupportedExtension(tc.ext); got != tc.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tc.ext, got, tc.want)
		}
	}
}
