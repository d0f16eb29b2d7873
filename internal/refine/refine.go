// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine sends post-processed Markdown together with a user
// instruction to an Azure OpenAI chat completion deployment and
// replaces the file contents with the model's response. The file is
// overwritten only after a complete, non-empty response; any failure
// leaves it exactly as post-processing produced it. There is no retry:
// a transient failure surfaces immediately to the caller.
package refine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
)

// systemPrompt frames the model as a Markdown editor that returns the
// edited document verbatim, without commentary.
const systemPrompt = "You are an expert markdown editor. Apply the user's instructions to the " +
	"provided markdown document and respond with the complete edited markdown only, " +
	"with no commentary before or after it."

// Backend performs one chat completion. The production implementation
// is AzureBackend; tests substitute fakes.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Refine reads the Markdown at mdPath, sends it with the prompt through
// the backend, and overwrites the file with the returned text verbatim.
// A blank response wraps apperr.ErrEmptyResponse.
func Refine(ctx context.Context, backend Backend, mdPath, prompt string) error {
	content, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("reading markdown %s: %w", mdPath, err)
	}

	user := fmt.Sprintf("PROMPT:\n---\n%s\n---\n\nMARKDOWN:\n---\n%s", prompt, string(content))

	refined, err := backend.Complete(ctx, systemPrompt, user)
	if err != nil {
		return err
	}
	if strings.TrimSpace(refined) == "" {
		return fmt.Errorf("%w: model returned no text", apperr.ErrEmptyResponse)
	}

	if err := os.WriteFile(mdPath, []byte(refined), 0o644); err != nil {
		return fmt.Errorf("writing markdown %s: %w", mdPath, err)
	}
	return nil
}
