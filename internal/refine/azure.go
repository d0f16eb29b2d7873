// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/azure"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

// azureAPIVersion is the Azure OpenAI chat completions API version.
const azureAPIVersion = "2024-02-01"

// AzureBackend completes prompts against an Azure OpenAI deployment.
type AzureBackend struct {
	client     openai.Client
	deployment string
}

// NewAzureBackend validates the credentials and builds the client. Any
// missing field wraps apperr.ErrCredentialsMissing.
func NewAzureBackend(cfg types.AzureOpenAIConfig) (*AzureBackend, error) {
	var missing []string
	if strings.TrimSpace(cfg.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if strings.TrimSpace(cfg.Key) == "" {
		missing = append(missing, "key")
	}
	if strings.TrimSpace(cfg.Deployment) == "" {
		missing = append(missing, "deployment")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: azure openai %s not configured", apperr.ErrCredentialsMissing, strings.Join(missing, ", "))
	}

	client := openai.NewClient(
		azure.WithEndpoint(cfg.Endpoint, azureAPIVersion),
		azure.WithAPIKey(cfg.Key),
	)
	return &AzureBackend{client: client, deployment: cfg.Deployment}, nil
}

// Complete runs one chat completion against the deployment. Transport
// and API failures wrap apperr.ErrNetwork so the pipeline reports them
// as refinement-stage network errors.
func (b *AzureBackend) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: azure openai completion: %v", apperr.ErrNetwork, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", apperr.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
