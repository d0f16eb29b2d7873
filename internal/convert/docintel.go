// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

// docIntelAPIVersion is the Document Intelligence REST API version that
// supports Markdown output content.
const docIntelAPIVersion = "2024-11-30"

// DocIntelConverter sends PDF documents to the Azure Document
// Intelligence analyze operation and writes the returned Markdown
// content. Analysis is a long-running operation: the initial POST
// returns an Operation-Location which is polled until it settles.
type DocIntelConverter struct {
	cfg    types.DocIntelConfig
	client *http.Client

	// pollInterval is the delay between result polls. Tests shorten it.
	pollInterval time.Duration
}

// NewDocIntelConverter validates that the endpoint, key, and model are
// configured; any of them missing wraps apperr.ErrCredentialsMissing.
func NewDocIntelConverter(cfg types.DocIntelConfig) (*DocIntelConverter, error) {
	var missing []string
	if strings.TrimSpace(cfg.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if strings.TrimSpace(cfg.Key) == "" {
		missing = append(missing, "key")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		missing = append(missing, "model")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: document intelligence %s not configured", apperr.ErrCredentialsMissing, strings.Join(missing, ", "))
	}
	return &DocIntelConverter{
		cfg:          cfg,
		client:       &http.Client{Timeout: 60 * time.Second},
		pollInterval: 2 * time.Second,
	}, nil
}

// analyzeRequest is the body of the analyze POST.
type analyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

// analyzeResponse is the polled operation result.
type analyzeResponse struct {
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	AnalyzeResult struct {
		Content string `json:"content"`
	} `json:"analyzeResult"`
}

// Convert analyzes the PDF and writes <outDir>/<stem>.md. The media
// directory is created empty: the layout model inlines figures into the
// Markdown rather than extracting files.
func (d *DocIntelConverter) Convert(ctx context.Context, source, outDir string) (Output, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return Output{}, fmt.Errorf("reading source %s: %w", source, err)
	}

	opURL, err := d.submit(ctx, data)
	if err != nil {
		return Output{}, err
	}

	content, err := d.poll(ctx, opURL)
	if err != nil {
		return Output{}, err
	}

	mdPath := filepath.Join(outDir, OutputStem(source)+".md")
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return Output{}, fmt.Errorf("writing %s: %w", mdPath, err)
	}

	mediaDir := filepath.Join(outDir, mediaDirName)
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("creating media directory %s: %w", mediaDir, err)
	}

	return Output{MarkdownPath: mdPath, MediaDir: mediaDir}, nil
}

// submit starts the analyze operation and returns the URL to poll.
func (d *DocIntelConverter) submit(ctx context.Context, document []byte) (string, error) {
	url := fmt.Sprintf(
		"%s/documentintelligence/documentModels/%s:analyze?api-version=%s&outputContentFormat=markdown",
		strings.TrimSuffix(d.cfg.Endpoint, "/"), d.cfg.Model, docIntelAPIVersion,
	)

	body, err := json.Marshal(analyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(document),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", d.cfg.Key)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling document intelligence: %v", apperr.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: document intelligence returned %d: %s", apperr.ErrConversionFailed, resp.StatusCode, string(msg))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("%w: analyze response missing Operation-Location", apperr.ErrConversionFailed)
	}
	return opURL, nil
}

// poll fetches the operation result until it succeeds or fails.
func (d *DocIntelConverter) poll(ctx context.Context, opURL string) (string, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return "", fmt.Errorf("creating poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", d.cfg.Key)

		resp, err := d.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("%w: polling document intelligence: %v", apperr.ErrNetwork, err)
		}

		var result analyzeResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if decodeErr != nil {
			return "", fmt.Errorf("%w: decoding analyze result: %v", apperr.ErrConversionFailed, decodeErr)
		}

		switch result.Status {
		case "succeeded":
			if result.AnalyzeResult.Content == "" {
				return "", fmt.Errorf("%w: analysis produced no content", apperr.ErrConversionFailed)
			}
			return result.AnalyzeResult.Content, nil
		case "failed":
			msg := "unknown error"
			if result.Error != nil {
				msg = fmt.Sprintf("%s: %s", result.Error.Code, result.Error.Message)
			}
			return "", fmt.Errorf("%w: analysis failed: %s", apperr.ErrConversionFailed, msg)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(d.pollInterval):
		}
	}
}
