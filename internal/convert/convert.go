// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a source document into a raw Markdown file plus
// a side folder of extracted media. The backend is chosen by file
// extension: PDF goes through the Azure Document Intelligence API,
// every other supported format through the pandoc subprocess.
package convert

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

// mediaDirName is the media folder the converter creates under the
// output directory. The post-processor empties it into the wiki's
// attachments folder afterwards.
const mediaDirName = "media"

// Output is what a converter produces under the output directory.
type Output struct {
	// MarkdownPath is the raw converted Markdown file.
	MarkdownPath string

	// MediaDir holds the extracted images. Always present, possibly empty.
	MediaDir string
}

// Converter transforms one document into Markdown plus media.
type Converter interface {
	Convert(ctx context.Context, source, outDir string) (Output, error)
}

// ForJob selects the conversion backend for the job's source extension.
// A .pdf source never reaches the subprocess path and a .docx source
// never reaches the managed API path.
func ForJob(job types.Job) (Converter, error) {
	if strings.EqualFold(filepath.Ext(job.Source), ".pdf") {
		return NewDocIntelConverter(job.DocIntel)
	}
	return NewPandocConverter(job.PandocPath)
}

// OutputStem derives the Markdown filename stem from the source path:
// the base name without extension, spaces replaced with hyphens so the
// wiki page name stays link-safe.
func OutputStem(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, " ", "-")
}
