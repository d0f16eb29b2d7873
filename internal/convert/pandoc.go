// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) (stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

var defaultExec executor = osExecutor{}

// PandocConverter runs the configured pandoc binary, requesting Markdown
// output and media extraction into the output directory's media folder.
type PandocConverter struct {
	bin  string
	exec executor
}

// NewPandocConverter verifies the binary is set and resolvable before
// returning a converter. A bare name is resolved via PATH, a path via
// the filesystem; either failing wraps apperr.ErrConverterNotFound.
func NewPandocConverter(bin string) (*PandocConverter, error) {
	return newPandocConverter(bin, defaultExec)
}

func newPandocConverter(bin string, ex executor) (*PandocConverter, error) {
	if strings.TrimSpace(bin) == "" {
		return nil, fmt.Errorf("%w: pandoc path is not configured", apperr.ErrConverterNotFound)
	}
	if strings.ContainsRune(bin, os.PathSeparator) {
		if _, err := os.Stat(bin); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", apperr.ErrConverterNotFound, bin, err)
		}
	} else if _, err := ex.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrConverterNotFound, bin, err)
	}
	return &PandocConverter{bin: bin, exec: ex}, nil
}

// Convert invokes pandoc with the output directory as working directory,
// matching the way the tool writes its -o target. Extracted media lands
// under <outDir>/media; pandoc nests DOCX images in a media/ subfolder,
// which is hoisted one level so MediaDir holds the files directly.
func (p *PandocConverter) Convert(ctx context.Context, source, outDir string) (Output, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	absSource, err := filepath.Abs(source)
	if err != nil {
		return Output{}, fmt.Errorf("resolving source path: %w", err)
	}

	mediaDir := filepath.Join(outDir, mediaDirName)
	outName := OutputStem(source) + ".md"

	stderr, err := p.exec.Run(ctx, outDir, p.bin,
		absSource,
		"-t", "markdown",
		"--extract-media", mediaDir,
		"-o", outName,
	)
	if err != nil {
		return Output{}, fmt.Errorf("%w: pandoc: %v: %s", apperr.ErrConversionFailed, err, strings.TrimSpace(stderr))
	}

	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("creating media directory %s: %w", mediaDir, err)
	}
	if err := hoistMediaSubdir(mediaDir); err != nil {
		return Output{}, err
	}

	return Output{
		MarkdownPath: filepath.Join(outDir, outName),
		MediaDir:     mediaDir,
	}, nil
}

// hoistMediaSubdir flattens the media/media/ nesting pandoc produces for
// DOCX input by moving each entry up one level and removing the subfolder.
func hoistMediaSubdir(mediaDir string) error {
	nested := filepath.Join(mediaDir, mediaDirName)
	entries, err := os.ReadDir(nested)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", nested, err)
	}
	for _, entry := range entries {
		from := filepath.Join(nested, entry.Name())
		to := filepath.Join(mediaDir, entry.Name())
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("moving %s: %w", from, err)
		}
	}
	if err := os.Remove(nested); err != nil {
		return fmt.Errorf("removing %s: %w", nested, err)
	}
	return nil
}
