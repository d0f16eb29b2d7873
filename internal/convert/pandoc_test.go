// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
)

// fakeExecutor records the invocation and simulates pandoc's side
// effects through onRun.
type fakeExecutor struct {
	lookPathErr error
	runErr      error
	stderr      string
	onRun       func(dir string, args []string) error

	gotDir  string
	gotName string
	gotArgs []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.lookPathErr != nil {
		return "", f.lookPathErr
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.gotDir = dir
	f.gotName = name
	f.gotArgs = args
	if f.onRun != nil {
		if err := f.onRun(dir, args); err != nil {
			return "", err
		}
	}
	return f.stderr, f.runErr
}

func TestNewPandocConverterUnsetPath(t *testing.T) {
	_, err := newPandocConverter("", &fakeExecutor{})
	if !errors.Is(err, apperr.ErrConverterNotFound) {
		t.Fatalf("err = %v, want ErrConverterNotFound", err)
	}
}

func TestNewPandocConverterMissingBinary(t *testing.T) {
	_, err := newPandocConverter("pandoc", &fakeExecutor{lookPathErr: errors.New("not in PATH")})
	if !errors.Is(err, apperr.ErrConverterNotFound) {
		t.Fatalf("err = %v, want ErrConverterNotFound", err)
	}
}

func TestNewPandocConverterMissingExplicitPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "pandoc")
	_, err := newPandocConverter(missing, &fakeExecutor{})
	if !errors.Is(err, apperr.ErrConverterNotFound) {
		t.Fatalf("err = %v, want ErrConverterNotFound", err)
	}
}

func TestPandocConvertArguments(t *testing.T) {
	outDir := t.TempDir()
	ex := &fakeExecutor{}
	conv, err := newPandocConverter("pandoc", ex)
	if err != nil {
		t.Fatal(err)
	}

	out, err := conv.Convert(context.Background(), "/docs/My Report.docx", outDir)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if ex.gotDir != outDir {
		t.Errorf("working dir = %q, want %q", ex.gotDir, outDir)
	}
	if ex.gotName != "pandoc" {
		t.Errorf("binary = %q, want pandoc", ex.gotName)
	}

	mediaDir := filepath.Join(outDir, "media")
	wantArgs := []string{"/docs/My Report.docx", "-t", "markdown", "--extract-media", mediaDir, "-o", "My-Report.md"}
	if len(ex.gotArgs) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", ex.gotArgs, wantArgs)
	}
	for i := range wantArgs {
		if ex.gotArgs[i] != wantArgs[i] {
			t.Errorf("arg[%d] = %q, want %q", i, ex.gotArgs[i], wantArgs[i])
		}
	}

	if out.MarkdownPath != filepath.Join(outDir, "My-Report.md") {
		t.Errorf("MarkdownPath = %q", out.MarkdownPath)
	}
	if out.MediaDir != mediaDir {
		t.Errorf("MediaDir = %q, want %q", out.MediaDir, mediaDir)
	}
	if _, err := os.Stat(mediaDir); err != nil {
		t.Errorf("media dir should exist even without extracted media: %v", err)
	}
}

func TestPandocConvertFailureCapturesStderr(t *testing.T) {
	ex := &fakeExecutor{runErr: errors.New("exit status 64"), stderr: "pandoc: unknown reader"}
	conv, err := newPandocConverter("pandoc", ex)
	if err != nil {
		t.Fatal(err)
	}

	_, err = conv.Convert(context.Background(), "bad.docx", t.TempDir())
	if !errors.Is(err, apperr.ErrConversionFailed) {
		t.Fatalf("err = %v, want ErrConversionFailed", err)
	}
	if !strings.Contains(err.Error(), "unknown reader") {
		t.Errorf("error should carry stderr, got: %v", err)
	}
}

func TestPandocConvertHoistsMediaSubdir(t *testing.T) {
	outDir := t.TempDir()
	ex := &fakeExecutor{
		onRun: func(dir string, args []string) error {
			// Simulate pandoc extracting DOCX images under media/media/.
			nested := filepath.Join(dir, "media", "media")
			if err := os.MkdirAll(nested, 0o755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(nested, "image1.png"), []byte("png"), 0o644)
		},
	}
	conv, err := newPandocConverter("pandoc", ex)
	if err != nil {
		t.Fatal(err)
	}

	out, err := conv.Convert(context.Background(), "report.docx", outDir)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out.MediaDir, "image1.png")); err != nil {
		t.Errorf("hoisted image missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out.MediaDir, "media")); !os.IsNotExist(err) {
		t.Errorf("nested media folder should be removed, stat err = %v", err)
	}
}
