// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences one conversion job through validation,
// conversion, post-processing, and optional AI refinement. A job runs
// on its own worker goroutine so the caller stays responsive; at most
// one job is in flight at a time because the subprocess and the media
// moves are not safe to interleave against the same folders. A running
// job is not cancellable; it runs to completion or failure.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
	"github.com/Oglaf/DocToMarkdown/internal/convert"
	"github.com/Oglaf/DocToMarkdown/internal/refine"
	"github.com/Oglaf/DocToMarkdown/internal/wiki"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

// Runner executes conversion jobs one at a time.
type Runner struct {
	mu   sync.Mutex
	busy bool

	// mirror receives each log line as it is emitted. May be nil.
	mirror io.Writer

	// Backend construction seams for tests.
	newConverter func(types.Job) (convert.Converter, error)
	newBackend   func(types.AzureOpenAIConfig) (refine.Backend, error)
}

// NewRunner returns a Runner mirroring job logs to w (may be nil).
func NewRunner(w io.Writer) *Runner {
	return &Runner{
		mirror:       w,
		newConverter: convert.ForJob,
		newBackend: func(cfg types.AzureOpenAIConfig) (refine.Backend, error) {
			return refine.NewAzureBackend(cfg)
		},
	}
}

// Handle is the future for a submitted job.
type Handle struct {
	done   chan struct{}
	result types.Result
}

// Done returns a channel closed when the job reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the job finishes and returns its Result.
func (h *Handle) Wait() types.Result {
	<-h.done
	return h.result
}

// Run submits a job. It returns apperr.ErrBusy while another job is in
// flight; otherwise the job starts on a worker goroutine and the
// returned Handle resolves to its Result.
func (r *Runner) Run(job types.Job) (*Handle, error) {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return nil, apperr.ErrBusy
	}
	r.busy = true
	r.mu.Unlock()

	h := &Handle{done: make(chan struct{})}
	go func() {
		defer func() {
			r.mu.Lock()
			r.busy = false
			r.mu.Unlock()
			close(h.done)
		}()
		h.result = r.execute(job)
	}()
	return h, nil
}

// execute walks the job through the pipeline stages. The first failure
// halts the pipeline and the result records the stage and cause.
func (r *Runner) execute(job types.Job) types.Result {
	ctx := context.Background()
	log := NewLog(r.mirror)

	fail := func(stage types.Stage, err error) types.Result {
		log.Printf("%s failed: %v", stage, err)
		return types.Result{
			Status:      types.StatusFailed,
			FailedStage: stage,
			Err:         err,
			Log:         log.Lines(),
		}
	}

	log.Printf("validating %s", job.Source)
	if err := job.Validate(); err != nil {
		return fail(types.StageValidating, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
	}

	// Resolve the backend before touching the filesystem so a missing
	// converter or missing credentials leaves the output folder empty.
	conv, err := r.newConverter(job)
	if err != nil {
		return fail(types.StageConverting, err)
	}

	log.Printf("converting %s", filepath.Base(job.Source))
	out, err := conv.Convert(ctx, job.Source, job.OutputDir)
	if err != nil {
		return fail(types.StageConverting, err)
	}
	log.Printf("converted to %s", out.MarkdownPath)

	log.Printf("relocating media into %s", filepath.Join(job.WikiRoot, wiki.AttachmentsDirName))
	attachments, err := wiki.Process(out.MarkdownPath, out.MediaDir, job.WikiRoot)
	if err != nil {
		return fail(types.StagePostProcessing, err)
	}
	log.Printf("relocated %d attachment(s), links rewritten", len(attachments))

	if job.AIEnabled {
		backend, err := r.newBackend(job.AI)
		if err != nil {
			return fail(types.StageRefining, err)
		}
		log.Printf("refining with deployment %s", job.AI.Deployment)
		if err := refine.Refine(ctx, backend, out.MarkdownPath, strings.TrimSpace(job.AIPrompt)); err != nil {
			return fail(types.StageRefining, err)
		}
		log.Printf("refinement applied")
	}

	log.Printf("done: %s", out.MarkdownPath)
	return types.Result{
		MarkdownPath: out.MarkdownPath,
		Attachments:  attachments,
		Status:       types.StatusDone,
		Log:          log.Lines(),
	}
}
