// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stage identifies a step of the conversion pipeline. The runner moves a
// job through Validating, Converting, PostProcessing, and optionally
// Refining before reaching a terminal stage.
type Stage string

const (
	StageValidating     Stage = "validating"
	StageConverting     Stage = "converting"
	StagePostProcessing Stage = "postprocessing"
	StageRefining       Stage = "refining"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

// Status is the terminal outcome of a job.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Result is the artifact a finished job returns to the caller: the
// produced Markdown path, the relocated attachments, the outcome, and
// the ordered log lines emitted while the job ran.
type Result struct {
	// MarkdownPath is the converted (and possibly refined) output file.
	// Empty when the job failed before conversion completed.
	MarkdownPath string

	// Attachments lists the media files relocated into the wiki's
	// .attachments folder.
	Attachments []string

	Status Status

	// FailedStage names the stage that halted the pipeline. Empty on
	// success.
	FailedStage Stage

	// Err is the cause of the failure. Nil on success.
	Err error

	// Log holds every progress line in emission order.
	Log []string
}
