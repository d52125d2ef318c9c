package compose

import (
	"errors"
	"fmt"

	"news-shorts-pipeline/ffmpeg"
)

// Stage failure sentinels. A failed run surfaces exactly one of these,
// wrapped in a StageError; callers distinguish stages with errors.Is.
// Background-music failure is never fatal and has no sentinel; it
// degrades through music.Outcome instead.
var (
	ErrClipSynthesis = errors.New("clip synthesis failed")
	ErrConcatenation = errors.New("video concatenation failed")
	ErrAudioMix      = errors.New("audio mix failed")
	ErrSubtitleBuild = errors.New("subtitle build failed")
	ErrFinalMux      = errors.New("final mux failed")
)

// StageError identifies the failed pipeline stage and carries the
// external encoder's diagnostic output verbatim. No retry happens at
// this layer; retry policy belongs to the caller.
type StageError struct {
	Stage      State
	Diagnostic string
	kind       error
	cause      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.cause)
}

func (e *StageError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

func newStageError(stage State, kind, cause error) *StageError {
	se := &StageError{Stage: stage, kind: kind, cause: cause}
	var exitErr *ffmpeg.ExitError
	if errors.As(cause, &exitErr) {
		se.Diagnostic = exitErr.Stderr
	}
	return se
}
