package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner invokes the external media executor. One invocation per pipeline
// stage; success is exit code 0, anything else is a stage failure carrying
// the executor's diagnostics.
type Runner interface {
	Run(ctx context.Context, args ...string) error
	Probe(ctx context.Context, path string) (float64, error)
}

// ExitError carries the executor's stderr verbatim for diagnosis.
type ExitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	diag := strings.TrimSpace(e.Stderr)
	// ffmpeg prints progress lines first; the failure reason is at the end
	if lines := strings.Split(diag, "\n"); len(lines) > 8 {
		diag = strings.Join(lines[len(lines)-8:], "\n")
	}
	if diag == "" {
		return fmt.Sprintf("ffmpeg: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v: %s", e.Err, diag)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exec shells out to ffmpeg/ffprobe binaries.
type Exec struct {
	FFmpegBin  string
	FFprobeBin string
}

func NewExec() *Exec {
	return &Exec{FFmpegBin: "ffmpeg", FFprobeBin: "ffprobe"}
}

// Run invokes ffmpeg with -hide_banner -y prepended. Context cancellation
// kills the process; a killed-by-deadline process surfaces as a non-zero
// exit like any other failure.
func (e *Exec) Run(ctx context.Context, args ...string) error {
	full := append([]string{"-hide_banner", "-y"}, args...)
	cmd := exec.CommandContext(ctx, e.FFmpegBin, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ExitError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Probe returns the container duration of a media file in seconds.
func (e *Exec) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, e.FFprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return 0, &ExitError{Args: cmd.Args[1:], Stderr: stderr.String(), Err: err}
	}
	var dur float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur); err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return dur, nil
}
