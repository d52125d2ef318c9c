package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"news-shorts-pipeline/config"
	"news-shorts-pipeline/types"
)

// fakeRunner satisfies a run by writing a non-empty file at the output
// path (the last argument). failWhen injects a failure for any invocation
// whose output path contains the marker.
type fakeRunner struct {
	calls    [][]string
	failWhen string
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) error {
	f.calls = append(f.calls, args)
	out := args[len(args)-1]
	if f.failWhen != "" && strings.Contains(out, f.failWhen) {
		return fmt.Errorf("simulated encoder failure for %s", filepath.Base(out))
	}
	return os.WriteFile(out, []byte("media"), 0o644)
}

func (f *fakeRunner) Probe(ctx context.Context, path string) (float64, error) {
	return 3.0, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Output = t.TempDir()
	cfg.Paths.Assets = t.TempDir() // no channel logo installed
	cfg.Subtitles.Enabled = true
	return cfg
}

func testManifest() *types.Manifest {
	return &types.Manifest{
		Title: "오늘의 증시",
		Segments: []types.Segment{
			{Index: 1, Text: "코스피가 3% 올랐습니다", Title: "코스피 상승", VisualSource: "chart1.jpg", AudioPath: "seg1.mp3", AudioDurationSec: 4.0},
			{Index: 2, Text: "반도체 업종이 강세를 보였습니다", Title: "반도체 강세", VisualSource: "chart2.png", AudioPath: "seg2.mp3", AudioDurationSec: 6.0},
		},
	}
}

func newTestComposer(t *testing.T, cfg *config.Config, runner *fakeRunner) *Composer {
	t.Helper()
	c, err := New(cfg, runner)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestRunProducesFinalArtifact(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	c := newTestComposer(t, cfg, runner)

	result, err := c.Run(context.Background(), testManifest(), "run42")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantPath := filepath.Join(cfg.Paths.Output, "shorts_run42.mp4")
	if result.Path != wantPath {
		t.Errorf("final path = %s, want %s", result.Path, wantPath)
	}
	info, err := os.Stat(result.Path)
	if err != nil {
		t.Fatalf("final artifact missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("final artifact is empty")
	}
	if want := 4.0/1.2 + 6.0/1.2; result.DurationSec != want {
		t.Errorf("duration = %.4f, want %.4f", result.DurationSec, want)
	}
	if result.CaptionCount == 0 {
		t.Error("expected captions for narrated segments")
	}
	if result.MusicSkipped != "" {
		t.Errorf("music is on by default, unexpectedly skipped: %s", result.MusicSkipped)
	}
	if c.State() != StateDone {
		t.Errorf("state = %s, want %s", c.State(), StateDone)
	}
}

func TestRunRemovesWorkspace(t *testing.T) {
	cfg := testConfig(t)
	c := newTestComposer(t, cfg, &fakeRunner{})

	if _, err := c.Run(context.Background(), testManifest(), "run1"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "work_run1")); !os.IsNotExist(err) {
		t.Error("workspace should be removed after a successful run")
	}
}

func TestRunClipFailure(t *testing.T) {
	cfg := testConfig(t)
	c := newTestComposer(t, cfg, &fakeRunner{failWhen: "clip_"})

	_, err := c.Run(context.Background(), testManifest(), "run1")
	if err == nil {
		t.Fatal("expected clip synthesis failure")
	}
	if !errors.Is(err, ErrClipSynthesis) {
		t.Errorf("error should match ErrClipSynthesis: %v", err)
	}
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error should be a StageError: %v", err)
	}
	if se.Stage != StateSynthesizingClips {
		t.Errorf("failed stage = %s, want %s", se.Stage, StateSynthesizingClips)
	}
	if c.State() != StateFailed {
		t.Errorf("state = %s, want %s", c.State(), StateFailed)
	}
}

func TestRunConcatFailureLeavesNoArtifact(t *testing.T) {
	cfg := testConfig(t)
	c := newTestComposer(t, cfg, &fakeRunner{failWhen: "video_silent"})

	_, err := c.Run(context.Background(), testManifest(), "run9")
	if !errors.Is(err, ErrConcatenation) {
		t.Fatalf("error should match ErrConcatenation: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "shorts_run9.mp4")); !os.IsNotExist(err) {
		t.Error("failed run must not leave a final artifact")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "work_run9")); !os.IsNotExist(err) {
		t.Error("workspace should be removed after a failed run")
	}
}

func TestRunMusicFailureDegrades(t *testing.T) {
	cfg := testConfig(t)
	cfg.Music.Enabled = true
	cfg.Music.LibraryDir = t.TempDir() // empty, forces synthetic path
	c := newTestComposer(t, cfg, &fakeRunner{failWhen: "bgm"})

	result, err := c.Run(context.Background(), testManifest(), "run1")
	if err != nil {
		t.Fatalf("music failure must not abort the run: %v", err)
	}
	if result.MusicSkipped == "" {
		t.Error("degraded run should report why music was skipped")
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("final artifact missing after degraded run: %v", err)
	}
}

func TestRunMixesMusicWhenPrepared(t *testing.T) {
	cfg := testConfig(t)
	cfg.Music.Enabled = true
	cfg.Music.LibraryDir = t.TempDir()
	runner := &fakeRunner{}
	c := newTestComposer(t, cfg, runner)

	result, err := c.Run(context.Background(), testManifest(), "run1")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MusicSkipped != "" {
		t.Fatalf("music unexpectedly skipped: %s", result.MusicSkipped)
	}

	// the final mux is the last invocation
	mux := strings.Join(runner.calls[len(runner.calls)-1], " ")
	if !strings.Contains(mux, "amix=inputs=2:duration=longest") {
		t.Errorf("final mux should mix narration and music with a longest policy:\n%s", mux)
	}
	if !strings.Contains(mux, "atempo=1.200") {
		t.Errorf("narration tempo change missing from final mux:\n%s", mux)
	}
}

func TestRunWithoutMusicMapsNarrationOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Music.Enabled = false
	runner := &fakeRunner{}
	c := newTestComposer(t, cfg, runner)

	if _, err := c.Run(context.Background(), testManifest(), "run1"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mux := strings.Join(runner.calls[len(runner.calls)-1], " ")
	if strings.Contains(mux, "amix") {
		t.Errorf("narration-only mux should not mix:\n%s", mux)
	}
	if !strings.Contains(mux, "volume=1.50,atempo=1.200") {
		t.Errorf("narration chain should boost then retime:\n%s", mux)
	}
	for _, want := range []string{"subtitles=", "drawbox=", "rotate=", "overlay=x=70"} {
		if !strings.Contains(mux, want) {
			t.Errorf("final mux missing %q:\n%s", want, mux)
		}
	}
}

func TestRunRejectsInvalidManifest(t *testing.T) {
	c := newTestComposer(t, testConfig(t), &fakeRunner{})

	m := testManifest()
	m.Segments[1].Index = 3 // gap in the ordering
	if _, err := c.Run(context.Background(), m, "run1"); err == nil {
		t.Error("non-contiguous segment indices must be rejected before rendering")
	}
}

func TestWriteConcatListEscapesQuotes(t *testing.T) {
	listFile := filepath.Join(t.TempDir(), "list.txt")
	if err := writeConcatList(listFile, []string{"/media/director's cut.mp4"}); err != nil {
		t.Fatalf("writeConcatList: %v", err)
	}
	data, err := os.ReadFile(listFile)
	if err != nil {
		t.Fatal(err)
	}
	want := `file '/media/director'\''s cut.mp4'`
	if !strings.Contains(string(data), want) {
		t.Errorf("quote not escaped for the concat demuxer:\n%s", data)
	}
}

func TestRunSurfacesResolutionErrorInSubtitleStage(t *testing.T) {
	cfg := testConfig(t)
	c := newTestComposer(t, cfg, &fakeRunner{})
	// settings changed out from under a constructed composer
	cfg.Video.AspectRatio = "4:3"

	_, err := c.Run(context.Background(), testManifest(), "run1")
	if !errors.Is(err, ErrSubtitleBuild) {
		t.Errorf("resolution failure should surface as a subtitle stage error: %v", err)
	}
	if c.State() != StateFailed {
		t.Errorf("state = %s, want %s", c.State(), StateFailed)
	}
}

func TestRunDurationIsDeterministic(t *testing.T) {
	manifest := testManifest()

	run := func() float64 {
		cfg := testConfig(t)
		c := newTestComposer(t, cfg, &fakeRunner{})
		result, err := c.Run(context.Background(), manifest, "run1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result.DurationSec
	}

	if a, b := run(), run(); a != b {
		t.Errorf("reconciled duration changed across identical runs: %.6f vs %.6f", a, b)
	}
}
