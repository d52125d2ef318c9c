// Package compose drives the external encoder through the three-stage
// timeline pipeline: per-segment clip synthesis, video concatenation, and
// the final mux of narration, music, subtitles and overlays.
package compose

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"news-shorts-pipeline/clips"
	"news-shorts-pipeline/config"
	"news-shorts-pipeline/ffmpeg"
	"news-shorts-pipeline/music"
	"news-shorts-pipeline/subtitles"
	"news-shorts-pipeline/timing"
	"news-shorts-pipeline/types"
)

const frameBarWidth = 50

// Composer assembles one final video per Run call. It is synchronous
// from the caller's perspective; only Stage A fans out, bounded by the
// configured worker limit.
type Composer struct {
	cfg    *config.Config
	runner ffmpeg.Runner
	clips  *clips.Synthesizer
	music  *music.Generator
	state  State
}

// Result describes a completed composition run.
type Result struct {
	Path         string
	DurationSec  float64
	CaptionCount int
	MusicSkipped string // reason narration-only audio was used, empty when music was mixed
}

func New(cfg *config.Config, runner ffmpeg.Runner) (*Composer, error) {
	synth, err := clips.NewSynthesizer(runner, cfg)
	if err != nil {
		return nil, err
	}
	return &Composer{
		cfg:    cfg,
		runner: runner,
		clips:  synth,
		music:  music.NewGenerator(runner, cfg),
		state:  StateIdle,
	}, nil
}

// State reports the current pipeline position of the last/ongoing run.
func (c *Composer) State() State { return c.state }

// Run composes the manifest into one video under the output directory.
// All intermediates live in a per-run workspace that is removed on every
// exit path; the final artifact appears only after it has been verified
// non-empty.
func (c *Composer) Run(ctx context.Context, m *types.Manifest, runID string) (*Result, error) {
	if err := types.ValidateSegments(m.Segments); err != nil {
		return nil, err
	}
	plan, err := timing.NewPlan(m.Segments, c.cfg.Audio.SpeedFactor)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.cfg.Paths.Output, 0755); err != nil {
		return nil, err
	}
	ws, err := newWorkspace(c.cfg.Paths.Output, runID)
	if err != nil {
		return nil, err
	}
	defer ws.cleanup()

	// Stage A: per-segment clips, independent and parallel
	c.state = StateSynthesizingClips
	log.Printf("[compose] Synthesizing %d clips (workers: %d, speed factor: %.2f)...",
		len(m.Segments), c.cfg.Video.RenderWorkers, plan.SpeedFactor)

	rendered := make([]types.RenderedClip, len(m.Segments))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.cfg.Video.RenderWorkers)
	for i, seg := range m.Segments {
		i, seg := i, seg
		group.Go(func() error {
			clip, err := c.clips.Synthesize(groupCtx, seg, plan.ClipDurations[i], ws.dir)
			if err != nil {
				return fmt.Errorf("segment %d: %w", seg.Index, err)
			}
			rendered[i] = clip
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, c.fail(StateSynthesizingClips, ErrClipSynthesis, err)
	}

	// Stage B: concatenate into one silent track
	c.state = StateConcatenatingVideo
	log.Printf("[compose] Concatenating %d clips...", len(rendered))
	silentVideo, err := c.concatClips(ctx, rendered, ws)
	if err != nil {
		return nil, c.fail(StateConcatenatingVideo, ErrConcatenation, err)
	}

	// Stage C: narration track
	c.state = StateConcatenatingAudio
	log.Printf("[compose] Concatenating narration audio...")
	narration, err := c.concatAudio(ctx, m.Segments, ws)
	if err != nil {
		return nil, c.fail(StateConcatenatingAudio, ErrAudioMix, err)
	}

	var assFile string
	var events []types.CaptionEvent
	if c.cfg.Subtitles.Enabled {
		c.state = StateBuildingSubtitles
		events = subtitles.BuildEvents(m.Segments, plan)
		log.Printf("[compose] Built %d caption events", len(events))

		width, height, resErr := c.cfg.Resolution()
		if resErr != nil {
			return nil, c.fail(StateBuildingSubtitles, ErrSubtitleBuild, resErr)
		}
		assFile = ws.path("subtitles.ass")
		style := subtitles.Style{
			FontName: c.cfg.Subtitles.Font,
			FontSize: c.cfg.Subtitles.FontSize,
			PlayResX: width,
			PlayResY: height,
		}
		if err := subtitles.WriteASS(assFile, events, style); err != nil {
			return nil, c.fail(StateBuildingSubtitles, ErrSubtitleBuild, err)
		}
	}

	outcome := c.music.Prepare(ctx, plan.TotalSec, ws.dir, runID)
	if !outcome.HasTrack() {
		log.Printf("[compose] Proceeding without background music: %s", outcome.SkipReason)
	}

	c.state = StateFinalMux
	log.Printf("[compose] Final mux...")
	finalPath, err := c.finalMux(ctx, silentVideo, narration, assFile, outcome, plan, ws, runID)
	if err != nil {
		return nil, c.fail(StateFinalMux, ErrFinalMux, err)
	}

	c.state = StateDone
	log.Printf("[compose] Final video ready: %s (%.1fs)", finalPath, plan.TotalSec)
	return &Result{
		Path:         finalPath,
		DurationSec:  plan.TotalSec,
		CaptionCount: len(events),
		MusicSkipped: outcome.SkipReason,
	}, nil
}

func (c *Composer) fail(stage State, kind, cause error) error {
	c.state = StateFailed
	return newStageError(stage, kind, cause)
}

// concatClips joins the rendered clips in segment order. Concatenation
// re-encodes rather than stream-copies: still-image clips and looped
// video clips come from different source encodings, and a uniform frame
// rate and keyframe spacing prevent stutter at clip boundaries.
func (c *Composer) concatClips(ctx context.Context, rendered []types.RenderedClip, ws *workspace) (string, error) {
	var paths []string
	for _, clip := range rendered {
		paths = append(paths, clip.Path)
	}
	listFile := ws.path("clips_concat.txt")
	if err := writeConcatList(listFile, paths); err != nil {
		return "", err
	}

	outFile := ws.path("video_silent.mp4")
	fps := fmt.Sprintf("%d", c.cfg.Video.FPS)
	err := c.runner.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-vsync", "cfr",
		"-r", fps,
		"-preset", "medium",
		"-crf", "23",
		"-movflags", "+faststart",
		"-an",
		outFile,
	)
	if err != nil {
		return "", err
	}
	return outFile, verifyNonEmpty(outFile)
}

// concatAudio joins all narration files in exact segment order, no gaps.
// Tempo and volume are applied later in the mux so the scaling stays tied
// to the one SpeedFactor value.
func (c *Composer) concatAudio(ctx context.Context, segments []types.Segment, ws *workspace) (string, error) {
	var paths []string
	for _, seg := range segments {
		paths = append(paths, seg.AudioPath)
	}
	listFile := ws.path("audio_concat.txt")
	if err := writeConcatList(listFile, paths); err != nil {
		return "", err
	}

	outFile := ws.path("narration.mp3")
	err := c.runner.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outFile,
	)
	if err != nil {
		return "", err
	}
	return outFile, verifyNonEmpty(outFile)
}

// finalMux burns subtitles and overlays into the concatenated video,
// applies tempo and volume to the narration, optionally mixes music with
// a longest-track policy, and writes the verified final artifact.
func (c *Composer) finalMux(ctx context.Context, videoFile, audioFile, assFile string, outcome music.Outcome, plan timing.Plan, ws *workspace, runID string) (string, error) {
	width, height, err := c.cfg.Resolution()
	if err != nil {
		return "", err
	}

	iconFile, err := c.prepareIcon(ctx, ws)
	if err != nil {
		return "", err
	}

	args := []string{"-i", videoFile, "-i", audioFile}
	musicInput := -1
	if outcome.HasTrack() {
		musicInput = 2
		args = append(args, "-i", outcome.Path)
	}
	iconInput := 2
	if musicInput >= 0 {
		iconInput = 3
	}
	args = append(args, "-loop", "1", "-i", iconFile)

	// video: subtitles, frame bars, rotating icon overlay
	videoChain := ffmpeg.Chain{}
	if assFile != "" {
		videoChain = append(videoChain,
			ffmpeg.NewFilter("subtitles").Arg("", "'"+ffmpeg.EscapePath(assFile)+"'"))
	}
	videoChain = append(videoChain, frameBars(width, height)...)

	graph := ffmpeg.Graph{
		{
			Inputs:  []string{"0:v"},
			Chain:   videoChain,
			Outputs: []string{"framed"},
		},
		{
			Inputs: []string{fmt.Sprintf("%d:v", iconInput)},
			Chain: ffmpeg.Chain{
				ffmpeg.NewFilter("rotate").
					Expr("", "t*2*PI/3").
					Arg("fillcolor", "none"),
			},
			Outputs: []string{"spin"},
		},
		{
			Inputs: []string{"framed", "spin"},
			Chain: ffmpeg.Chain{
				ffmpeg.NewFilter("overlay").
					ArgInt("x", 70).
					ArgInt("y", height-250).
					ArgInt("shortest", 1),
			},
			Outputs: []string{"vout"},
		},
	}

	// narration: one uniform tempo change plus a fixed volume boost
	voiceChain := ffmpeg.Chain{
		ffmpeg.NewFilter("volume").Argf("", "%.2f", c.cfg.Audio.VolumeBoost),
		ffmpeg.NewFilter("atempo").Argf("", "%.3f", plan.SpeedFactor),
	}
	if outcome.HasTrack() {
		graph = append(graph,
			ffmpeg.Link{
				Inputs:  []string{"1:a"},
				Chain:   voiceChain,
				Outputs: []string{"voice"},
			},
			ffmpeg.Link{
				Inputs: []string{fmt.Sprintf("%d:a", musicInput)},
				Chain: ffmpeg.Chain{
					ffmpeg.NewFilter("volume").Argf("", "%.3f", c.cfg.Music.Volume),
				},
				Outputs: []string{"bgm"},
			},
			ffmpeg.Link{
				Inputs: []string{"voice", "bgm"},
				// longest keeps the music bed through the sped-up
				// narration's full reconciled duration
				Chain: ffmpeg.Chain{
					ffmpeg.NewFilter("amix").
						ArgInt("inputs", 2).
						Arg("duration", "longest"),
				},
				Outputs: []string{"aout"},
			},
		)
	} else {
		graph = append(graph, ffmpeg.Link{
			Inputs:  []string{"1:a"},
			Chain:   voiceChain,
			Outputs: []string{"aout"},
		})
	}

	tmpFile := ws.path("final.tmp.mp4")
	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		tmpFile,
	)

	if err := c.runner.Run(ctx, args...); err != nil {
		return "", err
	}

	finalPath := filepath.Join(c.cfg.Paths.Output, fmt.Sprintf("shorts_%s.mp4", runID))
	if err := ws.finalize(tmpFile, finalPath); err != nil {
		return "", err
	}
	return finalPath, nil
}

// frameBars draws the sky-blue framing bars on all four edges.
func frameBars(width, height int) ffmpeg.Chain {
	bar := func(x, y int, w, h string) *ffmpeg.Filter {
		return ffmpeg.NewFilter("drawbox").
			ArgInt("x", x).ArgInt("y", y).
			Arg("w", w).Arg("h", h).
			Arg("color", "0x87CEEB").Arg("t", "fill")
	}
	wide := fmt.Sprintf("%d", frameBarWidth)
	return ffmpeg.Chain{
		bar(0, 0, "iw", wide),
		bar(0, height-frameBarWidth, "iw", wide),
		bar(0, 0, wide, "ih"),
		bar(width-frameBarWidth, 0, wide, "ih"),
	}
}

func writeConcatList(listFile string, paths []string) error {
	var lines []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		// concat demuxer quoting: a literal ' closes the string, emits
		// an escaped quote and reopens it
		lines = append(lines, fmt.Sprintf("file '%s'", strings.ReplaceAll(abs, "'", `'\''`)))
	}
	return os.WriteFile(listFile, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func verifyNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output %s missing: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output %s is empty", path)
	}
	return nil
}
