package clips

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"news-shorts-pipeline/config"
	"news-shorts-pipeline/ffmpeg"
	"news-shorts-pipeline/types"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true,
	".mkv": true, ".webm": true, ".flv": true,
}

// Synthesizer renders one silent clip per segment at a fixed resolution
// and constant frame rate, with the segment title burned in.
type Synthesizer struct {
	runner   ffmpeg.Runner
	width    int
	height   int
	fps      int
	fontFile string
}

// NewSynthesizer creates a Synthesizer for the configured output geometry.
func NewSynthesizer(runner ffmpeg.Runner, cfg *config.Config) (*Synthesizer, error) {
	width, height, err := cfg.Resolution()
	if err != nil {
		return nil, err
	}
	return &Synthesizer{
		runner:   runner,
		width:    width,
		height:   height,
		fps:      cfg.Video.FPS,
		fontFile: cfg.Subtitles.FontFile,
	}, nil
}

// Synthesize produces a clip of exactly targetDuration seconds for one
// segment. Still images get a pan/zoom motion path; video sources are
// looped or trimmed to the target. The clip is always silent.
func (s *Synthesizer) Synthesize(ctx context.Context, seg types.Segment, targetDuration float64, outputDir string) (types.RenderedClip, error) {
	outFile := filepath.Join(outputDir, fmt.Sprintf("clip_%03d.mp4", seg.Index))
	title := TruncateTitle(seg.Title)

	var err error
	if isVideoFile(seg.VisualSource) {
		err = s.fromVideo(ctx, seg.VisualSource, title, targetDuration, outFile)
	} else {
		err = s.fromImage(ctx, seg, title, targetDuration, outFile)
	}
	if err != nil {
		return types.RenderedClip{}, err
	}

	return types.RenderedClip{
		SegmentIndex: seg.Index,
		Path:         outFile,
		DurationSec:  targetDuration,
	}, nil
}

// fromImage animates a still image with the segment's motion pattern for
// the full clip duration.
func (s *Synthesizer) fromImage(ctx context.Context, seg types.Segment, title string, duration float64, outFile string) error {
	totalFrames := int(duration * float64(s.fps))

	chain := motionChain(seg.Index, totalFrames, s.width, s.height, s.fps)
	chain = append(chain,
		ffmpeg.NewFilter("trim").Argf("duration", "%.3f", duration),
		ffmpeg.NewFilter("setpts").Arg("", "PTS-STARTPTS"),
	)
	chain = append(chain, titleChain(title, s.fontFile, s.width)...)

	args := []string{
		"-loop", "1",
		"-i", seg.VisualSource,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", chain.String(),
	}
	args = append(args, s.encodeArgs()...)
	args = append(args, outFile)

	return s.runner.Run(ctx, args...)
}

// fromVideo loops a short source from the start until the target duration
// is covered, then trims to the exact target; longer sources are trimmed
// from the start. The last fractional loop is trimmed rather than
// rounded, so no duration gap appears.
func (s *Synthesizer) fromVideo(ctx context.Context, source, title string, duration float64, outFile string) error {
	nativeDuration, err := s.runner.Probe(ctx, source)
	if err != nil {
		return fmt.Errorf("probe %s: %w", source, err)
	}
	if nativeDuration <= 0 {
		return fmt.Errorf("source %s has no measurable duration", source)
	}

	chain := fillChain(s.width, s.height)
	chain = append(chain, titleChain(title, s.fontFile, s.width)...)

	var args []string
	if nativeDuration < duration {
		loops := int(duration/nativeDuration) + 1
		args = append(args, "-stream_loop", fmt.Sprintf("%d", loops))
	}
	args = append(args,
		"-i", source,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", chain.String(),
	)
	args = append(args, s.encodeArgs()...)
	args = append(args, outFile)

	return s.runner.Run(ctx, args...)
}

// encodeArgs fixes the frame rate and forces a keyframe at time zero so
// downstream concatenation never stutters at clip boundaries.
func (s *Synthesizer) encodeArgs() []string {
	fps := fmt.Sprintf("%d", s.fps)
	return []string{
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-r", fps,
		"-vsync", "cfr",
		"-g", fps,
		"-keyint_min", fps,
		"-force_key_frames", "expr:gte(t,0)",
		"-an",
	}
}

func isVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
