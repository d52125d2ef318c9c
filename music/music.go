// Package music prepares the optional background-music track. Failures
// here never abort a composition run: the stage reports an explicit
// outcome and the final mux branches on it.
package music

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"news-shorts-pipeline/config"
	"news-shorts-pipeline/ffmpeg"
)

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".aac", ".ogg"}

// Outcome is the result of the music stage: either a prepared track or a
// reason it was skipped. Exactly one of the fields is set.
type Outcome struct {
	Path       string
	SkipReason string
}

// HasTrack reports whether a music track is available for mixing.
func (o Outcome) HasTrack() bool { return o.Path != "" }

// Generator prepares a background track matching the reconciled total
// duration: a library file looped/trimmed with a fade-out, or a synthetic
// fallback when the library is empty.
type Generator struct {
	runner     ffmpeg.Runner
	enabled    bool
	libraryDir string
}

func NewGenerator(runner ffmpeg.Runner, cfg *config.Config) *Generator {
	return &Generator{
		runner:     runner,
		enabled:    cfg.Music.Enabled,
		libraryDir: cfg.Music.LibraryDir,
	}
}

// Prepare returns a track of exactly the requested duration, or a skipped
// outcome describing why composition proceeds narration-only. The seed
// keeps the library pick stable for a given run ID.
func (g *Generator) Prepare(ctx context.Context, duration float64, outputDir, seed string) Outcome {
	if !g.enabled {
		return Outcome{SkipReason: "background music disabled"}
	}

	outFile := filepath.Join(outputDir, "bgm.mp3")

	files := g.libraryFiles()
	if len(files) > 0 {
		source := files[pickIndex(seed, len(files))]
		log.Printf("[music] Using library track %s (%.1fs)", filepath.Base(source), duration)
		if err := g.prepareFile(ctx, source, duration, outFile); err != nil {
			log.Printf("[music] Library track preparation failed: %v", err)
			return Outcome{SkipReason: fmt.Sprintf("prepare %s: %v", filepath.Base(source), err)}
		}
		return Outcome{Path: outFile}
	}

	log.Printf("[music] No library tracks in %s, generating synthetic bed (%.1fs)", g.libraryDir, duration)
	if err := g.synthesize(ctx, duration, outFile); err != nil {
		log.Printf("[music] Synthetic generation failed: %v", err)
		return Outcome{SkipReason: fmt.Sprintf("synthetic generation: %v", err)}
	}
	return Outcome{Path: outFile}
}

// prepareFile loops the source indefinitely, trims to the exact duration
// and fades out over the last two seconds.
func (g *Generator) prepareFile(ctx context.Context, source string, duration float64, outFile string) error {
	fadeStart := duration - 2
	if fadeStart < 0 {
		fadeStart = 0
	}
	fade := ffmpeg.NewFilter("afade").
		Arg("t", "out").
		Argf("st", "%.3f", fadeStart).
		ArgInt("d", 2)

	err := g.runner.Run(ctx,
		"-stream_loop", "-1",
		"-i", source,
		"-t", fmt.Sprintf("%.3f", duration),
		"-af", fade.String(),
		"-c:a", "libmp3lame",
		"-b:a", "192k",
		outFile,
	)
	if err != nil {
		return err
	}
	return verifyNonEmpty(outFile)
}

// synthesize layers sine waves into a simple harmonic bed: bass
// foundation, mid melody tones, high shimmer and a faster pulse.
func (g *Generator) synthesize(ctx context.Context, duration float64, outFile string) error {
	frequencies := []int{110, 220, 330, 440, 660, 880, 165}

	var args []string
	for _, freq := range frequencies {
		args = append(args, "-f", "lavfi", "-i",
			fmt.Sprintf("sine=frequency=%d:duration=%.3f", freq, duration))
	}

	layer := func(input int, label string, volume float64) ffmpeg.Link {
		return ffmpeg.Link{
			Inputs:  []string{fmt.Sprintf("%d:a", input)},
			Chain:   ffmpeg.Chain{ffmpeg.NewFilter("volume").Argf("", "%.2f", volume)},
			Outputs: []string{label},
		}
	}

	graph := ffmpeg.Graph{
		layer(0, "bass", 0.20),
		layer(1, "mid1", 0.25),
		layer(2, "mid2", 0.25),
		layer(3, "mid3", 0.25),
		layer(4, "high1", 0.15),
		layer(5, "high2", 0.15),
		{
			Inputs: []string{"6:a"},
			Chain: ffmpeg.Chain{
				ffmpeg.NewFilter("atempo").Arg("", "1.5"),
				ffmpeg.NewFilter("volume").Arg("", "0.10"),
			},
			Outputs: []string{"pulse"},
		},
		{
			Inputs: []string{"bass", "mid1", "mid2", "mid3", "high1", "high2", "pulse"},
			Chain: ffmpeg.Chain{
				ffmpeg.NewFilter("amix").
					ArgInt("inputs", 7).
					Arg("duration", "longest").
					ArgInt("dropout_transition", 3),
				ffmpeg.NewFilter("volume").Arg("", "1.0"),
				ffmpeg.NewFilter("highpass").Arg("f", "80"),
				ffmpeg.NewFilter("lowpass").Arg("f", "8000"),
			},
		},
	}

	args = append(args,
		"-filter_complex", graph.String(),
		"-c:a", "libmp3lame",
		"-b:a", "192k",
		outFile,
	)

	if err := g.runner.Run(ctx, args...); err != nil {
		return err
	}
	return verifyNonEmpty(outFile)
}

func (g *Generator) libraryFiles() []string {
	entries, err := os.ReadDir(g.libraryDir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range audioExtensions {
			if ext == want {
				files = append(files, filepath.Join(g.libraryDir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files
}

// pickIndex hashes the seed so the same run always picks the same track.
func pickIndex(seed string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return int(h.Sum32() % uint32(n))
}

func verifyNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("prepared music file %s is empty", path)
	}
	return nil
}
