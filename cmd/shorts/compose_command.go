package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"news-shorts-pipeline/compose"
	"news-shorts-pipeline/ffmpeg"
	"news-shorts-pipeline/types"
)

func newComposeCommand(configFlag *string) *cobra.Command {
	var manifestFlag string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Render a segment manifest into one final video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			manifest, err := types.LoadManifest(manifestFlag)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.Paths.Output, 0755); err != nil {
				return err
			}

			// One composition run per output directory at a time.
			lock := flock.New(filepath.Join(cfg.Paths.Output, ".compose.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire output lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another composition run is already using %s", cfg.Paths.Output)
			}
			defer func() { _ = lock.Unlock() }()

			runID := uuid.NewString()[:8]
			log.Printf("[shorts] Composing %q (run ID %s, %d segments)",
				manifest.Title, runID, len(manifest.Segments))

			composer, err := compose.New(cfg, ffmpeg.NewExec())
			if err != nil {
				return err
			}

			result, err := composer.Run(cmd.Context(), manifest, runID)
			if err != nil {
				var stageErr *compose.StageError
				if errors.As(err, &stageErr) && stageErr.Diagnostic != "" {
					log.Printf("[shorts] Encoder diagnostics (%s):\n%s", stageErr.Stage, stageErr.Diagnostic)
				}
				return err
			}

			log.Printf("[shorts] Done: %s (%.1fs, %d captions)",
				result.Path, result.DurationSec, result.CaptionCount)
			if result.MusicSkipped != "" {
				log.Printf("[shorts] Note: no background music (%s)", result.MusicSkipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFlag, "manifest", "m", "", "Segment manifest JSON path")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
