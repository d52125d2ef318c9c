package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"news-shorts-pipeline/subtitles"
	"news-shorts-pipeline/timing"
	"news-shorts-pipeline/types"
)

// plan shows the reconciled timeline without rendering anything.
func newPlanCommand(configFlag *string) *cobra.Command {
	var manifestFlag string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the reconciled timeline for a manifest (dry run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			manifest, err := types.LoadManifest(manifestFlag)
			if err != nil {
				return err
			}
			plan, err := timing.NewPlan(manifest.Segments, cfg.Audio.SpeedFactor)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(manifest.Segments))
			captionTotal := 0
			for i, seg := range manifest.Segments {
				captions := subtitles.ChunkCount(seg.Text)
				captionTotal += captions
				rows = append(rows, []string{
					fmt.Sprintf("%d", seg.Index),
					seg.Title,
					fmt.Sprintf("%.2f", seg.AudioDurationSec),
					fmt.Sprintf("%.2f", plan.ClipDurations[i]),
					fmt.Sprintf("%d", captions),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Title", "Audio s", "Clip s", "Captions"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(),
				"Speed factor %.2f, total duration %.2fs, %d captions\n",
				plan.SpeedFactor, plan.TotalSec, captionTotal)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFlag, "manifest", "m", "", "Segment manifest JSON path")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
