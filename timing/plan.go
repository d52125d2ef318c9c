// Package timing reconciles narration audio durations with on-screen clip
// durations through a single uniform speed factor.
package timing

import (
	"fmt"

	"news-shorts-pipeline/types"
)

// Plan is the reconciled timing for one composition run. The same
// SpeedFactor value scales the narration tempo, every clip's duration and
// every subtitle timestamp; it is computed once and passed by value.
type Plan struct {
	SpeedFactor   float64
	ClipDurations []float64 // per segment, in segment order
	TotalSec      float64
}

// NewPlan derives per-segment on-screen durations from the configured
// speed factor. The factor is a fixed pacing choice (narration always
// plays faster than recorded); audio and video lengths match by
// construction, so no iterative fitting happens here.
func NewPlan(segments []types.Segment, speedFactor float64) (Plan, error) {
	if speedFactor <= 0 {
		return Plan{}, fmt.Errorf("speed factor must be positive, got %.3f", speedFactor)
	}
	plan := Plan{
		SpeedFactor:   speedFactor,
		ClipDurations: make([]float64, len(segments)),
	}
	for i, seg := range segments {
		if seg.AudioDurationSec <= 0 {
			return Plan{}, fmt.Errorf("segment %d: audio duration %.3f must be positive", seg.Index, seg.AudioDurationSec)
		}
		d := seg.AudioDurationSec / speedFactor
		plan.ClipDurations[i] = d
		plan.TotalSec += d
	}
	return plan, nil
}

// ClipDuration returns the on-screen duration for a 1-based segment index.
func (p Plan) ClipDuration(segmentIndex int) float64 {
	return p.ClipDurations[segmentIndex-1]
}
