package types

import "fmt"

// Segment is one narrated unit: text, a visual source and its narration
// audio. Produced upstream (script segmentation + TTS) and never mutated
// by the composition engine.
type Segment struct {
	Index            int     `json:"index"`
	Text             string  `json:"text"`
	Title            string  `json:"title"`
	VisualSource     string  `json:"visual_source"`
	AudioPath        string  `json:"audio_path"`
	AudioDurationSec float64 `json:"audio_duration_sec"`
}

// RenderedClip is one silent, fixed-duration video clip produced from a
// segment. Audio is composed separately and merged at the final stage.
type RenderedClip struct {
	SegmentIndex int     `json:"segment_index"`
	Path         string  `json:"path"`
	DurationSec  float64 `json:"duration_sec"`
}

// CaptionEvent is one timed subtitle display unit of one or two lines.
type CaptionEvent struct {
	StartSec float64  `json:"start_sec"`
	EndSec   float64  `json:"end_sec"`
	Lines    []string `json:"lines"`
}

// Timeline is the full ordered composition for one output video. It
// exists only for the duration of a single run and is never persisted.
type Timeline struct {
	Clips     []RenderedClip
	Captions  []CaptionEvent
	AudioPath string
	MusicPath string
}

// ValidateSegments checks the manifest invariants: contiguous 1-based
// indices and positive audio durations.
func ValidateSegments(segments []Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments provided")
	}
	for i, seg := range segments {
		if seg.Index != i+1 {
			return fmt.Errorf("segment %d: index %d is not contiguous (want %d)", i, seg.Index, i+1)
		}
		if seg.AudioDurationSec <= 0 {
			return fmt.Errorf("segment %d: audio duration %.3f must be positive", seg.Index, seg.AudioDurationSec)
		}
		if seg.VisualSource == "" {
			return fmt.Errorf("segment %d: visual source is empty", seg.Index)
		}
		if seg.AudioPath == "" {
			return fmt.Errorf("segment %d: audio path is empty", seg.Index)
		}
	}
	return nil
}
