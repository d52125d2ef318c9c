package timing

import (
	"math"
	"testing"

	"news-shorts-pipeline/types"
)

func segmentsWithDurations(durations ...float64) []types.Segment {
	segs := make([]types.Segment, len(durations))
	for i, d := range durations {
		segs[i] = types.Segment{
			Index:            i + 1,
			Text:             "본문",
			Title:            "제목",
			VisualSource:     "img.jpg",
			AudioPath:        "audio.mp3",
			AudioDurationSec: d,
		}
	}
	return segs
}

func TestNewPlanDividesEachSegmentUniformly(t *testing.T) {
	plan, err := NewPlan(segmentsWithDurations(4.0, 6.0, 5.0), 1.2)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	want := []float64{4.0 / 1.2, 5.0, 5.0 / 1.2}
	for i, got := range plan.ClipDurations {
		if math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("clip %d duration = %.4f, want %.4f", i+1, got, want[i])
		}
	}
	if math.Abs(plan.TotalSec-12.5) > 1e-9 {
		t.Errorf("total = %.4f, want 12.5", plan.TotalSec)
	}
	if plan.SpeedFactor != 1.2 {
		t.Errorf("speed factor = %v, want 1.2", plan.SpeedFactor)
	}
}

func TestNewPlanTotalsMatchSumOfClips(t *testing.T) {
	plan, err := NewPlan(segmentsWithDurations(3.2, 4.7, 2.1, 8.8), 1.5)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	sum := 0.0
	for _, d := range plan.ClipDurations {
		sum += d
	}
	if math.Abs(sum-plan.TotalSec) > 1e-9 {
		t.Errorf("sum of clips %.6f != total %.6f", sum, plan.TotalSec)
	}
}

func TestNewPlanIsDeterministic(t *testing.T) {
	segs := segmentsWithDurations(4.0, 6.0, 5.0)
	first, err := NewPlan(segs, 1.2)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	second, err := NewPlan(segs, 1.2)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if first.TotalSec != second.TotalSec {
		t.Errorf("totals differ across identical runs: %v vs %v", first.TotalSec, second.TotalSec)
	}
	for i := range first.ClipDurations {
		if first.ClipDurations[i] != second.ClipDurations[i] {
			t.Errorf("clip %d differs across identical runs", i+1)
		}
	}
}

func TestNewPlanRejectsBadInputs(t *testing.T) {
	if _, err := NewPlan(segmentsWithDurations(4.0), 0); err == nil {
		t.Error("expected error for zero speed factor")
	}
	if _, err := NewPlan(segmentsWithDurations(4.0), -1.2); err == nil {
		t.Error("expected error for negative speed factor")
	}
	segs := segmentsWithDurations(4.0)
	segs[0].AudioDurationSec = 0
	if _, err := NewPlan(segs, 1.2); err == nil {
		t.Error("expected error for zero audio duration")
	}
}

func TestClipDurationUsesOneBasedIndex(t *testing.T) {
	plan, err := NewPlan(segmentsWithDurations(2.4, 3.6), 1.2)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if got := plan.ClipDuration(1); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("ClipDuration(1) = %v, want 2.0", got)
	}
	if got := plan.ClipDuration(2); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("ClipDuration(2) = %v, want 3.0", got)
	}
}
