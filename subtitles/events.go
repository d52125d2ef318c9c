package subtitles

import (
	"strings"
	"unicode/utf8"

	"news-shorts-pipeline/timing"
	"news-shorts-pipeline/types"
)

const (
	// maxTokensPerCaption caps one caption at 4 tokens across 2 lines.
	maxTokensPerCaption = 4
	// maxLineRunes keeps lines compact so the renderer never re-wraps
	// and splits a token mid-way.
	maxLineRunes = 12
)

// BuildEvents converts the full segment list into caption events timed
// against the reconciled plan. Events are emitted in segment order with
// zero gap between consecutive captions, within and across segments.
func BuildEvents(segments []types.Segment, plan timing.Plan) []types.CaptionEvent {
	var events []types.CaptionEvent
	clock := 0.0

	for i, seg := range segments {
		tokens := strings.Fields(NormalizeForDisplay(seg.Text))
		if len(tokens) == 0 {
			// nothing to show; the subtitle track is keyed only by
			// segment order, so the caption clock stays put
			continue
		}

		segDuration := plan.ClipDurations[i]
		timePerToken := segDuration / float64(len(tokens))

		for start := 0; start < len(tokens); start += maxTokensPerCaption {
			end := start + maxTokensPerCaption
			if end > len(tokens) {
				end = len(tokens)
			}
			chunk := tokens[start:end]

			eventEnd := clock + timePerToken*float64(len(chunk))
			events = append(events, types.CaptionEvent{
				StartSec: clock,
				EndSec:   eventEnd,
				Lines:    splitLines(chunk),
			})
			clock = eventEnd
		}
	}
	return events
}

// ChunkCount reports how many caption events a narration text yields.
func ChunkCount(text string) int {
	tokens := len(strings.Fields(NormalizeForDisplay(text)))
	if tokens == 0 {
		return 0
	}
	return (tokens + maxTokensPerCaption - 1) / maxTokensPerCaption
}

// splitLines lays a chunk of tokens out as one or two display lines. Tokens are
// never split: the split point moves at token boundaries only. Line 1
// starts with the upper half and sheds trailing tokens to line 2 until it
// fits the rune budget or holds a single token.
func splitLines(chunk []string) []string {
	if len(chunk) == 1 {
		return []string{chunk[0]}
	}

	mid := (len(chunk) + 1) / 2
	line1 := append([]string(nil), chunk[:mid]...)
	line2 := append([]string(nil), chunk[mid:]...)

	for lineWidth(line1) > maxLineRunes && len(line1) > 1 {
		last := line1[len(line1)-1]
		line1 = line1[:len(line1)-1]
		line2 = append([]string{last}, line2...)
	}

	if len(line1) == 0 || len(line2) == 0 {
		return []string{strings.Join(chunk, " ")}
	}
	return []string{strings.Join(line1, " "), strings.Join(line2, " ")}
}

func lineWidth(tokens []string) int {
	return utf8.RuneCountInString(strings.Join(tokens, " "))
}
