// Package clips turns one segment's visual source into a silent,
// fixed-duration clip with motion and the title overlay baked in.
package clips

import (
	"fmt"

	"news-shorts-pipeline/ffmpeg"
)

// motionPattern is one pan/zoom path for still images. The source is
// pre-scaled well above the output size so the zoompan window always has
// pixels to move across.
type motionPattern struct {
	preScale string
	z        string
	x        string
	y        string
}

// Eight patterns alternating zoom-in focus moves and zoom-out reveals in
// different directions, so consecutive segments never repeat the same
// motion. Selection is a visual-variety heuristic, not correctness-critical.
var motionPatterns = []motionPattern{
	// zoom in + pan right
	{preScale: "3*iw:3*ih", z: "1.2+0.001*on", x: "iw/2-(iw/zoom/2)+on*1.5", y: "ih/2-(ih/zoom/2)"},
	// zoom out + pan left
	{preScale: "3*iw:3*ih", z: "1.5-0.001*on", x: "iw/2-(iw/zoom/2)-on*1.2", y: "ih/2-(ih/zoom/2)"},
	// zoom in + diagonal down-right
	{preScale: "3*iw:3*ih", z: "1.2+0.0012*on", x: "iw/2-(iw/zoom/2)+on*1", y: "ih/2-(ih/zoom/2)+on*0.7"},
	// zoom out + upward pan
	{preScale: "3*iw:3*ih", z: "1.5-0.001*on", x: "iw/2-(iw/zoom/2)", y: "ih/2-(ih/zoom/2)-on*1.3"},
	// strong zoom in + slow pan right
	{preScale: "3.5*iw:3.5*ih", z: "1.1+0.0015*on", x: "iw/2-(iw/zoom/2)+on*0.8", y: "ih/2-(ih/zoom/2)"},
	// zoom out + diagonal up-left
	{preScale: "3*iw:3*ih", z: "1.5-0.0012*on", x: "iw/2-(iw/zoom/2)-on*0.9", y: "ih/2-(ih/zoom/2)-on*0.8"},
	// moderate zoom in + downward pan
	{preScale: "3*iw:3*ih", z: "1.2+0.0008*on", x: "iw/2-(iw/zoom/2)", y: "ih/2-(ih/zoom/2)+on*1.1"},
	// zoom out + horizontal sweep
	{preScale: "3*iw:3*ih", z: "1.5-0.001*on", x: "iw/2-(iw/zoom/2)-on*1.6", y: "ih/2-(ih/zoom/2)"},
}

// PatternCount is the size of the motion pattern table.
func PatternCount() int { return len(motionPatterns) }

// motionChain builds the pan/zoom filter chain for a segment. The pattern
// is fixed by segment index modulo the table size, which varies visual
// rhythm across the video deterministically.
func motionChain(segmentIndex, totalFrames, width, height, fps int) ffmpeg.Chain {
	p := motionPatterns[segmentIndex%len(motionPatterns)]
	return ffmpeg.Chain{
		ffmpeg.NewFilter("scale").Arg("", p.preScale),
		ffmpeg.NewFilter("zoompan").
			Expr("z", p.z).
			Expr("x", p.x).
			Expr("y", p.y).
			ArgInt("d", totalFrames).
			Argf("s", "%dx%d", width, height).
			ArgInt("fps", fps),
	}
}

// fillChain scales and center-crops an arbitrary video source to fill the
// output frame.
func fillChain(width, height int) ffmpeg.Chain {
	return ffmpeg.Chain{
		ffmpeg.NewFilter("scale").
			Argf("", "%d:%d", width, height).
			Arg("force_original_aspect_ratio", "increase"),
		ffmpeg.NewFilter("crop").Arg("", fmt.Sprintf("%d:%d", width, height)),
	}
}
