package subtitles

import (
	"fmt"
	"os"
	"strings"

	"news-shorts-pipeline/types"
)

// Style is the fixed caption look: white text in a dark semi-transparent
// box, bottom-anchored with generous margins for vertical video.
type Style struct {
	FontName string
	FontSize int
	PlayResX int
	PlayResY int
}

// WriteASS writes the externally-loadable subtitle descriptor. The file
// is an intermediate artifact: it gets burned into the video at the final
// mux and deleted afterwards.
func WriteASS(path string, events []types.CaptionEvent, style Style) error {
	var b strings.Builder

	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", style.PlayResX)
	fmt.Fprintf(&b, "PlayResY: %d\n", style.PlayResY)
	b.WriteString("WrapStyle: 1\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	// white primary, dark gray outline and box, BorderStyle 3 (opaque box),
	// Spacing 5 for readability, bottom-center with a tall vertical margin
	fmt.Fprintf(&b, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00282828,&H00282828,0,0,0,0,100,100,5,0,3,6,2,2,60,60,820,1\n\n",
		style.FontName, style.FontSize)

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, ev := range events {
		text := strings.Join(ev.Lines, `\N`)
		// hard spaces pad the text inside the opaque box
		text = `\h\h` + text + `\h\h`
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatTime(ev.StartSec), formatTime(ev.EndSec), text)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// formatTime renders seconds as an ASS timestamp (H:MM:SS.CC).
func formatTime(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	centis := int((seconds - float64(int(seconds))) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}
