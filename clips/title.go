package clips

import (
	"news-shorts-pipeline/ffmpeg"
)

const (
	titleFontSize = 80
	// titleMaxRunes keeps the overlay inside its fixed box on every
	// aspect ratio; longer titles are cut with an ellipsis.
	titleMaxRunes = 10
)

// TruncateTitle enforces the title character budget.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleMaxRunes {
		return title
	}
	return string(runes[:titleMaxRunes]) + "..."
}

// titleChain renders the title banner: sky-blue trim bars around a dark
// band, then a layered glow+outline text composite (two faint glow
// layers, a heavily bordered main layer, one highlight layer) so the
// text stays legible on any background.
func titleChain(title, fontFile string, width int) ffmpeg.Chain {
	text := func(color string, y int, extra func(*ffmpeg.Filter)) *ffmpeg.Filter {
		f := ffmpeg.NewFilter("drawtext").
			Text("text", title).
			Arg("fontfile", fontFile).
			ArgInt("fontsize", titleFontSize).
			Arg("fontcolor", color).
			Arg("x", "(w-text_w)/2").
			ArgInt("y", y)
		if extra != nil {
			extra(f)
		}
		return f
	}

	return ffmpeg.Chain{
		ffmpeg.NewFilter("drawbox").
			ArgInt("y", 0).Arg("color", "0x87CEEB").
			ArgInt("width", width).ArgInt("height", 40).Arg("t", "fill"),
		ffmpeg.NewFilter("drawbox").
			ArgInt("y", 40).Arg("color", "0x3a3a3a").
			ArgInt("width", width).ArgInt("height", 360).Arg("t", "fill"),
		ffmpeg.NewFilter("drawbox").
			ArgInt("y", 400).Arg("color", "0x87CEEB").
			ArgInt("width", width).ArgInt("height", 40).Arg("t", "fill"),
		// outer glow
		text("yellow@0.3", 218, func(f *ffmpeg.Filter) { f.ArgInt("borderw", 0) }),
		text("yellow@0.2", 216, func(f *ffmpeg.Filter) { f.ArgInt("borderw", 0) }),
		// main text with bold outline
		text("white", 222, func(f *ffmpeg.Filter) {
			f.ArgInt("borderw", 5).Arg("bordercolor", "black@0.9")
		}),
		// inner highlight
		text("white", 220, nil),
	}
}
