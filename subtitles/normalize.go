// Package subtitles converts segment narration into precisely-timed,
// line-wrapped caption events and writes the ASS descriptor the final mux
// burns in.
package subtitles

import "regexp"

// The narration text is TTS-oriented: numerals and units arrive spelled
// out so the voice reads them naturally. On screen the compact symbolic
// form reads better, so captions reverse that normalization before
// tokenization. Order matters; earlier rules win.
var displayRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	// units
	{regexp.MustCompile(`퍼센트`), "%"},
	{regexp.MustCompile(`달러`), "$"},
	// 원 is currency only after a digit or magnitude word and at a word
	// boundary; ordinary words like 원인 or 병원 stay intact
	{regexp.MustCompile(`(\d+)\s*원($|[\s,.])`), "${1}₩${2}"},
	{regexp.MustCompile(`(억|만|천|백)\s*원($|[\s,.])`), "${1}₩${2}"},

	// spoken decimals
	{regexp.MustCompile(`일점오`), "1.5"},
	{regexp.MustCompile(`이점오`), "2.5"},
	{regexp.MustCompile(`삼점오`), "3.5"},
	{regexp.MustCompile(`사점오`), "4.5"},
	{regexp.MustCompile(`오점오`), "5.5"},
	{regexp.MustCompile(`육점오`), "6.5"},
	{regexp.MustCompile(`칠점오`), "7.5"},
	{regexp.MustCompile(`팔점오`), "8.5"},
	{regexp.MustCompile(`구점오`), "9.5"},

	// keep digit + magnitude-word spacing tight
	{regexp.MustCompile(`(\d+)\s*억`), "${1}억"},
	{regexp.MustCompile(`(\d+)\s*만`), "${1}만"},

	// quarter references
	{regexp.MustCompile(`일\s*분기`), "1분기"},
	{regexp.MustCompile(`이\s*분기`), "2분기"},
	{regexp.MustCompile(`삼\s*분기`), "3분기"},
	{regexp.MustCompile(`사\s*분기`), "4분기"},

	// common magnitude words
	{regexp.MustCompile(`십억`), "10억"},
	{regexp.MustCompile(`백억`), "100억"},
	{regexp.MustCompile(`천억`), "1000억"},
	{regexp.MustCompile(`일조`), "1조"},
}

// NormalizeForDisplay rewrites spelled-out numerals and units into their
// symbolic form. Runs before tokenization, so caption timing is computed
// on the normalized token counts.
func NormalizeForDisplay(text string) string {
	for _, rule := range displayRules {
		text = rule.re.ReplaceAllString(text, rule.repl)
	}
	return text
}
