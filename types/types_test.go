package types

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validSegments() []Segment {
	return []Segment{
		{Index: 1, Text: "첫 문장", Title: "제목1", VisualSource: "a.jpg", AudioPath: "a.mp3", AudioDurationSec: 3.5},
		{Index: 2, Text: "둘째 문장", Title: "제목2", VisualSource: "b.mp4", AudioPath: "b.mp3", AudioDurationSec: 5.0},
	}
}

func TestValidateSegments(t *testing.T) {
	if err := ValidateSegments(validSegments()); err != nil {
		t.Errorf("valid segments rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func([]Segment) []Segment
	}{
		{"empty list", func(s []Segment) []Segment { return nil }},
		{"index gap", func(s []Segment) []Segment { s[1].Index = 3; return s }},
		{"zero-based index", func(s []Segment) []Segment { s[0].Index = 0; s[1].Index = 1; return s }},
		{"zero duration", func(s []Segment) []Segment { s[0].AudioDurationSec = 0; return s }},
		{"negative duration", func(s []Segment) []Segment { s[1].AudioDurationSec = -2; return s }},
		{"missing visual", func(s []Segment) []Segment { s[0].VisualSource = ""; return s }},
		{"missing audio", func(s []Segment) []Segment { s[1].AudioPath = ""; return s }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateSegments(tc.mutate(validSegments())); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	content := `{
  "title": "오늘의 뉴스",
  "segments": [
    {"index": 1, "text": "본문", "title": "제목", "visual_source": "a.jpg", "audio_path": "a.mp3", "audio_duration_sec": 4.2}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Title != "오늘의 뉴스" {
		t.Errorf("title = %q", m.Title)
	}
	if len(m.Segments) != 1 || m.Segments[0].AudioDurationSec != 4.2 {
		t.Errorf("segments = %+v", m.Segments)
	}
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "nope.json")
	if _, err := LoadManifest(missing); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(garbage); err == nil {
		t.Error("expected error for malformed JSON")
	}

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"title":"t","segments":[{"index":2,"audio_duration_sec":1,"visual_source":"v","audio_path":"a"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadManifest(invalid)
	if err == nil {
		t.Fatal("expected validation error for non-contiguous index")
	}
	if !strings.Contains(err.Error(), "invalid manifest") {
		t.Errorf("error should identify the manifest as invalid: %v", err)
	}
}
