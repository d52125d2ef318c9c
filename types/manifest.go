package types

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest is the input contract handed to the composition engine: an
// ordered segment list produced by the upstream segmenter + TTS stages.
type Manifest struct {
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// LoadManifest reads and validates a segment manifest JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := ValidateSegments(m.Segments); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}
