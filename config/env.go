package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OverlayEnv applies environment variables on top of the file layer, so
// a deployment can tweak composition knobs without editing the config
// file. Unset variables leave the current value alone. The result is
// re-validated because the overlay can introduce bad settings.
func (c *Config) OverlayEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.EqualFold(strings.TrimSpace(v), "true")
		}
	}

	var err error
	setInt := func(key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || err != nil {
			return
		}
		n, parseErr := strconv.Atoi(strings.TrimSpace(v))
		if parseErr != nil {
			err = fmt.Errorf("%s: %w", key, parseErr)
			return
		}
		*dst = n
	}
	setFloat := func(key string, dst *float64) {
		v, ok := os.LookupEnv(key)
		if !ok || err != nil {
			return
		}
		f, parseErr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if parseErr != nil {
			err = fmt.Errorf("%s: %w", key, parseErr)
			return
		}
		*dst = f
	}

	setString("VIDEO_ASPECT_RATIO", &c.Video.AspectRatio)
	setInt("VIDEO_FPS", &c.Video.FPS)
	setInt("RENDER_WORKERS", &c.Video.RenderWorkers)
	setBool("ENABLE_SUBTITLES", &c.Subtitles.Enabled)
	setInt("SUBTITLE_FONT_SIZE", &c.Subtitles.FontSize)
	setBool("ENABLE_BACKGROUND_MUSIC", &c.Music.Enabled)
	setFloat("BACKGROUND_MUSIC_VOLUME", &c.Music.Volume)
	setString("BACKGROUND_MUSIC_DIR", &c.Music.LibraryDir)
	setString("OUTPUT_DIR", &c.Paths.Output)
	setString("ASSETS_DIR", &c.Paths.Assets)
	if err != nil {
		return err
	}

	return c.Validate()
}
