package compose

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
)

const iconSize = 180

// prepareIcon returns the rotating-logo source image: the channel logo
// from the assets directory scaled down, or a drawn fallback disc when no
// logo is installed.
func (c *Composer) prepareIcon(ctx context.Context, ws *workspace) (string, error) {
	out := ws.path("icon.png")

	logo := filepath.Join(c.cfg.Paths.Assets, "channel_logo.png")
	if _, err := os.Stat(logo); err == nil {
		scaleArgs := []string{
			"-i", logo,
			"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", iconSize, iconSize),
			out,
		}
		if err := c.runner.Run(ctx, scaleArgs...); err == nil {
			return out, nil
		}
		log.Printf("[compose] Channel logo resize failed, using fallback icon")
	}

	if err := writeFallbackIcon(out); err != nil {
		return "", err
	}
	return out, nil
}

// writeFallbackIcon draws a plain sky-blue disc on a transparent square.
func writeFallbackIcon(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	skyBlue := color.RGBA{R: 135, G: 206, B: 235, A: 255}

	center := float64(iconSize) / 2
	margin := float64(iconSize) / 10
	radius := center - margin
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, skyBlue)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
