package figures

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// placeholderName is the asset substituted for references that could not
// be materialized.
const placeholderName = "missing-figure.png"

// placeholder writes the shared placeholder image into the work directory
// once and returns its path. Concurrent callers share a single file.
func (m *Materializer) placeholder() (string, error) {
	path := filepath.Join(m.workDir, placeholderName)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	img := placeholderImage(640, 480)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}

// placeholderImage draws a light gray box with a darker border.
func placeholderImage(w, h int) image.Image {
	fill := color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	edge := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 2 || y < 2 || x >= w-2 || y >= h-2 {
				img.Set(x, y, edge)
			} else {
				img.Set(x, y, fill)
			}
		}
	}
	return img
}
