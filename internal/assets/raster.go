package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"tinyboard/internal/board"
)

type cacheKey struct {
	piece board.Piece
	size  int
}

var (
	imageCache   = map[cacheKey]image.Image{}
	imageCacheMu sync.RWMutex
)

// Image rasterizes the piece SVG into a size x size RGBA image. Results are
// cached per piece and size.
func Image(p board.Piece, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid image size %d", size)
	}
	key := cacheKey{piece: p, size: size}

	imageCacheMu.RLock()
	if img, ok := imageCache[key]; ok {
		imageCacheMu.RUnlock()
		return img, nil
	}
	imageCacheMu.RUnlock()

	data, err := SVG(p)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", p, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	imageCacheMu.Lock()
	imageCache[key] = img
	imageCacheMu.Unlock()

	return img, nil
}
