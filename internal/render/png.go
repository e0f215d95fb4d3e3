package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tinyboard/internal/assets"
	"tinyboard/internal/board"
	"tinyboard/internal/game"
)

const (
	squareSize = 72
	margin     = 20
	// MinSize and MaxSize bound the requested PNG width.
	MinSize = 64
	MaxSize = 2048
)

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	highlightFill   = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	backgroundColor = color.RGBA{28, 31, 46, 255}
	coordinateColor = color.RGBA{204, 210, 236, 255}
)

// PNG draws the snapshot and encodes it as a PNG of size x size pixels.
// A size of zero keeps the natural resolution.
func PNG(ctx context.Context, snap game.Snapshot, size int) ([]byte, error) {
	if size != 0 && (size < MinSize || size > MaxSize) {
		return nil, fmt.Errorf("size %d outside [%d,%d]", size, MinSize, MaxSize)
	}

	total := squareSize*board.Size + margin*2
	img := image.NewRGBA(image.Rect(0, 0, total, total))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	origin := image.Pt(margin, margin)

	drawSquares(img, origin)
	for _, sq := range snap.Highlights {
		draw.Draw(img, squareRect(sq, origin), image.NewUniform(highlightFill), image.Point{}, draw.Over)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := drawPieces(img, &snap.Board, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, origin)

	var out image.Image = img
	if size != 0 && size != total {
		scaled := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = scaled
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func squareRect(sq board.Square, origin image.Point) image.Rectangle {
	x := origin.X + sq.Col*squareSize
	y := origin.Y + sq.Row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(dst draw.Image, origin image.Point) {
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			sq := board.Sq(r, c)
			clr := darkSquare
			if sq.Light() {
				clr = lightSquare
			}
			draw.Draw(dst, squareRect(sq, origin), image.NewUniform(clr), image.Point{}, draw.Src)
		}
	}
}

func drawPieces(dst draw.Image, b *board.Board, origin image.Point) error {
	var err error
	b.Each(func(sq board.Square, p board.Piece) {
		if err != nil || p == board.Empty {
			return
		}
		var pi image.Image
		pi, err = assets.Image(p, squareSize)
		if err != nil {
			err = fmt.Errorf("draw %v: %w", sq, err)
			return
		}
		draw.Draw(dst, squareRect(sq, origin), pi, image.Point{}, draw.Over)
	})
	return err
}

func drawCoordinates(dst draw.Image, origin image.Point) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(coordinateColor),
		Face: basicfont.Face7x13,
	}
	boardEnd := origin.Y + squareSize*board.Size
	for c := 0; c < board.Size; c++ {
		label := string(rune('a' + c))
		x := origin.X + c*squareSize + squareSize/2 - 3
		d.Dot = fixed.P(x, boardEnd+14)
		d.DrawString(label)
	}
	for r := 0; r < board.Size; r++ {
		label := fmt.Sprintf("%d", board.Size-r)
		y := origin.Y + r*squareSize + squareSize/2 + 5
		d.Dot = fixed.P(origin.X-13, y)
		d.DrawString(label)
	}
}
