// Package render turns a board snapshot into page markup data and PNG
// images.
package render

import (
	"fmt"

	"tinyboard/internal/assets"
	"tinyboard/internal/board"
	"tinyboard/internal/game"
)

// ErrNoAsset is returned when a stored piece has no image entry.
var ErrNoAsset = assets.ErrNoAsset

// PieceView is one draggable piece node.
type PieceView struct {
	Node      string
	ID        board.Piece
	Src       string
	Row       int
	Col       int
	Draggable bool
}

// SquareView is one square container.
type SquareView struct {
	Row     int
	Col     int
	Classes string
	Piece   *PieceView
}

// Squares builds the 64 square views in row-major order. Every call
// produces the whole grid from scratch.
func Squares(snap game.Snapshot) ([]SquareView, error) {
	highlighted := make(map[board.Square]bool, len(snap.Highlights))
	for _, sq := range snap.Highlights {
		highlighted[sq] = true
	}

	out := make([]SquareView, 0, board.Size*board.Size)
	var err error
	snap.Board.Each(func(sq board.Square, p board.Piece) {
		if err != nil {
			return
		}
		v := SquareView{Row: sq.Row, Col: sq.Col, Classes: squareClasses(sq, highlighted[sq])}
		if p != board.Empty {
			src, ok := assets.Path(p)
			if !ok {
				err = fmt.Errorf("render square %v: %w: %q", sq, ErrNoAsset, p)
				return
			}
			v.Piece = &PieceView{
				Node:      snap.Nodes[sq.Row][sq.Col],
				ID:        p,
				Src:       src,
				Row:       sq.Row,
				Col:       sq.Col,
				Draggable: true,
			}
		}
		out = append(out, v)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func squareClasses(sq board.Square, highlighted bool) string {
	cls := "square b-board"
	if sq.Light() {
		cls = "square w-board"
	}
	if highlighted {
		cls += " highlighted"
	}
	return cls
}
