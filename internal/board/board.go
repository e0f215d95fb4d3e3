package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// ErrOutOfRange is returned for squares outside the 8x8 grid.
var ErrOutOfRange = errors.New("square out of range")

// Board is the grid of piece identifiers. It is the single source of truth
// for piece positions; callers pass it by pointer.
type Board [Size][Size]Piece

var backRank = [Size]Role{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// New returns a board in the standard starting layout.
func New() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset restores the starting layout in place.
func (b *Board) Reset() {
	*b = Board{}
	for c := 0; c < Size; c++ {
		b[0][c] = NewPiece(Black, backRank[c])
		b[1][c] = NewPiece(Black, Pawn)
		b[6][c] = NewPiece(White, Pawn)
		b[7][c] = NewPiece(White, backRank[c])
	}
}

// Get returns the piece on sq, or Empty for empty or out-of-range squares.
func (b *Board) Get(sq Square) Piece {
	if !sq.Valid() {
		return Empty
	}
	return b[sq.Row][sq.Col]
}

// Set overwrites the content of sq.
func (b *Board) Set(sq Square, p Piece) error {
	if !sq.Valid() {
		return fmt.Errorf("set %v: %w", sq, ErrOutOfRange)
	}
	b[sq.Row][sq.Col] = p
	return nil
}

// MoveTo copies the content of from into to and clears from. Whatever was
// on to is overwritten and returned as captured. No legality checks are
// made. Moving a square onto itself leaves it unchanged.
func (b *Board) MoveTo(from, to Square) (captured Piece, err error) {
	if !from.Valid() || !to.Valid() {
		return Empty, fmt.Errorf("move %v->%v: %w", from, to, ErrOutOfRange)
	}
	if from == to {
		return Empty, nil
	}
	captured = b[to.Row][to.Col]
	b[to.Row][to.Col] = b[from.Row][from.Col]
	b[from.Row][from.Col] = Empty
	return captured, nil
}

// Count returns the number of occupied squares.
func (b *Board) Count() int {
	n := 0
	for r := range b {
		for c := range b[r] {
			if b[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// Each calls fn for every square in row-major order.
func (b *Board) Each(fn func(sq Square, p Piece)) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			fn(Sq(r, c), b[r][c])
		}
	}
}

var chessPieces = map[Piece]chess.Piece{
	"w-k": chess.WhiteKing,
	"w-q": chess.WhiteQueen,
	"w-r": chess.WhiteRook,
	"w-b": chess.WhiteBishop,
	"w-n": chess.WhiteKnight,
	"w-p": chess.WhitePawn,
	"b-k": chess.BlackKing,
	"b-q": chess.BlackQueen,
	"b-r": chess.BlackRook,
	"b-b": chess.BlackBishop,
	"b-n": chess.BlackKnight,
	"b-p": chess.BlackPawn,
}

// Placement returns the FEN piece-placement field for the board. Unknown
// identifiers are skipped.
func (b *Board) Placement() string {
	m := make(map[chess.Square]chess.Piece, Size*4)
	b.Each(func(sq Square, p Piece) {
		cp, ok := chessPieces[p]
		if !ok {
			return
		}
		m[chess.NewSquare(chess.File(sq.Col), chess.Rank(Size-1-sq.Row))] = cp
	})
	return chess.NewBoard(m).String()
}

// String dumps the grid one row per line, "." for empty squares.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			p := b[r][c]
			if p == Empty {
				sb.WriteString(" . ")
				continue
			}
			sb.WriteString(string(p))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
