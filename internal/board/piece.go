package board

import (
	"errors"
	"fmt"
)

// Color is the side a piece belongs to.
type Color string

const (
	White Color = "w"
	Black Color = "b"
)

// Name returns the capitalized color name used in asset directories.
func (c Color) Name() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return ""
}

// Role is the kind of chess unit.
type Role string

const (
	King   Role = "k"
	Queen  Role = "q"
	Rook   Role = "r"
	Bishop Role = "b"
	Knight Role = "n"
	Pawn   Role = "p"
)

// Roles lists every role in back-rank lookup order.
var Roles = []Role{King, Queen, Rook, Bishop, Knight, Pawn}

// Name returns the long role name, e.g. "knight".
func (r Role) Name() string {
	switch r {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	}
	return ""
}

// Piece identifies a colored unit as "<color>-<role>", e.g. "w-p".
// The zero value is an empty square.
type Piece string

// Empty marks a square with no piece.
const Empty Piece = ""

// ErrBadPiece is returned when an identifier cannot be parsed.
var ErrBadPiece = errors.New("bad piece identifier")

// NewPiece builds the identifier for a color and role.
func NewPiece(c Color, r Role) Piece {
	return Piece(string(c) + "-" + string(r))
}

// ParsePiece validates an identifier. The empty string parses to Empty.
func ParsePiece(s string) (Piece, error) {
	p := Piece(s)
	if p == Empty || p.Valid() {
		return p, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrBadPiece, s)
}

// Valid reports whether p names one of the twelve pieces.
func (p Piece) Valid() bool {
	if len(p) != 3 || p[1] != '-' {
		return false
	}
	return p.Color().Name() != "" && p.Role().Name() != ""
}

// Color returns the color part of the identifier.
func (p Piece) Color() Color {
	if len(p) != 3 {
		return ""
	}
	return Color(p[:1])
}

// Role returns the role part of the identifier.
func (p Piece) Role() Role {
	if len(p) != 3 {
		return ""
	}
	return Role(p[2:])
}
