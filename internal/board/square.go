package board

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

// Square addresses one cell. Row 0 is black's back rank, column 0 is file a.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Valid reports whether both indices are within the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// Light reports whether the square gets the light checker color.
func (s Square) Light() bool {
	return (s.Row+s.Col)%2 == 0
}

// String returns algebraic notation, e.g. "e2".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, Size-s.Row)
}
