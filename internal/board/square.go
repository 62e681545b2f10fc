// Package board implements the Chess960 rules core: board state, legal move
// generation, reversible move application, and terminal-state detection.
package board

import "fmt"

// Coord identifies a square by (file, rank), both zero-based. File 0 is the
// a-file; rank 0 is White's back rank. Squares never move once the board is
// created, so a Coord is a stable identity.
type Coord struct {
	File, Rank int
}

// Add returns the coordinate offset by dir scaled by steps.
func (c Coord) Add(dir Offset, steps int) Coord {
	return Coord{c.File + dir.File*steps, c.Rank + dir.Rank*steps}
}

// IsLight reports whether the square is light-colored.
func (c Coord) IsLight() bool {
	return (c.File+c.Rank)%2 == 1
}

// Name returns the algebraic name of the square (e.g. "e4").
func (c Coord) Name() string {
	return fmt.Sprintf("%c%d", 'a'+c.File, c.Rank+1)
}

// String returns the algebraic name.
func (c Coord) String() string {
	return c.Name()
}

// ParseCoord parses an algebraic square name (e.g. "e4") on an 8x8 board.
func ParseCoord(s string) (Coord, error) {
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Coord{}, fmt.Errorf("invalid square: %q", s)
	}
	return Coord{file, rank}, nil
}
