package board

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Board owns a dense grid of squares and the arena of all pieces created for
// the game. Squares store PieceIDs rather than pieces, and per-kind lists
// store PieceIDs rather than copies, so a piece lives in exactly one place
// and captures are reversible by handle.
type Board struct {
	Files, Ranks int

	grid   [][]PieceID // [file][rank], NoPiece when empty
	pieces []Piece     // arena; index is the PieceID

	// Per-kind/per-color ID lists for Queen, Rook, Knight and Bishop, used
	// for notation disambiguation and castling rook lookups. Kings are the
	// two singletons below; pawns are never looked up by list.
	lists [6][2][]PieceID

	kings [2]PieceID
}

// NewBoard creates an empty board of the given size.
func NewBoard(files, ranks int) *Board {
	b := &Board{Files: files, Ranks: ranks}
	b.grid = make([][]PieceID, files)
	for f := range b.grid {
		b.grid[f] = make([]PieceID, ranks)
		for r := range b.grid[f] {
			b.grid[f][r] = NoPiece
		}
	}
	b.kings = [2]PieceID{NoPiece, NoPiece}
	return b
}

// InBounds reports whether the coordinate lies on the board.
func (b *Board) InBounds(c Coord) bool {
	return c.File >= 0 && c.File < b.Files && c.Rank >= 0 && c.Rank < b.Ranks
}

// NewPiece creates a piece in the arena. The piece starts off-board; callers
// place it with Place. Kings are additionally tracked as singletons.
func (b *Board) NewPiece(kind PieceKind, color Color) PieceID {
	id := PieceID(len(b.pieces))
	b.pieces = append(b.pieces, Piece{
		Kind:      kind,
		Color:     color,
		OnBoard:   false,
		FirstMove: -1,
	})
	if kind == King {
		b.kings[color] = id
	}
	return id
}

// Piece returns the arena record for the given handle. The pointer is only
// valid until the next NewPiece call.
func (b *Board) Piece(id PieceID) *Piece {
	return &b.pieces[id]
}

// King returns the king handle for the given color, NoPiece if absent.
func (b *Board) King(c Color) PieceID {
	return b.kings[c]
}

// PieceAt returns the handle of the piece occupying the square, or NoPiece.
func (b *Board) PieceAt(c Coord) PieceID {
	return b.grid[c.File][c.Rank]
}

// Empty reports whether the square holds no piece.
func (b *Board) Empty(c Coord) bool {
	return b.grid[c.File][c.Rank] == NoPiece
}

// Place puts a detached piece on an empty square. Placing on an occupied
// square or placing a piece that is already on the board violates the model;
// callers must Remove first.
func (b *Board) Place(id PieceID, c Coord) error {
	if !b.InBounds(c) {
		return errors.Errorf("place %s: square %v off the board", b.pieces[id].Kind, c)
	}
	if occ := b.grid[c.File][c.Rank]; occ != NoPiece {
		return errors.Errorf("place %s on %s: square occupied by %s",
			b.pieces[id].Kind, c, b.pieces[occ].Kind)
	}
	p := &b.pieces[id]
	if p.OnBoard {
		return errors.Errorf("place %s on %s: piece already on %s", p.Kind, c, p.Coord)
	}
	b.grid[c.File][c.Rank] = id
	p.Coord = c
	p.OnBoard = true
	if p.Kind >= Queen && p.Kind <= Knight {
		b.lists[p.Kind][p.Color] = append(b.lists[p.Kind][p.Color], id)
	}
	return nil
}

// mustPlace is Place for internal callers that have already established the
// preconditions; a failure there is a corrupted board.
func (b *Board) mustPlace(id PieceID, c Coord) {
	if err := b.Place(id, c); err != nil {
		panic(err)
	}
}

// Remove detaches the piece on the square and returns its handle, or NoPiece
// if the square was empty. The piece record survives so that an undo can
// restore this exact piece.
func (b *Board) Remove(c Coord) PieceID {
	id := b.grid[c.File][c.Rank]
	if id == NoPiece {
		return NoPiece
	}
	b.grid[c.File][c.Rank] = NoPiece
	p := &b.pieces[id]
	p.OnBoard = false
	if p.Kind >= Queen && p.Kind <= Knight {
		list := b.lists[p.Kind][p.Color]
		for i, lid := range list {
			if lid == id {
				b.lists[p.Kind][p.Color] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return id
}

// List returns the live piece handles of the given kind and color. Only
// Queen, Rook, Knight and Bishop are tracked.
func (b *Board) List(kind PieceKind, color Color) []PieceID {
	return b.lists[kind][color]
}

// AllPieces returns every handle ever created, live or captured. Callers
// filter with Piece(id).OnBoard.
func (b *Board) AllPieces() []PieceID {
	ids := make([]PieceID, len(b.pieces))
	for i := range ids {
		ids[i] = PieceID(i)
	}
	return ids
}

// Copy creates a deep copy of the board. Piece handles remain valid across
// the copy, which is what lets a search snapshot share Move records with the
// live game.
func (b *Board) Copy() *Board {
	nb := &Board{Files: b.Files, Ranks: b.Ranks, kings: b.kings}
	nb.grid = make([][]PieceID, b.Files)
	for f := range b.grid {
		nb.grid[f] = append([]PieceID(nil), b.grid[f]...)
	}
	nb.pieces = append([]Piece(nil), b.pieces...)
	for k := Queen; k <= Knight; k++ {
		for c := 0; c < 2; c++ {
			nb.lists[k][c] = append([]PieceID(nil), b.lists[k][c]...)
		}
	}
	return nb
}

// String renders the board from White's perspective.
func (b *Board) String() string {
	var sb strings.Builder
	for r := b.Ranks - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d  ", r+1))
		for f := 0; f < b.Files; f++ {
			id := b.grid[f][r]
			if id == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(b.pieces[id].String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   ")
	for f := 0; f < b.Files; f++ {
		sb.WriteByte('a' + byte(f))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}
