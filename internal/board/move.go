package board

import "github.com/pkg/errors"

// CastleInfo records the rook half of a castling move.
type CastleInfo struct {
	Rook     PieceID
	RookFrom Coord
	RookTo   Coord
}

// Move is an immutable record of one ply. Once appended to the game log it
// is history; equality is defined by (ply, mover, endpoints, captured), which
// is the key used to match a user-intended move against the legal-move list.
type Move struct {
	From, To Coord
	Piece    PieceID
	Captured PieceID // NoPiece if nothing is captured

	// EnPassant is the square of the captured pawn when IsEnPassant is set;
	// it differs from To.
	EnPassant   Coord
	IsEnPassant bool

	Castle    *CastleInfo
	Promotion PieceID // NoPiece until resolved by GameState.Promote

	Ply int

	notation string
}

// NewMove constructs a plain or capturing move. Constructing a move from an
// empty start square is a precondition violation.
func NewMove(b *Board, from, to Coord, ply int) (*Move, error) {
	id := b.PieceAt(from)
	if id == NoPiece {
		return nil, errors.Errorf("square %s has no piece to move", from)
	}
	return &Move{
		From:      from,
		To:        to,
		Piece:     id,
		Captured:  b.PieceAt(to),
		Promotion: NoPiece,
		Ply:       ply,
	}, nil
}

// mustMove is NewMove for the generator, which only builds moves from
// occupied squares.
func mustMove(b *Board, from, to Coord, ply int) *Move {
	m, err := NewMove(b, from, to, ply)
	if err != nil {
		panic(err)
	}
	return m
}

// newEnPassantMove builds an en passant capture: the victim sits on a
// different square than the destination.
func newEnPassantMove(b *Board, from, to, victim Coord, ply int) *Move {
	return &Move{
		From:        from,
		To:          to,
		Piece:       b.PieceAt(from),
		Captured:    b.PieceAt(victim),
		EnPassant:   victim,
		IsEnPassant: true,
		Promotion:   NoPiece,
		Ply:         ply,
	}
}

// newCastleMove builds a castle. The destination may coincide with the
// castling rook's current square under Chess960 geometry, so the capture
// field is explicitly empty.
func newCastleMove(b *Board, from, to Coord, castle *CastleInfo, ply int) *Move {
	return &Move{
		From:      from,
		To:        to,
		Piece:     b.PieceAt(from),
		Captured:  NoPiece,
		Castle:    castle,
		Promotion: NoPiece,
		Ply:       ply,
	}
}

// Equal reports move identity: same ply, mover, endpoints and captured
// piece.
func (m *Move) Equal(o *Move) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Ply == o.Ply &&
		m.Piece == o.Piece &&
		m.From == o.From &&
		m.To == o.To &&
		m.Captured == o.Captured
}

// IsCastle reports whether the move castles.
func (m *Move) IsCastle() bool {
	return m.Castle != nil
}

// IsPromotion reports whether a promotion piece has been resolved.
func (m *Move) IsPromotion() bool {
	return m.Promotion != NoPiece
}

// Notation returns the algebraic notation assigned to the move, or the bare
// coordinate pair if none has been assigned yet.
func (m *Move) Notation() string {
	if m.notation == "" {
		return m.From.Name() + m.To.Name()
	}
	return m.notation
}

// String returns the coordinate form of the move (e.g. "e2e4").
func (m *Move) String() string {
	return m.From.Name() + m.To.Name()
}
