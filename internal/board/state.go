package board

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// drawLimit is the half-move count beyond which the draw rule forces
// stalemate: 100 half-moves without a pawn move or capture.
const drawLimit = 100

// logEntry pairs a move with the draw-counter value after it was applied,
// which is what lets undo restore the counter exactly.
type logEntry struct {
	move        *Move
	drawCounter int
}

// GameState wraps a Board with turn tracking, the move and redo logs, check
// bookkeeping and terminal flags. It assumes exclusive single-writer access;
// the search operates on a Copy.
type GameState struct {
	Board       *Board
	WhiteToMove bool
	Ply         int

	InCheck    bool
	CheckColor Color // meaningful only while InCheck

	Checkmate bool
	Stalemate bool
	GameOver  bool

	DrawCount int

	moveLog []logEntry
	redoLog []logEntry

	enPassant    Coord // landing square of the last double pawn push
	hasEnPassant bool

	// Starting geometry, fixed at construction, used for castling.
	kingStart  [2]Coord
	rookStarts [2][]Coord

	arrangement string

	// Legal moves from the most recent ValidMoves call, used for notation
	// disambiguation.
	lastMoves []*Move
}

// NewGameState builds a game from a back-rank arrangement.
func NewGameState(kinds []PieceKind) (*GameState, error) {
	b, err := SetupBoard(kinds)
	if err != nil {
		return nil, err
	}
	gs, err := NewGameStateFrom(b, true)
	if err != nil {
		return nil, err
	}
	gs.arrangement = ArrangementString(kinds)
	return gs, nil
}

// NewRandomGameState builds a game from a freshly generated Chess960
// arrangement.
func NewRandomGameState(rng *rand.Rand) *GameState {
	gs, err := NewGameState(RandomArrangement(rng))
	if err != nil {
		// SetupBoard cannot fail on a generated arrangement.
		panic(err)
	}
	return gs
}

// NewGameStateFrom wraps an already populated board. Castling geometry is
// derived from the current coordinates of the kings and unmoved rooks, so a
// hand-built position behaves like a game that started there.
func NewGameStateFrom(b *Board, whiteToMove bool) (*GameState, error) {
	gs := &GameState{Board: b, WhiteToMove: whiteToMove}
	for _, c := range []Color{White, Black} {
		king := b.King(c)
		if king == NoPiece || !b.Piece(king).OnBoard {
			return nil, errors.Errorf("%s has no king on the board", c)
		}
		gs.kingStart[c] = b.Piece(king).Coord
		for _, id := range b.List(Rook, c) {
			if !b.Piece(id).HasMoved() {
				gs.rookStarts[c] = append(gs.rookStarts[c], b.Piece(id).Coord)
			}
		}
	}
	return gs, nil
}

// Arrangement returns the starting back-rank string, empty for hand-built
// positions.
func (gs *GameState) Arrangement() string {
	return gs.arrangement
}

// Turn returns the color to move.
func (gs *GameState) Turn() Color {
	if gs.WhiteToMove {
		return White
	}
	return Black
}

// MoveCount returns the number of plies in the move log.
func (gs *GameState) MoveCount() int {
	return len(gs.moveLog)
}

// History returns the logged moves in order.
func (gs *GameState) History() []*Move {
	out := make([]*Move, len(gs.moveLog))
	for i, e := range gs.moveLog {
		out[i] = e.move
	}
	return out
}

// MakeNewMove is the entry point for player- or engine-chosen moves. It
// discards any redo history, updates the draw counter (reset on pawn move or
// capture), assigns notation if unset, then applies the move.
func (gs *GameState) MakeNewMove(m *Move) {
	gs.redoLog = gs.redoLog[:0]
	if gs.Board.Piece(m.Piece).Kind == Pawn || m.Captured != NoPiece {
		gs.DrawCount = 0
	} else {
		gs.DrawCount++
	}
	if m.notation == "" {
		m.notation = notationFor(gs, m)
	}
	gs.MakeMove(m)
}

// MakeMove applies a move. It is the raw application half of the make/undo
// contract that the search drives directly; it does not touch the redo log
// or the draw counter.
func (gs *GameState) MakeMove(m *Move) {
	b := gs.Board

	if m.IsEnPassant {
		b.Remove(m.EnPassant)
	} else if m.Captured != NoPiece {
		b.Remove(m.To)
	}
	b.Remove(m.From)

	switch {
	case m.IsPromotion():
		// The pawn stays detached; the promotion piece takes the square.
		b.mustPlace(m.Promotion, m.To)
	case m.Castle != nil:
		// The rook moves before the king so that overlapping Chess960
		// geometry (king destination on the rook's square, or vice versa)
		// resolves cleanly.
		b.Remove(m.Castle.RookFrom)
		b.mustPlace(m.Castle.Rook, m.Castle.RookTo)
		b.mustPlace(m.Piece, m.To)
		b.Piece(m.Castle.Rook).FirstMove = m.Ply
	default:
		b.mustPlace(m.Piece, m.To)
	}

	gs.moveLog = append(gs.moveLog, logEntry{m, gs.DrawCount})

	p := b.Piece(m.Piece)
	gs.hasEnPassant = false
	if !p.HasMoved() {
		p.FirstMove = m.Ply
		if p.Kind == Pawn && abs(m.To.Rank-m.From.Rank) == 2 {
			gs.enPassant = m.To
			gs.hasEnPassant = true
		}
	}

	gs.WhiteToMove = !gs.WhiteToMove
	gs.Ply++
}

// UndoMove reverses the last logged move exactly: occupancy, captured
// pieces (en passant victims return to their own square), first-move
// markers, the en-passant target, the draw counter and terminal flags. It is
// a no-op on an empty log.
func (gs *GameState) UndoMove() {
	if len(gs.moveLog) == 0 {
		return
	}
	entry := gs.moveLog[len(gs.moveLog)-1]
	gs.moveLog = gs.moveLog[:len(gs.moveLog)-1]
	m := entry.move
	b := gs.Board

	b.Remove(m.To)
	b.mustPlace(m.Piece, m.From)
	if m.Captured != NoPiece {
		if m.IsEnPassant {
			b.mustPlace(m.Captured, m.EnPassant)
		} else {
			b.mustPlace(m.Captured, m.To)
		}
	}
	if p := b.Piece(m.Piece); p.FirstMove == m.Ply {
		p.FirstMove = -1
	}
	if m.Castle != nil {
		b.Remove(m.Castle.RookTo)
		b.mustPlace(m.Castle.Rook, m.Castle.RookFrom)
		if r := b.Piece(m.Castle.Rook); r.FirstMove == m.Ply {
			r.FirstMove = -1
		}
	}

	gs.hasEnPassant = false
	if len(gs.moveLog) > 0 {
		prev := gs.moveLog[len(gs.moveLog)-1].move
		if b.Piece(prev.Piece).Kind == Pawn && abs(prev.To.Rank-prev.From.Rank) == 2 {
			gs.enPassant = prev.To
			gs.hasEnPassant = true
		}
		gs.DrawCount = gs.moveLog[len(gs.moveLog)-1].drawCounter
	} else {
		gs.DrawCount = 0
	}

	// A position that was terminal cannot remain flagged after undo.
	gs.Checkmate = false
	gs.Stalemate = false
	gs.GameOver = false

	gs.WhiteToMove = !gs.WhiteToMove
	gs.Ply--
	gs.redoLog = append(gs.redoLog, entry)
}

// RedoMove replays the most recently undone move. It is a no-op on an empty
// redo stack.
func (gs *GameState) RedoMove() {
	if len(gs.redoLog) == 0 {
		return
	}
	entry := gs.redoLog[len(gs.redoLog)-1]
	gs.redoLog = gs.redoLog[:len(gs.redoLog)-1]
	gs.DrawCount = entry.drawCounter
	gs.MakeMove(entry.move)
}

// RedoCount returns the number of undone moves available for redo.
func (gs *GameState) RedoCount() int {
	return len(gs.redoLog)
}

// NeedsPromotion reports whether the move advances a pawn to its promotion
// rank and has no promotion piece resolved yet.
func (gs *GameState) NeedsPromotion(m *Move) bool {
	p := gs.Board.Piece(m.Piece)
	if p.Kind != Pawn || m.IsPromotion() {
		return false
	}
	if p.Color == White {
		return m.To.Rank == gs.Board.Ranks-1
	}
	return m.To.Rank == 0
}

// Promote resolves a pending pawn promotion by creating the chosen piece.
// Only queens, rooks, bishops and knights are legal choices, and only pawn
// moves may be promoted.
func (gs *GameState) Promote(kind PieceKind, m *Move) error {
	p := gs.Board.Piece(m.Piece)
	if p.Kind != Pawn {
		return errors.New("only pawns can be promoted")
	}
	if kind != Queen && kind != Rook && kind != Bishop && kind != Knight {
		return errors.Errorf("cannot promote to %s", kind)
	}
	m.Promotion = gs.Board.NewPiece(kind, p.Color)
	return nil
}

// FindMate classifies the terminal state given the current legal-move set:
// no moves and in check is checkmate, no moves otherwise is stalemate, and a
// draw counter beyond the limit forces stalemate regardless of moves.
// Callers invoke it after every move application, undo and redo.
func (gs *GameState) FindMate(validMoves []*Move) {
	if len(validMoves) == 0 {
		if gs.InCheck {
			gs.Checkmate = true
		} else {
			gs.Stalemate = true
		}
	} else if gs.DrawCount > drawLimit {
		gs.Stalemate = true
	}
	gs.GameOver = gs.Checkmate || gs.Stalemate
}

// Copy returns a deep snapshot for the search: same piece handles, private
// board and logs. Mutations on the copy never touch the original.
func (gs *GameState) Copy() *GameState {
	ng := *gs
	ng.Board = gs.Board.Copy()
	ng.moveLog = append([]logEntry(nil), gs.moveLog...)
	ng.redoLog = append([]logEntry(nil), gs.redoLog...)
	ng.lastMoves = append([]*Move(nil), gs.lastMoves...)
	ng.rookStarts[White] = append([]Coord(nil), gs.rookStarts[White]...)
	ng.rookStarts[Black] = append([]Coord(nil), gs.rookStarts[Black]...)
	return &ng
}

// String renders the board and game bookkeeping.
func (gs *GameState) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	sb.WriteString(gs.Board.String())
	fmt.Fprintf(&sb, "\nSide to move: %s\n", gs.Turn())
	fmt.Fprintf(&sb, "Ply: %d  Draw counter: %d\n", gs.Ply, gs.DrawCount)
	if gs.InCheck {
		fmt.Fprintf(&sb, "%s is in check\n", gs.CheckColor)
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
