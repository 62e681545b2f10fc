package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// snapshot captures the externally observable game state for round-trip
// comparisons.
type snapshot struct {
	Board       string
	Ply         int
	WhiteToMove bool
	DrawCount   int
	MoveCount   int
	Moves       int
}

func snap(gs *GameState) snapshot {
	return snapshot{
		Board:       gs.Board.String(),
		Ply:         gs.Ply,
		WhiteToMove: gs.WhiteToMove,
		DrawCount:   gs.DrawCount,
		MoveCount:   gs.MoveCount(),
		Moves:       len(gs.ValidMoves()),
	}
}

func TestMakeUndoRoundTrip(t *testing.T) {
	gs := standardGame(t)
	before := snap(gs)

	playMove(t, gs, "e2", "e4")
	playMove(t, gs, "d7", "d5")
	playMove(t, gs, "e4", "d5") // capture
	playMove(t, gs, "d8", "d5") // recapture

	for gs.MoveCount() > 0 {
		gs.UndoMove()
	}

	if diff := cmp.Diff(before, snap(gs)); diff != "" {
		t.Errorf("state changed after full undo (-want +got):\n%s", diff)
	}
}

func TestUndoRestoresEnPassantVictim(t *testing.T) {
	gs := testState(t,
		[]string{"Ke1", "Pe5"},
		[]string{"Ke8", "Pd7"},
		false)
	markMoved(t, gs, "e5")

	playMove(t, gs, "d7", "d5")
	before := snap(gs)

	ep := playMove(t, gs, "e5", "d6")
	if !ep.IsEnPassant {
		t.Fatal("expected en passant capture")
	}
	d5, _ := ParseCoord("d5")
	if gs.Board.PieceAt(d5) != NoPiece {
		t.Fatal("victim pawn still on d5 after the capture")
	}

	gs.UndoMove()
	victim := gs.Board.PieceAt(d5)
	if victim == NoPiece || gs.Board.Piece(victim).Kind != Pawn ||
		gs.Board.Piece(victim).Color != Black {
		t.Error("undo did not restore the victim to its own square")
	}
	if diff := cmp.Diff(before, snap(gs)); diff != "" {
		t.Errorf("state changed after undo (-want +got):\n%s", diff)
	}
	// The en passant right itself must survive the round trip.
	if findMove(t, gs.ValidMoves(), "e5", "d6") == nil {
		t.Error("en passant no longer available after undo")
	}
}

func TestRedoReplaysExactly(t *testing.T) {
	gs := standardGame(t)
	playMove(t, gs, "e2", "e4")
	playMove(t, gs, "e7", "e5")
	after := snap(gs)

	gs.UndoMove()
	gs.UndoMove()
	if gs.RedoCount() != 2 {
		t.Fatalf("RedoCount = %d, want 2", gs.RedoCount())
	}
	gs.RedoMove()
	gs.RedoMove()

	if diff := cmp.Diff(after, snap(gs)); diff != "" {
		t.Errorf("state differs after redo (-want +got):\n%s", diff)
	}
	if gs.RedoCount() != 0 {
		t.Errorf("RedoCount = %d after replaying everything", gs.RedoCount())
	}
}

func TestNewMoveClearsRedoHistory(t *testing.T) {
	gs := standardGame(t)
	playMove(t, gs, "e2", "e4")
	gs.UndoMove()
	if gs.RedoCount() != 1 {
		t.Fatalf("RedoCount = %d, want 1", gs.RedoCount())
	}

	playMove(t, gs, "d2", "d4")
	if gs.RedoCount() != 0 {
		t.Error("new move did not clear the redo history")
	}

	// Redo on an empty stack is a no-op.
	before := snap(gs)
	gs.RedoMove()
	if diff := cmp.Diff(before, snap(gs)); diff != "" {
		t.Errorf("empty redo changed the state (-want +got):\n%s", diff)
	}
}

func TestUndoOnEmptyLogIsNoop(t *testing.T) {
	gs := standardGame(t)
	before := snap(gs)
	gs.UndoMove()
	if diff := cmp.Diff(before, snap(gs)); diff != "" {
		t.Errorf("empty undo changed the state (-want +got):\n%s", diff)
	}
}

func TestDrawCounter(t *testing.T) {
	gs := standardGame(t)

	playMove(t, gs, "g1", "f3")
	if gs.DrawCount != 1 {
		t.Errorf("DrawCount = %d after a knight move, want 1", gs.DrawCount)
	}
	playMove(t, gs, "g8", "f6")
	if gs.DrawCount != 2 {
		t.Errorf("DrawCount = %d, want 2", gs.DrawCount)
	}

	gs.UndoMove()
	if gs.DrawCount != 1 {
		t.Errorf("DrawCount = %d after undo, want 1", gs.DrawCount)
	}
	gs.RedoMove()
	if gs.DrawCount != 2 {
		t.Errorf("DrawCount = %d after redo, want 2", gs.DrawCount)
	}

	playMove(t, gs, "e2", "e4")
	if gs.DrawCount != 0 {
		t.Errorf("DrawCount = %d after a pawn move, want 0", gs.DrawCount)
	}
}

func TestHundredMoveRule(t *testing.T) {
	gs := standardGame(t)
	moves := gs.ValidMoves()

	gs.DrawCount = 100
	gs.FindMate(moves)
	if gs.GameOver {
		t.Error("game flagged over at exactly 100 quiet half-moves")
	}

	gs.DrawCount = 101
	gs.FindMate(moves)
	if !gs.Stalemate || !gs.GameOver {
		t.Error("draw rule did not force stalemate past the limit")
	}
}

func TestFoolsMate(t *testing.T) {
	gs := standardGame(t)
	playMove(t, gs, "f2", "f3")
	playMove(t, gs, "e7", "e5")
	playMove(t, gs, "g2", "g4")
	playMove(t, gs, "d8", "h4")

	moves := gs.ValidMoves()
	if len(moves) != 0 {
		for _, m := range moves {
			t.Log(m)
		}
		t.Fatalf("%d moves for the mated side, want 0", len(moves))
	}
	if !gs.InCheck {
		t.Error("mated king not flagged in check")
	}
	gs.FindMate(moves)
	if !gs.Checkmate || gs.Stalemate || !gs.GameOver {
		t.Error("fool's mate not classified as checkmate")
	}

	// The terminal flags clear on undo.
	gs.UndoMove()
	if gs.GameOver || gs.Checkmate {
		t.Error("terminal flags survived an undo")
	}
}

func TestStalemateDetection(t *testing.T) {
	// Black to move, not in check, and the h8 king has no safe square.
	gs := testState(t,
		[]string{"Kf7", "Qg6"},
		[]string{"Kh8"},
		false)

	moves := gs.ValidMoves()
	if gs.InCheck {
		t.Fatal("position is not a check")
	}
	if len(moves) != 0 {
		for _, m := range moves {
			t.Log(m)
		}
		t.Fatalf("%d moves in a stalemate position", len(moves))
	}
	gs.FindMate(moves)
	if !gs.Stalemate || gs.Checkmate || !gs.GameOver {
		t.Error("stalemate not classified")
	}
}

func TestPromotion(t *testing.T) {
	gs := testState(t,
		[]string{"Ke1", "Pa7"},
		[]string{"Kh8"},
		true)
	markMoved(t, gs, "a7")

	moves := gs.ValidMoves()
	m := findMove(t, moves, "a7", "a8")
	if m == nil {
		t.Fatal("promotion push missing")
	}
	if !gs.NeedsPromotion(m) {
		t.Fatal("NeedsPromotion false for a pawn reaching the last rank")
	}

	if err := gs.Promote(King, m); err == nil {
		t.Error("promotion to a king should be rejected")
	}
	if err := gs.Promote(Queen, m); err != nil {
		t.Fatal(err)
	}
	if gs.NeedsPromotion(m) {
		t.Error("NeedsPromotion true after the choice is resolved")
	}

	gs.MakeNewMove(m)
	a8, _ := ParseCoord("a8")
	promoted := gs.Board.PieceAt(a8)
	if promoted == NoPiece || gs.Board.Piece(promoted).Kind != Queen {
		t.Error("queen not on a8 after promotion")
	}
	if gs.Board.Piece(m.Piece).OnBoard {
		t.Error("promoted pawn still on the board")
	}

	gs.UndoMove()
	a7, _ := ParseCoord("a7")
	if gs.Board.PieceAt(a7) != m.Piece {
		t.Error("undo did not restore the pawn to a7")
	}
	if gs.Board.Piece(promoted).OnBoard {
		t.Error("promotion piece still on the board after undo")
	}
}

func TestPromoteRejectsNonPawn(t *testing.T) {
	gs := testState(t,
		[]string{"Ke1", "Ra1"},
		[]string{"Kh8"},
		true)
	m := findMove(t, gs.ValidMoves(), "a1", "a8")
	if m == nil {
		t.Fatal("rook lift missing")
	}
	if err := gs.Promote(Queen, m); err == nil {
		t.Error("promoting a rook move should be rejected")
	}
}

func TestHistoryAndTurn(t *testing.T) {
	gs := standardGame(t)
	if gs.Turn() != White {
		t.Error("white should start")
	}
	playMove(t, gs, "e2", "e4")
	if gs.Turn() != Black {
		t.Error("turn did not flip")
	}
	playMove(t, gs, "e7", "e5")

	hist := gs.History()
	if len(hist) != 2 {
		t.Fatalf("history has %d moves, want 2", len(hist))
	}
	if hist[0].Notation() != "e4" || hist[1].Notation() != "e5" {
		t.Errorf("history notations %q, %q", hist[0].Notation(), hist[1].Notation())
	}
	if gs.Arrangement() != "RNBQKBNR" {
		t.Errorf("Arrangement() = %q", gs.Arrangement())
	}
}
