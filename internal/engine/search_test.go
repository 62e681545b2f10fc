package engine

import (
	"testing"

	"github.com/Mustafa-Ahmed-Rizwan/Fisher-Chess/internal/board"
)

// position builds a game from piece specs like "Ke1" for each color.
func position(t *testing.T, white, black []string, whiteToMove bool) *board.GameState {
	t.Helper()
	b := board.NewBoard(8, 8)
	place := func(specs []string, color board.Color) {
		for _, spec := range specs {
			kind := board.KindFromSymbol(spec[0])
			c, err := board.ParseCoord(spec[1:])
			if err != nil {
				t.Fatal(err)
			}
			if err := b.Place(b.NewPiece(kind, color), c); err != nil {
				t.Fatal(err)
			}
		}
	}
	place(white, board.White)
	place(black, board.Black)

	gs, err := board.NewGameStateFrom(b, whiteToMove)
	if err != nil {
		t.Fatal(err)
	}
	return gs
}

func TestFindsMateInOne(t *testing.T) {
	// Back rank mate: Ra7-a8 is the only mate.
	gs := position(t,
		[]string{"Ka1", "Ra7"},
		[]string{"Kh8", "Pg7", "Ph7"},
		true)

	eng := New(2, 42)
	m, ok := eng.BestMove(gs)
	if !ok {
		t.Fatal("engine found no move")
	}
	a8, _ := board.ParseCoord("a8")
	if m.To != a8 {
		t.Fatalf("engine played %s, want Ra8 mate", m)
	}

	gs.MakeNewMove(m)
	moves := gs.ValidMoves()
	gs.FindMate(moves)
	if !gs.Checkmate {
		t.Error("position after the engine move is not checkmate")
	}
}

func TestPrefersWinningCapture(t *testing.T) {
	// The queen hangs; every search depth should take it.
	gs := position(t,
		[]string{"Ke1", "Ra4"},
		[]string{"Ke8", "Qh4", "Ph7"},
		true)

	eng := New(3, 7)
	m, ok := eng.BestMove(gs)
	if !ok {
		t.Fatal("engine found no move")
	}
	h4, _ := board.ParseCoord("h4")
	if m.To != h4 {
		t.Errorf("engine played %s instead of taking the queen", m)
	}
}

func TestBestMoveLeavesGameUntouched(t *testing.T) {
	kinds, err := board.ParseArrangement("RNBQKBNR")
	if err != nil {
		t.Fatal(err)
	}
	gs, err := board.NewGameState(kinds)
	if err != nil {
		t.Fatal(err)
	}
	eng := New(2, 1)

	if _, ok := eng.BestMove(gs); !ok {
		t.Fatal("engine found no move")
	}
	if gs.MoveCount() != 0 || gs.Ply != 0 || !gs.WhiteToMove {
		t.Error("search mutated the caller's game")
	}
	if len(gs.ValidMoves()) != 20 {
		t.Error("legal moves changed after the search")
	}
}

func TestNoMoveAtTerminalPosition(t *testing.T) {
	// Stalemate: black to move with no legal moves.
	gs := position(t,
		[]string{"Kf7", "Qg6"},
		[]string{"Kh8"},
		false)

	eng := New(2, 1)
	if m, ok := eng.BestMove(gs); ok {
		t.Errorf("engine returned %s in a terminal position", m)
	}
}

func TestSearchPromotesToQueen(t *testing.T) {
	gs := position(t,
		[]string{"Kh1", "Pa7"},
		[]string{"Kh8"},
		true)
	a7, _ := board.ParseCoord("a7")
	gs.Board.Piece(gs.Board.PieceAt(a7)).FirstMove = 0

	eng := New(2, 3)
	m, ok := eng.BestMove(gs)
	if !ok {
		t.Fatal("engine found no move")
	}
	a8, _ := board.ParseCoord("a8")
	if m.To != a8 {
		t.Fatalf("engine played %s, want the promotion push", m)
	}
	if !m.IsPromotion() {
		t.Fatal("promotion unresolved on the returned move")
	}
	gs.MakeNewMove(m)
	if gs.Board.Piece(gs.Board.PieceAt(a8)).Kind != board.Queen {
		t.Error("pawn did not promote to a queen")
	}
}

func TestEvaluateTerminalStates(t *testing.T) {
	gs := position(t, []string{"Ke1"}, []string{"Ke8"}, true)

	gs.Checkmate = true
	if got := Evaluate(gs); got != -MateScore {
		t.Errorf("mate with white to move scored %d, want %d", got, -MateScore)
	}
	gs.WhiteToMove = false
	if got := Evaluate(gs); got != MateScore {
		t.Errorf("mate with black to move scored %d, want %d", got, MateScore)
	}

	gs.Checkmate = false
	gs.Stalemate = true
	if got := Evaluate(gs); got != 0 {
		t.Errorf("stalemate scored %d, want 0", got)
	}
}

func TestMaterialBalance(t *testing.T) {
	gs := position(t,
		[]string{"Ke1", "Qd1", "Pa2"},
		[]string{"Ke8", "Ra8"},
		true)

	want := 900 + 100 - 500
	if got := Material(gs.Board); got != want {
		t.Errorf("Material = %d, want %d", got, want)
	}
}

func TestBishopPairBonus(t *testing.T) {
	pair := position(t,
		[]string{"Ke1", "Bc1", "Bf1"},
		[]string{"Ke8", "Bc8", "Nb8"},
		true)

	// Two bishops against bishop and knight: the pair bonus plus the
	// bishop-over-knight margin.
	want := (325+50)*2 - (325 + 300)
	if got := Evaluate(pair); got != want {
		t.Errorf("Evaluate = %d, want %d", got, want)
	}
}

func TestRandomMove(t *testing.T) {
	gs := position(t, []string{"Ke1"}, []string{"Ke8"}, true)
	eng := New(1, 5)

	if eng.RandomMove(nil) != nil {
		t.Error("RandomMove on an empty list should be nil")
	}

	moves := gs.ValidMoves()
	m := eng.RandomMove(moves)
	found := false
	for _, v := range moves {
		if v == m {
			found = true
		}
	}
	if !found {
		t.Error("RandomMove returned a move outside the list")
	}
}

func TestDecisionTimeSamples(t *testing.T) {
	gs := position(t, []string{"Ke1", "Pa2"}, []string{"Ke8"}, true)
	eng := New(1, 9)

	if eng.AverageDecisionTime() != 0 {
		t.Error("average should be zero before any search")
	}
	eng.BestMove(gs)
	eng.BestMove(gs)
	if len(eng.Samples()) != 2 {
		t.Errorf("%d samples recorded, want 2", len(eng.Samples()))
	}
	if eng.AverageDecisionTime() < 0 {
		t.Error("negative average decision time")
	}
}
