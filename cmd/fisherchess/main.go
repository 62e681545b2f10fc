// FisherChess - a Chess960 (Fischer random) game against a computer opponent.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/Mustafa-Ahmed-Rizwan/Fisher-Chess/internal/board"
	"github.com/Mustafa-Ahmed-Rizwan/Fisher-Chess/internal/engine"
	"github.com/Mustafa-Ahmed-Rizwan/Fisher-Chess/internal/storage"
)

var (
	depth       = flag.Int("depth", 3, "search depth in plies")
	seed        = flag.Int64("seed", 0, "random seed (0 uses the clock)")
	arrangement = flag.String("arrangement", "", "fixed back rank, e.g. RNBQKBNR (empty for random)")
	playBlack   = flag.Bool("black", false, "play the black pieces")
	noStore     = flag.Bool("no-store", false, "do not record the game")
	showStats   = flag.Bool("stats", false, "print the performance report and exit")
)

func main() {
	flag.Parse()

	if *showStats {
		printStats()
		return
	}

	gs, err := newGame()
	if err != nil {
		log.Fatal(err)
	}

	eng := engine.New(*depth, *seed)
	fmt.Printf("Starting position: %s\n", gs.Arrangement())
	fmt.Println("Enter moves as coordinate pairs (e2e4). Commands: moves, undo, redo, quit.")

	humanIsWhite := !*playBlack
	outcome, winner := playGame(gs, eng, humanIsWhite)

	fmt.Println(gs)
	switch outcome {
	case storage.OutcomeCheckmate:
		fmt.Printf("Checkmate. %s wins.\n", winner)
	case storage.OutcomeStalemate:
		fmt.Println("Draw by stalemate.")
	default:
		return // quit mid-game, nothing to record
	}

	if !*noStore {
		recordGame(gs, eng, outcome, winner)
	}
}

// newGame builds the starting state from the -arrangement flag or a random
// back rank.
func newGame() (*board.GameState, error) {
	if *arrangement != "" {
		kinds, err := board.ParseArrangement(*arrangement)
		if err != nil {
			return nil, err
		}
		if !board.ValidArrangement(kinds) {
			return nil, fmt.Errorf("arrangement %s violates the back-rank constraints"+
				" (two rooks around the king, bishops on opposite colors)", *arrangement)
		}
		return board.NewGameState(kinds)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return board.NewRandomGameState(rand.New(rand.NewSource(s))), nil
}

// playGame runs the interactive loop until the game ends or the human quits.
// It returns the outcome and the winner's name, or ("", "") on quit.
func playGame(gs *board.GameState, eng *engine.Engine, humanIsWhite bool) (outcome, winner string) {
	reader := bufio.NewScanner(os.Stdin)

	for {
		moves := gs.ValidMoves()
		gs.FindMate(moves)
		if gs.GameOver {
			if gs.Checkmate {
				if gs.WhiteToMove == humanIsWhite {
					return storage.OutcomeCheckmate, "Computer"
				}
				return storage.OutcomeCheckmate, "Human"
			}
			return storage.OutcomeStalemate, ""
		}

		if gs.WhiteToMove == humanIsWhite {
			if !humanTurn(gs, moves, reader) {
				return "", ""
			}
		} else {
			computerTurn(gs, eng)
		}
	}
}

// humanTurn prompts until the human plays a legal move. It returns false
// when the human quits.
func humanTurn(gs *board.GameState, moves []*board.Move, reader *bufio.Scanner) bool {
	fmt.Println(gs)
	if gs.InCheck {
		fmt.Println("Check!")
	}

	for {
		fmt.Print("> ")
		if !reader.Scan() {
			return false
		}
		input := strings.TrimSpace(strings.ToLower(reader.Text()))

		switch input {
		case "quit", "exit":
			return false
		case "moves":
			printMoves(gs, moves)
			continue
		case "undo":
			// Take back the engine's reply and the human's move together.
			gs.UndoMove()
			gs.UndoMove()
			return true
		case "redo":
			gs.RedoMove()
			gs.RedoMove()
			return true
		case "":
			continue
		}

		m, err := parseMove(gs, input)
		if err != nil {
			fmt.Println(err)
			continue
		}

		chosen := matchMove(moves, m)
		if chosen == nil {
			fmt.Printf("%s is not a legal move\n", input)
			continue
		}

		if gs.NeedsPromotion(chosen) {
			if err := promptPromotion(gs, chosen, reader); err != nil {
				fmt.Println(err)
				continue
			}
		}
		gs.MakeNewMove(chosen)
		return true
	}
}

// computerTurn asks the engine for a move and plays it.
func computerTurn(gs *board.GameState, eng *engine.Engine) {
	m, ok := eng.BestMove(gs)
	if !ok {
		return
	}
	gs.MakeNewMove(m)
	fmt.Printf("Computer plays %s\n", m.NumberedNotation(gs.Board))
}

// parseMove turns a coordinate pair like "e2e4" into a candidate move.
func parseMove(gs *board.GameState, input string) (*board.Move, error) {
	if len(input) != 4 {
		return nil, fmt.Errorf("moves look like e2e4")
	}
	from, err := board.ParseCoord(input[:2])
	if err != nil {
		return nil, err
	}
	to, err := board.ParseCoord(input[2:])
	if err != nil {
		return nil, err
	}
	return board.NewMove(gs.Board, from, to, gs.Ply)
}

// matchMove finds the legal move with the candidate's endpoints, so the
// played move carries the capture, castle and en passant details a bare
// coordinate pair cannot express. Endpoints are enough: promotion choices
// aside, no two legal moves share a from/to pair.
func matchMove(moves []*board.Move, m *board.Move) *board.Move {
	for _, valid := range moves {
		if valid.From == m.From && valid.To == m.To {
			return valid
		}
	}
	return nil
}

// promptPromotion reads the promotion choice and applies it to the move.
func promptPromotion(gs *board.GameState, m *board.Move, reader *bufio.Scanner) error {
	fmt.Print("Promote to (q/r/b/n): ")
	if !reader.Scan() {
		return gs.Promote(board.Queen, m)
	}
	var kind board.PieceKind
	switch strings.TrimSpace(strings.ToLower(reader.Text())) {
	case "q", "":
		kind = board.Queen
	case "r":
		kind = board.Rook
	case "b":
		kind = board.Bishop
	case "n":
		kind = board.Knight
	default:
		return fmt.Errorf("promotion must be one of q, r, b, n")
	}
	return gs.Promote(kind, m)
}

// printMoves lists the legal moves in notation order.
func printMoves(gs *board.GameState, moves []*board.Move) {
	var names []string
	for _, m := range moves {
		names = append(names, m.Notation())
	}
	fmt.Println(strings.Join(names, " "))
}

// recordGame appends the finished game to the local database.
func recordGame(gs *board.GameState, eng *engine.Engine, outcome, winner string) {
	store, err := storage.OpenDefault()
	if err != nil {
		log.Printf("game not recorded: %v", err)
		return
	}
	defer store.Close()

	_, err = store.RecordGame(storage.GameRecord{
		Outcome:          outcome,
		Winner:           winner,
		MoveCount:        gs.MoveCount(),
		AvgDecisionTime:  eng.AverageDecisionTime(),
		StartingPosition: gs.Arrangement(),
	})
	if err != nil {
		log.Printf("game not recorded: %v", err)
	}
}

// printStats prints the aggregated performance report.
func printStats() {
	store, err := storage.OpenDefault()
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	report, err := store.Stats()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(report)
}
