package engine

import (
	"math/rand"
	"time"

	"github.com/Mustafa-Ahmed-Rizwan/Fisher-Chess/internal/board"
)

// Engine searches for moves with fixed-depth negamax and alpha-beta
// pruning. All search state lives on the struct so that concurrent games or
// tests never interfere through globals. An Engine is not safe for
// concurrent use.
type Engine struct {
	depth   int
	rng     *rand.Rand
	next    *board.Move
	samples []time.Duration
}

// New creates an engine searching to the given depth. A zero seed draws one
// from the clock.
func New(depth int, seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		depth: depth,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Depth returns the fixed search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// BestMove searches the position and returns the chosen move from the
// caller's own legal-move list, with any pending promotion resolved to a
// queen. The search runs on a private copy of the state, so the caller's
// game is untouched until it commits the move itself. The second return is
// false when the side to move has no legal moves; the caller reconciles
// that with FindMate rather than treating it as a failure.
func (e *Engine) BestMove(gs *board.GameState) (*board.Move, bool) {
	start := time.Now()
	defer func() {
		e.samples = append(e.samples, time.Since(start))
	}()

	rootMoves := gs.ValidMoves()
	if len(rootMoves) == 0 {
		return nil, false
	}

	cp := gs.Copy()
	moves := cp.ValidMoves()

	e.next = nil
	e.negamax(cp, moves, e.depth, -Infinity, Infinity, sign(cp.WhiteToMove))

	chosen := e.next
	if chosen == nil {
		// Pruning or an all-losing root leaves no improving move recorded;
		// fall back to a uniformly random legal move.
		chosen = moves[e.rng.Intn(len(moves))]
	}

	// Map the copy's move back onto the caller's list by identity.
	for _, m := range rootMoves {
		if m.Equal(chosen) {
			if gs.NeedsPromotion(m) {
				if err := gs.Promote(board.Queen, m); err != nil {
					return nil, false
				}
			}
			return m, true
		}
	}
	return nil, false
}

// negamax recurses over make/undo with a negated, swapped window. The move
// list is shuffled at every node so that equally scored moves vary between
// games; determinism is deliberately not a goal.
func (e *Engine) negamax(gs *board.GameState, moves []*board.Move, depth, alpha, beta, turn int) int {
	if len(moves) == 0 || depth == 0 || gs.GameOver {
		gs.FindMate(moves)
		return turn * Evaluate(gs)
	}

	e.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	maxScore := -Infinity
	for _, m := range moves {
		if gs.NeedsPromotion(m) {
			if err := gs.Promote(board.Queen, m); err != nil {
				continue
			}
		}
		gs.MakeMove(m)
		next := gs.ValidMoves()
		score := -e.negamax(gs, next, depth-1, -beta, -alpha, -turn)
		gs.UndoMove()

		if score > maxScore {
			maxScore = score
			if depth == e.depth {
				e.next = m
			}
		}
		if maxScore > alpha {
			alpha = maxScore
		}
		if alpha >= beta {
			break
		}
	}
	return maxScore
}

// RandomMove returns a uniformly random element of the legal-move list, or
// nil when it is empty.
func (e *Engine) RandomMove(moves []*board.Move) *board.Move {
	if len(moves) == 0 {
		return nil
	}
	return moves[e.rng.Intn(len(moves))]
}

// Samples returns the per-move decision times recorded so far.
func (e *Engine) Samples() []time.Duration {
	return e.samples
}

// AverageDecisionTime returns the mean decision time across recorded
// searches, zero when none have run.
func (e *Engine) AverageDecisionTime() time.Duration {
	if len(e.samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range e.samples {
		total += d
	}
	return total / time.Duration(len(e.samples))
}

func sign(whiteToMove bool) int {
	if whiteToMove {
		return 1
	}
	return -1
}
