// Package engine implements a fixed-depth negamax search with alpha-beta
// pruning on top of the rules core's make/undo contract.
package engine

import (
	"github.com/Mustafa-Ahmed-Rizwan/Fisher-Chess/internal/board"
)

// Score bounds in centipawns.
const (
	Infinity  = 30000
	MateScore = 29000
)

// rookDevelopmentPly is the ply after which an unmoved rook starts costing
// its side; in Chess960 rooks can start anywhere on the back rank and
// leaving one undeveloped is a real liability.
const rookDevelopmentPly = 10

const (
	bishopPairBonus = 50
	undevelopedRook = 30
)

// Evaluate scores a position in centipawns, positive for White. Terminal
// states short-circuit: checkmate is a mate score against the side to move,
// stalemate is dead equal. Otherwise the score is a material sum with a
// bishop-pair bonus and a penalty for rooks still sitting on their starting
// square past the opening.
func Evaluate(gs *board.GameState) int {
	if gs.Checkmate {
		if gs.WhiteToMove {
			return -MateScore
		}
		return MateScore
	}
	if gs.Stalemate {
		return 0
	}

	b := gs.Board
	score := 0
	for _, id := range b.AllPieces() {
		p := b.Piece(id)
		if !p.OnBoard {
			continue
		}
		v := board.PieceValue[p.Kind]
		switch p.Kind {
		case board.Bishop:
			if len(b.List(board.Bishop, p.Color)) >= 2 {
				v += bishopPairBonus
			}
		case board.Rook:
			if !p.HasMoved() && gs.Ply > rookDevelopmentPly {
				v -= undevelopedRook
			}
		}
		if p.Color == board.White {
			score += v
		} else {
			score -= v
		}
	}
	return score
}

// Material returns the bare material balance without heuristics, positive
// for White.
func Material(b *board.Board) int {
	score := 0
	for _, id := range b.AllPieces() {
		p := b.Piece(id)
		if !p.OnBoard {
			continue
		}
		if p.Color == board.White {
			score += board.PieceValue[p.Kind]
		} else {
			score -= board.PieceValue[p.Kind]
		}
	}
	return score
}
