package board

import (
	"math/rand"

	"github.com/pkg/errors"
)

// backRankKinds is the multiset of back-rank pieces to arrange.
var backRankKinds = []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// RandomArrangement produces a Chess960 back rank by rejection sampling:
// shuffle until the bishops sit on opposite-colored squares and the king is
// strictly between the two rooks. The loop terminates with probability 1 and
// in practice within a handful of iterations.
func RandomArrangement(rng *rand.Rand) []PieceKind {
	kinds := append([]PieceKind(nil), backRankKinds...)
	for {
		rng.Shuffle(len(kinds), func(i, j int) {
			kinds[i], kinds[j] = kinds[j], kinds[i]
		})
		if ValidArrangement(kinds) {
			return kinds
		}
	}
}

// ValidArrangement reports whether the back rank satisfies the Chess960
// constraints: bishops on squares of opposite color parity and the king
// strictly between the rooks.
func ValidArrangement(kinds []PieceKind) bool {
	var bishops, rooks []int
	king := -1
	for i, k := range kinds {
		switch k {
		case Bishop:
			bishops = append(bishops, i)
		case Rook:
			rooks = append(rooks, i)
		case King:
			king = i
		}
	}
	if len(bishops) != 2 || len(rooks) != 2 || king < 0 {
		return false
	}
	if (bishops[1]-bishops[0])%2 == 0 {
		return false
	}
	return rooks[0] < king && king < rooks[1]
}

// ArrangementString renders a back rank as piece letters, e.g. "RNBQKBNR".
func ArrangementString(kinds []PieceKind) string {
	out := make([]byte, len(kinds))
	for i, k := range kinds {
		out[i] = k.Symbol()
	}
	return string(out)
}

// ParseArrangement parses a back-rank string of piece letters. The standard
// start "RNBQKBNR" is accepted as a degenerate Chess960 arrangement.
func ParseArrangement(s string) ([]PieceKind, error) {
	kinds := make([]PieceKind, len(s))
	kings := 0
	for i := 0; i < len(s); i++ {
		k := KindFromSymbol(s[i])
		if k == NoKind || k == Pawn {
			return nil, errors.Errorf("invalid back-rank piece %q in %q", s[i], s)
		}
		if k == King {
			kings++
		}
		kinds[i] = k
	}
	if kings != 1 {
		return nil, errors.Errorf("back rank %q must contain exactly one king", s)
	}
	return kinds, nil
}

// SetupBoard populates a fresh board from a back-rank arrangement: white
// pieces on rank 0 mirrored for black on the top rank, pawns filling the two
// adjacent ranks.
func SetupBoard(kinds []PieceKind) (*Board, error) {
	files := len(kinds)
	b := NewBoard(files, 8)
	for file, kind := range kinds {
		if err := b.Place(b.NewPiece(kind, White), Coord{file, 0}); err != nil {
			return nil, err
		}
		if err := b.Place(b.NewPiece(kind, Black), Coord{file, b.Ranks - 1}); err != nil {
			return nil, err
		}
	}
	for file := 0; file < files; file++ {
		if err := b.Place(b.NewPiece(Pawn, White), Coord{file, 1}); err != nil {
			return nil, err
		}
		if err := b.Place(b.NewPiece(Pawn, Black), Coord{file, b.Ranks - 2}); err != nil {
			return nil, err
		}
	}
	return b, nil
}
