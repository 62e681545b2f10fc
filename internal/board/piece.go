package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceKind represents the kind of a chess piece.
type PieceKind uint8

const (
	King PieceKind = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
	NoKind
)

// String returns the piece kind name.
func (k PieceKind) String() string {
	switch k {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Rook:
		return "Rook"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Pawn:
		return "Pawn"
	default:
		return "None"
	}
}

// Symbol returns the algebraic notation letter for the kind.
func (k PieceKind) Symbol() byte {
	if k >= NoKind {
		return ' '
	}
	return "KQRBNP"[k]
}

// KindFromSymbol converts an algebraic letter to a PieceKind.
func KindFromSymbol(b byte) PieceKind {
	switch b {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'B', 'b':
		return Bishop
	case 'N', 'n':
		return Knight
	case 'P', 'p':
		return Pawn
	default:
		return NoKind
	}
}

// Offset is a direction vector in (file, rank) steps.
type Offset struct {
	File, Rank int
}

// Neg returns the opposite direction.
func (o Offset) Neg() Offset {
	return Offset{-o.File, -o.Rank}
}

// Movement direction sets, fixed per piece kind.
var (
	orthogonalDirs = []Offset{{-1, 0}, {1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []Offset{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	royalDirs      = []Offset{
		{-1, 0}, {1, 0}, {0, 1}, {0, -1},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}
	knightOffsets = []Offset{
		{-1, 2}, {1, 2}, {-1, -2}, {1, -2},
		{-2, 1}, {2, 1}, {-2, -1}, {2, -1},
	}
)

// Directions returns the movement direction set for a kind. Sliding kinds
// repeat these vectors, King and Knight take a single step. Pawns are not
// covered here; their asymmetric rule lives in the move generator.
func (k PieceKind) Directions() []Offset {
	switch k {
	case Queen, King:
		return royalDirs
	case Rook:
		return orthogonalDirs
	case Bishop:
		return diagonalDirs
	case Knight:
		return knightOffsets
	default:
		return nil
	}
}

// attacksAlong reports whether a sliding piece of the given kind attacks
// along the given ray direction.
func (k PieceKind) attacksAlong(dir Offset) bool {
	switch k {
	case Queen:
		return true
	case Rook:
		return dir.File == 0 || dir.Rank == 0
	case Bishop:
		return dir.File != 0 && dir.Rank != 0
	default:
		return false
	}
}

// pawnForward returns the rank direction a pawn of the given color advances.
func pawnForward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// PieceID is a handle into a Board's piece arena.
type PieceID int

// NoPiece marks an empty square or an absent capture.
const NoPiece PieceID = -1

// Piece is one piece instance. Two pieces of the same kind and color are
// distinct entities with independent histories; identity is the PieceID.
type Piece struct {
	Kind      PieceKind
	Color     Color
	Coord     Coord // valid only while OnBoard
	OnBoard   bool
	FirstMove int // ply of the piece's first move, -1 until it moves
}

// HasMoved reports whether the piece has moved from its starting square.
func (p *Piece) HasMoved() bool {
	return p.FirstMove >= 0
}

// PieceValue holds the material value of each kind in centipawns, indexed
// by PieceKind.
var PieceValue = [6]int{20000, 900, 500, 325, 300, 100}

// String returns the one-letter rendering used by the text board:
// uppercase for white, lowercase for black.
func (p *Piece) String() string {
	s := p.Kind.Symbol()
	if p.Color == Black {
		s += 'a' - 'A'
	}
	return string(s)
}
