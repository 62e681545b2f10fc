package board

import (
	"fmt"
	"strings"
)

// notationFor builds the algebraic notation for a move about to be played.
// Disambiguation consults the current legal-move list: when another piece of
// the same kind and color can reach the same destination, the origin file is
// added, or the origin rank when the files coincide.
func notationFor(gs *GameState, m *Move) string {
	b := gs.Board

	if m.Castle != nil {
		if m.Castle.RookFrom.File < m.From.File {
			return "O-O-O"
		}
		return "O-O"
	}

	p := b.Piece(m.Piece)
	var sb strings.Builder

	if p.Kind == Pawn {
		if m.Captured != NoPiece {
			sb.WriteByte('a' + byte(m.From.File))
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.Name())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(b.Piece(m.Promotion).Kind.Symbol())
		}
		if m.IsEnPassant {
			sb.WriteString(" e.p.")
		}
		return sb.String()
	}

	sb.WriteByte(p.Kind.Symbol())
	if p.Kind != King {
		sb.WriteString(disambiguation(gs, m, p))
	}
	if m.Captured != NoPiece {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.Name())
	return sb.String()
}

// disambiguation returns the origin file and/or rank needed to tell this
// move apart from legal moves of sibling pieces to the same destination.
func disambiguation(gs *GameState, m *Move, p *Piece) string {
	b := gs.Board
	siblings := b.List(p.Kind, p.Color)
	if len(siblings) < 2 {
		return ""
	}

	needFile, needRank := false, false
	for _, other := range gs.lastMoves {
		if other.To != m.To || other.Piece == m.Piece {
			continue
		}
		op := b.Piece(other.Piece)
		if op.Kind != p.Kind || op.Color != p.Color {
			continue
		}
		if other.From.File != m.From.File {
			needFile = true
		} else if other.From.Rank != m.From.Rank {
			needRank = true
		}
	}

	switch {
	case needFile && needRank:
		return m.From.Name()
	case needFile:
		return string('a' + byte(m.From.File))
	case needRank:
		return fmt.Sprintf("%d", m.From.Rank+1)
	default:
		return ""
	}
}

// NumberedNotation renders the move as a log line, e.g. "1. e4" for White
// and "1... e5" for Black.
func (m *Move) NumberedNotation(b *Board) string {
	number := m.Ply/2 + 1
	spacer := ". "
	if b.Piece(m.Piece).Color == Black {
		spacer = "... "
	}
	return fmt.Sprintf("%d%s%s", number, spacer, m.Notation())
}
