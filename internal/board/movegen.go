package board

// rayHit records a square of interest found while scanning rays from the
// king: the pinned piece's square, or the checking piece's square, together
// with the ray direction from the king.
type rayHit struct {
	coord Coord
	dir   Offset
}

// ValidMoves enumerates the fully legal moves for the side to move and
// refreshes the check bookkeeping. No ordering is guaranteed; callers that
// need determinism must sort.
func (gs *GameState) ValidMoves() []*Move {
	b := gs.Board
	kingID := b.King(gs.Turn())
	if kingID == NoPiece || !b.Piece(kingID).OnBoard {
		return nil
	}
	king := b.Piece(kingID)

	pins, checks := gs.pinsAndChecks(kingID, king.Coord)

	var moves []*Move
	switch {
	case len(checks) >= 2:
		// Double check can never be blocked; only the king may move.
		gs.InCheck = true
		gs.CheckColor = gs.Turn()
		moves = nil
		gs.stepMoves(kingID, nil, &moves)
	case len(checks) == 1:
		gs.InCheck = true
		gs.CheckColor = gs.Turn()
		moves = gs.allMoves(pins)
		moves = gs.filterCheckResponses(moves, kingID, checks[0])
	default:
		gs.InCheck = false
		moves = gs.allMoves(pins)
	}

	// King-safety re-check: stepping the king can expose it along the very
	// ray it was already attacked through, so every king destination is
	// probed as if the king stood there.
	moves = gs.filterKingSafety(moves, kingID)

	if !king.HasMoved() && !gs.InCheck {
		castles := gs.castleMoves(kingID)
		castles = gs.filterKingSafety(castles, kingID)
		moves = append(moves, castles...)
	}

	gs.lastMoves = moves
	return moves
}

// filterCheckResponses keeps king moves and moves that land on a valid
// interposing square: the checker's own square for a knight check, otherwise
// the squares from the king out along the check ray up to and including the
// checker. An en passant capture of the checking pawn is kept as well; its
// destination lies off the ray but it removes the checker.
func (gs *GameState) filterCheckResponses(moves []*Move, kingID PieceID, check rayHit) []*Move {
	b := gs.Board
	checker := b.Piece(b.PieceAt(check.coord))

	valid := make(map[Coord]bool)
	if checker.Kind == Knight {
		valid[check.coord] = true
	} else {
		kingCoord := b.Piece(kingID).Coord
		bound := b.Files
		if b.Ranks > bound {
			bound = b.Ranks
		}
		for i := 1; i < bound; i++ {
			c := kingCoord.Add(check.dir, i)
			if !b.InBounds(c) {
				break
			}
			valid[c] = true
			if c == check.coord {
				break
			}
		}
	}

	out := moves[:0]
	for _, m := range moves {
		switch {
		case m.Piece == kingID:
			out = append(out, m)
		case valid[m.To]:
			out = append(out, m)
		case m.IsEnPassant && m.EnPassant == check.coord:
			out = append(out, m)
		}
	}
	return out
}

// filterKingSafety drops king moves whose destination would be attacked,
// recomputing checks as if the king already stood there.
func (gs *GameState) filterKingSafety(moves []*Move, kingID PieceID) []*Move {
	out := moves[:0]
	for _, m := range moves {
		if m.Piece == kingID {
			if _, checks := gs.pinsAndChecks(kingID, m.To); len(checks) > 0 {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// allMoves generates pseudo-legal moves for every piece of the side to move,
// restricted by the pin table. Pin state is transient: it is looked up from
// this call's pin list only, never stored on pieces.
func (gs *GameState) allMoves(pins []rayHit) []*Move {
	b := gs.Board
	pinTable := make(map[PieceID]Offset, len(pins))
	for _, pin := range pins {
		pinTable[b.PieceAt(pin.coord)] = pin.dir
	}

	var moves []*Move
	for _, id := range b.AllPieces() {
		p := b.Piece(id)
		if !p.OnBoard || p.Color != gs.Turn() {
			continue
		}
		switch p.Kind {
		case Pawn:
			gs.pawnMoves(id, pinTable, &moves)
		case King, Knight:
			gs.stepMoves(id, pinTable, &moves)
		default:
			gs.slideMoves(id, pinTable, &moves)
		}
	}
	return moves
}

// pawnMoves generates pushes, captures and en passant for one pawn. A pinned
// pawn may push only along a vertical pin and capture only toward its
// pinner. En passant candidates are verified by simulation because removing
// two pawns from a rank can expose the king in a way the pin scan does not
// see.
func (gs *GameState) pawnMoves(id PieceID, pinTable map[PieceID]Offset, moves *[]*Move) {
	b := gs.Board
	p := b.Piece(id)
	from := p.Coord
	y := pawnForward(p.Color)
	pin, pinned := pinTable[id]

	if !pinned || pin == (Offset{0, y}) || pin == (Offset{0, -y}) {
		one := Coord{from.File, from.Rank + y}
		if b.InBounds(one) && b.Empty(one) {
			*moves = append(*moves, mustMove(b, from, one, gs.Ply))
			two := Coord{from.File, from.Rank + 2*y}
			if !p.HasMoved() && b.InBounds(two) && b.Empty(two) {
				*moves = append(*moves, mustMove(b, from, two, gs.Ply))
			}
		}
	}

	for _, x := range []int{-1, 1} {
		if pinned && pin != (Offset{x, y}) {
			continue
		}
		to := Coord{from.File + x, from.Rank + y}
		if !b.InBounds(to) {
			continue
		}
		if tid := b.PieceAt(to); tid != NoPiece && b.Piece(tid).Color != p.Color {
			*moves = append(*moves, mustMove(b, from, to, gs.Ply))
		}
	}

	if gs.hasEnPassant &&
		abs(from.File-gs.enPassant.File) == 1 &&
		from.Rank == gs.enPassant.Rank {
		to := Coord{gs.enPassant.File, from.Rank + y}
		m := newEnPassantMove(b, from, to, gs.enPassant, gs.Ply)
		if !gs.epExposesKing(m) {
			*moves = append(*moves, m)
		}
	}
}

// epExposesKing simulates the en passant capture on the board and reports
// whether the mover's king ends up attacked.
func (gs *GameState) epExposesKing(m *Move) bool {
	b := gs.Board
	kingID := b.King(b.Piece(m.Piece).Color)

	b.Remove(m.EnPassant)
	b.Remove(m.From)
	b.mustPlace(m.Piece, m.To)

	_, checks := gs.pinsAndChecks(kingID, b.Piece(kingID).Coord)

	b.Remove(m.To)
	b.mustPlace(m.Piece, m.From)
	b.mustPlace(m.Captured, m.EnPassant)

	return len(checks) > 0
}

// stepMoves generates single-step moves for kings and knights. A pinned
// knight can never move; kings are handled by the safety re-check instead of
// the pin table.
func (gs *GameState) stepMoves(id PieceID, pinTable map[PieceID]Offset, moves *[]*Move) {
	b := gs.Board
	p := b.Piece(id)
	if _, pinned := pinTable[id]; pinned {
		return
	}
	for _, dir := range p.Kind.Directions() {
		to := p.Coord.Add(dir, 1)
		if !b.InBounds(to) {
			continue
		}
		if tid := b.PieceAt(to); tid != NoPiece && b.Piece(tid).Color == p.Color {
			continue
		}
		*moves = append(*moves, mustMove(b, p.Coord, to, gs.Ply))
	}
}

// slideMoves generates moves for queens, rooks and bishops: walk each
// direction, stop at the first friendly piece, capture and stop at the first
// enemy piece. A pinned slider may only move along its pin axis.
func (gs *GameState) slideMoves(id PieceID, pinTable map[PieceID]Offset, moves *[]*Move) {
	b := gs.Board
	p := b.Piece(id)
	pin, pinned := pinTable[id]
	bound := b.Files
	if b.Ranks > bound {
		bound = b.Ranks
	}

	for _, dir := range p.Kind.Directions() {
		if pinned && pin != dir && pin != dir.Neg() {
			continue
		}
		for i := 1; i < bound; i++ {
			to := p.Coord.Add(dir, i)
			if !b.InBounds(to) {
				break
			}
			tid := b.PieceAt(to)
			if tid == NoPiece {
				*moves = append(*moves, mustMove(b, p.Coord, to, gs.Ply))
				continue
			}
			if b.Piece(tid).Color != p.Color {
				*moves = append(*moves, mustMove(b, p.Coord, to, gs.Ply))
			}
			break
		}
	}
}

// pinsAndChecks scans the eight ray directions outward from the given
// coordinate (normally the king's square, or a candidate king destination)
// plus the knight offsets, and reports the friendly pieces pinned along a
// ray and the enemy pieces giving check. The king itself is skipped when a
// ray crosses its actual square, so probing a destination sees the board as
// if the king had already stepped.
func (gs *GameState) pinsAndChecks(kingID PieceID, at Coord) (pins, checks []rayHit) {
	b := gs.Board
	kingColor := b.Piece(kingID).Color
	bound := b.Files
	if b.Ranks > bound {
		bound = b.Ranks
	}

	for _, dir := range royalDirs {
		possiblePin := rayHit{}
		hasPin := false
		for i := 1; i < bound; i++ {
			c := at.Add(dir, i)
			if !b.InBounds(c) {
				break
			}
			id := b.PieceAt(c)
			if id == NoPiece {
				continue
			}
			p := b.Piece(id)
			if p.Color == kingColor {
				if id == kingID {
					continue
				}
				if !hasPin {
					possiblePin = rayHit{c, dir}
					hasPin = true
					continue
				}
				// Second friendly piece shields the first; no pin here.
				break
			}
			if attacksFrom(p, dir, i) {
				if !hasPin {
					checks = append(checks, rayHit{c, dir})
				} else {
					pins = append(pins, possiblePin)
				}
			}
			break
		}
	}

	for _, off := range knightOffsets {
		c := Coord{at.File + off.File, at.Rank + off.Rank}
		if !b.InBounds(c) {
			continue
		}
		id := b.PieceAt(c)
		if id == NoPiece {
			continue
		}
		if p := b.Piece(id); p.Color != kingColor && p.Kind == Knight {
			checks = append(checks, rayHit{c, off})
		}
	}

	return pins, checks
}

// attacksFrom reports whether the enemy piece found at distance dist along
// ray dir (scanning outward from the king) attacks back down that ray.
// Queens attack any ray, rooks orthogonals, bishops diagonals; kings only at
// distance one; pawns only at distance one on the diagonal matching their
// capture direction.
func attacksFrom(p *Piece, dir Offset, dist int) bool {
	switch p.Kind {
	case King:
		return dist == 1
	case Pawn:
		if dist != 1 || dir.File == 0 {
			return false
		}
		// A white pawn captures toward higher ranks, so scanning from the
		// king it is found one step down-rank.
		if p.Color == White {
			return dir.Rank == -1
		}
		return dir.Rank == 1
	default:
		return p.Kind.attacksAlong(dir)
	}
}

// castleMoves generates Chess960 castling. The king must be unmoved and not
// in check; each original rook square must still hold its unmoved rook; the
// path between king and rook (exclusive of the rook's own square) must be
// clear; the squares the king passes through must be safe; and the king and
// rook destinations may only be occupied by the castling rook itself.
func (gs *GameState) castleMoves(kingID PieceID) []*Move {
	b := gs.Board
	king := b.Piece(kingID)
	color := king.Color
	kingCoord := king.Coord
	var moves []*Move

	for _, start := range gs.rookStarts[color] {
		rookID := b.PieceAt(start)
		if rookID == NoPiece {
			continue
		}
		rook := b.Piece(rookID)
		if rook.Kind != Rook || rook.Color != color || rook.HasMoved() {
			continue
		}

		dir := 1
		if start.File < kingCoord.File {
			dir = -1
		}
		steps := abs(start.File - kingCoord.File)

		clear := true
		for i := 1; i < steps; i++ {
			if !b.Empty(Coord{kingCoord.File + i*dir, kingCoord.Rank}) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		safe := true
		for i := 1; i <= 2; i++ {
			transit := Coord{kingCoord.File + i*dir, kingCoord.Rank}
			if !b.InBounds(transit) {
				safe = false
				break
			}
			if _, checks := gs.pinsAndChecks(kingID, transit); len(checks) > 0 {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}

		dest := Coord{kingCoord.File + 2*dir, kingCoord.Rank}
		if !b.InBounds(dest) {
			continue
		}
		if occ := b.PieceAt(dest); occ != NoPiece && occ != rookID {
			continue
		}
		rookTo := Coord{kingCoord.File + dir, kingCoord.Rank}
		if occ := b.PieceAt(rookTo); occ != NoPiece && occ != rookID {
			continue
		}

		moves = append(moves, newCastleMove(b, kingCoord, dest, &CastleInfo{
			Rook:     rookID,
			RookFrom: start,
			RookTo:   rookTo,
		}, gs.Ply))
	}
	return moves
}
