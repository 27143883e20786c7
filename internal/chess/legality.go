package chess

// simulate returns a copy of b with m played, including the compound
// effects a Board does not know about: the rook of a castle and the pawn
// taken en passant. enPassant is the square of a pawn that has just made a
// double step, or nil.
func simulate(b Board, m Move, enPassant *Position) Board {
	play(&b, m, enPassant)
	return b
}

// play applies m to b in place.
func play(b *Board, m Move, enPassant *Position) {
	p, ok := b.Get(m.Start)
	if !ok {
		return
	}
	if victim, ok := enPassantVictim(b, m, p, enPassant); ok {
		b.Remove(victim)
	}
	if cs, ok := castleSideFor(m, p); ok {
		row := m.Start.Row()
		b.ApplyMove(NewMove(MustPosition(row, cs.rookCol), MustPosition(row, cs.rookToCol)))
	}
	b.ApplyMove(m)
}

// enPassantVictim returns the square of the pawn m captures en passant. The
// capture is a pawn's diagonal step onto an empty square directly behind an
// enemy pawn that has just advanced two squares and sits beside it.
func enPassantVictim(b *Board, m Move, p Piece, enPassant *Position) (Position, bool) {
	if enPassant == nil || p.Type != Pawn {
		return Position{}, false
	}
	target := *enPassant
	if m.Start.Row() != target.Row() || abs(m.Start.Col()-target.Col()) != 1 {
		return Position{}, false
	}
	if m.End.Col() != target.Col() || m.End.Row() != target.Row()+p.Color.forward() {
		return Position{}, false
	}
	victim, ok := b.Get(target)
	if !ok || victim.Type != Pawn || victim.Color == p.Color || !b.IsEmpty(m.End) {
		return Position{}, false
	}
	return target, true
}

// enPassantCapture returns the en passant move available to the piece on
// from, if any.
func enPassantCapture(b *Board, from Position, enPassant *Position) (Move, bool) {
	p, ok := b.Get(from)
	if !ok || enPassant == nil || p.Type != Pawn {
		return Move{}, false
	}
	end, ok := enPassant.offset(p.Color.forward(), 0)
	if !ok {
		return Move{}, false
	}
	m := NewMove(from, end)
	if _, ok := enPassantVictim(b, m, p, enPassant); !ok {
		return Move{}, false
	}
	return m, true
}

// isLegal plays m on a scratch copy of b and reports whether the mover's
// king survives unattacked. Castling must also not start from or pass
// through an attacked square.
func isLegal(b *Board, m Move, enPassant *Position) bool {
	p, ok := b.Get(m.Start)
	if !ok {
		return false
	}
	if cs, ok := castleSideFor(m, p); ok && !castleIsSafe(b, m, cs, p.Color) {
		return false
	}
	after := simulate(*b, m, enPassant)
	return !kingAttacked(&after, p.Color)
}

// castleIsSafe checks the king's start square on the current board and its
// transit square on a board where the king has stepped onto it.
func castleIsSafe(b *Board, m Move, cs castleSide, c Color) bool {
	if IsAttacked(b, m.Start, c) {
		return false
	}
	transit := MustPosition(m.Start.Row(), cs.transitCol)
	step := *b
	step.ApplyMove(NewMove(m.Start, transit))
	return !IsAttacked(&step, transit, c)
}

// legalMoves filters the pseudo-legal moves of the piece on from, plus any
// en passant capture open to it, down to those that keep its king safe.
// ok is false when from is empty or off the board.
func legalMoves(b *Board, from Position, enPassant *Position) (moves []Move, ok bool) {
	if !from.IsValid() || b.IsEmpty(from) {
		return nil, false
	}
	candidates := PseudoLegalMoves(b, from)
	if ep, ok := enPassantCapture(b, from, enPassant); ok {
		candidates = append(candidates, ep)
	}
	moves = make([]Move, 0, len(candidates))
	for _, m := range candidates {
		if isLegal(b, m, enPassant) {
			moves = append(moves, m)
		}
	}
	return moves, true
}

// hasLegalMove reports whether any piece of color c has a legal move.
func hasLegalMove(b *Board, c Color, enPassant *Position) bool {
	for _, from := range AllPositions() {
		if !b.FriendlyOccupied(from, c) {
			continue
		}
		if moves, _ := legalMoves(b, from, enPassant); len(moves) > 0 {
			return true
		}
	}
	return false
}
