package chess

// IsAttacked reports whether any piece of the side opposing defending has a
// pseudo-legal move ending on target. Castling never attacks, and en
// passant only ever attacks a pawn, never a king, so both are ignored.
func IsAttacked(b *Board, target Position, defending Color) bool {
	attacker := defending.Opposite()
	for _, from := range AllPositions() {
		p, ok := b.Get(from)
		if !ok || p.Color != attacker {
			continue
		}
		for _, m := range moveRules[p.Type](b, from, p, false) {
			if m.End == target {
				return true
			}
		}
	}
	return false
}

// kingAttacked reports whether c's king is attacked on b. A board without
// that king is never in check.
func kingAttacked(b *Board, c Color) bool {
	king, ok := b.FindKing(c)
	if !ok {
		return false
	}
	return IsAttacked(b, king, c)
}
