package chess

// Perft counts the leaf nodes of the legal move tree of the given depth
// from g's position, for the side to move. g is left unchanged.
func Perft(g *Game, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := g.LegalMoves(g.turn)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		child := g.Clone()
		if err := child.MakeMove(m); err != nil {
			// LegalMoves and MakeMove share one legality check.
			panic(err)
		}
		nodes += Perft(child, depth-1)
	}
	return nodes
}
