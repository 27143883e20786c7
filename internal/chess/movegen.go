package chess

import "golang.org/x/exp/constraints"

type offset struct {
	dr, dc int
}

var (
	straightDirs = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs    = append(append([]offset{}, straightDirs...), diagonalDirs...)
	knightSteps  = []offset{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingSteps    = queenDirs
)

// moveFunc produces the pseudo-legal moves of the piece p standing on from.
// castling is false when only attack geometry is wanted.
type moveFunc func(b *Board, from Position, p Piece, castling bool) []Move

// moveRules is indexed by PieceType.
var moveRules = [...]moveFunc{
	NoPieceType: func(*Board, Position, Piece, bool) []Move { return nil },
	Pawn:        pawnMoves,
	Knight:      stepper(knightSteps),
	Bishop:      slider(diagonalDirs),
	Rook:        slider(straightDirs),
	Queen:       slider(queenDirs),
	King:        kingMoves,
}

// PseudoLegalMoves returns the moves the piece on from could make by its
// movement geometry alone, castling candidates included, without regard to
// whether they leave its own king in check. It returns nil for an empty square.
func PseudoLegalMoves(b *Board, from Position) []Move {
	p, ok := b.Get(from)
	if !ok {
		return nil
	}
	return moveRules[p.Type](b, from, p, true)
}

func slider(dirs []offset) moveFunc {
	return func(b *Board, from Position, p Piece, _ bool) []Move {
		var moves []Move
		for _, d := range dirs {
			to, ok := from.offset(d.dr, d.dc)
			for ok {
				if b.FriendlyOccupied(to, p.Color) {
					break
				}
				moves = append(moves, NewMove(from, to))
				if b.EnemyOccupied(to, p.Color) {
					break
				}
				to, ok = to.offset(d.dr, d.dc)
			}
		}
		return moves
	}
}

func stepper(steps []offset) moveFunc {
	return func(b *Board, from Position, p Piece, _ bool) []Move {
		return stepMoves(b, from, p, steps)
	}
}

func stepMoves(b *Board, from Position, p Piece, steps []offset) []Move {
	moves := make([]Move, 0, len(steps))
	for _, s := range steps {
		to, ok := from.offset(s.dr, s.dc)
		if !ok || b.FriendlyOccupied(to, p.Color) {
			continue
		}
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

func kingMoves(b *Board, from Position, p Piece, castling bool) []Move {
	moves := stepMoves(b, from, p, kingSteps)
	if castling {
		moves = append(moves, castlingCandidates(b, from, p)...)
	}
	return moves
}

// castleSide describes one castling option on a color's home row, by column.
type castleSide struct {
	rookCol     int
	kingToCol   int
	rookToCol   int
	transitCol  int
	betweenCols []int
}

const kingHomeCol = 5

var castleSides = [2]castleSide{
	{rookCol: 8, kingToCol: 7, rookToCol: 6, transitCol: 6, betweenCols: []int{6, 7}},
	{rookCol: 1, kingToCol: 3, rookToCol: 4, transitCol: 4, betweenCols: []int{2, 3, 4}},
}

// castleSideFor reports which castling option a king move represents, if any.
func castleSideFor(m Move, p Piece) (castleSide, bool) {
	if p.Type != King || m.Start.Col() != kingHomeCol || m.Start.Row() != m.End.Row() ||
		abs(m.End.Col()-m.Start.Col()) != 2 {
		return castleSide{}, false
	}
	for _, cs := range castleSides {
		if cs.kingToCol == m.End.Col() {
			return cs, true
		}
	}
	return castleSide{}, false
}

// castlingCandidates offers a castle toward each unmoved friendly rook when
// the king is unmoved on its home square and every square between them is
// empty. Whether the king passes through check is decided by the legality
// filter.
func castlingCandidates(b *Board, from Position, king Piece) []Move {
	row := king.Color.homeRow()
	if king.HasMoved || from.Row() != row || from.Col() != kingHomeCol {
		return nil
	}
	var moves []Move
	for _, cs := range castleSides {
		rook, ok := b.Get(MustPosition(row, cs.rookCol))
		if !ok || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		pathEmpty := true
		for _, col := range cs.betweenCols {
			if !b.IsEmpty(MustPosition(row, col)) {
				pathEmpty = false
				break
			}
		}
		if pathEmpty {
			moves = append(moves, NewMove(from, MustPosition(row, cs.kingToCol)))
		}
	}
	return moves
}

func pawnMoves(b *Board, from Position, p Piece, _ bool) []Move {
	var moves []Move
	dir := p.Color.forward()

	if one, ok := from.offset(dir, 0); ok && b.IsEmpty(one) {
		moves = appendPawnMove(moves, from, one, p.Color)
		if from.Row() == pawnStartRow(p.Color) {
			if two, ok := from.offset(2*dir, 0); ok && b.IsEmpty(two) {
				moves = append(moves, NewMove(from, two))
			}
		}
	}
	for _, dc := range [2]int{-1, 1} {
		if diag, ok := from.offset(dir, dc); ok && b.EnemyOccupied(diag, p.Color) {
			moves = appendPawnMove(moves, from, diag, p.Color)
		}
	}
	return moves
}

func pawnStartRow(c Color) int {
	if c == White {
		return 2
	}
	return 7
}

// promotionRow is the far rank for c's pawns.
func promotionRow(c Color) int {
	return c.Opposite().homeRow()
}

// appendPawnMove expands a move onto the far rank into one move per
// promotion type.
func appendPawnMove(moves []Move, from, to Position, c Color) []Move {
	if to.Row() != promotionRow(c) {
		return append(moves, NewMove(from, to))
	}
	for _, t := range PromotionTypes {
		moves = append(moves, Move{Start: from, End: to, Promotion: t})
	}
	return moves
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
