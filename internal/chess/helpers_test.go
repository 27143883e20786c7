package chess

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// diagram builds a board from eight rows, rank 8 first, using upper case
// for white and lower case for black and '.' for an empty square. Pieces
// are unmoved.
func diagram(t *testing.T, rows ...string) Board {
	t.Helper()
	require.Len(t, rows, 8)
	var b Board
	for i, row := range rows {
		require.Len(t, row, 8, "rank %d", 8-i)
		for j, r := range row {
			if r == '.' {
				continue
			}
			c := White
			if r >= 'a' && r <= 'z' {
				c = Black
				r -= 'a' - 'A'
			}
			var pt PieceType
			switch r {
			case 'P':
				pt = Pawn
			case 'N':
				pt = Knight
			case 'B':
				pt = Bishop
			case 'R':
				pt = Rook
			case 'Q':
				pt = Queen
			case 'K':
				pt = King
			default:
				t.Fatalf("unexpected symbol %q", r)
			}
			b.Place(MustPosition(8-i, j+1), NewPiece(c, pt))
		}
	}
	return b
}

func mv(s string) Move {
	m, err := ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func playAll(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		require.NoError(t, g.MakeMove(mv(s)), "move %s", s)
	}
}
