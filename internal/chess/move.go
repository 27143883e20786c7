package chess

import (
	"fmt"
	"strings"
)

// Move is compared by value. Promotion is NoPieceType unless a pawn reaches
// the far rank.
type Move struct {
	Start     Position  `json:"start"`
	End       Position  `json:"end"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func NewMove(start, end Position) Move {
	return Move{Start: start, End: end}
}

// String renders coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	return m.Start.String() + m.End.String() + m.Promotion.Letter()
}

// ParseMove reads coordinate notation as produced by Move.String.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	start, err := ParsePosition(s[0:2])
	if err != nil {
		return Move{}, err
	}
	end, err := ParsePosition(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{Start: start, End: end}
	if len(s) == 5 {
		promo, err := ParsePieceType(s[4:])
		if err != nil || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
		m.Promotion = promo
	}
	return m, nil
}
