package chess

import (
	"encoding/json"
	"fmt"
)

// snapshot is the durable form of a Game. Moved flags travel with each
// piece on the board so a restored game offers exactly the same moves.
type snapshot struct {
	Board     Board     `json:"board"`
	Turn      Color     `json:"turn"`
	EnPassant *Position `json:"enPassant"`
}

func (g *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Board:     g.board,
		Turn:      g.turn,
		EnPassant: g.enPassant,
	})
}

func (g *Game) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode game: %w", err)
	}
	if s.EnPassant != nil {
		if err := checkEnPassant(&s.Board, *s.EnPassant, s.Turn); err != nil {
			return fmt.Errorf("decode game: %w", err)
		}
	}
	g.board = s.Board
	g.turn = s.Turn
	g.enPassant = s.EnPassant
	return nil
}

// checkEnPassant verifies that sq could hold a pawn of the side that just
// moved, landed there by a double step.
func checkEnPassant(b *Board, sq Position, turn Color) error {
	mover := turn.Opposite()
	p, ok := b.Get(sq)
	if !ok || p.Type != Pawn {
		return fmt.Errorf("en passant square %s holds no pawn", sq)
	}
	if p.Color != mover {
		return fmt.Errorf("en passant pawn on %s is %s but %s moved last", sq, p.Color, mover)
	}
	if sq.Row() != pawnStartRow(mover)+2*mover.forward() {
		return fmt.Errorf("en passant pawn on %s is not on a double step rank", sq)
	}
	return nil
}
