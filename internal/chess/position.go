package chess

import (
	"errors"
	"fmt"
)

const boardSize = 8

var (
	ErrInvalidPosition = errors.New("invalid position")
)

// Position is a square addressed by row (rank, 1 = white's back rank) and
// column (file, 1 = a). The zero value is not a valid square; construct
// positions with NewPosition or ParsePosition.
type Position struct {
	row, col int8
}

func NewPosition(row, col int) (Position, error) {
	if !inBounds(row, col) {
		return Position{}, fmt.Errorf("%w: row=%d col=%d", ErrInvalidPosition, row, col)
	}
	return Position{row: int8(row), col: int8(col)}, nil
}

// MustPosition is NewPosition for literals known to be on the board.
func MustPosition(row, col int) Position {
	p, err := NewPosition(row, col)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePosition reads algebraic notation such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	col := int(s[0]-'a') + 1
	row := int(s[1]-'0')
	if s[0] < 'a' || s[1] < '0' || !inBounds(row, col) {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return Position{row: int8(row), col: int8(col)}, nil
}

// MustParse is ParsePosition for literals.
func MustParse(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func inBounds(row, col int) bool {
	return row >= 1 && row <= boardSize && col >= 1 && col <= boardSize
}

func (p Position) Row() int { return int(p.row) }

func (p Position) Col() int { return int(p.col) }

func (p Position) IsValid() bool {
	return inBounds(p.Row(), p.Col())
}

// offset returns the square dr rows and dc columns away, if it is on the board.
func (p Position) offset(dr, dc int) (Position, bool) {
	row, col := p.Row()+dr, p.Col()+dc
	if !inBounds(row, col) {
		return Position{}, false
	}
	return Position{row: int8(row), col: int8(col)}, true
}

func (p Position) String() string {
	if !p.IsValid() {
		return ""
	}
	return fmt.Sprintf("%c%d", 'a'+p.col-1, p.row)
}

func (p Position) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: row=%d col=%d", ErrInvalidPosition, p.row, p.col)
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	pos, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// AllPositions enumerates the 64 squares from a1 to h8, row by row.
func AllPositions() []Position {
	all := make([]Position, 0, boardSize*boardSize)
	for row := 1; row <= boardSize; row++ {
		for col := 1; col <= boardSize; col++ {
			all = append(all, Position{row: int8(row), col: int8(col)})
		}
	}
	return all
}
