package chess

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return ""
	}
}

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// homeRow is the back rank the color starts on.
func (c Color) homeRow() int {
	if c == White {
		return 1
	}
	return 8
}

// forward is the row delta a pawn of this color advances by.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) MarshalText() ([]byte, error) {
	s := c.String()
	if s == "" {
		return nil, fmt.Errorf("unknown color %d", c)
	}
	return []byte(s), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	color, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = color
	return nil
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "WHITE":
		return White, nil
	case "black", "BLACK":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// PieceType tags the movement rule a piece uses. The zero value marks an
// empty square or, on a Move, the absence of a promotion.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionTypes lists what a pawn may become on the far rank.
var PromotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return ""
	}
}

// Letter is the lowercase symbol used in coordinate move notation.
func (t PieceType) Letter() string {
	switch t {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return ""
	}
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	pt, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}

func ParsePieceType(s string) (PieceType, error) {
	switch s {
	case "":
		return NoPieceType, nil
	case "pawn", "PAWN", "p":
		return Pawn, nil
	case "knight", "KNIGHT", "n":
		return Knight, nil
	case "bishop", "BISHOP", "b":
		return Bishop, nil
	case "rook", "ROOK", "r":
		return Rook, nil
	case "queen", "QUEEN", "q":
		return Queen, nil
	case "king", "KING", "k":
		return King, nil
	}
	return NoPieceType, fmt.Errorf("unknown piece type %q", s)
}

// Piece is a value; the only field that changes over a game is HasMoved,
// which castling eligibility reads.
type Piece struct {
	Color    Color     `json:"color"`
	Type     PieceType `json:"type"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(c Color, t PieceType) Piece {
	return Piece{Color: c, Type: t}
}

func (p Piece) IsZero() bool {
	return p.Type == NoPieceType
}

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}
