package chess

import (
	"encoding/json"
	"fmt"
)

var backRank = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is an 8x8 grid of pieces. It is a plain value: assigning a Board
// copies every square, and two boards compare equal with == when every
// square holds an equal piece. A Board applies moves without checking them.
type Board struct {
	squares [boardSize][boardSize]Piece
}

func NewEmptyBoard() Board {
	return Board{}
}

// NewStandardBoard returns the starting position.
func NewStandardBoard() Board {
	var b Board
	for i, t := range backRank {
		b.squares[0][i] = NewPiece(White, t)
		b.squares[1][i] = NewPiece(White, Pawn)
		b.squares[6][i] = NewPiece(Black, Pawn)
		b.squares[7][i] = NewPiece(Black, t)
	}
	return b
}

// Get returns the piece on pos and whether the square is occupied. A
// position off the board is never occupied.
func (b *Board) Get(pos Position) (Piece, bool) {
	if !pos.IsValid() {
		return Piece{}, false
	}
	p := b.squares[pos.row-1][pos.col-1]
	return p, !p.IsZero()
}

// Place puts p on pos, replacing whatever was there. Placing the zero
// Piece clears the square.
func (b *Board) Place(pos Position, p Piece) {
	b.squares[pos.row-1][pos.col-1] = p
}

func (b *Board) Remove(pos Position) {
	b.squares[pos.row-1][pos.col-1] = Piece{}
}

func (b *Board) IsEmpty(pos Position) bool {
	_, ok := b.Get(pos)
	return !ok
}

// ApplyMove relocates the piece on m.Start to m.End, swapping in the
// promotion type if one is set, and marks it as moved. Compound effects
// (the castling rook, the en passant victim) are not handled here. A move
// with an off-board square leaves the board unchanged.
func (b *Board) ApplyMove(m Move) {
	p, ok := b.Get(m.Start)
	if !ok || !m.End.IsValid() {
		return
	}
	if m.Promotion != NoPieceType {
		p.Type = m.Promotion
	}
	p.HasMoved = true
	b.Remove(m.Start)
	b.Place(m.End, p)
}

// Clone returns an independent copy.
func (b *Board) Clone() Board {
	return *b
}

func (b *Board) Equal(other Board) bool {
	return b.squares == other.squares
}

func (b *Board) FriendlyOccupied(pos Position, c Color) bool {
	p, ok := b.Get(pos)
	return ok && p.Color == c
}

func (b *Board) EnemyOccupied(pos Position, c Color) bool {
	p, ok := b.Get(pos)
	return ok && p.Color != c
}

// FindKing returns the square of c's king.
func (b *Board) FindKing(c Color) (Position, bool) {
	for _, pos := range AllPositions() {
		if p, ok := b.Get(pos); ok && p.Type == King && p.Color == c {
			return pos, true
		}
	}
	return Position{}, false
}

type boardSquare struct {
	Square Position `json:"square"`
	Piece  Piece    `json:"piece"`
}

// MarshalJSON lists occupied squares in a1..h8 order.
func (b Board) MarshalJSON() ([]byte, error) {
	squares := make([]boardSquare, 0, 32)
	for _, pos := range AllPositions() {
		if p, ok := b.Get(pos); ok {
			squares = append(squares, boardSquare{Square: pos, Piece: p})
		}
	}
	return json.Marshal(squares)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var squares []boardSquare
	if err := json.Unmarshal(data, &squares); err != nil {
		return err
	}
	var nb Board
	for _, sq := range squares {
		if !sq.Square.IsValid() {
			return fmt.Errorf("%w: missing square", ErrInvalidPosition)
		}
		if sq.Piece.IsZero() {
			return fmt.Errorf("square %s: missing piece type", sq.Square)
		}
		if !nb.IsEmpty(sq.Square) {
			return fmt.Errorf("square %s listed twice", sq.Square)
		}
		nb.Place(sq.Square, sq.Piece)
	}
	*b = nb
	return nil
}
