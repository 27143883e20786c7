// Package chess implements the rules of chess and a game that only
// accepts legal moves.
package chess

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidMove = errors.New("invalid move")
)

// Status summarises a side's situation. The engine never ends a game on its
// own; callers decide what checkmate or stalemate means for a session.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

// Game owns a board, whose turn it is, and the en passant window. It is not
// safe for concurrent use: callers serialise access to a single Game.
type Game struct {
	board Board
	turn  Color
	// enPassant is the square of a pawn that made a double step on the
	// previous ply. It is nil on every other ply.
	enPassant *Position
}

// NewGame returns a game in the standard starting position with White to move.
func NewGame() *Game {
	return &Game{
		board: NewStandardBoard(),
		turn:  White,
	}
}

// NewGameFromBoard starts a game from an arbitrary arrangement. Moved flags
// are taken from the pieces as given.
func NewGameFromBoard(b Board, turn Color) *Game {
	return &Game{
		board: b,
		turn:  turn,
	}
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) SetTurn(c Color) {
	g.turn = c
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.board
}

// SetBoard replaces the board and closes any en passant window.
func (g *Game) SetBoard(b Board) {
	g.board = b
	g.enPassant = nil
}

// EnPassant returns the square of the pawn that can be captured en passant
// on this ply.
func (g *Game) EnPassant() (Position, bool) {
	if g.enPassant == nil {
		return Position{}, false
	}
	return *g.enPassant, true
}

// ValidMoves returns the legal moves of the piece on pos, whichever side it
// belongs to. ok is false when pos is empty or not a real square; an occupied square whose piece
// cannot move yields ok with an empty, non-nil slice. Callers must check ok
// before treating the result as "no moves".
func (g *Game) ValidMoves(pos Position) (moves []Move, ok bool) {
	return legalMoves(&g.board, pos, g.enPassant)
}

// LegalMoves returns every legal move available to c.
func (g *Game) LegalMoves(c Color) []Move {
	var all []Move
	for _, from := range AllPositions() {
		if !g.board.FriendlyOccupied(from, c) {
			continue
		}
		moves, _ := legalMoves(&g.board, from, g.enPassant)
		all = append(all, moves...)
	}
	return all
}

// MakeMove plays m for the side to move. On error the game is unchanged and
// the error wraps ErrInvalidMove.
func (g *Game) MakeMove(m Move) error {
	if !m.Start.IsValid() || !m.End.IsValid() {
		return fmt.Errorf("%w: move %q names a square off the board", ErrInvalidMove, m)
	}
	p, ok := g.board.Get(m.Start)
	if !ok {
		return fmt.Errorf("%w: no piece at %s", ErrInvalidMove, m.Start)
	}
	if p.Color != g.turn {
		return fmt.Errorf("%w: %s to move, not %s", ErrInvalidMove, g.turn, p.Color)
	}
	moves, _ := legalMoves(&g.board, m.Start, g.enPassant)
	if !slices.Contains(moves, m) {
		return fmt.Errorf("%w: %s is not legal", ErrInvalidMove, m)
	}

	play(&g.board, m, g.enPassant)
	g.enPassant = nil
	if p.Type == Pawn && abs(m.End.Row()-m.Start.Row()) == 2 {
		landed := m.End
		g.enPassant = &landed
	}
	g.turn = g.turn.Opposite()
	return nil
}

func (g *Game) IsInCheck(c Color) bool {
	return kingAttacked(&g.board, c)
}

// IsInCheckmate reports whether c is in check with no legal move anywhere.
func (g *Game) IsInCheckmate(c Color) bool {
	return g.IsInCheck(c) && !hasLegalMove(&g.board, c, g.enPassant)
}

// IsInStalemate reports whether c is not in check but has no legal move.
func (g *Game) IsInStalemate(c Color) bool {
	return !g.IsInCheck(c) && !hasLegalMove(&g.board, c, g.enPassant)
}

func (g *Game) Status(c Color) Status {
	check := g.IsInCheck(c)
	canMove := hasLegalMove(&g.board, c, g.enPassant)
	switch {
	case check && !canMove:
		return StatusCheckmate
	case !canMove:
		return StatusStalemate
	case check:
		return StatusCheck
	default:
		return StatusOngoing
	}
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	c := &Game{board: g.board, turn: g.turn}
	if g.enPassant != nil {
		ep := *g.enPassant
		c.enPassant = &ep
	}
	return c
}

// Equal compares board, turn and en passant window.
func (g *Game) Equal(other *Game) bool {
	if other == nil {
		return false
	}
	if g.board != other.board || g.turn != other.turn {
		return false
	}
	if (g.enPassant == nil) != (other.enPassant == nil) {
		return false
	}
	return g.enPassant == nil || *g.enPassant == *other.enPassant
}
