package chess

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardBoard(t *testing.T) {
	t.Parallel()
	b := NewStandardBoard()

	p, ok := b.Get(MustParse("e1"))
	require.True(t, ok)
	assert.Equal(t, NewPiece(White, King), p)

	p, ok = b.Get(MustParse("d8"))
	require.True(t, ok)
	assert.Equal(t, NewPiece(Black, Queen), p)

	for col := 1; col <= 8; col++ {
		assert.True(t, b.FriendlyOccupied(MustPosition(2, col), White))
		assert.True(t, b.EnemyOccupied(MustPosition(7, col), White))
		for row := 3; row <= 6; row++ {
			assert.True(t, b.IsEmpty(MustPosition(row, col)))
		}
	}
}

func TestBoardApplyMove(t *testing.T) {
	t.Parallel()
	b := NewStandardBoard()
	b.ApplyMove(mv("e2e4"))

	assert.True(t, b.IsEmpty(MustParse("e2")))
	p, ok := b.Get(MustParse("e4"))
	require.True(t, ok)
	assert.Equal(t, Piece{Color: White, Type: Pawn, HasMoved: true}, p)

	// No legality: a rook may jump straight into the enemy camp.
	b.ApplyMove(mv("a1a7"))
	p, _ = b.Get(MustParse("a7"))
	assert.Equal(t, Rook, p.Type)
	assert.Equal(t, White, p.Color)
}

func TestBoardApplyMovePromotion(t *testing.T) {
	t.Parallel()
	b := NewEmptyBoard()
	b.Place(MustParse("b7"), NewPiece(White, Pawn))
	b.ApplyMove(mv("b7b8n"))

	p, ok := b.Get(MustParse("b8"))
	require.True(t, ok)
	assert.Equal(t, Piece{Color: White, Type: Knight, HasMoved: true}, p)
	assert.True(t, b.IsEmpty(MustParse("b7")))
}

func TestBoardCloneIsIndependent(t *testing.T) {
	t.Parallel()
	b := NewStandardBoard()
	c := b.Clone()
	require.True(t, b.Equal(c))
	require.Equal(t, b, c)

	c.ApplyMove(mv("g1f3"))
	assert.False(t, b.Equal(c))
	p, _ := b.Get(MustParse("g1"))
	assert.Equal(t, NewPiece(White, Knight), p)
}

func TestBoardStructuralEquality(t *testing.T) {
	t.Parallel()
	a := NewStandardBoard()
	b := NewStandardBoard()
	a.ApplyMove(mv("g1f3"))
	b.ApplyMove(mv("g1f3"))
	assert.True(t, a.Equal(b))

	seen := map[Board]int{a: 1}
	seen[b]++
	assert.Equal(t, 2, seen[a], "equal boards hash alike")

	// The moved flag is part of the piece, so a knight that went out and
	// back is not the same position for castling purposes.
	a.ApplyMove(mv("f3g1"))
	assert.False(t, a.Equal(NewStandardBoard()))
}

func TestBoardPlaceAndRemove(t *testing.T) {
	t.Parallel()
	var b Board
	pos := MustParse("d4")
	b.Place(pos, NewPiece(Black, Bishop))
	assert.True(t, b.FriendlyOccupied(pos, Black))
	assert.True(t, b.EnemyOccupied(pos, White))
	b.Place(pos, Piece{})
	assert.True(t, b.IsEmpty(pos))
	b.Place(pos, NewPiece(Black, Bishop))
	b.Remove(pos)
	assert.True(t, b.IsEmpty(pos))
}

func TestBoardFindKing(t *testing.T) {
	t.Parallel()
	b := NewStandardBoard()
	pos, ok := b.FindKing(Black)
	require.True(t, ok)
	assert.Equal(t, MustParse("e8"), pos)

	b.Remove(pos)
	_, ok = b.FindKing(Black)
	assert.False(t, ok)
}

func TestBoardJSON(t *testing.T) {
	t.Parallel()
	b := NewStandardBoard()
	b.ApplyMove(mv("e2e4"))

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var got Board
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, b.Equal(got))

	err = json.Unmarshal([]byte(`[{"square":"e4","piece":{"color":"white","type":"pawn"}},{"square":"e4","piece":{"color":"black","type":"pawn"}}]`), &got)
	assert.Error(t, err)
	err = json.Unmarshal([]byte(`[{"square":"z9","piece":{"color":"white","type":"pawn"}}]`), &got)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestBoardOffBoardPositions(t *testing.T) {
	t.Parallel()
	b := NewStandardBoard()
	_, ok := b.Get(Position{})
	assert.False(t, ok)
	assert.True(t, b.IsEmpty(Position{}))

	b.ApplyMove(Move{Start: MustParse("e2")})
	assert.True(t, b.Equal(NewStandardBoard()), "a move to nowhere must not lift the piece")
	assert.Nil(t, PseudoLegalMoves(&b, Position{}))
}
