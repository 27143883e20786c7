package store

import (
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]GameStore {
	t.Helper()
	b, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return map[string]GameStore{
		"memory": NewMemoryStore(),
		"badger": b,
	}
}

func TestGameStore(t *testing.T) {
	t.Parallel()
	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			first := model.NewGameData("b", "first", base)
			second := model.NewGameData("a", "second", base.Add(time.Minute))

			require.NoError(t, s.Create(first))
			require.NoError(t, s.Create(second))
			assert.ErrorIs(t, s.Create(first), ErrGameExists)

			_, err := s.Get("missing")
			assert.ErrorIs(t, err, ErrGameNotFound)
			assert.ErrorIs(t, s.Update(model.NewGameData("missing", "", base)), ErrGameNotFound)

			got, err := s.Get("b")
			require.NoError(t, err)
			require.NoError(t, got.Game.MakeMove(chess.NewMove(chess.MustParse("e2"), chess.MustParse("e4"))))
			got.Players.SetSeat(chess.White, "alice")

			stale, err := s.Get("b")
			require.NoError(t, err)
			assert.Equal(t, chess.White, stale.Game.Turn(), "a returned copy leaked into the store")

			require.NoError(t, s.Update(got))
			fresh, err := s.Get("b")
			require.NoError(t, err)
			assert.True(t, got.Game.Equal(fresh.Game))
			assert.Equal(t, "alice", fresh.Players.White)
			_, ok := fresh.Game.EnPassant()
			assert.True(t, ok)

			list, err := s.List()
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "b", list[0].ID, "oldest first")
			assert.Equal(t, "a", list[1].ID)
		})
	}
}

func TestBadgerStoreReopens(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := OpenBadger(dir)
	require.NoError(t, err)

	g := model.NewGameData("g1", "durable", time.Now().UTC())
	require.NoError(t, g.Game.MakeMove(chess.NewMove(chess.MustParse("g1"), chess.MustParse("f3"))))
	g.End("white resigned")
	require.NoError(t, s.Create(g))
	require.NoError(t, s.Close())

	s, err = OpenBadger(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get("g1")
	require.NoError(t, err)
	assert.True(t, got.Over)
	assert.Equal(t, "white resigned", got.Result)
	assert.True(t, g.Game.Equal(got.Game))
}
