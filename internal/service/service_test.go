package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   []ws.Message
	broken bool
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("connection closed")
	}
	c.msgs = append(c.msgs, v.(ws.Message))
	return nil
}

func (c *fakeConn) types() []ws.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ws.MessageType, 0, len(c.msgs))
	for _, m := range c.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (c *fakeConn) texts(t *testing.T) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, m := range c.msgs {
		if m.Type != ws.MessageTypeNotification {
			continue
		}
		text, err := m.Text()
		require.NoError(t, err)
		out = append(out, text)
	}
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

func newTestService(t *testing.T) (*GameService, *GameManager, store.GameStore) {
	t.Helper()
	s := store.NewMemoryStore()
	gm := NewGameManager(s)
	var n atomic.Int64
	gm.newID = func() string { return fmt.Sprintf("game-%d", n.Add(1)) }
	return NewGameService(gm), gm, s
}

func move(s string) chess.Move {
	m, err := chess.ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}

// seatedGame creates a game with alice as white, bob as black and carol
// watching, each with a connection.
func seatedGame(t *testing.T, gs *GameService) (gameID string, alice, bob, carol *fakeConn) {
	t.Helper()
	summary, err := gs.CreateGame("casual")
	require.NoError(t, err)
	gameID = summary.ID

	c, err := gs.JoinGame(gameID, "alice", nil)
	require.NoError(t, err)
	require.Equal(t, chess.White, c)
	c, err = gs.JoinGame(gameID, "bob", nil)
	require.NoError(t, err)
	require.Equal(t, chess.Black, c)

	alice, bob, carol = &fakeConn{}, &fakeConn{}, &fakeConn{}
	require.NoError(t, gs.Connect(gameID, "alice", alice))
	require.NoError(t, gs.Connect(gameID, "bob", bob))
	require.NoError(t, gs.Connect(gameID, "carol", carol))
	alice.reset()
	bob.reset()
	carol.reset()
	return gameID, alice, bob, carol
}

func TestCreateAndListGames(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	first, err := gs.CreateGame("first")
	require.NoError(t, err)
	_, err = gs.CreateGame("second")
	require.NoError(t, err)

	games, err := gs.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, first.ID, games[0].ID)
	assert.Equal(t, "first", games[0].Name)

	_, err = gs.GetGameState("nope")
	assert.ErrorIs(t, err, store.ErrGameNotFound)
}

func TestJoinGame(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	summary, err := gs.CreateGame("join")
	require.NoError(t, err)
	id := summary.ID

	black := chess.Black
	c, err := gs.JoinGame(id, "bob", &black)
	require.NoError(t, err)
	assert.Equal(t, chess.Black, c)

	_, err = gs.JoinGame(id, "mallory", &black)
	assert.ErrorIs(t, err, ErrColorTaken)

	c, err = gs.JoinGame(id, "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, chess.Black, c, "seated player keeps their colour")

	c, err = gs.JoinGame(id, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, chess.White, c)

	_, err = gs.JoinGame(id, "carol", nil)
	assert.ErrorIs(t, err, ErrColorTaken)

	state, err := gs.GetGameState(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", state.Players.White)
	assert.Equal(t, "bob", state.Players.Black)
}

func TestConnectNotifiesOthers(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	summary, err := gs.CreateGame("connect")
	require.NoError(t, err)
	_, err = gs.JoinGame(summary.ID, "alice", nil)
	require.NoError(t, err)

	alice, carol := &fakeConn{}, &fakeConn{}
	require.NoError(t, gs.Connect(summary.ID, "alice", alice))
	assert.Equal(t, []ws.MessageType{ws.MessageTypeLoadGame}, alice.types())

	require.NoError(t, gs.Connect(summary.ID, "carol", carol))
	assert.Equal(t, []ws.MessageType{ws.MessageTypeLoadGame}, carol.types())
	assert.Equal(t, []string{"carol joined as an observer"}, alice.texts(t))

	assert.ErrorIs(t, gs.Connect("missing", "alice", &fakeConn{}), store.ErrGameNotFound)
}

func TestMakeMoveBroadcasts(t *testing.T) {
	t.Parallel()
	gs, _, s := newTestService(t)
	id, alice, bob, carol := seatedGame(t, gs)

	require.NoError(t, gs.MakeMove(id, "alice", move("e2e4")))

	assert.Equal(t, []ws.MessageType{ws.MessageTypeLoadGame}, alice.types(), "mover gets the board but no notification")
	assert.Equal(t, []ws.MessageType{ws.MessageTypeLoadGame, ws.MessageTypeNotification}, bob.types())
	assert.Equal(t, []string{"alice moved e2e4"}, carol.texts(t))

	stored, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, chess.Black, stored.Game.Turn(), "move was not persisted")
}

func TestMakeMoveRejects(t *testing.T) {
	t.Parallel()
	gs, _, s := newTestService(t)
	id, _, _, _ := seatedGame(t, gs)

	assert.ErrorIs(t, gs.MakeMove(id, "bob", move("e7e5")), ErrNotYourTurn)
	assert.ErrorIs(t, gs.MakeMove(id, "carol", move("e2e4")), ErrNotAPlayer)
	assert.ErrorIs(t, gs.MakeMove(id, "alice", move("e2e5")), chess.ErrInvalidMove)
	assert.ErrorIs(t, gs.MakeMove(id, "alice", move("e7e5")), chess.ErrInvalidMove, "white may not move black pieces")
	assert.ErrorIs(t, gs.MakeMove("missing", "alice", move("e2e4")), store.ErrGameNotFound)

	stored, err := s.Get(id)
	require.NoError(t, err)
	assert.True(t, stored.Game.Equal(chess.NewGame()))
}

func TestCheckmateEndsGame(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	id, alice, _, carol := seatedGame(t, gs)

	require.NoError(t, gs.MakeMove(id, "alice", move("f2f3")))
	require.NoError(t, gs.MakeMove(id, "bob", move("e7e5")))
	require.NoError(t, gs.MakeMove(id, "alice", move("g2g4")))
	require.NoError(t, gs.MakeMove(id, "bob", move("d8h4")))

	assert.Contains(t, carol.texts(t), "white is in checkmate. Game over.")
	assert.Contains(t, alice.texts(t), "white is in checkmate. Game over.")

	state, err := gs.GetGameState(id)
	require.NoError(t, err)
	assert.True(t, state.Over)
	assert.Equal(t, chess.StatusCheckmate, state.Status)
	assert.Equal(t, "checkmate, black wins", state.Result)

	assert.ErrorIs(t, gs.MakeMove(id, "alice", move("a2a3")), ErrGameOver)
	assert.ErrorIs(t, gs.Resign(id, "alice"), ErrGameOver)
}

func TestCheckNotification(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	id, _, bob, _ := seatedGame(t, gs)

	require.NoError(t, gs.MakeMove(id, "alice", move("e2e4")))
	require.NoError(t, gs.MakeMove(id, "bob", move("f7f6")))
	require.NoError(t, gs.MakeMove(id, "alice", move("d1h5")))
	assert.Contains(t, bob.texts(t), "black is in check.")

	state, err := gs.GetGameState(id)
	require.NoError(t, err)
	assert.False(t, state.Over)
	assert.Equal(t, chess.StatusCheck, state.Status)
}

func TestResign(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	id, alice, bob, _ := seatedGame(t, gs)

	assert.ErrorIs(t, gs.Resign(id, "carol"), ErrNotAPlayer)
	require.NoError(t, gs.Resign(id, "bob"))
	assert.Equal(t, []string{"bob has resigned. The game is over."}, alice.texts(t))
	assert.Equal(t, []string{"bob has resigned. The game is over."}, bob.texts(t))

	state, err := gs.GetGameState(id)
	require.NoError(t, err)
	assert.True(t, state.Over)
	assert.Equal(t, "black resigned", state.Result)
	assert.ErrorIs(t, gs.MakeMove(id, "alice", move("e2e4")), ErrGameOver)
}

func TestLeaveFreesSeat(t *testing.T) {
	t.Parallel()
	gs, gm, _ := newTestService(t)
	id, alice, bob, carol := seatedGame(t, gs)

	require.NoError(t, gs.Leave(id, "alice", alice))
	assert.Empty(t, alice.types(), "a departed player is not notified")
	assert.Equal(t, []string{"alice has left the game. Was white"}, bob.texts(t))
	assert.NotContains(t, gm.connections(id), "alice")

	state, err := gs.GetGameState(id)
	require.NoError(t, err)
	assert.Empty(t, state.Players.White)
	assert.Equal(t, "bob", state.Players.Black)

	require.NoError(t, gs.Leave(id, "carol", carol))
	assert.Contains(t, bob.texts(t), "carol has left the game. Was observer")

	c, err := gs.JoinGame(id, "dave", nil)
	require.NoError(t, err)
	assert.Equal(t, chess.White, c)
}

func TestBroadcastDropsBrokenConnections(t *testing.T) {
	t.Parallel()
	gs, gm, _ := newTestService(t)
	id, _, bob, _ := seatedGame(t, gs)

	bob.broken = true
	require.NoError(t, gs.MakeMove(id, "alice", move("d2d4")))
	assert.NotContains(t, gm.connections(id), "bob")
}

func TestStaleConnectionDoesNotUnregisterNewOne(t *testing.T) {
	t.Parallel()
	gs, gm, _ := newTestService(t)
	id, alice, _, _ := seatedGame(t, gs)

	fresh := &fakeConn{}
	require.NoError(t, gs.Connect(id, "alice", fresh))
	gs.Disconnect(id, "alice", alice)
	assert.Same(t, fresh, gm.connections(id)["alice"])
}

func TestValidMovesAndPerft(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	summary, err := gs.CreateGame("query")
	require.NoError(t, err)

	moves, ok, err := gs.ValidMoves(summary.ID, chess.MustParse("g1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, moves, 2)

	moves, ok, err = gs.ValidMoves(summary.ID, chess.MustParse("e4"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, moves)

	n, err := gs.Perft(summary.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), n)
	_, err = gs.Perft(summary.ID, MaxPerftDepth+1)
	assert.ErrorIs(t, err, ErrInvalidDepth)
}

func TestSameGameMovesAreSerialised(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	id, _, _, _ := seatedGame(t, gs)

	var wg sync.WaitGroup
	var accepted atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gs.MakeMove(id, "alice", move("e2e4")) == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), accepted.Load())
}

func TestGamesProceedIndependently(t *testing.T) {
	t.Parallel()
	gs, _, _ := newTestService(t)
	ids := make([]string, 8)
	for i := range ids {
		ids[i], _, _, _ = seatedGame(t, gs)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for _, m := range []struct{ who, mv string }{
				{"alice", "e2e4"}, {"bob", "e7e5"}, {"alice", "g1f3"}, {"bob", "b8c6"},
			} {
				assert.NoError(t, gs.MakeMove(id, m.who, move(m.mv)))
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		state, err := gs.GetGameState(id)
		require.NoError(t, err)
		assert.Equal(t, chess.White, state.Turn)
	}
}

func TestMatchmaking(t *testing.T) {
	t.Parallel()
	gs, gm, s := newTestService(t)

	assert.Equal(t, MatchIdle, gs.MatchmakingStatus("alice").Status)
	require.NoError(t, gs.JoinMatchmaking("alice"))
	assert.ErrorIs(t, gs.JoinMatchmaking("alice"), ErrAlreadyQueued)
	assert.Equal(t, MatchQueued, gs.MatchmakingStatus("alice").Status)

	assert.Equal(t, 0, gm.matchPending())
	require.NoError(t, gs.JoinMatchmaking("bob"))
	assert.Equal(t, 1, gm.matchPending())

	a := gs.MatchmakingStatus("alice")
	b := gs.MatchmakingStatus("bob")
	assert.Equal(t, MatchMatched, a.Status)
	assert.Equal(t, "white", a.Color)
	assert.Equal(t, "black", b.Color)
	assert.Equal(t, a.GameID, b.GameID)
	assert.Equal(t, MatchIdle, gs.MatchmakingStatus("alice").Status, "match is reported once")

	game, err := s.Get(a.GameID)
	require.NoError(t, err)
	assert.Equal(t, "alice", game.Players.White)
	assert.Equal(t, "bob", game.Players.Black)

	require.NoError(t, gs.JoinMatchmaking("carol"))
	assert.True(t, gs.LeaveMatchmaking("carol"))
	assert.Equal(t, MatchIdle, gs.MatchmakingStatus("carol").Status)
}

func TestMatchmakingLoopStops(t *testing.T) {
	t.Parallel()
	gs, gm, _ := newTestService(t)
	require.NoError(t, gs.JoinMatchmaking("alice"))
	require.NoError(t, gs.JoinMatchmaking("bob"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gm.StartMatchmaking(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return gs.MatchmakingStatus("alice").Status == MatchMatched
	}, time.Second, 5*time.Millisecond)
}

// failingStore refuses to create games while fail is set.
type failingStore struct {
	store.GameStore
	fail atomic.Bool
}

func (s *failingStore) Create(game *model.GameData) error {
	if s.fail.Load() {
		return errors.New("disk full")
	}
	return s.GameStore.Create(game)
}

func TestMatchmakingKeepsQueueOrderWhenCreateFails(t *testing.T) {
	t.Parallel()
	s := &failingStore{GameStore: store.NewMemoryStore()}
	gm := NewGameManager(s)
	gs := NewGameService(gm)
	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, gs.JoinMatchmaking(id))
	}

	s.fail.Store(true)
	assert.Equal(t, 0, gm.matchPending())
	for _, id := range []string{"alice", "bob", "carol"} {
		assert.Equal(t, MatchQueued, gs.MatchmakingStatus(id).Status, id)
	}

	s.fail.Store(false)
	assert.Equal(t, 1, gm.matchPending())
	assert.Equal(t, "white", gs.MatchmakingStatus("alice").Color)
	assert.Equal(t, "black", gs.MatchmakingStatus("bob").Color)
	assert.Equal(t, MatchQueued, gs.MatchmakingStatus("carol").Status)
}

func TestGameLocksAreReleased(t *testing.T) {
	t.Parallel()
	gs, gm, _ := newTestService(t)
	gameID, _, _, _ := seatedGame(t, gs)
	require.NoError(t, gs.MakeMove(gameID, "alice", move("e2e4")))

	unlock := gm.Lock(gameID)
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		gm.Lock(gameID)()
	}()
	assert.Eventually(t, func() bool {
		gm.mu.RLock()
		defer gm.mu.RUnlock()
		return gm.locks[gameID] != nil && gm.locks[gameID].refs == 2
	}, time.Second, time.Millisecond)
	unlock()
	<-acquired

	gm.mu.RLock()
	defer gm.mu.RUnlock()
	assert.Empty(t, gm.locks)
}
