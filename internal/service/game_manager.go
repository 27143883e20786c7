package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// GameManager owns the live side of every game: the per-game locks, the
// open connections, and the matchmaking queue. Game data itself lives in
// the store.
type GameManager struct {
	store   store.GameStore
	locks   map[string]*gameLock
	conns   map[string]map[string]Conn // gameID -> playerID -> connection
	queue   *model.Queue
	matches map[string]model.MatchFoundEvent
	mu      sync.RWMutex

	newID func() string
	now   func() time.Time
}

func NewGameManager(s store.GameStore) *GameManager {
	return &GameManager{
		store:   s,
		locks:   make(map[string]*gameLock),
		conns:   make(map[string]map[string]Conn),
		queue:   model.NewQueue(),
		matches: make(map[string]model.MatchFoundEvent),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// gameLock is a per-game mutex counted by its holder and waiters.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

// Lock serialises work on one game and returns the matching unlock, which
// must be called exactly once. Different games never wait on each other.
// An entry lives only while someone holds or waits for it.
func (gm *GameManager) Lock(gameID string) (unlock func()) {
	gm.mu.Lock()
	l, ok := gm.locks[gameID]
	if !ok {
		l = &gameLock{}
		gm.locks[gameID] = l
	}
	l.refs++
	gm.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		gm.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(gm.locks, gameID)
		}
		gm.mu.Unlock()
	}
}

func (gm *GameManager) CreateGame(name string) (*model.GameData, error) {
	game := model.NewGameData(gm.newID(), name, gm.now().UTC())
	if err := gm.store.Create(game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("created game %s %q", game.ID, name)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.GameData, error) {
	return gm.store.Get(gameID)
}

func (gm *GameManager) SaveGame(game *model.GameData) error {
	if err := gm.store.Update(game); err != nil {
		return fmt.Errorf("failed to save game %s: %w", game.ID, err)
	}
	return nil
}

func (gm *GameManager) ListGames() ([]*model.GameData, error) {
	return gm.store.List()
}
