package store

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/model"
)

type MemoryStore struct {
	games map[string]*model.GameData
	mu    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*model.GameData),
	}
}

func (s *MemoryStore) Create(game *model.GameData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[game.ID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, game.ID)
	}
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *MemoryStore) Get(id string) (*model.GameData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, exists := s.games[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return game.Clone(), nil
}

func (s *MemoryStore) Update(game *model.GameData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[game.ID]; !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, game.ID)
	}
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *MemoryStore) List() ([]*model.GameData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*model.GameData, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game.Clone())
	}
	sortGames(games)
	return games, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
