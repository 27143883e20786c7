// Package store persists game sessions.
package store

import (
	"errors"
	"sort"

	"github.com/benbeisheim/chess-backend/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameStore keeps game sessions between moves. Implementations hand out
// copies: mutating a returned GameData does not change what is stored.
type GameStore interface {
	Create(game *model.GameData) error
	Get(id string) (*model.GameData, error)
	Update(game *model.GameData) error
	List() ([]*model.GameData, error)
	Close() error
}

func sortGames(games []*model.GameData) {
	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})
}
