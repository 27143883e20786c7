package model

import (
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
)

// GameData is a game session: the engine game, who holds each colour, and
// whether the game has ended. It is the unit the store persists.
type GameData struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Players   Players     `json:"players"`
	Over      bool        `json:"over"`
	Result    string      `json:"result,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Game      *chess.Game `json:"game"`
}

func NewGameData(id, name string, createdAt time.Time) *GameData {
	return &GameData{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		Game:      chess.NewGame(),
	}
}

// Clone returns a copy that shares nothing mutable with g.
func (g *GameData) Clone() *GameData {
	c := *g
	if g.Game != nil {
		c.Game = g.Game.Clone()
	}
	return &c
}

// End marks the game over. Later moves and resignations are refused.
func (g *GameData) End(result string) {
	g.Over = true
	g.Result = result
}

// GameState is what clients see of a game.
type GameState struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Players   Players         `json:"players"`
	Turn      chess.Color     `json:"turn"`
	Status    chess.Status    `json:"status"`
	Over      bool            `json:"over"`
	Result    string          `json:"result,omitempty"`
	Board     chess.Board     `json:"board"`
	EnPassant *chess.Position `json:"enPassant"`
}

func (g *GameData) State() GameState {
	s := GameState{
		ID:      g.ID,
		Name:    g.Name,
		Players: g.Players,
		Turn:    g.Game.Turn(),
		Status:  g.Game.Status(g.Game.Turn()),
		Over:    g.Over,
		Result:  g.Result,
		Board:   g.Game.Board(),
	}
	if ep, ok := g.Game.EnPassant(); ok {
		s.EnPassant = &ep
	}
	return s
}

// GameSummary is one row of the game list.
type GameSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	Over      bool      `json:"over"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g *GameData) Summary() GameSummary {
	return GameSummary{
		ID:        g.ID,
		Name:      g.Name,
		White:     g.Players.White,
		Black:     g.Players.Black,
		Over:      g.Over,
		CreatedAt: g.CreatedAt,
	}
}
