package model

import (
	"github.com/benbeisheim/chess-backend/internal/chess"
)

type Player struct {
	ID string `json:"id"`
}

// Role is the part a player takes in a game.
type Role string

const (
	RoleWhite    Role = "white"
	RoleBlack    Role = "black"
	RoleObserver Role = "observer"
)

func RoleFor(c chess.Color) Role {
	if c == chess.White {
		return RoleWhite
	}
	return RoleBlack
}

// Color returns the colour a seated role plays. Observers have none.
func (r Role) Color() (chess.Color, bool) {
	switch r {
	case RoleWhite:
		return chess.White, true
	case RoleBlack:
		return chess.Black, true
	default:
		return chess.White, false
	}
}

// Players holds the IDs seated at each colour; an empty ID is an open seat.
type Players struct {
	White string `json:"white"`
	Black string `json:"black"`
}

func (p Players) Seat(c chess.Color) string {
	if c == chess.White {
		return p.White
	}
	return p.Black
}

func (p *Players) SetSeat(c chess.Color, playerID string) {
	if c == chess.White {
		p.White = playerID
	} else {
		p.Black = playerID
	}
}

// RoleOf reports how playerID takes part: the colour they hold, or observer.
func (p Players) RoleOf(playerID string) Role {
	switch {
	case playerID == "":
		return RoleObserver
	case p.White == playerID:
		return RoleWhite
	case p.Black == playerID:
		return RoleBlack
	default:
		return RoleObserver
	}
}

// OpenSeat returns the first free colour, white first.
func (p Players) OpenSeat() (chess.Color, bool) {
	switch {
	case p.White == "":
		return chess.White, true
	case p.Black == "":
		return chess.Black, true
	default:
		return chess.White, false
	}
}
