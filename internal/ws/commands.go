package ws

import (
	"github.com/benbeisheim/chess-backend/internal/chess"
)

// MovePayload is the body of a MAKE_MOVE command.
type MovePayload struct {
	Move chess.Move `json:"move"`
}
