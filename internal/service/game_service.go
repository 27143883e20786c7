package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotAPlayer    = errors.New("not a player in this game")
	ErrColorTaken    = errors.New("color already taken")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrAlreadyQueued = model.ErrAlreadyQueued
	ErrInvalidDepth  = errors.New("perft depth out of range")
)

// MaxPerftDepth bounds the debug move-tree count served over HTTP.
const MaxPerftDepth = 4

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(name string) (model.GameSummary, error) {
	game, err := gs.gameManager.CreateGame(name)
	if err != nil {
		return model.GameSummary{}, err
	}
	return game.Summary(), nil
}

func (gs *GameService) ListGames() ([]model.GameSummary, error) {
	games, err := gs.gameManager.ListGames()
	if err != nil {
		return nil, err
	}
	out := make([]model.GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, g.Summary())
	}
	return out, nil
}

// JoinGame seats playerID. With a nil color the first open seat is taken;
// a player already seated gets their colour back.
func (gs *GameService) JoinGame(gameID, playerID string, color *chess.Color) (chess.Color, error) {
	defer gs.gameManager.Lock(gameID)()

	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return chess.White, err
	}

	var seat chess.Color
	switch {
	case color != nil:
		seat = *color
	default:
		if held, ok := game.Players.RoleOf(playerID).Color(); ok {
			return held, nil
		}
		open, ok := game.Players.OpenSeat()
		if !ok {
			return chess.White, fmt.Errorf("%w: game %s is full", ErrColorTaken, gameID)
		}
		seat = open
	}

	switch holder := game.Players.Seat(seat); holder {
	case playerID:
		return seat, nil
	case "":
	default:
		return chess.White, fmt.Errorf("%w: %s plays %s", ErrColorTaken, holder, seat)
	}
	if game.Over {
		return chess.White, ErrGameOver
	}

	game.Players.SetSeat(seat, playerID)
	if err := gs.gameManager.SaveGame(game); err != nil {
		return chess.White, err
	}
	log.Infof("player %s joined game %s as %s", playerID, gameID, seat)

	gs.gameManager.Broadcast(gameID, ws.NewMessage(ws.MessageTypeLoadGame, game.State()), "")
	gs.gameManager.Broadcast(gameID, ws.Notification("%s joined as %s", playerID, seat), playerID)
	return seat, nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

// ValidMoves returns the legal moves of the piece on pos. ok is false when
// the square is empty.
func (gs *GameService) ValidMoves(gameID string, pos chess.Position) (moves []chess.Move, ok bool, err error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, false, err
	}
	moves, ok = game.Game.ValidMoves(pos)
	return moves, ok, nil
}

func (gs *GameService) Board(gameID string) (chess.Board, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return chess.Board{}, err
	}
	return game.Game.Board(), nil
}

func (gs *GameService) Perft(gameID string, depth int) (uint64, error) {
	if depth < 1 || depth > MaxPerftDepth {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidDepth, depth, MaxPerftDepth)
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return 0, err
	}
	return chess.Perft(game.Game, depth), nil
}

// Connect attaches conn to the game, sends it the current game and tells
// everyone else who arrived.
func (gs *GameService) Connect(gameID, playerID string, conn Conn) error {
	defer gs.gameManager.Lock(gameID)()

	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	gs.gameManager.RegisterConnection(gameID, playerID, conn)
	gs.gameManager.Send(gameID, playerID, ws.NewMessage(ws.MessageTypeLoadGame, game.State()))

	role := game.Players.RoleOf(playerID)
	if role == model.RoleObserver {
		gs.gameManager.Broadcast(gameID, ws.Notification("%s joined as an observer", playerID), playerID)
	} else {
		gs.gameManager.Broadcast(gameID, ws.Notification("%s joined as %s", playerID, role), playerID)
	}
	return nil
}

// Disconnect forgets conn without touching the player's seat.
func (gs *GameService) Disconnect(gameID, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// MakeMove plays m for the colour playerID holds, then tells every
// connection about the new position and any check, checkmate or stalemate.
func (gs *GameService) MakeMove(gameID, playerID string, m chess.Move) error {
	defer gs.gameManager.Lock(gameID)()

	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if game.Over {
		return fmt.Errorf("%w: moves can no longer be made", ErrGameOver)
	}
	color, seated := game.Players.RoleOf(playerID).Color()
	if !seated {
		return fmt.Errorf("%w: observers cannot move", ErrNotAPlayer)
	}
	if game.Game.Turn() != color {
		return ErrNotYourTurn
	}
	if err := game.Game.MakeMove(m); err != nil {
		return err
	}

	opponent := color.Opposite()
	status := game.Game.Status(opponent)
	switch status {
	case chess.StatusCheckmate:
		game.End(fmt.Sprintf("checkmate, %s wins", color))
	case chess.StatusStalemate:
		game.End("stalemate")
	}
	if err := gs.gameManager.SaveGame(game); err != nil {
		return err
	}
	log.Debugf("game %s: %s played %s", gameID, playerID, m)

	gs.gameManager.Broadcast(gameID, ws.NewMessage(ws.MessageTypeLoadGame, game.State()), "")
	gs.gameManager.Broadcast(gameID, ws.Notification("%s moved %s", playerID, m), playerID)
	switch status {
	case chess.StatusCheckmate:
		gs.gameManager.Broadcast(gameID, ws.Notification("%s is in checkmate. Game over.", opponent), "")
	case chess.StatusStalemate:
		gs.gameManager.Broadcast(gameID, ws.Notification("stalemate. Game over."), "")
	case chess.StatusCheck:
		gs.gameManager.Broadcast(gameID, ws.Notification("%s is in check.", opponent), "")
	}
	return nil
}

func (gs *GameService) Resign(gameID, playerID string) error {
	defer gs.gameManager.Lock(gameID)()

	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if game.Over {
		return fmt.Errorf("%w: cannot resign", ErrGameOver)
	}
	color, seated := game.Players.RoleOf(playerID).Color()
	if !seated {
		return fmt.Errorf("%w: observers cannot resign", ErrNotAPlayer)
	}

	game.End(fmt.Sprintf("%s resigned", color))
	if err := gs.gameManager.SaveGame(game); err != nil {
		return err
	}
	log.Infof("game %s: %s resigned", gameID, playerID)

	gs.gameManager.Broadcast(gameID, ws.Notification("%s has resigned. The game is over.", playerID), "")
	return nil
}

// Leave detaches conn and gives up the player's seat, if they hold one.
func (gs *GameService) Leave(gameID, playerID string, conn Conn) error {
	defer gs.gameManager.Lock(gameID)()

	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)

	role := game.Players.RoleOf(playerID)
	if color, seated := role.Color(); seated {
		game.Players.SetSeat(color, "")
		if err := gs.gameManager.SaveGame(game); err != nil {
			return err
		}
	}
	log.Infof("game %s: %s left (%s)", gameID, playerID, role)

	gs.gameManager.Broadcast(gameID, ws.Notification("%s has left the game. Was %s", playerID, role), "")
	return nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) MatchStatus {
	return gs.gameManager.MatchStatus(playerID)
}
