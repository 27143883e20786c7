package service

import (
	"context"
	"fmt"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
)

type MatchState string

const (
	MatchIdle    MatchState = "idle"
	MatchQueued  MatchState = "queued"
	MatchMatched MatchState = "matched"
)

// MatchStatus answers a player polling for an opponent.
type MatchStatus struct {
	Status MatchState `json:"status"`
	GameID string     `json:"gameId,omitempty"`
	Color  string     `json:"color,omitempty"`
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}, gm.now()); err != nil {
		return err
	}
	log.Debugf("player %s joined matchmaking (%d waiting)", playerID, gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchStatus reports where playerID stands. A found match is reported once
// and then forgotten.
func (gm *GameManager) MatchStatus(playerID string) MatchStatus {
	gm.mu.Lock()
	event, found := gm.matches[playerID]
	if found {
		delete(gm.matches, playerID)
	}
	gm.mu.Unlock()

	switch {
	case found:
		return MatchStatus{Status: MatchMatched, GameID: event.GameID, Color: event.Color.String()}
	case gm.queue.Contains(playerID):
		return MatchStatus{Status: MatchQueued}
	default:
		return MatchStatus{Status: MatchIdle}
	}
}

// StartMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) StartMatchmaking(ctx context.Context, interval time.Duration) {
	go gm.processMatchmaking(ctx, interval)
}

func (gm *GameManager) processMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("matchmaking stopped")
			return
		case <-ticker.C:
			gm.matchPending()
		}
	}
}

// matchPending seats every waiting pair in a fresh game, longest waiting
// player as white, and returns how many games it created.
func (gm *GameManager) matchPending() int {
	matched := 0
	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return matched
		}

		name := fmt.Sprintf("%s vs %s", first.Player.ID, second.Player.ID)
		game := model.NewGameData(gm.newID(), name, gm.now().UTC())
		game.Players.SetSeat(chess.White, first.Player.ID)
		game.Players.SetSeat(chess.Black, second.Player.ID)
		if err := gm.store.Create(game); err != nil {
			log.Errorf("matchmaking: %v", err)
			gm.queue.PushFront(first, second)
			return matched
		}

		gm.mu.Lock()
		gm.matches[first.Player.ID] = model.MatchFoundEvent{GameID: game.ID, Color: chess.White}
		gm.matches[second.Player.ID] = model.MatchFoundEvent{GameID: game.ID, Color: chess.Black}
		gm.mu.Unlock()

		log.Infof("matched %s (white) with %s (black) in game %s", first.Player.ID, second.Player.ID, game.ID)
		matched++
	}
}
