package model

import (
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
)

var ErrAlreadyQueued = errors.New("player already in queue")

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// MatchFoundEvent tells a queued player which game and colour they were given.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}

// Queue is a FIFO of players waiting for an opponent.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(player Player, now time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == player.ID {
			return ErrAlreadyQueued
		}
	}

	q.players = append(q.players, QueuedPlayer{
		Player:   player,
		JoinedAt: now,
	})
	return nil
}

// Remove drops playerID from the queue and reports whether it was waiting.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.Player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Contains(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == playerID {
			return true
		}
	}
	return false
}

// NextPair pops the two players who have waited longest. ok is false when
// fewer than two are waiting.
func (q *Queue) NextPair() (first, second QueuedPlayer, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	first, second = q.players[0], q.players[1]
	q.players = q.players[2:]
	return first, second, true
}

// PushFront returns players to the head of the queue in the given order,
// ahead of everyone else. A player who queued again in the meantime keeps
// only the older entry.
func (q *Queue) PushFront(players ...QueuedPlayer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	returning := make(map[string]bool, len(players))
	for _, p := range players {
		returning[p.Player.ID] = true
	}
	rest := make([]QueuedPlayer, 0, len(q.players))
	for _, p := range q.players {
		if !returning[p.Player.ID] {
			rest = append(rest, p)
		}
	}
	q.players = append(append([]QueuedPlayer{}, players...), rest...)
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
