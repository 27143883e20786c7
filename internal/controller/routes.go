package controller

import (
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Register mounts the REST API under /api and the game socket under /ws.
func Register(app *fiber.App, gc *GameController, wsc *WebSocketController, wsConfig websocket.Config) {
	app.Get("/ws/game/:gameId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsc.HandleConnection, wsConfig),
	)

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Delete("/matchmaking", gc.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/status", gc.MatchmakingStatus)
	gameRoutes.Post("/", gc.CreateGame)
	gameRoutes.Get("/", gc.ListGames)
	gameRoutes.Post("/:gameId/join", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gc.ValidMoves)
	gameRoutes.Get("/:gameId/board.svg", gc.BoardSVG)
	gameRoutes.Get("/:gameId/board.txt", gc.BoardText)
	gameRoutes.Get("/:gameId/perft", gc.Perft)
}
