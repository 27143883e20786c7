package controller

import (
	"bytes"
	"strconv"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/render"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Name string `json:"name"`
}

type joinGameRequest struct {
	Color string `json:"color"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	summary, err := gc.gameService.CreateGame(req.Name)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  summary.ID,
		"game":    summary,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListGames()
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"games": games,
	})
}

// JoinGame seats the caller. The body may name a colour; without one the
// first open seat is taken.
func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	var req joinGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	var want *chess.Color
	if req.Color != "" {
		color, err := chess.ParseColor(req.Color)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		want = &color
	}

	color, err := gc.gameService.JoinGame(gameID, playerID, want)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(state)
}

// ValidMoves answers 404 with a null list for an empty square, so clients
// can tell it apart from a piece with no moves.
func (gc *GameController) ValidMoves(c *fiber.Ctx) error {
	pos, err := chess.ParsePosition(c.Params("square"))
	if err != nil {
		return sendError(c, err)
	}
	moves, ok, err := gc.gameService.ValidMoves(c.Params("gameId"), pos)
	if err != nil {
		return sendError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"moves": nil,
		})
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func perspective(c *fiber.Ctx) (chess.Color, error) {
	if s := c.Query("perspective"); s != "" {
		return chess.ParseColor(s)
	}
	return chess.White, nil
}

func (gc *GameController) BoardSVG(c *fiber.Ctx) error {
	side, err := perspective(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	board, err := gc.gameService.Board(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	var buf bytes.Buffer
	render.SVG(&buf, board, side)
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

func (gc *GameController) BoardText(c *fiber.Ctx) error {
	side, err := perspective(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	board, err := gc.gameService.Board(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.SendString(render.Text(board, side, c.QueryBool("color", false)))
}

func (gc *GameController) Perft(c *fiber.Ctx) error {
	depth, err := strconv.Atoi(c.Query("depth", "1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "depth must be a number"})
	}
	nodes, err := gc.gameService.Perft(c.Params("gameId"), depth)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"depth": depth,
		"nodes": nodes,
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": service.MatchQueued,
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": service.MatchIdle,
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.MatchmakingStatus(middleware.PlayerID(c)))
}
