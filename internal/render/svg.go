package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/benbeisheim/chess-backend/internal/chess"
)

const (
	squareSize = 60
	margin     = 20
	boardSize  = 8*squareSize + 2*margin

	lightFill = "#f0d9b5"
	darkFill  = "#b58863"
)

var glyphs = map[chess.Color]map[chess.PieceType]string{
	chess.White: {
		chess.King: "♔", chess.Queen: "♕", chess.Rook: "♖",
		chess.Bishop: "♗", chess.Knight: "♘", chess.Pawn: "♙",
	},
	chess.Black: {
		chess.King: "♚", chess.Queen: "♛", chess.Rook: "♜",
		chess.Bishop: "♝", chess.Knight: "♞", chess.Pawn: "♟",
	},
}

// SVG writes an image of b seen from perspective's side, with file and
// rank labels in the margin.
func SVG(w io.Writer, b chess.Board, perspective chess.Color) {
	ranks, files := ranksAndFiles(perspective)

	canvas := svg.New(w)
	canvas.Start(boardSize, boardSize)
	canvas.Rect(0, 0, boardSize, boardSize, "fill:#312e2b")

	for y, row := range ranks {
		for x, col := range files {
			px, py := margin+x*squareSize, margin+y*squareSize
			fill := darkFill
			if isLight(row, col) {
				fill = lightFill
			}
			canvas.Rect(px, py, squareSize, squareSize, "fill:"+fill)

			p, ok := b.Get(chess.MustPosition(row, col))
			if !ok {
				continue
			}
			canvas.Text(px+squareSize/2, py+squareSize*3/4, glyphs[p.Color][p.Type],
				fmt.Sprintf("font-size:%dpx;text-anchor:middle", squareSize*3/4))
		}
	}

	labelStyle := "font-size:12px;fill:#dddddd;text-anchor:middle;font-family:sans-serif"
	for i := 0; i < 8; i++ {
		centre := margin + i*squareSize + squareSize/2
		canvas.Text(centre, boardSize-6, string(rune('a'+files[i]-1)), labelStyle)
		canvas.Text(margin/2, centre+4, string(rune('0'+ranks[i])), labelStyle)
	}
	canvas.End()
}
