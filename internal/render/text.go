// Package render draws boards for people: as terminal text and as SVG.
package render

import (
	"strings"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/fatih/color"
)

var (
	lightSquare = color.New(color.BgHiWhite)
	darkSquare  = color.New(color.BgHiBlack)
	whitePiece  = color.New(color.FgHiRed, color.Bold)
	blackPiece  = color.New(color.FgBlue, color.Bold)
)

func init() {
	for _, c := range []*color.Color{lightSquare, darkSquare, whitePiece, blackPiece} {
		c.EnableColor()
	}
}

// ranks and files lists rows and columns top to bottom and left to right
// as seen by a player of colour perspective.
func ranksAndFiles(perspective chess.Color) (ranks, files []int) {
	for i := 1; i <= 8; i++ {
		if perspective == chess.White {
			ranks = append(ranks, 9-i)
			files = append(files, i)
		} else {
			ranks = append(ranks, i)
			files = append(files, 9-i)
		}
	}
	return ranks, files
}

func isLight(row, col int) bool {
	return (row+col)%2 == 1
}

// Text draws b from perspective's side of the table. White pieces are
// upper case and black lower case. With colored set, squares and pieces
// carry ANSI colours; otherwise empty squares print as '.'.
func Text(b chess.Board, perspective chess.Color, colored bool) string {
	ranks, files := ranksAndFiles(perspective)

	var sb strings.Builder
	header := func() {
		sb.WriteString("   ")
		for _, col := range files {
			sb.WriteString(" " + string(rune('a'+col-1)) + " ")
		}
		sb.WriteString("\n")
	}

	header()
	for _, row := range ranks {
		label := string(rune('0' + row))
		sb.WriteString(" " + label + " ")
		for _, col := range files {
			sb.WriteString(square(&b, row, col, colored))
		}
		sb.WriteString(" " + label + "\n")
	}
	header()
	return sb.String()
}

func square(b *chess.Board, row, col int, colored bool) string {
	p, occupied := b.Get(chess.MustPosition(row, col))
	symbol := "."
	if occupied {
		symbol = pieceLetter(p)
	}
	if !colored {
		return " " + symbol + " "
	}

	if !occupied {
		symbol = " "
	}
	cell := " " + symbol + " "
	if occupied {
		if p.Color == chess.White {
			cell = " " + whitePiece.Sprint(symbol) + " "
		} else {
			cell = " " + blackPiece.Sprint(symbol) + " "
		}
	}
	if isLight(row, col) {
		return lightSquare.Sprint(cell)
	}
	return darkSquare.Sprint(cell)
}

func pieceLetter(p chess.Piece) string {
	if p.Color == chess.White {
		return strings.ToUpper(p.Type.Letter())
	}
	return p.Type.Letter()
}
