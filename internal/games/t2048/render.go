package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3

	boardW = Size*cellWidth + 1
	boardH = Size*cellHeight + 1

	minScreenW = boardW + 2
	minScreenH = hudHeight + 1 + boardH
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws the title, score and status line.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := "2 0 4 8"
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.model.Score()))

	best := fmt.Sprintf("Best: %d", g.model.MaxTile())
	dst.DrawText(max(boardX, boardX+boardW-len(best)), 1, best)

	status := fmt.Sprintf("Undo: %d", g.model.HistoryLen())
	if g.autoPlay {
		status += "  AUTO"
	}
	if dir, ok := g.LastMove(); ok {
		status += "  Last: " + dir.String()
	}
	dst.DrawTextColor(boardX, 2, status, core.ColorGray)
}

// renderBoard draws the grid lines and tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range Size + 1 {
		for x := range Size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			dst.Set(px, py, gridCorner(x, y))

			if x < Size {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < Size {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	board := g.model.Board()
	for y := range Size {
		for x := range Size {
			tile := board[y][x]
			if tile.IsEmpty() {
				continue
			}

			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1

			valStr := strconv.Itoa(tile.Value)
			padLeft := max((cellWidth-1-len(valStr))/2, 0)
			dst.DrawTextColor(cellX+padLeft, cellY, valStr, TileColor(tile.Value))
		}
	}
}

func gridCorner(x, y int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == Size:
		return '┐'
	case y == Size && x == 0:
		return '└'
	case y == Size && x == Size:
		return '┘'
	case y == 0:
		return '┬'
	case y == Size:
		return '┴'
	case x == 0:
		return '├'
	case x == Size:
		return '┤'
	default:
		return '┼'
	}
}

// TileColor returns the display color for a tile value.
func TileColor(value int) core.Color {
	switch value {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorOrange
	case 16, 32:
		return core.ColorRed
	case 64:
		return core.ColorBrightRed
	case 128:
		return core.ColorYellow
	case 256:
		return core.ColorBrightYellow
	case 512:
		return core.ColorGreen
	case 1024:
		return core.ColorBrightGreen
	case 2048:
		return core.ColorBrightMagenta
	default:
		if value > 2048 {
			return core.ColorCyan
		}
		return core.ColorDefault
	}
}

// renderOverlays draws pause and game over boxes.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.model.IsGameOver() {
		scoreStr := fmt.Sprintf("Score: %d", g.model.Score())
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", scoreStr, "U: undo  R: restart")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}
