package commands

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
	"github.com/trollsnake/engine/rules"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	headColor    = termbox.ColorYellow

	// Board cells are two terminal columns wide so the board looks square.
	cellWidth = 2
	left      = 4
	top       = 3
)

var moodFaces = map[rules.Mood]string{
	rules.MoodNormal: "(o_o)",
	rules.MoodDead:   "(x_x)",
	rules.MoodTroll:  "(>:D)",
	rules.MoodScared: "(O_O)",
	rules.MoodDizzy:  "(@_@)",
	rules.MoodCool:   "(B-)",
}

func moodFace(m rules.Mood) string {
	if face, ok := moodFaces[m]; ok {
		return face
	}
	return moodFaces[rules.MoodNormal]
}

var foodCells = map[rules.FoodType]termbox.Cell{
	rules.FoodNormal:  {Ch: '●', Fg: termbox.ColorRed},
	rules.FoodMoving:  {Ch: '◆', Fg: termbox.ColorYellow},
	rules.FoodReverse: {Ch: '✚', Fg: termbox.ColorMagenta},
}

func foodCell(t rules.FoodType) termbox.Cell {
	if c, ok := foodCells[t]; ok {
		return c
	}
	return foodCells[rules.FoodNormal]
}

func blockerCell(b *rules.Blocker) termbox.Cell {
	if b.Active {
		return termbox.Cell{Ch: '█', Fg: termbox.ColorRed, Bg: termbox.ColorRed}
	}
	return termbox.Cell{Ch: '▒', Fg: termbox.ColorWhite}
}

func render(title string, frame *rules.Frame) error {
	if frame == nil {
		return errors.New("received nil frame")
	}
	if err := termbox.Clear(defaultColor, bgColor); err != nil {
		return err
	}

	x := left
	if frame.Shake {
		x++
	}

	renderTitle(x, top, title, frame)
	renderBoard(x, top)
	renderFood(x, top, frame.Food)
	if frame.Blocker != nil {
		setBoardCell(x, top, frame.Blocker.Position, blockerCell(frame.Blocker))
	}
	renderSnake(x, top, frame.Snake)
	renderStatus(x+rules.GridSize*cellWidth+4, top+1, frame)

	return termbox.Flush()
}

func renderTitle(x, y int, title string, frame *rules.Frame) {
	tbprint(x, y-2, defaultColor, defaultColor,
		fmt.Sprintf("%s - Turn %d - Score %d", title, frame.Turn, frame.Score))
}

func renderStatus(x, y int, frame *rules.Frame) {
	tbprint(x, y, termbox.ColorYellow, defaultColor, moodFace(frame.Mood))
	y += 2
	if frame.Message != "" {
		tbprint(x, y, termbox.ColorRed|termbox.AttrBold, defaultColor, frame.Message)
	}
	y += 2
	if frame.ReverseControls {
		tbprint(x, y, termbox.ColorMagenta, defaultColor,
			fmt.Sprintf("REVERSED %ds", frame.ReverseSecondsLeft))
	}
	y += 2
	if frame.Death != nil {
		tbprint(x, y, defaultColor, defaultColor, "dead: "+frame.Death.Cause)
		tbprint(x, y+1, defaultColor, defaultColor, "press r to restart")
	}
}

func renderSnake(x, y int, s rules.Snake) {
	for i, b := range s {
		color := snakeColor
		if i == 0 {
			color = headColor
		}
		setBoardCell(x, y, b, termbox.Cell{Ch: ' ', Fg: color, Bg: color})
	}
}

func renderFood(x, y int, f rules.Food) {
	setBoardCell(x, y, f.Position, foodCell(f.Type))
}

func setBoardCell(x, y int, p rules.Point, cell termbox.Cell) {
	if !p.InBounds() {
		return
	}
	cx := x + p.X*cellWidth
	cy := y + p.Y + 1
	termbox.SetCell(cx, cy, cell.Ch, cell.Fg, cell.Bg)
	termbox.SetCell(cx+1, cy, ' ', cell.Fg, cell.Bg)
}

func renderBoard(x, y int) {
	width := rules.GridSize * cellWidth
	bottom := y + rules.GridSize + 1
	for i := y + 1; i < bottom; i++ {
		termbox.SetCell(x-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(x+width, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(x-1, y, '┌', defaultColor, bgColor)
	termbox.SetCell(x-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(x+width, y, '┐', defaultColor, bgColor)
	termbox.SetCell(x+width, bottom, '┘', defaultColor, bgColor)

	fill(x, y, width, 1, termbox.Cell{Ch: '─'})
	fill(x, bottom, width, 1, termbox.Cell{Ch: '─'})
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
