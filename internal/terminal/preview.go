package terminal

import (
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gdamore/tcell/v2"
)

// halfBlock shows the top pixel as foreground and the bottom as background.
const halfBlock = '▀'

// Draw paints img over the whole screen, two pixel rows per cell. Images
// of another size are resized to fit.
func Draw(s tcell.Screen, img image.Image) {
	cols, rows := s.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	b := img.Bounds()
	if b.Dx() != cols || b.Dy() != rows*2 {
		img = transform.Resize(img, cols, rows*2, transform.Linear)
		b = img.Bounds()
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := cellColor(img.At(b.Min.X+x, b.Min.Y+2*y))
			bottom := cellColor(img.At(b.Min.X+x, b.Min.Y+2*y+1))
			s.SetContent(x, y, halfBlock, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

func cellColor(c color.Color) tcell.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

// DrawText writes text from (x, y), one line per row, clipped to the
// screen.
func DrawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	cols, rows := s.Size()
	for i, line := range strings.Split(text, "\n") {
		row := y + i
		if row < 0 || row >= rows {
			continue
		}
		col := x
		for _, r := range line {
			if col >= cols {
				break
			}
			if col >= 0 {
				s.SetContent(col, row, r, nil, style)
			}
			col++
		}
	}
}

// TextWidth returns the widest line of text in cells.
func TextWidth(text string) int {
	w := 0
	for _, line := range strings.Split(text, "\n") {
		w = max(w, len([]rune(line)))
	}
	return w
}
