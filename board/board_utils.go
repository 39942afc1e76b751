package board

import (
	"fmt"
	"strings"

	"github.com/nutok/nutok/tiles"
)

const (
	// EmptyBoardText is what an empty board renders as.
	EmptyBoardText = "<EmptyBoard>"
	// TokenSeparator follows every cell of a rendered row.
	TokenSeparator = "  "

	rowLabelWidth = 3
	rowBarrier    = "  "
)

func emptyCell() string {
	return strings.Repeat(" ", tiles.Width())
}

// rows renders every row from the highest index to the lowest.
func (g *GameBoard) rows() []string {
	r0, r1, c0, c1, _ := g.Extents()
	var lines []string
	for i := r1; i >= r0; i-- {
		var sb strings.Builder
		for j := c0; j <= c1; j++ {
			if t, ok := g.RawToken(i, j); ok {
				sb.WriteString(t.String())
			} else {
				sb.WriteString(emptyCell())
			}
			sb.WriteString(TokenSeparator)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// String is a plain rendering of the occupied area: one line per row,
// highest row first, each line ending in a newline.
func (g *GameBoard) String() string {
	if g.IsEmpty() {
		return EmptyBoardText
	}
	var sb strings.Builder
	for _, line := range g.rows() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToDisplayText renders the board with row indices on the left and a ruler
// of column indices underneath.
func (g *GameBoard) ToDisplayText() string {
	if g.IsEmpty() {
		return EmptyBoardText
	}
	_, r1, c0, c1, _ := g.Extents()
	lines := g.rows()
	for i := range lines {
		lines[i] = fmt.Sprintf("%*d", rowLabelWidth, r1-i) + rowBarrier + lines[i]
	}

	colSize := len(TokenSeparator) + tiles.Width()
	var ruler strings.Builder
	ruler.WriteString(strings.Repeat(" ", rowLabelWidth+len(rowBarrier)))
	for j := c0; j <= c1; j++ {
		ruler.WriteString(fmt.Sprintf("%-*d", colSize, j))
	}
	return strings.Join(lines, "\n") + "\n" + ruler.String()
}
