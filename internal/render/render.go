package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/muesli/termenv"
)

const (
	rowSeparator = "───┼───┼───"
	colSeparator = "│"
)

// Colored text boards for the command line. The color profile is detected
// from the writer, plain text is produced when it is not a terminal.
type Board struct {
	out    *termenv.Output
	cross  termenv.Color
	circle termenv.Color
	hint   termenv.Color
}

func New(w io.Writer) *Board {
	return NewWithProfile(w, termenv.NewOutput(w).Profile)
}

func NewWithProfile(w io.Writer, profile termenv.Profile) *Board {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	return &Board{
		out:    out,
		cross:  out.Color("#e06c75"),
		circle: out.Color("#61afef"),
		hint:   out.Color("#5c6370"),
	}
}

func (b *Board) mark(p ttt.PlayerType, highlight bool) string {
	style := b.out.String(p.String()).Bold()
	if p == ttt.Cross {
		style = style.Foreground(b.cross)
	} else {
		style = style.Foreground(b.circle)
	}
	if highlight {
		style = style.Reverse()
	}
	return style.String()
}

func (b *Board) faint(s string) string {
	return b.out.String(s).Foreground(b.hint).Faint().String()
}

// The position as a 3x3 grid. Empty cells show their number (1-9) as accepted
// by ttt.ParseMove, the cells of a completed line are highlighted.
func (b *Board) Position(pos ttt.Position) string {
	var winning [ttt.BoardSize]bool
	if line, ok := pos.Line(); ok {
		for _, cell := range line.Cells() {
			winning[cell] = true
		}
	}

	cells := pos.Cells()
	return b.grid(func(idx ttt.PosType) string {
		if p := cells[idx]; p != ttt.None {
			return b.mark(p, winning[idx])
		}
		return b.faint(strconv.Itoa(int(idx) + 1))
	}, 1)
}

// Bead counts of the empty cells next to the marks of the occupied ones
func (b *Board) Weights(pos ttt.Position, weights [ttt.BoardSize]int) string {
	width := 1
	for _, w := range weights {
		width = max(width, len(strconv.Itoa(w)))
	}

	cells := pos.Cells()
	return b.grid(func(idx ttt.PosType) string {
		if p := cells[idx]; p != ttt.None {
			return strings.Repeat(" ", width-1) + b.mark(p, false)
		}
		return fmt.Sprintf("%*d", width, weights[idx])
	}, width)
}

func (b *Board) grid(cell func(ttt.PosType) string, width int) string {
	sep := strings.Repeat("─", width+2)
	rowSep := sep + "┼" + sep + "┼" + sep
	if width == 1 {
		rowSep = rowSeparator
	}

	builder := strings.Builder{}
	for row := range 3 {
		if row > 0 {
			builder.WriteString(rowSep)
			builder.WriteByte('\n')
		}
		for col := range 3 {
			if col > 0 {
				builder.WriteString(colSeparator)
			}
			builder.WriteByte(' ')
			builder.WriteString(cell(ttt.PosType(row*3 + col)))
			builder.WriteByte(' ')
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

// One line describing the state of the game
func (b *Board) Status(pos ttt.Position) string {
	switch pos.Termination() {
	case ttt.TerminationCrossWon:
		return b.mark(ttt.Cross, false) + " wins"
	case ttt.TerminationCircleWon:
		return b.mark(ttt.Circle, false) + " wins"
	case ttt.TerminationDraw:
		return "draw"
	}
	return b.mark(pos.Turn(), false) + " to move"
}
