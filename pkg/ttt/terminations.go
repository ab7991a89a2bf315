package ttt

import "math/bits"

type Termination int

const (
	TerminationNone      Termination = 0
	TerminationCircleWon Termination = 1
	TerminationCrossWon  Termination = 2
	TerminationDraw      Termination = 4
)

func (t Termination) String() string {
	switch t {
	case TerminationCircleWon:
		return "O won"
	case TerminationCrossWon:
		return "X won"
	case TerminationDraw:
		return "draw"
	}
	return "in progress"
}

// First and last cell of a completed line
type Line struct {
	First PosType
	Last  PosType
}

// The three cells of the line, from First to Last
func (l Line) Cells() [3]PosType {
	return [3]PosType{l.First, (l.First + l.Last) / 2, l.Last}
}

// Winning patterns as bitboards, in scan order: the two diagonals through the
// center, then rows top to bottom, then columns left to right
var _winningBitboardPatterns = [8]uint16{
	0b100010001, 0b001010100,
	0b000000111, 0b000111000, 0b111000000,
	0b001001001, 0b010010010, 0b100100100,
}

var _winningLines = [8]Line{
	{A3, C1}, {C3, A1},
	{A3, C3}, {A2, C2}, {A1, C1},
	{A3, A1}, {B3, B1}, {C3, C1},
}

func onesCount(bb uint16) int {
	return bits.OnesCount16(bb)
}

// Find the first completed line, returns its player and endpoints
func (p Position) findLine() (PlayerType, Line, bool) {
	crossbb := p.bitboards[_bitboardCrossIdx]
	circlebb := p.bitboards[_bitboardCircleIdx]

	for i, pattern := range _winningBitboardPatterns {
		if crossbb&pattern == pattern {
			return Cross, _winningLines[i], true
		}
		if circlebb&pattern == pattern {
			return Circle, _winningLines[i], true
		}
	}
	return None, Line{}, false
}

// Owner of the first completed line, None if there is none
func (p Position) Winner() PlayerType {
	winner, _, _ := p.findLine()
	return winner
}

// Endpoints of the completed line, for drawing a strike-through
func (p Position) Line() (Line, bool) {
	_, line, ok := p.findLine()
	return line, ok
}

// Board full with no completed line
func (p Position) IsDraw() bool {
	return p.isFull() && p.Winner() == None
}

func (p Position) isFull() bool {
	return p.bitboards[_bitboardCrossIdx]|p.bitboards[_bitboardCircleIdx] == fullBoard
}

func (p Position) Termination() Termination {
	switch p.Winner() {
	case Cross:
		return TerminationCrossWon
	case Circle:
		return TerminationCircleWon
	}
	if p.isFull() {
		return TerminationDraw
	}
	return TerminationNone
}

// Game over: a line is completed or no empty cell is left
func (p Position) IsTerminated() bool {
	return p.Termination() != TerminationNone
}
