package ttt

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	_bitboardCrossIdx  = 0
	_bitboardCircleIdx = 1
)

// 3x3 board, a value type: making a move returns a new position and never
// modifies the receiver, so positions can be kept in a game history and
// compared with ==
type Position struct {
	board     [BoardSize]PlayerType
	bitboards [2]uint16
}

// The starting position, all cells empty
func NewPosition() Position {
	return Position{}
}

// Build a position from the cell array, row-major. Cells are taken as is,
// see IsWellFormed.
func NewPositionFromCells(cells [BoardSize]PlayerType) (Position, error) {
	var p Position
	for i, c := range cells {
		if c > Circle {
			return Position{}, errors.Errorf("cell %d has unknown value %d", i, c)
		}
		p.set(PosType(i), c)
	}
	return p, nil
}

func (p *Position) set(idx PosType, player PlayerType) {
	p.board[idx] = player
	switch player {
	case Cross:
		p.bitboards[_bitboardCrossIdx] |= 1 << idx
	case Circle:
		p.bitboards[_bitboardCircleIdx] |= 1 << idx
	}
}

// Number of occupied cells
func (p Position) Occupied() int {
	return onesCount(p.bitboards[_bitboardCrossIdx] | p.bitboards[_bitboardCircleIdx])
}

// Side to move: Cross on an even number of marks, Circle on odd
func (p Position) Turn() PlayerType {
	if p.Occupied()%2 == 0 {
		return Cross
	}
	return Circle
}

// Put the mark of the side to move on given cell
func (p Position) ApplyMove(m Move) (Position, error) {
	if !m.IsValid() {
		return p, errors.Wrapf(ErrInvalidMove, "move %v is off the board", m)
	}
	if p.IsTerminated() {
		return p, errors.Wrapf(ErrInvalidMove, "move %v after the game has finished", m)
	}

	idx := m.Index()
	if p.board[idx] != None {
		return p, errors.Wrapf(ErrInvalidMove, "move %v already taken", m)
	}

	child := p
	child.set(idx, p.Turn())
	return child, nil
}

// Per-cell view, row-major
func (p Position) Cells() [BoardSize]PlayerType {
	return p.board
}

// Mark on given cell, None for an empty or off-board cell
func (p Position) At(m Move) PlayerType {
	if !m.IsValid() {
		return None
	}
	return p.board[m.Index()]
}

// Whether the mark counts could come from a legal sequence of moves:
// equal, or one more cross than circles
func (p Position) IsWellFormed() bool {
	crosses := onesCount(p.bitboards[_bitboardCrossIdx])
	circles := onesCount(p.bitboards[_bitboardCircleIdx])
	return crosses == circles || crosses == circles+1
}

// Text board, 3 lines, '.' for an empty cell
func (p Position) String() string {
	builder := strings.Builder{}
	for i, c := range p.board {
		if c == None {
			builder.WriteByte('.')
		} else {
			builder.WriteString(c.String())
		}
		if i%3 == 2 && i != BoardSize-1 {
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}
