package ttt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Enum for the squares, row-major, A3 is the top-left corner
const (
	A3 PosType = iota
	B3
	C3
	A2
	B2
	C2
	A1
	B1
	C1
)

const (
	PosIllegal PosType = 255
)

// A single cell of the board, 0-indexed (column, row) pair
type Move struct {
	Col uint8
	Row uint8
}

func MoveFromIndex(idx PosType) Move {
	return Move{Col: uint8(idx % 3), Row: uint8(idx / 3)}
}

// Row-major index of the cell, PosIllegal if the move is off the board
func (m Move) Index() PosType {
	if !m.IsValid() {
		return PosIllegal
	}
	return PosType(m.Row*3 + m.Col)
}

func (m Move) IsValid() bool {
	return m.Col < 3 && m.Row < 3
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Col, m.Row)
}

// Parses a move, accepted forms:
//
//	"c,r" or "c r" - 0-indexed column and row
//	"n"           - cell number 1-9, counted row by row from the top-left corner
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "()[]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	switch len(fields) {
	case 1:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > BoardSize {
			return Move{}, errors.Wrapf(ErrInvalidMove, "bad cell number %q", s)
		}
		return MoveFromIndex(PosType(n - 1)), nil
	case 2:
		col, err1 := strconv.Atoi(fields[0])
		row, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || col < 0 || row < 0 {
			return Move{}, errors.Wrapf(ErrInvalidMove, "bad coordinates %q", s)
		}
		m := Move{Col: uint8(min(col, 255)), Row: uint8(min(row, 255))}
		if !m.IsValid() {
			return Move{}, errors.Wrapf(ErrInvalidMove, "move %v is off the board", m)
		}
		return m, nil
	}

	return Move{}, errors.Wrapf(ErrInvalidMove, "cannot parse %q", s)
}

type MoveList struct {
	Moves [BoardSize]Move
	Size  uint8
}

func NewMoveList() *MoveList {
	return &MoveList{}
}

func (ml *MoveList) AppendMove(mv Move) {
	ml.Moves[ml.Size] = mv
	ml.Size++
}

func (ml *MoveList) Slice() []Move {
	moves := make([]Move, ml.Size)
	copy(moves, ml.Moves[:ml.Size])
	return moves
}

func (ml *MoveList) Contains(mv Move) bool {
	for i := range ml.Size {
		if ml.Moves[i] == mv {
			return true
		}
	}
	return false
}
