package ttt

import "math/bits"

// Generate every empty cell in row-major order. A terminated position still
// reports its empty cells, use IsTerminated to stop the game.
func (p Position) GenerateMoves() *MoveList {
	movelist := NewMoveList()

	free := uint(fullBoard ^ (p.bitboards[_bitboardCrossIdx] | p.bitboards[_bitboardCircleIdx]))
	for free != 0 {
		movelist.AppendMove(MoveFromIndex(PosType(bits.TrailingZeros(free))))
		free &= free - 1
	}

	return movelist
}

// Empty cells as (column, row) pairs, row 0 left to right, then row 1, etc.
func (p Position) LegalMoves() []Move {
	return p.GenerateMoves().Slice()
}

// Check if given move targets an empty cell of an unfinished game
func (p Position) IsLegal(m Move) bool {
	if !m.IsValid() || p.IsTerminated() {
		return false
	}
	return p.board[m.Index()] == None
}
