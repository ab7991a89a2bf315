package ttt

type PosType uint8
type PlayerType uint8

const (
	None   PlayerType = 0
	Cross  PlayerType = 1
	Circle PlayerType = 2
)

// Mark drawn for this player, empty string for None
func (p PlayerType) String() string {
	switch p {
	case Cross:
		return "X"
	case Circle:
		return "O"
	}
	return ""
}

// The other side, None stays None
func (p PlayerType) Opponent() PlayerType {
	switch p {
	case Cross:
		return Circle
	case Circle:
		return Cross
	}
	return None
}

// Number of cells on the board
const BoardSize = 9

// Bitboard with every cell set
const fullBoard uint16 = 0b111111111
