package menace

import "github.com/IlikeChooros/go-menace/pkg/ttt"

// One ply: the position before the move, who moved and where
type HistoryEntry struct {
	Position ttt.Position
	Player   ttt.PlayerType
	Move     ttt.Move
}

// Ordered plies of a single game
type History []HistoryEntry

// Record a ply made from given position, the mover is the position's side to move
func (h *History) Record(pos ttt.Position, move ttt.Move) {
	*h = append(*h, HistoryEntry{Position: pos, Player: pos.Turn(), Move: move})
}

// Replay the history from the empty board, returns the final position.
// Fails if an entry does not follow from the previous one.
func (h History) Replay() (ttt.Position, error) {
	pos := ttt.NewPosition()
	for _, entry := range h {
		if entry.Position != pos || entry.Player != pos.Turn() {
			return pos, errInconsistentHistory
		}
		var err error
		if pos, err = pos.ApplyMove(entry.Move); err != nil {
			return pos, err
		}
	}
	return pos, nil
}
