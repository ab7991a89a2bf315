package menace

import (
	"fmt"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
)

var errInconsistentHistory = errors.New("history entry does not follow the previous ply")

// Knowledge file that could not be parsed at all
var ErrCorruptKnowledge = errors.New("corrupt knowledge file")

// Raised (as a panic) when a bag is requested for a finished position,
// the orchestration let a finished game continue
type EmptyBagInvariantViolation struct {
	Position ttt.Position
}

func (e EmptyBagInvariantViolation) Error() string {
	return fmt.Sprintf("no legal moves in position %d (%v), cannot sample a move",
		e.Position.Fingerprint(), e.Position.Termination())
}
