package bench

import (
	"sync/atomic"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
)

// Running tallies of the arena, safe to read while the training runs
type ArenaStats struct {
	crossWins    uint32
	circleWins   uint32
	draws        uint32
	menaceWins   uint32
	opponentWins uint32
}

func (as *ArenaStats) Total() int {
	return as.CrossWins() + as.CircleWins() + as.Draws()
}

func (as *ArenaStats) CrossWins() int {
	return int(atomic.LoadUint32(&as.crossWins))
}

func (as *ArenaStats) CircleWins() int {
	return int(atomic.LoadUint32(&as.circleWins))
}

func (as *ArenaStats) Draws() int {
	return int(atomic.LoadUint32(&as.draws))
}

// Wins of the knowledge base against a non learning opponent, always 0 in self-play
func (as *ArenaStats) MenaceWins() int {
	return int(atomic.LoadUint32(&as.menaceWins))
}

func (as *ArenaStats) OpponentWins() int {
	return int(atomic.LoadUint32(&as.opponentWins))
}

func (as *ArenaStats) reset() {
	for _, counter := range []*uint32{&as.crossWins, &as.circleWins, &as.draws, &as.menaceWins, &as.opponentWins} {
		atomic.StoreUint32(counter, 0)
	}
}

func (as *ArenaStats) record(info GameInfo) {
	switch info.Winner {
	case ttt.Cross:
		atomic.AddUint32(&as.crossWins, 1)
	case ttt.Circle:
		atomic.AddUint32(&as.circleWins, 1)
	default:
		atomic.AddUint32(&as.draws, 1)
		return
	}

	if info.MenaceSide == ttt.None {
		return
	}
	if info.Winner == info.MenaceSide {
		atomic.AddUint32(&as.menaceWins, 1)
	} else {
		atomic.AddUint32(&as.opponentWins, 1)
	}
}

func (as *ArenaStats) Tally() Tally {
	return Tally{
		TotalGames:   as.Total(),
		CrossWins:    as.CrossWins(),
		CircleWins:   as.CircleWins(),
		Draws:        as.Draws(),
		MenaceWins:   as.MenaceWins(),
		OpponentWins: as.OpponentWins(),
	}
}

type Tally struct {
	TotalGames   int `json:"total_games"`
	CrossWins    int `json:"cross_wins"`
	CircleWins   int `json:"circle_wins"`
	Draws        int `json:"draws"`
	MenaceWins   int `json:"menace_wins"`
	OpponentWins int `json:"opponent_wins"`
}

// One finished training game
type GameInfo struct {
	WorkerID int
	Index    int // order in which the game was scheduled
	Winner   ttt.PlayerType
	// Side played by the knowledge base against a non learning opponent,
	// None in self-play
	MenaceSide ttt.PlayerType
	Moves      []ttt.Move
}

type Summary struct {
	Tally
	Workers    int        `json:"workers"`
	Opponent   string     `json:"opponent"`
	Positions  int        `json:"positions"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	StopReason StopReason `json:"stop_reason"`
}
