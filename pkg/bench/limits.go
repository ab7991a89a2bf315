package bench

import (
	"encoding/json"
	"runtime"
	"strings"

	"github.com/IlikeChooros/go-menace/pkg/game"
	"github.com/pkg/errors"
)

type Limits struct {
	Games    int
	Workers  int
	Runtime  int // time budget of the whole training run, in milliseconds
	Opponent game.PlayerKind
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultGames        int = 10000
	DefaultRuntimeLimit int = -1
)

// Self-play with one worker per CPU
func DefaultLimits() *Limits {
	return &Limits{
		Games:    DefaultGames,
		Workers:  runtime.NumCPU(),
		Runtime:  DefaultRuntimeLimit,
		Opponent: game.KnowledgeDriven,
	}
}

// Set the number of games to play
func (l *Limits) SetGames(games int) *Limits {
	l.Games = max(games, 0)
	return l
}

func (l *Limits) SetWorkers(workers int) *Limits {
	l.Workers = max(workers, 1)
	return l
}

// Set the wall clock budget, in milliseconds, of the whole training run
// (not of a single move). Non positive means no limit.
func (l *Limits) SetRuntime(ms int) *Limits {
	if ms <= 0 {
		ms = DefaultRuntimeLimit
	}
	l.Runtime = ms
	return l
}

// Policy of the side the knowledge base plays against. KnowledgeDriven means
// self-play, RandomMoves plays against uniformly random moves.
func (l *Limits) SetOpponent(opponent game.PlayerKind) *Limits {
	l.Opponent = opponent
	return l
}

type StopReason int

const (
	StopNone      StopReason = iota
	StopInterrupt            = 1 // Context cancelled by the caller
	StopRuntime              = 2 // Time budget of the run spent
	StopGames                = 4 // All games played
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopRuntime, "Runtime"},
		{StopGames, "Games"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

func (sr StopReason) MarshalText() ([]byte, error) {
	return []byte(sr.String()), nil
}

func (sr *StopReason) UnmarshalText(text []byte) error {
	*sr = StopNone
	for _, name := range strings.Split(string(text), "|") {
		switch name {
		case "None":
		case "Interrupt":
			*sr |= StopInterrupt
		case "Runtime", "Movetime":
			*sr |= StopRuntime
		case "Games":
			*sr |= StopGames
		default:
			return errors.Errorf("unknown stop reason %q", name)
		}
	}
	return nil
}
