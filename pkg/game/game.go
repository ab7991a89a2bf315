package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/IlikeChooros/go-menace/pkg/menace"
	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Human player without a move source was asked to move, use Submit instead
var ErrAwaitingInput = errors.New("waiting for human input")

// One game in progress: the current position, who plays which side and the
// plies made so far. When the game finishes its history is reported to the
// knowledge base exactly once.
type Game struct {
	kb       *menace.KnowledgeBase
	players  [2]Player
	pos      ttt.Position
	history  menace.History
	reported bool

	learn     bool
	moveDelay time.Duration
	rand      *rand.Rand
	logger    zerolog.Logger
}

type Option func(*Game)

// Whether the finished game reinforces the knowledge base, true by default
func WithLearning(learn bool) Option {
	return func(g *Game) {
		g.learn = learn
	}
}

// Pause before every computer move, for display only
func WithMoveDelay(d time.Duration) Option {
	return func(g *Game) {
		g.moveDelay = max(0, d)
	}
}

// Random source of the RandomMoves players
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		if r != nil {
			g.rand = r
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// New game from the empty board, 'cross' moves first
func New(kb *menace.KnowledgeBase, cross, circle Player, opts ...Option) *Game {
	g := &Game{
		kb:      kb,
		players: [2]Player{cross, circle},
		pos:     ttt.NewPosition(),
		history: make(menace.History, 0, ttt.BoardSize),
		learn:   true,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewSource(menace.SeedGeneratorFn()))
	}
	return g
}

func (g *Game) Position() ttt.Position {
	return g.pos
}

func (g *Game) Turn() ttt.PlayerType {
	return g.pos.Turn()
}

// Player assigned to given side
func (g *Game) Player(side ttt.PlayerType) Player {
	if side == ttt.Circle {
		return g.players[1]
	}
	return g.players[0]
}

// Player whose turn it is
func (g *Game) Current() Player {
	return g.Player(g.pos.Turn())
}

func (g *Game) Finished() bool {
	return g.pos.IsTerminated()
}

// Winner of a finished game, None for a draw or an unfinished game
func (g *Game) Winner() ttt.PlayerType {
	return g.pos.Winner()
}

// Copy of the plies made so far
func (g *Game) History() menace.History {
	history := make(menace.History, len(g.history))
	copy(history, g.history)
	return history
}

// Apply a move of the side to move. Illegal moves are rejected with
// ttt.ErrInvalidMove and leave the game unchanged, the caller may simply try
// again.
func (g *Game) Submit(m ttt.Move) error {
	next, err := g.pos.ApplyMove(m)
	if err != nil {
		return err
	}

	g.history.Record(g.pos, m)
	g.pos = next
	g.logger.Trace().
		Stringer("move", m).
		Stringer("fingerprint", next.Fingerprint()).
		Msg("move made")

	if g.Finished() {
		g.report()
	}
	return nil
}

func (g *Game) report() {
	if g.reported {
		return
	}
	g.reported = true

	g.logger.Debug().
		Stringer("result", g.pos.Termination()).
		Int("plies", len(g.history)).
		Msg("game finished")

	if g.learn && g.kb != nil {
		g.kb.Reinforce(g.history, g.pos.Winner())
	}
}

// Choose a move for the current player with its strategy
func (g *Game) choose(ctx context.Context) (ttt.Move, error) {
	player := g.Current()
	switch player.Kind {
	case KnowledgeDriven:
		if g.kb == nil {
			return ttt.Move{}, errors.New("knowledge driven player needs a knowledge base")
		}
		return g.kb.SampleMove(g.pos), nil
	case RandomMoves:
		return randomMove(g.rand, g.pos), nil
	case HumanInput:
		if player.Source == nil {
			return ttt.Move{}, ErrAwaitingInput
		}
		return player.Source.NextMove(ctx, g.pos)
	}
	return ttt.Move{}, errors.Errorf("unknown player kind %v", player.Kind)
}

// Play one ply. Invalid human moves are ignored and the source is asked
// again; errors of the source (EOF, cancelled context) are returned.
func (g *Game) Step(ctx context.Context) error {
	if g.Finished() {
		return errors.Wrap(ttt.ErrInvalidMove, "game already finished")
	}

	computer := g.Current().Kind != HumanInput
	if computer && g.moveDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.moveDelay):
		}
	}

	for {
		m, err := g.choose(ctx)
		if err != nil {
			return err
		}

		err = g.Submit(m)
		if err == nil {
			return nil
		}
		if computer || !errors.Is(err, ttt.ErrInvalidMove) {
			return err
		}
		g.logger.Debug().Err(err).Msg("ignoring invalid move")
	}
}

// Play until the game finishes, returns the winner (None for a draw)
func (g *Game) Play(ctx context.Context) (ttt.PlayerType, error) {
	for !g.Finished() {
		if err := g.Step(ctx); err != nil {
			return ttt.None, err
		}
	}
	return g.Winner(), nil
}
