package bench

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/IlikeChooros/go-menace/pkg/game"
	"github.com/IlikeChooros/go-menace/pkg/menace"
	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

/*
Training arena, plays a series of games where the knowledge base moves for
one or both sides. Games run in parallel on a pool of workers, each game has
its own position and history and only meets the others in the knowledge
base, whose Reinforce is atomic per game.
*/

type TrainingArena struct {
	ArenaStats
	kb     *menace.KnowledgeBase
	limits Limits
	logger zerolog.Logger
}

func NewTrainingArena(kb *menace.KnowledgeBase, games, workers int) *TrainingArena {
	return &TrainingArena{
		kb:     kb,
		limits: *DefaultLimits().SetGames(games).SetWorkers(workers),
		logger: zerolog.Nop(),
	}
}

func (ta *TrainingArena) SetLimits(limits *Limits) *TrainingArena {
	ta.limits = *limits
	ta.limits.SetWorkers(limits.Workers)
	return ta
}

func (ta *TrainingArena) Limits() Limits {
	return ta.limits
}

func (ta *TrainingArena) WithLogger(logger zerolog.Logger) *TrainingArena {
	ta.logger = logger
	return ta
}

// Play the configured number of games, blocks until all workers are done.
// Cancelling the context stops handing out new games, the games in progress
// are finished and reported. On interruption the summary of the games played
// so far is returned together with the context's error.
func (ta *TrainingArena) Run(ctx context.Context, listener ListenerLike) (Summary, error) {
	if ta.kb == nil {
		return Summary{}, errors.New("training arena needs a knowledge base")
	}
	if ta.limits.Opponent == game.HumanInput {
		return Summary{}, errors.Errorf("opponent %v cannot be trained against", ta.limits.Opponent)
	}
	if listener == nil {
		listener = DefaultListener{}
	}

	ta.reset()
	start := time.Now()
	limits := ta.limits

	runCtx := ctx
	if limits.Runtime > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(limits.Runtime)*time.Millisecond)
		defer cancel()
	}

	ta.logger.Debug().Stringer("limits", limits).Msg("arena started")
	listener.OnStart(limits)

	g, gctx := errgroup.WithContext(runCtx)
	jobs := make(chan int)
	results := make(chan GameInfo)

	g.Go(func() error {
		defer close(jobs)
		for i := range limits.Games {
			select {
			case <-gctx.Done():
				return nil
			case jobs <- i:
			}
		}
		return nil
	})

	// Single consumer of the results, listeners are called from here only
	g.Go(func() error {
		for info := range results {
			ta.record(info)
			listener.OnFinishedGame(info, ta.Tally())
		}
		return nil
	})

	var wg sync.WaitGroup
	for id := range limits.Workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return ta.worker(gctx, id, jobs, results)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	err := g.Wait()
	summary := ta.summary(ctx, runCtx, start)
	listener.OnEnd(summary)
	ta.logger.Debug().Stringer("stop_reason", summary.StopReason).Msg("arena finished")

	if err != nil {
		return summary, err
	}
	if summary.StopReason&StopInterrupt != 0 {
		return summary, ctx.Err()
	}
	return summary, nil
}

func (ta *TrainingArena) worker(ctx context.Context, id int, jobs <-chan int, results chan<- GameInfo) error {
	r := rand.New(rand.NewSource(menace.SeedGeneratorFn() + int64(id)))
	log := ta.logger.With().Int("worker_id", id).Logger()
	opts := []game.Option{game.WithRand(r), game.WithLogger(log)}
	log.Debug().Msg("worker started")
	defer log.Debug().Msg("worker stopped")

	for index := range jobs {
		cross, circle, menaceSide := ta.players(index)
		g := game.New(ta.kb, cross, circle, opts...)

		winner, err := g.Play(ctx)
		if err != nil {
			// Computer players only fail on programming errors
			return errors.Wrapf(err, "worker %d, game %d", id, index)
		}

		history := g.History()
		moves := make([]ttt.Move, len(history))
		for i, entry := range history {
			moves[i] = entry.Move
		}

		results <- GameInfo{
			WorkerID:   id,
			Index:      index,
			Winner:     winner,
			MenaceSide: menaceSide,
			Moves:      moves,
		}
	}
	return nil
}

// Players of given game. Against a non learning opponent the knowledge base
// alternates between moving first and second.
func (ta *TrainingArena) players(index int) (cross, circle game.Player, menaceSide ttt.PlayerType) {
	if ta.limits.Opponent == game.KnowledgeDriven {
		return game.AI("menace"), game.AI("menace"), ttt.None
	}

	opponent := game.Player{Kind: ta.limits.Opponent, Name: ta.limits.Opponent.String()}
	if index%2 == 0 {
		return game.AI("menace"), opponent, ttt.Cross
	}
	return opponent, game.AI("menace"), ttt.Circle
}

func (ta *TrainingArena) summary(ctx, runCtx context.Context, start time.Time) Summary {
	reason := StopNone
	switch {
	case ta.Total() == ta.limits.Games:
		reason = StopGames
	case ctx.Err() != nil:
		reason = StopInterrupt
	case runCtx.Err() != nil:
		reason = StopRuntime
	}

	return Summary{
		Tally:      ta.Tally(),
		Workers:    ta.limits.Workers,
		Opponent:   ta.limits.Opponent.String(),
		Positions:  ta.kb.Len(),
		ElapsedMs:  time.Since(start).Milliseconds(),
		StopReason: reason,
	}
}
