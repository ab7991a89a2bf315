package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/IlikeChooros/go-menace/internal/config"
	"github.com/IlikeChooros/go-menace/internal/journal"
	"github.com/IlikeChooros/go-menace/pkg/bench"
	"github.com/IlikeChooros/go-menace/pkg/game"
)

func bindTrain(cfg *config.Config, fs *flag.FlagSet) {
	cfg.BindTrainFlags(fs)
}

func runTrain(ctx context.Context, a *app, _ *flag.FlagSet) error {
	opponent, err := game.ParsePlayerKind(a.cfg.Opponent)
	if err != nil {
		return err
	}

	limits := bench.DefaultLimits().
		SetGames(a.cfg.Games).
		SetWorkers(a.cfg.Workers).
		SetRuntime(int(a.cfg.Runtime.Milliseconds())).
		SetOpponent(opponent)
	arena := bench.NewTrainingArena(a.kb, a.cfg.Games, a.cfg.Workers).
		SetLimits(limits).
		WithLogger(a.logger)

	// The progress bar replaces the periodic log lines on a console
	listener := bench.NewArenaListener()
	if a.cfg.LogPretty {
		listener.Add(bench.NewProgressListener(os.Stderr))
		listener.Add(bench.NewLogListener(a.logger, 0))
	} else {
		listener.Add(bench.NewLogListener(a.logger, max(a.cfg.Games/10, 1)))
	}

	summary, err := arena.Run(ctx, listener)
	out, merr := json.MarshalIndent(summary, "", "  ")
	if merr == nil {
		fmt.Println(string(out))
	}
	if jerr := recordRun(a, summary); jerr != nil {
		a.logger.Warn().Err(jerr).Msg("training run not recorded")
	}
	return err
}

func recordRun(a *app, summary bench.Summary) error {
	if a.cfg.JournalFile == "" {
		return nil
	}
	j, err := journal.Open(a.cfg.JournalFile)
	if err != nil {
		return err
	}
	defer j.Close()

	id, err := j.Append(journal.Run{
		FinishedAt:    time.Now().UTC(),
		KnowledgeFile: a.cfg.KnowledgeFile,
		Bias:          a.cfg.Bias,
		Summary:       summary,
	})
	if err != nil {
		return err
	}
	a.logger.Debug().Uint64("run", id).Str("journal", a.cfg.JournalFile).Msg("training run recorded")
	return nil
}
