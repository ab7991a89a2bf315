package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/IlikeChooros/go-menace/internal/config"
	"github.com/IlikeChooros/go-menace/internal/journal"
	"github.com/IlikeChooros/go-menace/internal/render"
	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
)

func runStats(_ context.Context, a *app, _ *flag.FlagSet) error {
	stats := a.kb.Stats()
	fmt.Println(stats)

	if stats.Positions > 0 {
		pos, err := ttt.FromFingerprint(stats.MaxBagPosition)
		if err != nil {
			return err
		}
		board := render.New(os.Stdout)
		fmt.Printf("largest bag, %d beads, fingerprint %v:\n", stats.MaxBag, stats.MaxBagPosition)
		fmt.Print(board.Weights(pos, a.kb.Weights(pos)))
	}
	return printRuns(a, 5)
}

// Latest training runs of the journal, if there is one
func printRuns(a *app, n int) error {
	if a.cfg.JournalFile == "" {
		return nil
	}
	if _, err := os.Stat(a.cfg.JournalFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	j, err := journal.Open(a.cfg.JournalFile)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Last(n)
	if err != nil {
		return err
	}
	total, err := j.TotalGames()
	if err != nil {
		return err
	}

	fmt.Printf("\ntraining runs, %d games in total:\n", total)
	for _, run := range runs {
		s := run.Summary
		fmt.Printf("#%d %s  games %d  X %d  O %d  draws %d  opponent %s  %v\n",
			run.ID, run.FinishedAt.Local().Format(time.DateTime),
			s.TotalGames, s.CrossWins, s.CircleWins, s.Draws, s.Opponent, s.StopReason)
	}
	return nil
}

func bindShow(_ *config.Config, fs *flag.FlagSet) {
	fs.String("fp", "0", "fingerprint of the position")
	fs.String("moves", "", "cells (1-9) played from the empty board, instead of -fp")
}

func runShow(_ context.Context, a *app, fs *flag.FlagSet) error {
	pos, err := showPosition(fs.Lookup("fp").Value.String(), fs.Lookup("moves").Value.String())
	if err != nil {
		return err
	}

	board := render.New(os.Stdout)
	fmt.Printf("fingerprint %v, %s\n", pos.Fingerprint(), board.Status(pos))
	fmt.Print(board.Position(pos))
	if pos.IsTerminated() {
		return nil
	}

	bag, known := a.kb.Bag(pos.Fingerprint())
	if known {
		fmt.Printf("\nmove weights, %d beads:\n", len(bag))
	} else {
		fmt.Println("\nunknown position, initial move weights:")
	}
	fmt.Print(board.Weights(pos, a.kb.Weights(pos)))
	return nil
}

func showPosition(fp, moves string) (ttt.Position, error) {
	if moves == "" {
		return ttt.ParseFingerprint(fp)
	}

	pos := ttt.NewPosition()
	for _, c := range moves {
		if c == ',' || c == ' ' {
			continue
		}
		m, err := ttt.ParseMove(string(c))
		if err != nil {
			return pos, err
		}
		if pos, err = pos.ApplyMove(m); err != nil {
			return pos, errors.Wrapf(err, "moves %q", moves)
		}
	}
	return pos, nil
}
