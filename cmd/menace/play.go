package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/IlikeChooros/go-menace/internal/config"
	"github.com/IlikeChooros/go-menace/internal/render"
	"github.com/IlikeChooros/go-menace/internal/tui"
	"github.com/IlikeChooros/go-menace/pkg/game"
	"github.com/IlikeChooros/go-menace/pkg/ttt"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

func bindPlay(cfg *config.Config, fs *flag.FlagSet) {
	cfg.BindPlayFlags(fs)
}

// Players named after their kind and the side they start on, so that the
// score stays readable when both are of the same kind
func players(cfg config.Config, source game.MoveSource) (game.Player, game.Player, error) {
	var result [2]game.Player
	for i, kindName := range []string{cfg.Cross, cfg.Circle} {
		kind, err := game.ParsePlayerKind(kindName)
		if err != nil {
			return game.Player{}, game.Player{}, err
		}
		result[i] = game.Player{
			Kind:   kind,
			Name:   fmt.Sprintf("%s %d", kind, i+1),
			Source: source,
		}
	}
	return result[0], result[1], nil
}

func runPlay(ctx context.Context, a *app, _ *flag.FlagSet) error {
	if a.cfg.Plain {
		return playPlain(ctx, a, os.Stdin, os.Stdout)
	}

	cross, circle, err := players(a.cfg, nil)
	if err != nil {
		return err
	}
	// No game logger, log lines would tear the alternate screen apart
	session := game.NewSession(a.kb, cross, circle)

	program := tea.NewProgram(tui.New(session, a.cfg.MoveDelay), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "terminal ui")
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}

	fmt.Println(session.Score())
	return nil
}

// Line based play: the board is printed after every move and human moves are
// read one per line
func playPlain(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	cross, circle, err := players(a.cfg, game.NewScannerSource(in, out))
	if err != nil {
		return err
	}
	session := game.NewSession(a.kb, cross, circle,
		game.WithMoveDelay(a.cfg.MoveDelay),
		game.WithLogger(a.logger),
	)
	board := render.New(out)

	for {
		g := session.Game()
		fmt.Fprintf(out, "\n%s (X) vs %s (O)\n", g.Player(ttt.Cross), g.Player(ttt.Circle))

		for !g.Finished() {
			fmt.Fprint(out, board.Position(g.Position()))
			if err := g.Step(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(out, session.Score())
					return nil
				}
				return err
			}
		}

		fmt.Fprint(out, board.Position(g.Position()))
		fmt.Fprintln(out, board.Status(g.Position()))
		session.Next()
		fmt.Fprintln(out, session.Score())
	}
}
