package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/IlikeChooros/go-menace/internal/config"
	"github.com/IlikeChooros/go-menace/internal/logging"
	"github.com/IlikeChooros/go-menace/pkg/menace"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const name = "menace"

var (
	versionName = "dev"
	gitRevision = "(null)"
)

const usage = `usage: menace <command> [flags]

commands:
  train   play training games against itself or a random opponent
  play    play against the knowledge base in the terminal
  stats   print statistics of the knowledge base
  show    print a position and its move weights

Run 'menace <command> -h' for the flags of a command. Defaults can be set in
a .env file or with MENACE_* environment variables.
`

// Shared state of a command: configuration, logger and the loaded knowledge
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	kb     *menace.KnowledgeBase
}

type command struct {
	bind func(*config.Config, *flag.FlagSet)
	run  func(context.Context, *app, *flag.FlagSet) error
	save bool
}

var commands = map[string]command{
	"train": {bind: bindTrain, run: runTrain, save: true},
	"play":  {bind: bindPlay, run: runPlay, save: true},
	"stats": {run: runStats},
	"show":  {bind: bindShow, run: runShow},
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, name+":", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(os.Stderr, usage)
		if len(args) == 0 {
			return errors.New("missing command")
		}
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		return errors.Errorf("unknown command %q", args[0])
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	cfg.BindFlags(fs)
	if cmd.bind != nil {
		cmd.bind(&cfg, fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("version", versionName).
		Str("revision", gitRevision).
		Str("runtime", runtime.Version()).
		Int("num_cpu", runtime.NumCPU()).
		Msg(name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:    cfg,
		logger: logger,
		kb:     menace.New(menace.WithBias(cfg.Bias), menace.WithLogger(logger)),
	}
	skipped, err := a.kb.LoadFile(cfg.KnowledgeFile)
	if err != nil {
		return errors.Wrap(err, "load knowledge")
	}
	logger.Info().
		Str("file", cfg.KnowledgeFile).
		Int("positions", a.kb.Len()).
		Int("skipped", skipped).
		Msg("knowledge loaded")

	runErr := cmd.run(ctx, a, fs)
	if cmd.save {
		// Whatever was learned before an interruption is kept
		if err := a.kb.SaveFile(cfg.KnowledgeFile); err != nil {
			return errors.Wrap(err, "save knowledge")
		}
		logger.Info().
			Str("file", cfg.KnowledgeFile).
			Int("positions", a.kb.Len()).
			Msg("knowledge saved")
	}

	if errors.Is(runErr, context.Canceled) {
		logger.Warn().Msg("interrupted")
		return nil
	}
	return runErr
}
