package bench

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Receives the progress of a training run. All callbacks are invoked from a
// single goroutine, implementations need no synchronization of their own.
type ListenerLike interface {
	OnStart(limits Limits)
	OnFinishedGame(info GameInfo, tally Tally)
	OnEnd(summary Summary)
}

type DefaultListener struct{}

func (DefaultListener) OnStart(Limits)                 {}
func (DefaultListener) OnFinishedGame(GameInfo, Tally) {}
func (DefaultListener) OnEnd(Summary)                  {}

// Structured log lines: one at the start, one every 'Every' games (never if
// not positive) and the summary at the end. Single games are logged at debug
// level.
type LogListener struct {
	Logger zerolog.Logger
	Every  int
}

func NewLogListener(logger zerolog.Logger, every int) *LogListener {
	return &LogListener{Logger: logger, Every: every}
}

func (l *LogListener) OnStart(limits Limits) {
	l.Logger.Info().
		Int("games", limits.Games).
		Int("workers", limits.Workers).
		Int("runtime", limits.Runtime).
		Stringer("opponent", limits.Opponent).
		Msg("training started")
}

func (l *LogListener) OnFinishedGame(info GameInfo, tally Tally) {
	l.Logger.Debug().
		Int("worker", info.WorkerID).
		Int("game", info.Index).
		Stringer("winner", info.Winner).
		Int("plies", len(info.Moves)).
		Msg("game finished")

	if l.Every > 0 && tally.TotalGames%l.Every == 0 {
		l.Logger.Info().
			Int("games", tally.TotalGames).
			Int("x_wins", tally.CrossWins).
			Int("o_wins", tally.CircleWins).
			Int("draws", tally.Draws).
			Msg("training progress")
	}
}

func (l *LogListener) OnEnd(summary Summary) {
	l.Logger.Info().
		Int("games", summary.TotalGames).
		Int("x_wins", summary.CrossWins).
		Int("o_wins", summary.CircleWins).
		Int("draws", summary.Draws).
		Int("menace_wins", summary.MenaceWins).
		Int("opponent_wins", summary.OpponentWins).
		Int("positions", summary.Positions).
		Int64("elapsed_ms", summary.ElapsedMs).
		Stringer("stop_reason", summary.StopReason).
		Msg("training finished")
}

// Progress bar of the training run drawn on 'out'
type ProgressListener struct {
	out      io.Writer
	progress *mpb.Progress
	bar      *mpb.Bar
	tally    atomic.Pointer[Tally]
}

func NewProgressListener(out io.Writer) *ProgressListener {
	return &ProgressListener{out: out}
}

func (pl *ProgressListener) OnStart(limits Limits) {
	pl.tally.Store(&Tally{})
	pl.progress = mpb.New(mpb.WithOutput(pl.out), mpb.WithWidth(64))
	pl.bar = pl.progress.AddBar(int64(limits.Games),
		mpb.PrependDecorators(
			decor.Name("training: "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"),
			decor.Any(pl.describe, decor.WCSyncSpace),
		),
	)
}

func (pl *ProgressListener) describe(decor.Statistics) string {
	t := pl.tally.Load()
	if t == nil {
		return ""
	}
	return fmt.Sprintf("X %d  O %d  draws %d", t.CrossWins, t.CircleWins, t.Draws)
}

func (pl *ProgressListener) OnFinishedGame(_ GameInfo, tally Tally) {
	pl.tally.Store(&tally)
	pl.bar.Increment()
}

func (pl *ProgressListener) OnEnd(summary Summary) {
	if pl.progress == nil {
		return
	}
	if !pl.bar.Completed() {
		// Interrupted, leave the bar where it stopped
		pl.bar.Abort(false)
	}
	pl.progress.Wait()
}
