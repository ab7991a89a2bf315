package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
)

type PlayerKind int

const (
	// Moves come from a MoveSource (keyboard, terminal UI, network...)
	HumanInput PlayerKind = iota
	// Moves are sampled from the knowledge base
	KnowledgeDriven
	// Uniformly random legal moves, ignores the knowledge base
	RandomMoves
)

func (k PlayerKind) String() string {
	switch k {
	case HumanInput:
		return "human"
	case KnowledgeDriven:
		return "ai"
	case RandomMoves:
		return "random"
	}
	return fmt.Sprintf("PlayerKind(%d)", int(k))
}

func (k PlayerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func ParsePlayerKind(s string) (PlayerKind, error) {
	for _, k := range []PlayerKind{HumanInput, KnowledgeDriven, RandomMoves} {
		if k.String() == s {
			return k, nil
		}
	}
	return HumanInput, errors.Errorf("unknown player kind %q, want human, ai or random", s)
}

// Where a human player's moves come from. The source may return illegal
// moves, the game ignores them and asks again.
type MoveSource interface {
	NextMove(ctx context.Context, pos ttt.Position) (ttt.Move, error)
}

// Move selection strategy of one side
type Player struct {
	Kind   PlayerKind
	Name   string
	Source MoveSource // used only by HumanInput
}

func Human(name string, source MoveSource) Player {
	return Player{Kind: HumanInput, Name: name, Source: source}
}

func AI(name string) Player {
	return Player{Kind: KnowledgeDriven, Name: name}
}

func Random(name string) Player {
	return Player{Kind: RandomMoves, Name: name}
}

func (p Player) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Kind.String()
}

// Source fed through a channel, closing the channel ends the input
type ChanSource <-chan ttt.Move

func (c ChanSource) NextMove(ctx context.Context, _ ttt.Position) (ttt.Move, error) {
	select {
	case <-ctx.Done():
		return ttt.Move{}, ctx.Err()
	case m, ok := <-c:
		if !ok {
			return ttt.Move{}, io.EOF
		}
		return m, nil
	}
}

// Line based source: prompts on 'out' and parses one move per line of 'in',
// see ttt.ParseMove for the accepted forms
type ScannerSource struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerSource(in io.Reader, out io.Writer) *ScannerSource {
	return &ScannerSource{scanner: bufio.NewScanner(in), out: out}
}

// Reads lines until one parses to a move. Blocks on the reader, the context
// is checked between lines.
func (s *ScannerSource) NextMove(ctx context.Context, pos ttt.Position) (ttt.Move, error) {
	for {
		if err := ctx.Err(); err != nil {
			return ttt.Move{}, err
		}
		fmt.Fprintf(s.out, "%s to move> ", pos.Turn())
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return ttt.Move{}, errors.Wrap(err, "read move")
			}
			return ttt.Move{}, io.EOF
		}

		line := s.scanner.Text()
		if line == "quit" || line == "q" {
			return ttt.Move{}, io.EOF
		}
		m, err := ttt.ParseMove(line)
		if err != nil {
			fmt.Fprintln(s.out, "bad move:", err)
			continue
		}
		return m, nil
	}
}

func randomMove(r *rand.Rand, pos ttt.Position) ttt.Move {
	moves := pos.GenerateMoves()
	return moves.Moves[r.Intn(int(moves.Size))]
}
