package game

import (
	"fmt"

	"github.com/IlikeChooros/go-menace/pkg/menace"
	"github.com/IlikeChooros/go-menace/pkg/ttt"
)

// Tally of a series of games, counted per player rather than per side
type Score struct {
	Draws int
	Wins  map[string]int
}

func (s Score) String() string {
	return fmt.Sprintf("wins=%v draws=%d", s.Wins, s.Draws)
}

// A series of games between the same two players. After every game the
// players swap sides, so both get to move first.
type Session struct {
	kb      *menace.KnowledgeBase
	first   Player
	second  Player
	opts    []Option
	current *Game
	score   Score
}

func NewSession(kb *menace.KnowledgeBase, first, second Player, opts ...Option) *Session {
	s := &Session{
		kb:     kb,
		first:  first,
		second: second,
		opts:   opts,
		score:  Score{Wins: map[string]int{first.String(): 0, second.String(): 0}},
	}
	s.current = New(kb, first, second, opts...)
	return s
}

func (s *Session) Game() *Game {
	return s.current
}

func (s *Session) Score() Score {
	wins := make(map[string]int, len(s.score.Wins))
	for name, n := range s.score.Wins {
		wins[name] = n
	}
	return Score{Draws: s.score.Draws, Wins: wins}
}

// Record the finished game and start the next one with swapped sides.
// Returns false (and does nothing) while the current game is in progress.
func (s *Session) Next() bool {
	if !s.current.Finished() {
		return false
	}

	if winner := s.current.Winner(); winner == ttt.None {
		s.score.Draws++
	} else {
		s.score.Wins[s.current.Player(winner).String()]++
	}

	s.first, s.second = s.second, s.first
	s.current = New(s.kb, s.first, s.second, s.opts...)
	return true
}
