package menace

import (
	"fmt"
	"math/rand"
	"os"
	"slices"
	"testing"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetSeedGeneratorFn(func() int64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", SeedGeneratorFn())

	os.Exit(m.Run())
}

func count(bag []ttt.Move, m ttt.Move) int {
	n := 0
	for _, b := range bag {
		if b == m {
			n++
		}
	}
	return n
}

func play(t *testing.T, moves ...ttt.Move) (ttt.Position, History) {
	t.Helper()
	pos := ttt.NewPosition()
	var history History
	for _, m := range moves {
		history.Record(pos, m)
		var err error
		pos, err = pos.ApplyMove(m)
		require.NoError(t, err)
	}
	return pos, history
}

func TestCandidateMovesInitialization(t *testing.T) {
	kb := New()
	pos := ttt.NewPosition()

	bag := kb.CandidateMoves(pos)
	assert.Equal(t, pos.LegalMoves(), bag)
	assert.Equal(t, 1, kb.Len())

	// Returned bag is a copy
	bag[0] = ttt.Move{Col: 2, Row: 2}
	assert.Equal(t, pos.LegalMoves(), kb.CandidateMoves(pos))
}

func TestCandidateMovesBias(t *testing.T) {
	kb := New(WithBias(3))
	pos, _ := play(t, ttt.Move{Col: 1, Row: 1})

	bag := kb.CandidateMoves(pos)
	require.Len(t, bag, 3*8)
	for _, m := range pos.LegalMoves() {
		assert.Equal(t, 3, count(bag, m), "move %v", m)
	}
	// Order follows the legal move list, repeated
	assert.Equal(t, pos.LegalMoves(), bag[:8])
	assert.Equal(t, pos.LegalMoves(), bag[8:16])
}

func TestSampleMoveFromBag(t *testing.T) {
	kb := New(WithRand(rand.New(rand.NewSource(7))))
	pos := ttt.NewPosition()
	only := ttt.Move{Col: 2, Row: 1}
	kb.SetBag(pos, []ttt.Move{only, only})

	for range 50 {
		assert.Equal(t, only, kb.SampleMove(pos))
	}
}

func TestSampleMoveWeights(t *testing.T) {
	kb := New(WithRand(rand.New(rand.NewSource(1))))
	pos := ttt.NewPosition()
	heavy, light := ttt.Move{Col: 1, Row: 1}, ttt.Move{Col: 0, Row: 0}
	kb.SetBag(pos, append(slices.Repeat([]ttt.Move{heavy}, 9), light))

	hits := 0
	const samples = 5000
	for range samples {
		if kb.SampleMove(pos) == heavy {
			hits++
		}
	}
	assert.InDelta(t, 0.9, float64(hits)/samples, 0.03)
}

func TestReinforceWin(t *testing.T) {
	kb := New()
	pos := ttt.NewPosition()
	m := ttt.Move{Col: 0, Row: 0}
	kb.SetBag(pos, []ttt.Move{m})

	kb.Reinforce(History{{Position: pos, Player: ttt.Cross, Move: m}}, ttt.Cross)

	bag, ok := kb.Bag(pos.Fingerprint())
	require.True(t, ok)
	assert.Equal(t, 4, count(bag, m))
}

func TestReinforceLoss(t *testing.T) {
	kb := New()
	pos := ttt.NewPosition()
	m := ttt.Move{Col: 0, Row: 0}
	kb.SetBag(pos, []ttt.Move{m})

	kb.Reinforce(History{{Position: pos, Player: ttt.Cross, Move: m}}, ttt.Circle)

	bag, ok := kb.Bag(pos.Fingerprint())
	require.True(t, ok)
	assert.Equal(t, 0, count(bag, m))
	assert.Empty(t, bag)

	// Exhausted bag regenerates from the legal moves
	assert.Equal(t, pos.LegalMoves(), kb.CandidateMoves(pos))
}

func TestReinforceLossMissingMove(t *testing.T) {
	kb := New()
	pos := ttt.NewPosition()
	kept := ttt.Move{Col: 1, Row: 1}
	kb.SetBag(pos, []ttt.Move{kept})

	assert.NotPanics(t, func() {
		kb.Reinforce(History{{Position: pos, Player: ttt.Cross, Move: ttt.Move{Col: 2, Row: 2}}}, ttt.Circle)
	})

	bag, _ := kb.Bag(pos.Fingerprint())
	assert.Equal(t, []ttt.Move{kept}, bag)
}

func TestReinforceSkipsIllegalEntries(t *testing.T) {
	kb := New()
	center := ttt.Move{Col: 1, Row: 1}
	afterCenter, history := play(t, center)
	kb.SetBag(afterCenter, []ttt.Move{{Col: 0, Row: 0}})

	// Occupied cell, then a legal move of the same game
	history = append(History{{Position: afterCenter, Player: ttt.Circle, Move: center}}, history...)
	assert.NotPanics(t, func() { kb.Reinforce(history, ttt.Circle) })

	bag, ok := kb.Bag(afterCenter.Fingerprint())
	require.True(t, ok)
	assert.Equal(t, []ttt.Move{{Col: 0, Row: 0}}, bag)
	for range 50 {
		assert.NotEqual(t, center, kb.SampleMove(afterCenter))
	}

	// The legal entry was still applied (X lost, one bead removed)
	empty, ok := kb.Bag(ttt.NewPosition().Fingerprint())
	require.True(t, ok)
	assert.Equal(t, 0, count(empty, center))
	assert.Len(t, empty, 8)
}

func TestReinforceCreatesUnseenPositions(t *testing.T) {
	kb := New()
	_, history := play(t, ttt.Move{Col: 0, Row: 0}, ttt.Move{Col: 1, Row: 1})

	kb.Reinforce(history, ttt.Circle)

	// X lost: (0,0) removed from the 9 initial moves
	first, ok := kb.Bag(history[0].Position.Fingerprint())
	require.True(t, ok)
	assert.Len(t, first, 8)
	assert.Equal(t, 0, count(first, ttt.Move{Col: 0, Row: 0}))

	// O won: (1,1) gets 3 more beads on top of the initial one
	second, ok := kb.Bag(history[1].Position.Fingerprint())
	require.True(t, ok)
	assert.Len(t, second, 8+3)
	assert.Equal(t, 4, count(second, ttt.Move{Col: 1, Row: 1}))
}

func TestReinforceTopRowWin(t *testing.T) {
	kb := New()
	final, history := play(t,
		ttt.Move{Col: 0, Row: 0}, ttt.Move{Col: 1, Row: 1}, ttt.Move{Col: 1, Row: 0},
		ttt.Move{Col: 1, Row: 2}, ttt.Move{Col: 2, Row: 0},
	)
	require.Equal(t, ttt.Cross, final.Winner())

	before := make([][]ttt.Move, len(history))
	for i, entry := range history {
		before[i] = kb.CandidateMoves(entry.Position)
	}

	kb.Reinforce(history, final.Winner())

	for i, entry := range history {
		bag, _ := kb.Bag(entry.Position.Fingerprint())
		want := count(before[i], entry.Move) + 3
		if entry.Player == ttt.Circle {
			want = count(before[i], entry.Move) - 1
		}
		assert.Equal(t, want, count(bag, entry.Move), "ply %d %v", i, entry.Move)
	}
}

func TestReinforceDrawGame(t *testing.T) {
	kb := New(WithBias(2))
	final, history := play(t,
		ttt.Move{Col: 0, Row: 0}, ttt.Move{Col: 1, Row: 0}, ttt.Move{Col: 2, Row: 0},
		ttt.Move{Col: 1, Row: 1}, ttt.Move{Col: 0, Row: 1}, ttt.Move{Col: 2, Row: 1},
		ttt.Move{Col: 1, Row: 2}, ttt.Move{Col: 0, Row: 2}, ttt.Move{Col: 2, Row: 2},
	)
	require.True(t, final.IsDraw())

	before := make([]int, len(history))
	for i, entry := range history {
		before[i] = count(kb.CandidateMoves(entry.Position), entry.Move)
	}

	kb.Reinforce(history, ttt.None)

	for i, entry := range history {
		bag, _ := kb.Bag(entry.Position.Fingerprint())
		assert.Equal(t, before[i]+1, count(bag, entry.Move), "ply %d %v", i, entry.Move)
	}
}

func TestCustomRewards(t *testing.T) {
	kb := New(WithRewards(Rewards{Draw: 0, Win: 1, Loss: 2}))
	pos := ttt.NewPosition()
	m := ttt.Move{Col: 0, Row: 0}
	kb.SetBag(pos, []ttt.Move{m, m, m})

	kb.Reinforce(History{{Position: pos, Player: ttt.Cross, Move: m}}, ttt.Circle)
	bag, _ := kb.Bag(pos.Fingerprint())
	assert.Equal(t, 1, count(bag, m))

	kb.Reinforce(History{{Position: pos, Player: ttt.Cross, Move: m}}, ttt.None)
	bag, _ = kb.Bag(pos.Fingerprint())
	assert.Equal(t, 1, count(bag, m))
}

func TestBagsNeverNegative(t *testing.T) {
	kb := New(WithRand(rand.New(rand.NewSource(3))))
	r := rand.New(rand.NewSource(4))

	for range 3000 {
		pos := ttt.NewPosition()
		var history History
		for !pos.IsTerminated() {
			var m ttt.Move
			if pos.Turn() == ttt.Cross {
				m = kb.SampleMove(pos)
			} else {
				legal := pos.LegalMoves()
				m = legal[r.Intn(len(legal))]
			}
			history.Record(pos, m)
			var err error
			pos, err = pos.ApplyMove(m)
			require.NoError(t, err)
		}
		kb.Reinforce(history, pos.Winner())
	}

	for fp, bag := range kb.Snapshot() {
		pos, err := ttt.FromFingerprint(fp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(bag), 0)
		for _, m := range bag {
			require.True(t, pos.IsLegal(m), "illegal move %v stored for %d", m, fp)
		}
		// Sampling after exhaustion regenerates instead of failing
		assert.NotPanics(t, func() { kb.SampleMove(pos) })
	}
}

func TestTerminalPositionPanics(t *testing.T) {
	kb := New()
	won, _ := play(t,
		ttt.Move{Col: 0, Row: 0}, ttt.Move{Col: 0, Row: 1}, ttt.Move{Col: 1, Row: 0},
		ttt.Move{Col: 1, Row: 1}, ttt.Move{Col: 2, Row: 0},
	)

	assert.PanicsWithError(t, EmptyBagInvariantViolation{Position: won}.Error(), func() {
		kb.SampleMove(won)
	})
	assert.Panics(t, func() { kb.CandidateMoves(won) })
	assert.Panics(t, func() {
		kb.Reinforce(History{{Position: won, Player: ttt.Circle, Move: ttt.Move{Col: 2, Row: 2}}}, ttt.Cross)
	})
	assert.Equal(t, 0, kb.Len())
}

func TestHistoryReplay(t *testing.T) {
	final, history := play(t, ttt.Move{Col: 1, Row: 1}, ttt.Move{Col: 0, Row: 0})

	replayed, err := history.Replay()
	require.NoError(t, err)
	assert.Equal(t, final, replayed)

	history[1].Player = ttt.Cross
	_, err = history.Replay()
	assert.Error(t, err)
}

func TestStatsAndWeights(t *testing.T) {
	kb := New()
	pos := ttt.NewPosition()
	center := ttt.Move{Col: 1, Row: 1}
	kb.SetBag(pos, []ttt.Move{center, center, {Col: 0, Row: 0}})
	child, _ := pos.ApplyMove(center)
	kb.SetBag(child, nil)

	stats := kb.Stats()
	assert.Equal(t, 2, stats.Positions)
	assert.Equal(t, 3, stats.TotalWeight)
	assert.Equal(t, 1, stats.EmptyBags)
	assert.Equal(t, 3, stats.MaxBag)
	assert.Equal(t, pos.Fingerprint(), stats.MaxBagPosition)

	weights := kb.Weights(pos)
	assert.Equal(t, 2, weights[ttt.B2])
	assert.Equal(t, 1, weights[ttt.A3])
	assert.Equal(t, 0, weights[ttt.C1])

	// Empty bag reports the regenerated weights
	childWeights := kb.Weights(child)
	assert.Equal(t, 0, childWeights[ttt.B2])
	assert.Equal(t, 1, childWeights[ttt.A3])
}

func TestSetBagDropsIllegalMoves(t *testing.T) {
	kb := New()
	pos, _ := play(t, ttt.Move{Col: 1, Row: 1})
	kb.SetBag(pos, []ttt.Move{{Col: 1, Row: 1}, {Col: 0, Row: 0}, {Col: 5, Row: 5}})

	bag, _ := kb.Bag(pos.Fingerprint())
	assert.Equal(t, []ttt.Move{{Col: 0, Row: 0}}, bag)
}
