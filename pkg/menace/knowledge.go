package menace

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/rs/zerolog"
)

// Reinforcement weights, how many copies of a move are added after a draw or
// a win and how many are removed after a loss
type Rewards struct {
	Draw int
	Win  int
	Loss int
}

// Maps a board fingerprint to its bag of candidate moves. A move may appear
// several times in a bag, its multiplicity is its selection weight.
//
// Safe for concurrent use: every operation locks the knowledge base, so
// parallel games serialize their sampling and reinforcement on it.
type KnowledgeBase struct {
	mu        sync.Mutex
	positions map[ttt.Fingerprint][]ttt.Move
	bias      int
	rewards   Rewards
	rand      *rand.Rand
	logger    zerolog.Logger
}

type Option func(*KnowledgeBase)

// Every legal move is put 'bias' times into a new (or regenerated) bag
func WithBias(bias int) Option {
	return func(kb *KnowledgeBase) {
		kb.bias = max(1, bias)
	}
}

func WithRewards(rewards Rewards) Option {
	return func(kb *KnowledgeBase) {
		kb.rewards = Rewards{
			Draw: max(0, rewards.Draw),
			Win:  max(0, rewards.Win),
			Loss: max(0, rewards.Loss),
		}
	}
}

// Random source used by SampleMove, accessed only under the knowledge base lock
func WithRand(r *rand.Rand) Option {
	return func(kb *KnowledgeBase) {
		if r != nil {
			kb.rand = r
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(kb *KnowledgeBase) {
		kb.logger = logger
	}
}

func New(opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		positions: make(map[ttt.Fingerprint][]ttt.Move),
		bias:      DefaultBias,
		rewards:   DefaultRewards,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(kb)
	}
	if kb.rand == nil {
		kb.rand = rand.New(rand.NewSource(SeedGeneratorFn()))
	}
	return kb
}

func (kb *KnowledgeBase) Bias() int {
	return kb.bias
}

func (kb *KnowledgeBase) Rewards() Rewards {
	return kb.rewards
}

// Fresh bag for given position: its legal moves, repeated 'bias' times
func (kb *KnowledgeBase) initialBag(pos ttt.Position) []ttt.Move {
	legal := pos.LegalMoves()
	bag := make([]ttt.Move, 0, len(legal)*kb.bias)
	for range kb.bias {
		bag = append(bag, legal...)
	}
	return bag
}

// Get the bag of given position, creating it on first access and regenerating
// it once all weight has been removed. Must hold the lock.
func (kb *KnowledgeBase) bagLocked(pos ttt.Position) []ttt.Move {
	if pos.IsTerminated() {
		panic(EmptyBagInvariantViolation{Position: pos})
	}

	fp := pos.Fingerprint()
	bag, ok := kb.positions[fp]
	if !ok || len(bag) == 0 {
		bag = kb.initialBag(pos)
		kb.positions[fp] = bag
		if ok {
			kb.logger.Debug().Stringer("fingerprint", fp).Msg("bag exhausted, regenerated")
		}
	}
	return bag
}

// Copy of the bag for given position. Panics with EmptyBagInvariantViolation
// on a finished position.
func (kb *KnowledgeBase) CandidateMoves(pos ttt.Position) []ttt.Move {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return slices.Clone(kb.bagLocked(pos))
}

// Choose uniformly one bead from the position's bag, so moves are picked
// proportionally to their weight
func (kb *KnowledgeBase) SampleMove(pos ttt.Position) ttt.Move {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	bag := kb.bagLocked(pos)
	return bag[kb.rand.Intn(len(bag))]
}

// Update the bags of a finished game. For each ply: on a draw the move is
// added 'Draw' times, if the mover won it is added 'Win' times, otherwise
// 'Loss' occurrences are removed (missing occurrences are ignored).
// Entries whose move is illegal in their (unfinished) position are skipped.
// The whole game is applied under one lock.
func (kb *KnowledgeBase) Reinforce(history History, winner ttt.PlayerType) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	for _, entry := range history {
		// Terminal positions fall through to the empty bag panic
		if !entry.Position.IsTerminated() && !entry.Position.IsLegal(entry.Move) {
			kb.logger.Warn().
				Stringer("fingerprint", entry.Position.Fingerprint()).
				Stringer("move", entry.Move).
				Msg("skipping illegal history entry")
			continue
		}
		fp := entry.Position.Fingerprint()
		bag := kb.bagLocked(entry.Position)

		switch winner {
		case ttt.None:
			bag = appendN(bag, entry.Move, kb.rewards.Draw)
		case entry.Player:
			bag = appendN(bag, entry.Move, kb.rewards.Win)
		default:
			bag = removeN(bag, entry.Move, kb.rewards.Loss)
		}
		kb.positions[fp] = bag
	}

	kb.logger.Trace().
		Int("plies", len(history)).
		Stringer("winner", winnerName(winner)).
		Msg("reinforced")
}

func appendN(bag []ttt.Move, move ttt.Move, n int) []ttt.Move {
	for range n {
		bag = append(bag, move)
	}
	return bag
}

func removeN(bag []ttt.Move, move ttt.Move, n int) []ttt.Move {
	for range n {
		idx := slices.Index(bag, move)
		if idx < 0 {
			break
		}
		bag = slices.Delete(bag, idx, idx+1)
	}
	return bag
}

type winnerName ttt.PlayerType

func (w winnerName) String() string {
	if ttt.PlayerType(w) == ttt.None {
		return "draw"
	}
	return ttt.PlayerType(w).String()
}

// Copy of the stored bag, without creating it
func (kb *KnowledgeBase) Bag(fp ttt.Fingerprint) ([]ttt.Move, bool) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	bag, ok := kb.positions[fp]
	return slices.Clone(bag), ok
}

// Number of known positions
func (kb *KnowledgeBase) Len() int {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return len(kb.positions)
}

// Known fingerprints, ascending
func (kb *KnowledgeBase) Fingerprints() []ttt.Fingerprint {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	fps := make([]ttt.Fingerprint, 0, len(kb.positions))
	for fp := range kb.positions {
		fps = append(fps, fp)
	}
	slices.Sort(fps)
	return fps
}

// Deep copy of the whole mapping
func (kb *KnowledgeBase) Snapshot() map[ttt.Fingerprint][]ttt.Move {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return cloneMapping(kb.positions)
}

func cloneMapping(positions map[ttt.Fingerprint][]ttt.Move) map[ttt.Fingerprint][]ttt.Move {
	snapshot := make(map[ttt.Fingerprint][]ttt.Move, len(positions))
	for fp, bag := range positions {
		snapshot[fp] = slices.Clone(bag)
	}
	return snapshot
}

// Replace the bag of a position, used to seed or restore knowledge.
// Moves that are not legal in the position are dropped.
func (kb *KnowledgeBase) SetBag(pos ttt.Position, bag []ttt.Move) {
	legal := pos.GenerateMoves()
	filtered := make([]ttt.Move, 0, len(bag))
	for _, m := range bag {
		if legal.Contains(m) {
			filtered = append(filtered, m)
		}
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.positions[pos.Fingerprint()] = filtered
}

// Same fingerprints, and for each one the same multiset of moves
func (kb *KnowledgeBase) Equal(other *KnowledgeBase) bool {
	return equalMappings(kb.Snapshot(), other.Snapshot())
}

func equalMappings(a, b map[ttt.Fingerprint][]ttt.Move) bool {
	if len(a) != len(b) {
		return false
	}
	for fp, bagA := range a {
		bagB, ok := b[fp]
		if !ok || !sameMultiset(bagA, bagB) {
			return false
		}
	}
	return true
}

func sameMultiset(a, b []ttt.Move) bool {
	if len(a) != len(b) {
		return false
	}
	var counts [ttt.BoardSize]int
	for _, m := range a {
		counts[m.Index()]++
	}
	for _, m := range b {
		counts[m.Index()]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}
