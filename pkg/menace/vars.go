package menace

import "time"

type SeedGeneratorFnType func() int64

// Bag multiplier used when a position is seen for the first time, every legal
// move gets this many beads
const DefaultBias = 1

// Default reinforcement: a drawing move is added once, a winning move three
// times, a losing move loses one occurrence
var DefaultRewards = Rewards{Draw: 1, Win: 3, Loss: 1}

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for the random sources of new knowledge
// bases, by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
