package menace

import (
	"encoding/json"
	"strings"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
)

type Stats struct {
	Positions      int             `json:"positions"`
	TotalWeight    int             `json:"total_weight"`
	EmptyBags      int             `json:"empty_bags"`
	MaxBag         int             `json:"max_bag"`
	MaxBagPosition ttt.Fingerprint `json:"max_bag_position"`
}

func (s Stats) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(s)
	return strings.TrimSpace(builder.String())
}

// Size statistics of the whole knowledge base
func (kb *KnowledgeBase) Stats() Stats {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	stats := Stats{Positions: len(kb.positions)}
	for fp, bag := range kb.positions {
		stats.TotalWeight += len(bag)
		if len(bag) == 0 {
			stats.EmptyBags++
		}
		if len(bag) > stats.MaxBag || (len(bag) == stats.MaxBag && fp < stats.MaxBagPosition) {
			stats.MaxBag = len(bag)
			stats.MaxBagPosition = fp
		}
	}
	return stats
}

// Weight of every cell in the position's stored bag, indexed row-major.
// Unknown positions report the weights a new bag would get.
func (kb *KnowledgeBase) Weights(pos ttt.Position) [ttt.BoardSize]int {
	var weights [ttt.BoardSize]int
	if pos.IsTerminated() {
		return weights
	}

	kb.mu.Lock()
	bag, ok := kb.positions[pos.Fingerprint()]
	if !ok || len(bag) == 0 {
		bag = kb.initialBag(pos)
	}
	for _, m := range bag {
		weights[m.Index()]++
	}
	kb.mu.Unlock()

	return weights
}
