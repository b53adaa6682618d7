package level

import (
	"math/rand"

	"github.com/vovakirdan/arkanoid/internal/core"
)

// BlockGenerator draws ordinary blocks uniformly.
type BlockGenerator struct {
	rng *rand.Rand
}

// NewBlockGenerator returns a generator drawing from rng.
func NewBlockGenerator(rng *rand.Rand) *BlockGenerator {
	return &BlockGenerator{rng: rng}
}

// Generate returns a random ordinary block.
func (g *BlockGenerator) Generate() Block {
	return Block(OrdinaryOffset + g.rng.Intn(TotalOrdinary))
}

// PrizeGenerator draws the prize released by a destroyed block.
type PrizeGenerator struct {
	rng         *rand.Rand
	bonusBlocks bool
}

// NewPrizeGenerator returns a generator drawing from rng.
func NewPrizeGenerator(rng *rand.Rand) *PrizeGenerator {
	return &PrizeGenerator{rng: rng}
}

// SetBonusBlocks makes every draw yield PrizeBlock while set.
func (g *PrizeGenerator) SetBonusBlocks(on bool) { g.bonusBlocks = on }

// BonusBlocks reports the bonus blocks setting.
func (g *PrizeGenerator) BonusBlocks() bool { return g.bonusBlocks }

// Generate returns a random prize, mostly PrizeNone.
func (g *PrizeGenerator) Generate() core.Prize {
	if g.bonusBlocks {
		return core.PrizeBlock
	}
	value := 0
	if g.rng.Float64() < core.PrizeChance {
		value = g.rng.Intn(core.TotalPrizes)
	}
	if g.rng.Float64() < core.WinChance {
		return core.PrizeWin
	}
	return core.Prize(value)
}
