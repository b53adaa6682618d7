// Package sound turns game events into sound cues. A cue is a category
// prefix; the clip bank picks a random clip with that prefix and the
// channel pool plays it.
package sound

import (
	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// Fixed cues.
const (
	CueLose  = "lose_"
	CueBite  = "bite_"
	CueWin   = "win_"
	CueLaser = "laser_"
)

// BlockCategory returns the cue for a hit on b, or "" for silence.
func BlockCategory(b level.Block) string {
	switch b {
	case level.Aluminium, level.Brick, level.Clay, level.Jelly, level.Rolling, level.Simple,
		level.Quick, level.Quick2:
		return "block_"
	case level.Fog:
		return "fog_"
	case level.Glass, level.Glass1:
		return "glass_"
	case level.Electro, level.KnockVertical, level.KnockHorizontal:
		return "explode_"
	case level.Artificial:
		return "magic_"
	case level.Iron, level.Steel, level.Plumbum:
		return "iron_"
	case level.Hyper, level.Origin, level.Network:
		return "hyper_"
	case level.Ultra, level.Ultra4, level.Ultra3, level.Ultra2, level.Ultra1:
		return "ultra_"
	case level.Titan, level.Invul, level.Extra:
		return "invul_"
	case level.Water, level.Yogurt, level.Yogurt1:
		return "water_"
	case level.Zygote, level.Zygote1, level.ZygoteSpawn:
		return "zygote_"
	case level.Destroy, level.Midas:
		return "destroy_"
	default:
		// None, Magic and Quick1 are silent.
		return ""
	}
}

// PrizeCategory returns the cue for a caught prize.
func PrizeCategory(p core.Prize) string {
	switch p {
	case core.PrizeDestroy:
		return "skull_"
	case core.PrizeHyper:
		return "hyper_"
	case core.PrizeVitality:
		return "vitality_"
	case core.PrizeWin:
		return CueWin
	default:
		return "prize_"
	}
}

// EffectCategory returns the cue for a ball effect change, or "" for
// silence.
func EffectCategory(e core.BallEffect) string {
	switch e {
	case core.EffectEasy, core.EffectEasyT, core.EffectExplode, core.EffectJump, core.EffectPierce:
		return "explode_"
	case core.EffectUpgrade:
		return "upgrade_"
	case core.EffectDegrade:
		return "degrade_"
	default:
		return ""
	}
}
