package physics

import (
	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// applyPrize applies the game-logic part of a caught prize. Lives, score
// bonuses and level restarts belong to the session.
func (p *Processor) applyPrize(prize core.Prize) {
	switch prize {
	case core.PrizeBlock:
		p.placeArtificialBlock()
	case core.PrizeEasy:
		p.ball.Effect = core.EffectEasy
	case core.PrizeEasyT:
		p.setTimedEffect(core.EffectEasyT)
	case core.PrizeExplode:
		p.ball.Effect = core.EffectExplode
	case core.PrizeExtend:
		p.changeBiteWidth(core.BiteExtend)
	case core.PrizeFast:
		p.ball.Speed = core.SpeedFast
		p.speedTicks = 0
	case core.PrizeGoo:
		p.setTimedEffect(core.EffectGoo)
	case core.PrizeHyper:
		p.teleport()
	case core.PrizeJump:
		p.setTimedEffect(core.EffectJump)
	case core.PrizeLaser:
		p.Events.LaserBeamVisibility.Emit(true)
		p.laserTicks = 0
	case core.PrizeMirror:
		p.setTimedEffect(core.EffectMirror)
	case core.PrizePierce:
		p.setTimedEffect(core.EffectPierce)
	case core.PrizeProtect:
		p.changeBiteWidth(core.BiteFull)
	case core.PrizeRandom:
		p.setTimedEffect(core.EffectRandom)
	case core.PrizeShort:
		p.changeBiteWidth(core.BiteShort)
	case core.PrizeSlow:
		p.ball.Speed = core.SpeedSlow
		p.speedTicks = 0
	case core.PrizeUpgrade:
		p.ball.Effect = core.EffectUpgrade
	case core.PrizeDegrade:
		p.ball.Effect = core.EffectDegrade
	case core.PrizeZygote:
		p.ball.Effect = core.EffectZygote
	case core.PrizeWin:
		p.finished = true
	}
}

func (p *Processor) setTimedEffect(e core.BallEffect) {
	p.ball.Effect = e
	p.effectTicks = 0
}

func (p *Processor) changeBiteWidth(e core.BiteEffect) {
	p.Events.BiteWidthChanged.Emit(e)
	p.widthTicks = 0
}

// placeArtificialBlock fills a random empty cell, scanning from the bottom.
func (p *Processor) placeArtificialBlock() {
	if p.lvl == nil {
		return
	}
	empty := p.lvl.FindBlocksBackwardAllowNone(level.None)
	if len(empty) == 0 {
		return
	}
	rc := empty[p.rng.Intn(len(empty))]
	p.explodeBlock(rc.Row, rc.Col, level.EdgeColor(level.Artificial), core.Converge)
	p.lvl.SetVulnerableBlock(rc.Row, rc.Col, level.Artificial)
	p.Events.BlockImpact.Emit(level.RowCol{Row: rc.Row, Col: rc.Col, Block: level.Artificial, After: p.lvl.Block(rc.Row, rc.Col)})
	p.cardinalityChanged()
}

// laserImpact hits the block under the head of a laser beam.
func (p *Processor) laserImpact(pkg core.LaserPackage) {
	row, col, ok := p.impactedBlock(pkg.X, pkg.Y-core.LaserOffset)
	if !ok {
		return
	}
	block := p.lvl.Block(row, col)
	if block == level.None {
		return
	}
	if level.AffectsCardinality(block) {
		p.lvl.SetBlockImpacted(row, col)
		p.finished = p.lvl.Completed()
		p.spawnRandomPrizeAtBlock(row, col)
		p.Events.BlockImpact.Emit(level.RowCol{Row: row, Col: col, Block: block, After: p.lvl.Block(row, col)})
		p.cardinalityChanged()
		p.Events.ScoreUpdated.Emit(level.Score(block))
	}
	p.Events.LaserBlockImpact.Emit(event.Signal{})
}

// performBallEffectAtBlock applies the ball effect at the hit cell and
// returns the extra score. Untimed effects are used up by the hit.
func (p *Processor) performBallEffectAtBlock(row, col int) int {
	score := 0
	switch p.ball.Effect {
	case core.EffectEasy, core.EffectEasyT:
		score += p.lvl.DestroyVulnerableBlock(row, col)
		p.explodeBlock(row, col, core.Yellow, core.Diverge)
	case core.EffectExplode, core.EffectJump:
		n, cells := p.lvl.DestroyBlocksAround(row, col)
		score += n
		p.explodeBlock(row, col, level.FillColor(level.Ultra), core.Diverge)
		for _, rc := range cells {
			p.spawnRandomPrizeAtBlock(rc.Row, rc.Col)
			p.Events.BlockImpact.Emit(rc)
		}
	case core.EffectPierce:
		b := borders{}
		b.top, b.bottom, b.left, b.right = p.dimens.BlockBorders(row, col)
		vertical, horizontal := p.collisionDirection(b)
		dir := core.DirUp
		if vertical != core.DirNone {
			dir = vertical
		} else if horizontal != core.DirNone {
			dir = horizontal
		}
		n, rc, found := p.lvl.DestroyOneBlockBehind(row, col, dir)
		score += n
		p.explodeBlock(row, col, level.FillColor(level.Rolling), core.Diverge)
		if found {
			p.spawnRandomPrizeAtBlock(rc.Row, rc.Col)
			p.Events.BlockImpact.Emit(rc)
		}
	case core.EffectUpgrade, core.EffectDegrade:
		mode, c := level.ModeUpgrade, core.Green
		if p.ball.Effect == core.EffectDegrade {
			mode, c = level.ModeDegrade, core.Red
		}
		n, cells := p.lvl.ChangeBlocksAround(row, col, mode)
		score += n
		p.explodeBlock(row, col, c, core.Diverge)
		for _, rc := range cells {
			p.Events.BlockImpact.Emit(rc)
		}
	}

	if !p.ball.Effect.Timed() {
		p.ball.Effect = core.EffectNone
		p.Events.DropBallAppearance.Emit(event.Signal{})
	}
	p.Events.BallEffectChanged.Emit(p.ball.Effect)
	return score
}

// dropTimedEffect ends a timed ball effect when its timer runs out.
func (p *Processor) dropTimedEffect() {
	if !p.ball.Effect.Timed() {
		return
	}
	p.ball.Effect = core.EffectNone
	p.Events.DropBallAppearance.Emit(event.Signal{})
}
