package physics

import (
	"math"
	"time"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// Viscosity 100 is a fully elastic bounce; 0 also means no disturbance.
const elastic = 100

// moveBall advances the ball by one step and resolves what it hits.
func (p *Processor) moveBall() {
	p.corrected = false

	if p.finished {
		p.stopBall()
		p.finished = false
		p.logger.Info("level finished")
		p.Events.LevelFinished.Emit(event.Signal{})
		return
	}

	v := p.ball.Velocity()
	oldX, oldY := p.ball.X, p.ball.Y
	newX := oldX + v*math.Cos(p.ball.Angle)
	newY := oldY + v*math.Sin(p.ball.Angle)

	if (p.lost && newY <= core.FieldMin) || p.death {
		p.stopBall()
		p.lost = false
		p.death = false
		p.logger.Debug("ball lost")
		p.Events.BallLost.Emit(event.Signal{})
		p.cardinalityChanged()
		return
	}

	hw, hh := p.ball.HalfWidth(), p.ball.HalfHeight()
	if newX >= core.FieldMax-hw {
		p.collideRightBorder()
		p.correctBall(core.FieldMax-hw, newY)
		p.Events.WallImpact.Emit(event.Signal{})
	} else if newX <= core.FieldMin+hw {
		p.collideLeftBorder()
		p.correctBall(core.FieldMin+hw, newY)
		p.Events.WallImpact.Emit(event.Signal{})
	}

	if newY <= p.upper+hh {
		if !p.lost {
			p.lost = !p.collideBite(newX)
			p.correctBall(newX, p.upper+hh)
		}
	} else {
		before := -1
		if p.lvl != nil {
			before = p.lvl.Cardinality()
		}
		hit := p.collideBlock(newX, newY)
		if p.lvl != nil && (hit || p.lvl.Cardinality() != before) {
			p.finished = p.lvl.Completed()
			p.cardinalityChanged()
		}
	}

	if !p.corrected {
		p.shiftBall(oldX+v*math.Cos(p.ball.Angle), oldY+v*math.Sin(p.ball.Angle))
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}

func (p *Processor) collideLeftBorder() {
	a := p.ball.Angle
	if a >= core.Pi {
		a = core.ThreePi - a
	} else if a >= core.HalfPi {
		a = core.Pi - a
	}
	p.ball.Angle = core.NormalizeAngle(a)
	p.angleChanged()
}

func (p *Processor) collideRightBorder() {
	a := p.ball.Angle
	if a <= core.HalfPi {
		a = core.Pi - a
	} else if a >= core.Pi3_2 {
		a = core.ThreePi - a
	}
	p.ball.Angle = core.NormalizeAngle(a)
	p.angleChanged()
}

func (p *Processor) collideHorizontalSurface() {
	p.ball.Angle = core.NormalizeAngle(core.TwoPi - p.ball.Angle)
	p.angleChanged()
}

// collideBite reflects the ball off the bite. It reports false when the
// ball misses the bite.
func (p *Processor) collideBite(newX float64) bool {
	reach := p.bite.HalfWidth() + p.ball.HalfWidth()
	if newX < p.bite.X-reach || newX > p.bite.X+reach {
		return false
	}

	switch p.ball.Effect {
	case core.EffectMirror:
		p.collideHorizontalSurface()
	case core.EffectRandom:
		p.randomAngle()
		p.smallAngleAvoid()
	case core.EffectGoo:
		p.stopBall()
		p.Events.BiteImpact.Emit(event.Signal{})
		return true
	default:
		p.deflectOffBite(newX)
	}
	p.ball.Angle = core.NormalizeAngle(math.Abs(p.ball.Angle))
	p.angleChanged()
	p.Events.BiteImpact.Emit(event.Signal{})
	return true
}

// deflectOffBite treats the outer quarters of the bite as a curved surface
// of radius Bite.Radius and the middle half as flat.
func (p *Processor) deflectOffBite(newX float64) {
	distance := math.Abs(newX - p.bite.X)
	beta := math.Abs(math.Atan(distance / p.bite.Radius()))
	a := p.ball.Angle

	switch {
	case newX >= p.bite.X+p.bite.QuarterWidth():
		if a >= core.Pi3_2 {
			p.collideHorizontalSurface()
			if p.ball.Angle >= beta {
				p.ball.Angle -= beta
			} else {
				p.ball.Angle += beta
			}
			p.smallAngleAvoid()
		} else if a >= core.Pi {
			if gamma := core.Pi3_2 - a; gamma <= beta {
				p.ball.Angle = math.Abs(gamma - 2*beta + core.HalfPi)
			} else {
				gamma = a - core.Pi
				p.ball.Angle = core.HalfPi - math.Abs(gamma+2*beta-core.HalfPi)
			}
			p.smallAngleAvoid()
		}
	case newX <= p.bite.X-p.bite.QuarterWidth():
		if a >= core.Pi3_2 {
			if gamma := a - core.Pi3_2; gamma <= beta {
				p.ball.Angle = core.Pi - math.Abs(gamma-2*beta+core.HalfPi)
			} else {
				gamma = core.TwoPi - a
				p.ball.Angle = core.HalfPi + math.Abs(gamma+2*beta-core.HalfPi)
			}
			p.smallAngleAvoid()
		} else if a >= core.Pi {
			p.collideHorizontalSurface()
			if p.ball.Angle >= beta+core.HalfPi {
				p.ball.Angle -= beta
			} else {
				p.ball.Angle += beta
			}
			p.smallAngleAvoid()
		}
	default:
		p.collideHorizontalSurface()
	}
}

// collideBlock resolves a step that ends inside the block area or above
// it. It reports true when a block that counts towards cardinality was
// hit with a real bounce.
func (p *Processor) collideBlock(newX, newY float64) bool {
	ceiling := core.FieldMax - p.ball.HalfHeight()
	if newY >= ceiling {
		p.collideHorizontalSurface()
		p.correctBall(newX, ceiling)
		p.Events.WallImpact.Emit(event.Signal{})
		return false
	}
	if newY < ceiling-p.dimens.Height {
		return false
	}

	row, col, ok := p.impactedBlock(newX, newY)
	if !ok {
		return false
	}
	b := borders{}
	b.top, b.bottom, b.left, b.right = p.dimens.BlockBorders(row, col)
	row, col = p.correctCorner(row, col, b)
	vertical, horizontal := p.collisionDirection(b)

	// Random draws happen before the block is read so the sequence does
	// not depend on the block type.
	mode := level.ModeUpgrade
	if p.coin() {
		mode = level.ModeDegrade
	}
	generated := p.lvl.Generator().Generate()
	prize := p.lvl.PrizeGenerator().Generate()

	block := p.lvl.Block(row, col)
	if block == level.None {
		return false
	}
	if block == level.Ultra1 {
		p.lvl.ForceDropCardinality()
	}
	p.lvl.SetBlockImpacted(row, col)
	score := level.Score(block)
	external := true

	switch block {
	case level.Destroy:
		p.explodeBlock(row, col, level.EdgeColor(level.Destroy), core.Diverge)
		p.death = true
	case level.Ultra1, level.Fog, level.Glass, level.Glass1:
		// passes through
	case level.Electro:
		external = p.blockCollision(b, elastic)
		n, cells := p.lvl.DestroyBlocksAround(row, col)
		score += n
		p.explodeBlock(row, col, level.FillColor(level.Electro), core.Diverge)
		for _, rc := range cells {
			p.spawnRandomPrizeAtBlock(rc.Row, rc.Col)
			p.Events.BlockImpact.Emit(rc)
		}
	case level.KnockVertical, level.KnockHorizontal:
		external = p.blockCollision(b, elastic)
		dir := horizontal
		if block == level.KnockVertical {
			dir = vertical
		}
		n, cells := p.lvl.DestroyBlocksBehind(row, col, dir)
		score += n
		c := level.FillColor(block)
		if dir != core.DirNone {
			p.explodeBlock(row, col, c, core.Diverge)
		}
		for _, rc := range cells {
			p.explodeBlock(rc.Row, rc.Col, c, core.Diverge)
			p.spawnRandomPrizeAtBlock(rc.Row, rc.Col)
			p.Events.BlockImpact.Emit(rc)
		}
	case level.Midas:
		external = p.blockCollision(b, elastic)
		n, cells := p.lvl.ModifyBlocksAround(row, col, level.Titan, false)
		score += n
		p.explodeBlock(row, col, level.FillColor(level.Midas), core.Diverge)
		for _, rc := range cells {
			p.explodeBlock(rc.Row, rc.Col, level.FillColor(level.Titan), core.Diverge)
			p.Events.BlockImpact.Emit(rc)
		}
		p.death = true
	case level.Network:
		external = p.blockCollision(b, elastic)
		network := p.lvl.FindBlocks(level.Network)
		p.explodeBlock(row, col, level.FillColor(level.Network), core.Diverge)
		p.spawnPrizeAtBlock(row, col, prize)
		if len(network) > 0 {
			rc := network[p.rng.Intn(len(network))]
			p.shiftBallIntoBlock(rc.Row, rc.Col)
		}
	case level.Hyper:
		external = p.blockCollision(b, elastic)
		p.explodeBlock(row, col, level.FillColor(level.Hyper), core.Converge)
		p.teleport()
	case level.Origin:
		external = p.blockCollision(b, elastic)
		p.explodeBlock(row, col, level.FillColor(level.Origin), core.Converge)
		p.stopBall()
		p.correctBall(p.bite.X, p.upper+p.ball.HalfHeight())
	case level.Rolling:
		external = p.blockCollision(b, p.rng.Intn(elastic+1))
		p.spawnPrizeAtBlock(row, col, prize)
	case level.ZygoteSpawn, level.Jelly, level.Water, level.Yogurt1, level.Clay:
		external = p.blockCollision(b, viscosity(block))
		p.spawnPrizeAtBlock(row, col, prize)
	case level.Magic:
		external = p.blockCollision(b, elastic)
		n, cells := p.lvl.ModifyBlocksAround(row, col, generated, false)
		score += n
		p.explodeBlock(row, col, level.FillColor(generated), core.Diverge)
		for _, rc := range cells {
			p.Events.BlockImpact.Emit(rc)
		}
	case level.Quick1:
		external = p.blockCollision(b, elastic)
		n, cells := p.lvl.ChangeBlocksAround(row, col, mode)
		score += n
		p.explodeBlock(row, col, level.FillColor(level.Quick1), core.Diverge)
		p.spawnPrizeAtBlock(row, col, prize)
		for _, rc := range cells {
			p.Events.BlockImpact.Emit(rc)
		}
	case level.Yogurt:
		external = p.blockCollision(b, 50)
		n, cells := p.lvl.ModifyBlocksAround(row, col, level.Yogurt1, false)
		score += n
		p.explodeBlock(row, col, level.FillColor(level.Yogurt), core.Diverge)
		p.spawnPrizeAtBlock(row, col, prize)
		for _, rc := range cells {
			p.Events.BlockImpact.Emit(rc)
		}
	case level.Zygote1:
		external = p.blockCollision(b, elastic)
		if rc, ok := p.lvl.ModifyBlockNear(row, col, level.ZygoteSpawn); ok {
			p.explodeBlock(rc.Row, rc.Col, level.FillColor(level.ZygoteSpawn), core.Converge)
			p.spawnPrizeAtBlock(row, col, prize)
			p.Events.BlockImpact.Emit(rc)
		}
	case level.Titan, level.Invul:
		external = p.blockCollision(b, elastic)
	default:
		p.spawnPrizeAtBlock(row, col, prize)
		external = p.blockCollision(b, elastic)
	}

	score += p.performBallEffectAtBlock(row, col)
	p.Events.BlockImpact.Emit(level.RowCol{Row: row, Col: col, Block: block, After: p.lvl.Block(row, col)})
	p.Events.ScoreUpdated.Emit(score)
	return external && level.AffectsCardinality(block)
}

// viscosity returns how much a soft block disturbs the bounce.
func viscosity(b level.Block) int {
	switch b {
	case level.ZygoteSpawn:
		return 79
	case level.Jelly:
		return 67
	case level.Water:
		return 40
	case level.Yogurt1:
		return 22
	case level.Clay:
		return 10
	default:
		return elastic
	}
}

// borders of a block cell, measured from the top-left corner of the field.
type borders struct {
	top, bottom, left, right float64
}

// correctCorner moves the impact to the neighbouring cell when the ball
// enters a cell through a corner that is shielded on both sides. The
// borders are not recomputed for the new cell.
func (p *Processor) correctCorner(row, col int, b borders) (int, int) {
	hw := p.ball.HalfWidth()
	bx, by := p.ball.X+1, p.ball.Y+1

	shielded := func(r, c int) bool {
		if !p.lvl.InBounds(r, c) {
			return true
		}
		return p.lvl.Block(r, c) != level.None
	}
	pick := func(dr, dc int, vDist, hDist float64) {
		if !shielded(row+dr, col) || !shielded(row, col+dc) {
			return
		}
		if vDist <= hDist && p.lvl.InBounds(row+dr, col) {
			row += dr
		} else if vDist > hDist && p.lvl.InBounds(row, col+dc) {
			col += dc
		}
	}

	leftDist := math.Abs(b.left - bx)
	rightDist := math.Abs(b.right - bx)
	if by >= 2-b.top-hw {
		topDist := math.Abs(1 - b.top - p.ball.Y)
		if bx <= b.left-hw {
			pick(-1, -1, topDist, leftDist)
		} else if bx >= b.right+hw {
			pick(-1, 1, topDist, rightDist)
		}
	} else if by <= 2-b.bottom+hw {
		bottomDist := math.Abs(1 - b.bottom - p.ball.Y)
		if bx <= b.left-hw {
			pick(1, -1, bottomDist, leftDist)
		} else if bx >= b.right+hw {
			pick(1, 1, bottomDist, rightDist)
		}
	}
	return row, col
}

// collisionDirection reports the direction the ball travels into the
// block: vertical when it hits the top or bottom face, horizontal when it
// hits a side.
func (p *Processor) collisionDirection(b borders) (vertical, horizontal core.Direction) {
	bx := p.ball.X + 1
	if bx > b.left && bx < b.right {
		if p.ball.Y >= 1-b.top {
			vertical = core.DirDown
		} else if p.ball.Y <= 1-b.bottom {
			vertical = core.DirUp
		}
	}
	if bx <= b.left {
		horizontal = core.DirRight
	} else if bx >= b.right {
		horizontal = core.DirLeft
	}
	return vertical, horizontal
}

// blockCollision bounces the ball off the face of a block it hits.
func (p *Processor) blockCollision(b borders, viscosity int) bool {
	hw := p.ball.HalfWidth()
	bx, by := p.ball.X+1, p.ball.Y+1

	switch {
	case bx > b.left-hw && bx < b.right+hw && (by >= 2-b.top-hw || by <= 2-b.bottom+hw):
		p.collideHorizontalSurface()
		p.viscousAngleDisturbance(viscosity)
	case bx <= b.left-hw:
		p.collideRightBorder()
		p.viscousAngleDisturbance(viscosity)
	case bx >= b.right+hw:
		p.collideLeftBorder()
		p.viscousAngleDisturbance(viscosity)
	default:
		p.logger.Debug("corner collision")
		p.randomAngle()
	}
	return true
}

// impactedBlock maps a ball step to the grid cell it enters. The leading
// edge of the ball is tried first; if that cell is empty the trailing edge
// is used.
func (p *Processor) impactedBlock(x, y float64) (row, col int, ok bool) {
	if p.lvl == nil || p.dimens.BlockWidth <= 0 || p.dimens.BlockHeight <= 0 {
		return 0, 0, false
	}
	hw, hh := p.ball.HalfWidth(), p.ball.HalfHeight()
	colAt := func(off float64) int { return int(math.Floor((x + off + 1) / p.dimens.BlockWidth)) }
	rowAt := func(off float64) int { return int(math.Floor((1 + off - y) / p.dimens.BlockHeight)) }

	fromRight := p.ball.X >= x
	fromTop := p.ball.Y >= y
	if fromRight {
		col = colAt(-hw)
	} else {
		col = colAt(hw)
	}
	if fromTop {
		row = rowAt(hh)
	} else {
		row = rowAt(-hh)
	}
	if !p.lvl.InBounds(row, col) {
		return row, col, false
	}

	if p.lvl.Block(row, col) == level.None {
		if fromRight {
			col = colAt(hw)
		} else {
			col = colAt(-hw)
		}
		if fromTop {
			row = rowAt(-hh)
		} else {
			row = rowAt(hh)
		}
	}
	return row, col, p.lvl.InBounds(row, col)
}

// smallAngleAvoid pushes the angle away from the axes so the ball never
// travels almost horizontally or vertically.
func (p *Processor) smallAngleAvoid() {
	a := p.ball.Angle
	switch {
	case a <= core.Pi16:
		a += core.Pi16
	case a >= core.TwoPi-core.Pi16:
		a -= core.Pi16
	case a >= core.Pi-core.Pi16 && a <= core.Pi:
		a -= core.Pi16
	case a > core.Pi && a <= core.Pi+core.Pi16:
		a += core.Pi16
	case a <= core.HalfPi+core.Pi16 && a >= core.HalfPi:
		a += core.Pi16
	case a >= core.HalfPi-core.Pi16 && a < core.HalfPi:
		a -= core.Pi16
	case a >= core.Pi3_2 && a <= core.Pi3_2+core.Pi16:
		a += core.Pi16
	case a < core.Pi3_2 && a >= core.Pi3_2-core.Pi16:
		a -= core.Pi16
	}
	p.ball.Angle = core.NormalizeAngle(a)
	p.angleChanged()
}

// randomAngle sends the ball up-right or up-left at a random angle.
func (p *Processor) randomAngle() {
	a := p.rng.NormFloat64()*core.Pi12 + core.Pi4
	if !p.coin() {
		a += core.HalfPi
	}
	p.ball.Angle = core.NormalizeAngle(a)
	p.angleChanged()
}

// viscousAngleDisturbance tilts the angle by a random amount scaled by
// viscosity percent.
func (p *Processor) viscousAngleDisturbance(viscosity int) {
	if viscosity == 0 || viscosity == elastic {
		return
	}
	dir := -1.0
	if p.coin() {
		dir = 1
	}
	tilt := p.rng.NormFloat64()*core.AngleDeviation + core.AngleMean
	p.ball.Angle = core.NormalizeAngle(p.ball.Angle + dir*tilt/100*float64(viscosity))
	p.smallAngleAvoid()
}
