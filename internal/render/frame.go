package render

import (
	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// Frame is an immutable snapshot of everything on screen. Field
// coordinates span [-1, 1] on both axes with +Y up.
type Frame struct {
	Seq        uint64
	Surface    core.Surface
	Background core.Color
	Dimens     core.LevelDimens

	// Grid is nil until a level is loaded.
	Grid [][]level.Block

	Ball       core.Ball
	Bite       core.Bite
	Appearance core.BallEffect

	Prizes     []core.PrizePackage // sorted by ID
	Catches    []float64           // X of recent catch flashes
	Explosions []core.ExplosionPackage

	Laser     bool
	LaserHead core.LaserPackage
	LaserLive bool // the beam has not hit anything this cycle
}

// Surface receives published frames. Present is called on the
// presentation goroutine and must not block for long.
type Surface interface {
	Present(Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

// Present implements Surface.
func (f SurfaceFunc) Present(fr Frame) { f(fr) }

// Cell maps a field point to a cell of a cols x rows raster. ok is false
// outside the field.
func Cell(x, y float64, cols, rows int) (col, row int, ok bool) {
	if cols <= 0 || rows <= 0 || x < core.FieldMin || x > core.FieldMax || y < core.FieldMin || y > core.FieldMax {
		return 0, 0, false
	}
	col = int((x - core.FieldMin) / (core.FieldMax - core.FieldMin) * float64(cols))
	row = int((core.FieldMax - y) / (core.FieldMax - core.FieldMin) * float64(rows))
	return core.Clamp(col, 0, cols-1), core.Clamp(row, 0, rows-1), true
}
