package render

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// Raster draws frames with gg. Field coordinates map onto a width x height
// image with the origin in the middle and +Y up.
type Raster struct {
	dc   *gg.Context
	w, h float64
}

// NewRaster allocates a raster of the given pixel size.
func NewRaster(width, height int) *Raster {
	return &Raster{dc: gg.NewContext(width, height), w: float64(width), h: float64(height)}
}

func (r *Raster) px(x float64) float64 { return (x - core.FieldMin) / (core.FieldMax - core.FieldMin) * r.w }
func (r *Raster) py(y float64) float64 { return (core.FieldMax - y) / (core.FieldMax - core.FieldMin) * r.h }
func (r *Raster) sx(d float64) float64 { return d / (core.FieldMax - core.FieldMin) * r.w }
func (r *Raster) sy(d float64) float64 { return d / (core.FieldMax - core.FieldMin) * r.h }

func (r *Raster) setColor(c core.Color) {
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
}

// Draw paints f.
func (r *Raster) Draw(f Frame) {
	dc := r.dc
	r.setColor(f.Background)
	dc.DrawRectangle(0, 0, r.w, r.h)
	dc.Fill()

	r.drawGrid(f)
	r.drawBite(f)
	r.drawBall(f)

	for _, e := range f.Explosions {
		r.setColor(core.Color{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 0.5})
		dc.DrawCircle(r.px(e.X), r.py(e.Y), r.sx(core.BlockWidth))
		dc.Fill()
	}
	if f.LaserLive {
		r.setColor(core.Red)
		dc.SetLineWidth(2)
		dc.DrawLine(r.px(f.LaserHead.X), r.py(f.LaserHead.Y-core.LaserSize), r.px(f.LaserHead.X), r.py(f.LaserHead.Y))
		dc.Stroke()
	}
	for _, p := range f.Prizes {
		half := 0.5 * core.PrizeSize
		r.setColor(core.Yellow)
		dc.DrawRectangle(r.px(p.X-half), r.py(p.Y+half), r.sx(core.PrizeSize), r.sy(core.PrizeSize))
		dc.Fill()
	}
	for _, x := range f.Catches {
		r.setColor(level.FillColor(level.Midas))
		dc.DrawCircle(r.px(x), r.py(core.UpperBorder), r.sx(core.PrizeSize))
		dc.Stroke()
	}
}

func (r *Raster) drawGrid(f Frame) {
	dc := r.dc
	dc.SetLineWidth(1)
	for row, cells := range f.Grid {
		for col, b := range cells {
			if b == level.None {
				continue
			}
			top, bottom, left, right := f.Dimens.BlockBorders(row, col)
			x, y := r.px(left+core.FieldMin), r.py(core.FieldMax-top)
			w, h := r.sx(right-left), r.sy(bottom-top)
			r.setColor(level.FillColor(b))
			dc.DrawRectangle(x, y, w, h)
			dc.Fill()
			r.setColor(level.EdgeColor(b))
			dc.DrawRectangle(x, y, w, h)
			dc.Stroke()
		}
	}
}

func (r *Raster) drawBite(f Frame) {
	fill, edge := BiteColors(f.Appearance)
	b := f.Bite
	x, y := r.px(b.X-b.HalfWidth()), r.py(core.UpperBorder)
	r.setColor(fill)
	r.dc.DrawRectangle(x, y, r.sx(b.Width), r.sy(b.Height))
	r.dc.Fill()
	r.setColor(edge)
	r.dc.DrawRectangle(x, y, r.sx(b.Width), r.sy(b.Height))
	r.dc.Stroke()
}

func (r *Raster) drawBall(f Frame) {
	fill, edge := BallColors(f.Appearance)
	b := f.Ball
	rx := math.Max(1, r.sx(b.HalfWidth()))
	ry := math.Max(1, r.sy(b.HalfHeight()))
	r.setColor(fill)
	r.dc.DrawEllipse(r.px(b.X), r.py(b.Y), rx, ry)
	r.dc.Fill()
	r.setColor(edge)
	r.dc.DrawEllipse(r.px(b.X), r.py(b.Y), rx, ry)
	r.dc.Stroke()
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// WritePNG renders f into a size x size PNG.
func WritePNG(w io.Writer, f Frame, size int) error {
	if size <= 0 {
		return fmt.Errorf("render: png size %d: %w", size, ErrNoSurface)
	}
	r := NewRaster(size, size)
	r.Draw(f)
	return r.EncodePNG(w)
}

// LevelFrame returns a still frame showing lvl with the bite and ball at
// rest, for previews.
func LevelFrame(lvl *level.Level, aspect float64) Frame {
	dimens := core.NewLevelDimens(lvl.Rows(), lvl.Cols(), aspect)
	bite := core.Bite{Width: core.BiteNormalWidth, Height: core.BiteHeight * aspect}
	ball := core.Ball{Width: core.BallSize, Height: core.BallSize * aspect}
	ball.Y = core.UpperBorder + ball.HalfHeight()
	return Frame{
		Surface:    core.Surface{Width: 1, Height: 1, Aspect: aspect},
		Background: Backgrounds[0],
		Dimens:     dimens,
		Grid:       lvl.Grid(),
		Ball:       ball,
		Bite:       bite,
	}
}
