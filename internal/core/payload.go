package core

// Ball is the state of the ball as published to the other workers.
// X and Y locate the center.
type Ball struct {
	Width  float64
	Height float64
	X      float64
	Y      float64
	Angle  float64 // radians between velocity and +X
	Speed  Speed
	Effect BallEffect
}

// HalfWidth returns half of the ball width.
func (b Ball) HalfWidth() float64 { return 0.5 * b.Width }

// HalfHeight returns half of the ball height.
func (b Ball) HalfHeight() float64 { return 0.5 * b.Height }

// Velocity returns the distance covered per tick.
func (b Ball) Velocity() float64 { return b.Speed.Velocity() }

// Bite is the paddle. X locates its center; its top edge is UpperBorder.
type Bite struct {
	Width  float64
	Height float64
	X      float64
}

// HalfWidth returns half of the bite width.
func (b Bite) HalfWidth() float64 { return 0.5 * b.Width }

// QuarterWidth returns a quarter of the bite width.
func (b Bite) QuarterWidth() float64 { return 0.25 * b.Width }

// Radius is the virtual curvature used to deflect the ball off the bite.
func (b Bite) Radius() float64 { return BiteNormalWidth * BiteRadiusFactor }

// PrizePackage is a prize in flight.
type PrizePackage struct {
	ID     int
	X, Y   float64
	Prize  Prize
	Gone   bool
	Caught bool
}

// ExplosionPackage describes one explosion animation.
type ExplosionPackage struct {
	ID    int
	X, Y  float64
	Color Color
	Kind  Kind
}

// LaserPackage is the head of a laser beam.
type LaserPackage struct {
	X, Y float64
}

// Surface describes the drawing area announced by the presentation side.
type Surface struct {
	Width  int
	Height int
	Aspect float64
}

// Valid reports whether the surface has a usable size.
func (s Surface) Valid() bool {
	return s.Width > 0 && s.Height > 0 && s.Aspect > 0
}

// LevelDimens is the measured size of a loaded level in field units.
type LevelDimens struct {
	Rows        int
	Cols        int
	Width       float64
	Height      float64
	BlockWidth  float64
	BlockHeight float64
}

// NewLevelDimens measures a rows x cols grid for the given aspect ratio.
func NewLevelDimens(rows, cols int, aspect float64) LevelDimens {
	return LevelDimens{
		Rows:        rows,
		Cols:        cols,
		Width:       float64(cols) * BlockWidth,
		Height:      float64(rows) * BlockHeight * aspect,
		BlockWidth:  BlockWidth,
		BlockHeight: BlockHeight * aspect,
	}
}

// BlockBorders returns the cell borders as offsets from the top-left corner
// of the field: top and bottom grow downwards, left and right grow right.
func (d LevelDimens) BlockBorders(row, col int) (top, bottom, left, right float64) {
	top = float64(row) * d.BlockHeight
	bottom = float64(row+1) * d.BlockHeight
	left = float64(col) * d.BlockWidth
	right = float64(col+1) * d.BlockWidth
	return top, bottom, left, right
}

// BlockCenter returns the cell center in field coordinates.
func (d LevelDimens) BlockCenter(row, col int) (x, y float64) {
	top, bottom, left, right := d.BlockBorders(row, col)
	return 0.5*(left+right) - 1, -0.5*(top+bottom) + 1
}
