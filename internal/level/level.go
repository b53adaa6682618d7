package level

import (
	"errors"
	"math/rand"
)

// ErrOutOfBounds is returned when a cell address lies outside the grid.
var ErrOutOfBounds = errors.New("level: cell out of bounds")

// Mode selects between upgrading and degrading blocks.
type Mode int

// Change modes.
const (
	ModeUpgrade Mode = iota
	ModeDegrade
)

// Level is a rows x cols grid of blocks. Cardinality always equals the sum
// of Cost over every cell, except right after ForceDropCardinality.
//
// A Level is not safe for concurrent use; it is owned by one worker.
type Level struct {
	rows, cols  int
	blocks      []Block
	cardinality int
	generator   *BlockGenerator
	prizes      *PrizeGenerator
}

// New creates an empty level. rng drives both generators; a nil rng
// gets a fixed seed.
func New(rows, cols int, rng *rand.Rand) *Level {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Level{
		rows:      rows,
		cols:      cols,
		blocks:    make([]Block, rows*cols),
		generator: NewBlockGenerator(rng),
		prizes:    NewPrizeGenerator(rng),
	}
}

// Rows returns the number of rows.
func (l *Level) Rows() int { return l.rows }

// Cols returns the number of columns.
func (l *Level) Cols() int { return l.cols }

// Size returns rows*cols.
func (l *Level) Size() int { return l.rows * l.cols }

// InBounds reports whether (row, col) addresses a cell.
func (l *Level) InBounds(row, col int) bool {
	return row >= 0 && row < l.rows && col >= 0 && col < l.cols
}

// Block returns the block at (row, col), or None outside the grid.
func (l *Level) Block(row, col int) Block {
	if !l.InBounds(row, col) {
		return None
	}
	return l.blocks[row*l.cols+col]
}

// At is Block with an explicit bounds error.
func (l *Level) At(row, col int) (Block, error) {
	if !l.InBounds(row, col) {
		return None, ErrOutOfBounds
	}
	return l.blocks[row*l.cols+col], nil
}

// Cardinality returns the remaining cost to finish the level.
func (l *Level) Cardinality() int { return l.cardinality }

// Completed reports whether nothing that counts is left.
func (l *Level) Completed() bool { return l.cardinality <= 0 }

// ForceDropCardinality leaves exactly one unit of cardinality so that the
// next affecting hit completes the level.
func (l *Level) ForceDropCardinality() { l.cardinality = 1 }

// Generator returns the random ordinary-block generator.
func (l *Level) Generator() *BlockGenerator { return l.generator }

// PrizeGenerator returns the random prize generator.
func (l *Level) PrizeGenerator() *PrizeGenerator { return l.prizes }

// set is the only writer of cells. It keeps cardinality in step.
func (l *Level) set(row, col int, b Block) Block {
	i := row*l.cols + col
	old := l.blocks[i]
	l.blocks[i] = b
	l.cardinality += Cost(b) - Cost(old)
	return old
}

// SetBlock writes b at (row, col).
func (l *Level) SetBlock(row, col int, b Block) error {
	if !l.InBounds(row, col) {
		return ErrOutOfBounds
	}
	l.set(row, col, b)
	return nil
}

// SetVulnerableBlock writes b unless the cell holds Titan or Invul.
// It reports whether the cell was written.
func (l *Level) SetVulnerableBlock(row, col int, b Block) bool {
	if !l.InBounds(row, col) || IsInvulnerable(l.Block(row, col)) {
		return false
	}
	l.set(row, col, b)
	return true
}

// DestroyVulnerableBlock clears the cell unless it holds Titan or Invul and
// returns the cardinality cost removed.
func (l *Level) DestroyVulnerableBlock(row, col int) int {
	b := l.Block(row, col)
	if !l.SetVulnerableBlock(row, col, None) {
		return 0
	}
	return Cost(b)
}

// SetBlockImpacted applies one hit to the cell and returns what it held.
func (l *Level) SetBlockImpacted(row, col int) Block {
	if !l.InBounds(row, col) {
		return None
	}
	old := l.Block(row, col)
	l.set(row, col, Impacted(old))
	return old
}

// IsInner reports whether all four direct neighbours are occupied.
// Cells beyond the grid edge count as occupied.
func (l *Level) IsInner(row, col int) bool {
	occupied := func(r, c int) bool {
		return !l.InBounds(r, c) || l.Block(r, c) != None
	}
	return occupied(row-1, col) && occupied(row+1, col) &&
		occupied(row, col-1) && occupied(row, col+1)
}

// FindBlocks returns every cell holding b in row-major order. Searching
// for None returns nothing.
func (l *Level) FindBlocks(b Block) []RowCol {
	if b == None {
		return nil
	}
	return l.FindBlocksAllowNone(b)
}

// FindBlocksAllowNone is FindBlocks that also accepts None.
func (l *Level) FindBlocksAllowNone(b Block) []RowCol {
	var out []RowCol
	for r := 0; r < l.rows; r++ {
		for c := 0; c < l.cols; c++ {
			if l.Block(r, c) == b {
				out = append(out, RowCol{Row: r, Col: c, Block: b, After: b})
			}
		}
	}
	return out
}

// FindBlocksBackward returns every cell holding b, last cell first.
func (l *Level) FindBlocksBackward(b Block) []RowCol {
	if b == None {
		return nil
	}
	return l.FindBlocksBackwardAllowNone(b)
}

// FindBlocksBackwardAllowNone is FindBlocksBackward that also accepts None.
func (l *Level) FindBlocksBackwardAllowNone(b Block) []RowCol {
	var out []RowCol
	for r := l.rows - 1; r >= 0; r-- {
		for c := l.cols - 1; c >= 0; c-- {
			if l.Block(r, c) == b {
				out = append(out, RowCol{Row: r, Col: c, Block: b, After: b})
			}
		}
	}
	return out
}

// HasOrdinary reports whether any ordinary block is present.
func (l *Level) HasOrdinary() bool {
	for _, b := range l.blocks {
		if IsOrdinary(b) {
			return true
		}
	}
	return false
}

// GeneratePresentBlock draws random ordinary blocks until it gets one that
// exists in the grid. It returns None if there are no ordinary blocks.
func (l *Level) GeneratePresentBlock() Block {
	if !l.HasOrdinary() {
		return None
	}
	present := make(map[Block]bool)
	for _, b := range l.blocks {
		if IsOrdinary(b) {
			present[b] = true
		}
	}
	for {
		if b := l.generator.Generate(); present[b] {
			return b
		}
	}
}

// SetRand gives the level new generators drawing from rng. The bonus
// blocks setting is kept. A worker that receives a level from another
// goroutine calls it before drawing.
func (l *Level) SetRand(rng *rand.Rand) {
	bonus := l.prizes.BonusBlocks()
	l.generator = NewBlockGenerator(rng)
	l.prizes = NewPrizeGenerator(rng)
	l.prizes.SetBonusBlocks(bonus)
}

// Clone returns a deep copy of the cells. The copy shares the generators
// until SetRand is called on it.
func (l *Level) Clone() *Level {
	c := *l
	c.blocks = make([]Block, len(l.blocks))
	copy(c.blocks, l.blocks)
	return &c
}

// Grid returns a copy of the cells as rows.
func (l *Level) Grid() [][]Block {
	out := make([][]Block, l.rows)
	for r := 0; r < l.rows; r++ {
		out[r] = make([]Block, l.cols)
		copy(out[r], l.blocks[r*l.cols:(r+1)*l.cols])
	}
	return out
}

func (l *Level) recount() {
	l.cardinality = 0
	for _, b := range l.blocks {
		l.cardinality += Cost(b)
	}
}
