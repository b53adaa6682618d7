package level

import "github.com/vovakirdan/arkanoid/internal/core"

// around lists the offsets touched by the *BlocksAround operations, in the
// order the cells are visited.
var around = [...][2]int{
	{-2, 0},
	{-1, 0}, {-1, -1}, {-1, 1},
	{1, 0}, {1, -1}, {1, 1},
	{2, 0},
	{0, -2}, {0, -1}, {0, 1}, {0, 2},
}

// near lists the offsets ModifyBlockNear tries, diagonals first.
var near = [...][2]int{
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
}

func skipReport(ignoreNone bool, b Block) bool {
	return ignoreNone && (b == None || IsInvulnerable(b))
}

// modifyCell writes b over the cell unless it is invulnerable. It returns
// the score of the previous block and the affected cell.
func (l *Level) modifyCell(row, col int, b Block) (int, RowCol) {
	old := l.Block(row, col)
	l.SetVulnerableBlock(row, col, b)
	return Score(old), RowCol{Row: row, Col: col, After: l.Block(row, col)}
}

// ModifyBlocksAround writes b over the twelve cells around (row, col).
// It returns the summed score of the replaced blocks and the reported
// cells. With ignoreNone, cells that held None, Titan or Invul are not
// reported.
func (l *Level) ModifyBlocksAround(row, col int, b Block, ignoreNone bool) (int, []RowCol) {
	score := 0
	var out []RowCol
	for _, d := range around {
		r, c := row+d[0], col+d[1]
		if !l.InBounds(r, c) {
			continue
		}
		old := l.Block(r, c)
		s, rc := l.modifyCell(r, c, b)
		score += s
		if !skipReport(ignoreNone, old) {
			out = append(out, rc)
		}
	}
	return score, out
}

// ChangeBlocksAround upgrades or degrades the twelve cells around
// (row, col). Every visited cell is reported.
func (l *Level) ChangeBlocksAround(row, col int, mode Mode) (int, []RowCol) {
	score := 0
	var out []RowCol
	for _, d := range around {
		r, c := row+d[0], col+d[1]
		if !l.InBounds(r, c) {
			continue
		}
		old := l.Block(r, c)
		score += Score(old)
		next := Upgrade(old)
		if mode == ModeDegrade {
			next = Degrade(old)
		}
		l.SetVulnerableBlock(r, c, next)
		out = append(out, RowCol{Row: r, Col: c, After: l.Block(r, c)})
	}
	return score, out
}

// DestroyBlocksAround clears the twelve cells around (row, col).
func (l *Level) DestroyBlocksAround(row, col int) (int, []RowCol) {
	return l.ModifyBlocksAround(row, col, None, true)
}

func step(dir core.Direction) (int, int, bool) {
	switch dir {
	case core.DirUp:
		return -1, 0, true
	case core.DirDown:
		return 1, 0, true
	case core.DirLeft:
		return 0, -1, true
	case core.DirRight:
		return 0, 1, true
	default:
		return 0, 0, false
	}
}

// ModifyBlocksBehind writes b over every cell from the neighbour of
// (row, col) in dir up to the grid edge.
func (l *Level) ModifyBlocksBehind(row, col int, dir core.Direction, b Block, ignoreNone bool) (int, []RowCol) {
	dr, dc, ok := step(dir)
	if !ok {
		return 0, nil
	}
	score := 0
	var out []RowCol
	for r, c := row+dr, col+dc; l.InBounds(r, c); r, c = r+dr, c+dc {
		old := l.Block(r, c)
		s, rc := l.modifyCell(r, c, b)
		score += s
		if !skipReport(ignoreNone, old) {
			out = append(out, rc)
		}
	}
	return score, out
}

// DestroyBlocksBehind clears every cell behind (row, col) in dir.
func (l *Level) DestroyBlocksBehind(row, col int, dir core.Direction) (int, []RowCol) {
	return l.ModifyBlocksBehind(row, col, dir, None, true)
}

// ModifyOneBlockBehind writes b over the single neighbour of (row, col) in
// dir. The last result is false if no cell was reported.
func (l *Level) ModifyOneBlockBehind(row, col int, dir core.Direction, b Block, ignoreNone bool) (int, RowCol, bool) {
	dr, dc, ok := step(dir)
	if !ok {
		return 0, RowCol{}, false
	}
	r, c := row+dr, col+dc
	if !l.InBounds(r, c) {
		return 0, RowCol{}, false
	}
	old := l.Block(r, c)
	score, rc := l.modifyCell(r, c, b)
	if skipReport(ignoreNone, old) {
		return score, RowCol{}, false
	}
	return score, rc, true
}

// DestroyOneBlockBehind clears the neighbour of (row, col) in dir.
func (l *Level) DestroyOneBlockBehind(row, col int, dir core.Direction) (int, RowCol, bool) {
	return l.ModifyOneBlockBehind(row, col, dir, None, true)
}

// ModifyBlockNear fills the first empty neighbour of (row, col) with b.
func (l *Level) ModifyBlockNear(row, col int, b Block) (RowCol, bool) {
	for _, d := range near {
		r, c := row+d[0], col+d[1]
		if !l.InBounds(r, c) || l.Block(r, c) != None {
			continue
		}
		l.SetVulnerableBlock(r, c, b)
		return RowCol{Row: r, Col: c, After: b}, true
	}
	return RowCol{}, false
}
