package level

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"path"
	"sort"
	"strings"
)

// FromStrings builds a level from text rows. Short rows are padded with
// None up to the longest row.
func FromStrings(lines []string, rng *rand.Rand) *Level {
	cols := 0
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
		if len(rows[i]) > cols {
			cols = len(rows[i])
		}
	}

	l := New(len(lines), cols, rng)
	for r, line := range rows {
		for c, ch := range line {
			l.blocks[r*cols+c] = FromRune(ch)
		}
	}
	l.recount()
	return l
}

// Strings renders the grid as text rows, one character per cell.
func (l *Level) Strings() []string {
	out := make([]string, l.rows)
	var sb strings.Builder
	for r := 0; r < l.rows; r++ {
		sb.Reset()
		for c := 0; c < l.cols; c++ {
			sb.WriteRune(Rune(l.Block(r, c)))
		}
		out[r] = sb.String()
	}
	return out
}

// String renders the grid with one row per line.
func (l *Level) String() string {
	return strings.Join(l.Strings(), "\n")
}

// Info describes a level file.
type Info struct {
	Name  string   // File name without extension
	Title string   // From the !title header, defaults to Name
	Bonus bool     // From the !bonus header
	Lines []string // Grid rows
}

// Build creates the level described by info.
func (info Info) Build(rng *rand.Rand) *Level {
	l := FromStrings(info.Lines, rng)
	l.PrizeGenerator().SetBonusBlocks(info.Bonus)
	return l
}

// Parse reads a level file. Lines starting with '!' before the first grid
// row are headers: "!bonus" and "!title <text>". Lines starting with ';'
// are comments. Trailing empty lines are dropped.
func Parse(name string, r io.Reader) (Info, error) {
	info := Info{Name: name, Title: name}
	sc := bufio.NewScanner(r)
	header := true
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, ";") {
			continue
		}
		if header && strings.HasPrefix(line, "!") {
			key, value, _ := strings.Cut(strings.TrimPrefix(line, "!"), " ")
			switch key {
			case "bonus":
				info.Bonus = true
			case "title":
				info.Title = strings.TrimSpace(value)
			default:
				return Info{}, fmt.Errorf("level: %s: unknown header %q", name, key)
			}
			continue
		}
		header = false
		info.Lines = append(info.Lines, line)
	}
	if err := sc.Err(); err != nil {
		return Info{}, fmt.Errorf("level: cannot read %s: %w", name, err)
	}
	for len(info.Lines) > 0 && strings.TrimSpace(info.Lines[len(info.Lines)-1]) == "" {
		info.Lines = info.Lines[:len(info.Lines)-1]
	}
	if len(info.Lines) == 0 {
		return Info{}, fmt.Errorf("level: %s: no rows", name)
	}
	return info, nil
}

//go:embed levels/*.txt
var builtinFS embed.FS

// BuiltinNames returns the names of the embedded levels in play order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("levels")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".txt" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

// Builtin loads an embedded level by name.
func Builtin(name string) (Info, error) {
	f, err := builtinFS.Open("levels/" + name + ".txt")
	if err != nil {
		return Info{}, fmt.Errorf("level: unknown level %q: %w", name, err)
	}
	defer f.Close()
	return Parse(name, f)
}

// Builtins loads every embedded level in play order.
func Builtins() ([]Info, error) {
	names := BuiltinNames()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		info, err := Builtin(name)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// LoadDir reads every .txt level in dir of fsys, sorted by name.
func LoadDir(fsys fs.FS, dir string) ([]Info, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("level: glob %s: %w", dir, err)
	}
	sort.Strings(matches)
	out := make([]Info, 0, len(matches))
	for _, m := range matches {
		f, err := fsys.Open(m)
		if err != nil {
			return nil, fmt.Errorf("level: open %s: %w", m, err)
		}
		info, err := Parse(strings.TrimSuffix(path.Base(m), ".txt"), f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// Catalog returns the built-in levels followed by the levels in dir of
// fsys. A level in dir replaces the built-in level of the same name. A nil
// fsys yields the built-ins only.
func Catalog(fsys fs.FS, dir string) ([]Info, error) {
	infos, err := Builtins()
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		return infos, nil
	}
	extra, err := LoadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(infos))
	for i, info := range infos {
		index[info.Name] = i
	}
	for _, info := range extra {
		if i, ok := index[info.Name]; ok {
			infos[i] = info
			continue
		}
		index[info.Name] = len(infos)
		infos = append(infos, info)
	}
	return infos, nil
}

// Find returns the index of the level called name.
func Find(infos []Info, name string) (int, bool) {
	for i, info := range infos {
		if info.Name == name {
			return i, true
		}
	}
	return 0, false
}
