package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"path"
	"sort"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// ErrNoClip is returned when no clip matches a cue.
var ErrNoClip = errors.New("sound: no clip for cue")

// Decode failure codes reported in DecodeError.
const (
	CodeOpen   = 3001
	CodeDecode = 3002
	CodeEmpty  = 3003
)

// DecodeError describes a clip that could not be loaded.
type DecodeError struct {
	Code int
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sound: load %s (code %d): %v", e.Name, e.Code, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Clip is a decoded sound held in memory.
type Clip struct {
	Name   string
	Format beep.Format
	Buffer *beep.Buffer
}

// Streamer returns a fresh streamer over the whole clip.
func (c Clip) Streamer() beep.StreamSeeker {
	if c.Buffer == nil {
		return nil
	}
	return c.Buffer.Streamer(0, c.Buffer.Len())
}

// Bank holds named clips. It is owned by one goroutine.
type Bank struct {
	rng   *rand.Rand
	clips map[string]Clip
	names []string
}

// NewBank returns an empty bank drawing from rng; nil gets a fixed seed.
func NewBank(rng *rand.Rand) *Bank {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Bank{rng: rng, clips: make(map[string]Clip)}
}

// Add stores c, replacing a clip with the same name.
func (b *Bank) Add(c Clip) {
	if _, ok := b.clips[c.Name]; !ok {
		b.names = append(b.names, c.Name)
		sort.Strings(b.names)
	}
	b.clips[c.Name] = c
}

// Len returns the number of clips.
func (b *Bank) Len() int { return len(b.clips) }

// Names returns the clip names in sorted order.
func (b *Bank) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Merge adds every clip of other.
func (b *Bank) Merge(other *Bank) {
	for _, name := range other.names {
		b.Add(other.clips[name])
	}
}

// Random returns a random clip whose name starts with prefix.
func (b *Bank) Random(prefix string) (Clip, error) {
	lo := sort.SearchStrings(b.names, prefix)
	hi := lo
	for hi < len(b.names) && strings.HasPrefix(b.names[hi], prefix) {
		hi++
	}
	if hi == lo {
		return Clip{}, fmt.Errorf("%w %q", ErrNoClip, prefix)
	}
	return b.clips[b.names[lo+b.rng.Intn(hi-lo)]], nil
}

// LoadDir decodes every .wav file in dir of fsys. Clip names are the
// lower-case file names. A file that fails to decode is skipped and
// reported as a *DecodeError; the rest still load.
func LoadDir(fsys fs.FS, dir string, rng *rand.Rand) (*Bank, []error) {
	bank := NewBank(rng)
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return bank, []error{&DecodeError{Code: CodeOpen, Name: dir, Err: err}}
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".wav") {
			continue
		}
		clip, err := loadClip(fsys, path.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		bank.Add(clip)
	}
	return bank, errs
}

func loadClip(fsys fs.FS, name string) (Clip, error) {
	clipName := strings.ToLower(path.Base(name))
	f, err := fsys.Open(name)
	if err != nil {
		return Clip{}, &DecodeError{Code: CodeOpen, Name: clipName, Err: err}
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return Clip{}, &DecodeError{Code: CodeDecode, Name: clipName, Err: err}
	}
	defer stream.Close()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return Clip{}, &DecodeError{Code: CodeDecode, Name: clipName, Err: err}
	}
	if buf.Len() == 0 {
		return Clip{}, &DecodeError{Code: CodeEmpty, Name: clipName, Err: errors.New("no samples")}
	}
	return Clip{Name: clipName, Format: format, Buffer: buf}, nil
}
