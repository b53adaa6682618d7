package sound

import (
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestBlockCategory(t *testing.T) {
	tests := []struct {
		block level.Block
		want  string
	}{
		{level.None, ""},
		{level.Magic, ""},
		{level.Quick1, ""},
		{level.Brick, "block_"},
		{level.Quick2, "block_"},
		{level.Fog, "fog_"},
		{level.Glass1, "glass_"},
		{level.KnockHorizontal, "explode_"},
		{level.Artificial, "magic_"},
		{level.Plumbum, "iron_"},
		{level.Network, "hyper_"},
		{level.Ultra1, "ultra_"},
		{level.Extra, "invul_"},
		{level.Yogurt1, "water_"},
		{level.ZygoteSpawn, "zygote_"},
		{level.Midas, "destroy_"},
	}
	for _, tc := range tests {
		if got := BlockCategory(tc.block); got != tc.want {
			t.Errorf("BlockCategory(%v) = %q, want %q", tc.block, got, tc.want)
		}
	}
}

func TestPrizeAndEffectCategory(t *testing.T) {
	assert.Equal(t, "skull_", PrizeCategory(core.PrizeDestroy))
	assert.Equal(t, "hyper_", PrizeCategory(core.PrizeHyper))
	assert.Equal(t, "vitality_", PrizeCategory(core.PrizeVitality))
	assert.Equal(t, CueWin, PrizeCategory(core.PrizeWin))
	assert.Equal(t, "prize_", PrizeCategory(core.PrizeLaser))

	assert.Equal(t, "explode_", EffectCategory(core.EffectPierce))
	assert.Equal(t, "upgrade_", EffectCategory(core.EffectUpgrade))
	assert.Equal(t, "degrade_", EffectCategory(core.EffectDegrade))
	assert.Empty(t, EffectCategory(core.EffectNone))
	assert.Empty(t, EffectCategory(core.EffectGoo))
}

func TestBank_Random(t *testing.T) {
	b := NewBank(rand.New(rand.NewSource(3)))
	for _, n := range []string{"block_1.wav", "block_2.wav", "blocker.wav", "bite_1.wav"} {
		b.Add(Clip{Name: n})
	}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := b.Random("block_")
		require.NoError(t, err)
		seen[c.Name] = true
	}
	assert.Equal(t, map[string]bool{"block_1.wav": true, "block_2.wav": true}, seen)

	_, err := b.Random("win_")
	assert.ErrorIs(t, err, ErrNoClip)
}

func TestPool_RoundRobin(t *testing.T) {
	outs := NewSilentOutputs(3)
	p, err := NewPool(outs...)
	require.NoError(t, err)

	var got []int
	for i := 0; i < 7; i++ {
		ch, err := p.Enqueue(Clip{Name: string(rune('a' + i))})
		require.NoError(t, err)
		got = append(got, ch)
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, got)
	assert.Equal(t, []string{"a", "d", "g"}, outs[0].(*Silent).Played())
}

func TestPool_FullChannelIsCleared(t *testing.T) {
	outs := NewSilentOutputs(2)
	p, err := NewPool(outs...)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := p.Enqueue(Clip{Name: "x"})
		require.NoError(t, err)
	}
	assert.Zero(t, outs[0].(*Silent).Clears(), "first cue on an idle channel")

	_, err = p.Enqueue(Clip{Name: "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, outs[0].(*Silent).Clears())
	assert.Zero(t, outs[1].(*Silent).Clears())
}

func TestPool_FinishedChannelIsNotCleared(t *testing.T) {
	outs := NewSilentOutputs(1)
	p, err := NewPool(outs...)
	require.NoError(t, err)
	ch := outs[0].(*Silent)

	_, err = p.Enqueue(Clip{Name: "a"})
	require.NoError(t, err)
	ch.Finish()
	_, err = p.Enqueue(Clip{Name: "b"})
	require.NoError(t, err)
	assert.Zero(t, ch.Clears(), "an idle channel plays without clearing")

	_, err = p.Enqueue(Clip{Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, ch.Clears())
	assert.Equal(t, []string{"a", "b", "c"}, ch.Played())
}

type failingOutput struct{}

func (failingOutput) Play(Clip) error { return errors.New("device gone") }
func (failingOutput) Clear()          {}
func (failingOutput) Busy() bool      { return false }

func TestPool_PlayError(t *testing.T) {
	p, err := NewPool(failingOutput{})
	require.NoError(t, err)
	_, err = p.Enqueue(Clip{Name: "x"})
	assert.ErrorContains(t, err, "device gone")

	_, err = NewPool()
	assert.Error(t, err)
}

func writeWAV(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	format := beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(256), format))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "Block_1.wav"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken_1.wav"), []byte("not a wav"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644))

	bank, errs := LoadDir(os.DirFS(dir), ".", nil)
	assert.Equal(t, []string{"block_1.wav"}, bank.Names())
	require.Len(t, errs, 1)

	var de *DecodeError
	require.ErrorAs(t, errs[0], &de)
	assert.Equal(t, CodeDecode, de.Code)
	assert.Equal(t, "broken_1.wav", de.Name)

	c, err := bank.Random("block_")
	require.NoError(t, err)
	assert.Equal(t, 256, c.Buffer.Len())
	assert.Equal(t, beep.SampleRate(22050), c.Format.SampleRate)
}

func TestLoadDir_MissingDir(t *testing.T) {
	bank, errs := LoadDir(fstest.MapFS{}, "sounds", nil)
	assert.Zero(t, bank.Len())
	require.Len(t, errs, 1)
	var de *DecodeError
	require.ErrorAs(t, errs[0], &de)
	assert.Equal(t, CodeOpen, de.Code)
}

func newDispatcher(t *testing.T, opts Options) (*Dispatcher, *[]string) {
	t.Helper()
	opts.Logger = quietLogger()
	d, err := NewDispatcher(opts)
	require.NoError(t, err)
	var cues []string
	d.Cue.Subscribe(func(c string) { cues = append(cues, c) })
	return d, &cues
}

func TestDispatcher_DrainOrder(t *testing.T) {
	d, cues := newDispatcher(t, Options{})

	d.BallEffectChanged(core.EffectUpgrade)
	d.LaserPulse()
	d.LevelFinished()
	d.BallLost()
	d.WallImpact()
	d.BlockImpact(level.RowCol{Block: level.Iron})
	d.BlockImpact(level.RowCol{Block: level.None})
	d.BlockImpact(level.RowCol{Block: level.Glass})
	d.BiteImpact()
	d.PrizeCaught(core.PrizePackage{Prize: core.PrizeVitality})
	d.Explosion(core.ExplosionPackage{})
	d.LaserVisibility(true)
	d.LaserBlockImpact()
	require.True(t, d.ShouldProcess())

	d.ProcessOnce()
	assert.Equal(t, []string{
		"vitality_", CueBite, "iron_", "glass_", CueLose, CueWin, CueLaser, "upgrade_",
	}, *cues)
	assert.False(t, d.ShouldProcess())
}

func TestDispatcher_PlaysLoadedClips(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "bite_1.wav"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lose_1.wav"), []byte("junk"), 0o644))

	outs := NewSilentOutputs(2)
	d, _ := newDispatcher(t, Options{Outputs: outs, Resources: os.DirFS(dir), Dir: "."})
	var failed []*DecodeError
	d.ResourceError.Subscribe(func(e *DecodeError) { failed = append(failed, e) })

	d.LoadResources()
	d.BiteImpact()
	d.BallLost()
	d.ProcessOnce()

	assert.Equal(t, 1, d.Clips())
	assert.Equal(t, 1, d.Failures())
	require.Len(t, failed, 1)
	assert.Equal(t, "lose_1.wav", failed[0].Name)
	assert.Equal(t, []string{"bite_1.wav"}, outs[0].(*Silent).Played())
	assert.Empty(t, outs[1].(*Silent).Played(), "no lose clip was loaded")
}

func TestDispatcher_Worker(t *testing.T) {
	d, err := NewDispatcher(Options{Logger: quietLogger()})
	require.NoError(t, err)
	got := make(chan string, 4)
	d.Cue.Subscribe(func(c string) { got <- c })
	require.NoError(t, d.Launch())
	defer d.Stop()

	d.LevelFinished()
	select {
	case c := <-got:
		assert.Equal(t, CueWin, c)
	case <-time.After(2 * time.Second):
		t.Fatal("no cue")
	}
}
