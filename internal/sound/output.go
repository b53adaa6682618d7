package sound

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the speaker rate; clips at other rates are resampled.
const SampleRate = beep.SampleRate(44100)

// Speaker owns the audio device. Every channel is a sub-mixer of one root
// mixer that plays for the lifetime of the speaker.
type Speaker struct {
	root     *beep.Mixer
	channels []*speakerChannel
}

// NewSpeaker initialises the audio device with n channels.
func NewSpeaker(n int) (*Speaker, error) {
	if n <= 0 {
		n = DefaultChannels
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("sound: init speaker: %w", err)
	}
	s := &Speaker{root: &beep.Mixer{}}
	for i := 0; i < n; i++ {
		ch := &speakerChannel{mixer: &beep.Mixer{}}
		s.channels = append(s.channels, ch)
		s.root.Add(ch.mixer)
	}
	speaker.Play(s.root)
	return s, nil
}

// Outputs returns one Output per channel.
func (s *Speaker) Outputs() []Output {
	outs := make([]Output, len(s.channels))
	for i, ch := range s.channels {
		outs[i] = ch
	}
	return outs
}

// Close stops playback and releases the device.
func (s *Speaker) Close() {
	speaker.Clear()
	speaker.Close()
}

type speakerChannel struct {
	mixer *beep.Mixer
	ctrl  *beep.Ctrl
}

func (c *speakerChannel) Play(clip Clip) error {
	src := clip.Streamer()
	if src == nil {
		return errors.New("empty clip")
	}
	var s beep.Streamer = src
	if clip.Format.SampleRate != 0 && clip.Format.SampleRate != SampleRate {
		s = beep.Resample(4, clip.Format.SampleRate, SampleRate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s}
	speaker.Lock()
	c.ctrl = ctrl
	c.mixer.Add(ctrl)
	speaker.Unlock()
	return nil
}

// Busy reports whether the channel mixer still holds a streamer. The mixer
// drops streamers once they are drained.
func (c *speakerChannel) Busy() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return c.mixer.Len() > 0
}

func (c *speakerChannel) Clear() {
	speaker.Lock()
	if c.ctrl != nil {
		c.ctrl.Paused = true
		c.ctrl = nil
	}
	c.mixer.Clear()
	speaker.Unlock()
}

// Silent is an Output that plays nothing and remembers what it was asked
// to play. A played clip keeps the channel busy until Clear or Finish.
// It is safe for concurrent use.
type Silent struct {
	mu     sync.Mutex
	played []string
	clears int
	busy   bool
}

// NewSilentOutputs returns n silent channels.
func NewSilentOutputs(n int) []Output {
	outs := make([]Output, n)
	for i := range outs {
		outs[i] = &Silent{}
	}
	return outs
}

func (s *Silent) Play(c Clip) error {
	s.mu.Lock()
	s.played = append(s.played, c.Name)
	s.busy = true
	s.mu.Unlock()
	return nil
}

func (s *Silent) Clear() {
	s.mu.Lock()
	s.clears++
	s.busy = false
	s.mu.Unlock()
}

func (s *Silent) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Finish ends the current clip as if it had played out.
func (s *Silent) Finish() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Played returns the names of every clip played so far.
func (s *Silent) Played() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.played...)
}

// Clears returns how many times the channel was cleared.
func (s *Silent) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
