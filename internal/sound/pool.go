package sound

import (
	"errors"
	"fmt"
)

// DefaultChannels is the size of the channel pool.
const DefaultChannels = 8

// Output plays clips on one channel. Busy reports whether a clip is still
// playing.
type Output interface {
	Play(Clip) error
	Clear()
	Busy() bool
}

// Pool spreads cues over its channels round-robin. Each channel holds at
// most one cue; enqueueing onto a busy channel clears it first so the new
// cue replaces the old one.
type Pool struct {
	channels []Output
	next     int
}

// NewPool builds a pool over outs.
func NewPool(outs ...Output) (*Pool, error) {
	if len(outs) == 0 {
		return nil, errors.New("sound: pool needs at least one channel")
	}
	return &Pool{channels: append([]Output(nil), outs...)}, nil
}

// Len returns the number of channels.
func (p *Pool) Len() int { return len(p.channels) }

// Enqueue plays c on the next channel and returns the channel index.
func (p *Pool) Enqueue(c Clip) (int, error) {
	i := p.next
	ch := p.channels[i]
	if ch.Busy() {
		ch.Clear()
	}
	if err := ch.Play(c); err != nil {
		return i, fmt.Errorf("sound: channel %d: %w", i, err)
	}
	p.next = (p.next + 1) % len(p.channels)
	return i, nil
}

// Clear silences every channel.
func (p *Pool) Clear() {
	for _, ch := range p.channels {
		ch.Clear()
	}
}
