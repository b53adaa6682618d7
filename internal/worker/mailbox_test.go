package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_KeepsLatest(t *testing.T) {
	var s Slot[int]
	_, ok := s.Take()
	assert.False(t, ok)

	s.Put(1)
	s.Put(2)
	assert.True(t, s.Pending())

	v, ok := s.Take()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.False(t, s.Pending())

	_, ok = s.Take()
	assert.False(t, ok)
}

func TestQueue_DrainOrder(t *testing.T) {
	var q Queue[string]
	assert.Nil(t, q.Drain())

	q.Push("a")
	q.Push("b")
	q.Push("c")
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []string{"a", "b", "c"}, q.Drain())
	assert.False(t, q.Pending())
	assert.Nil(t, q.Drain())
}

func TestQueue_Clear(t *testing.T) {
	var q Queue[int]
	q.Push(1)
	q.Clear()
	assert.False(t, q.Pending())
	assert.Equal(t, 0, q.Len())
}

func TestFlag(t *testing.T) {
	var f Flag
	assert.False(t, f.Take())
	f.Raise()
	f.Raise()
	assert.True(t, f.Pending())
	assert.True(t, f.Take())
	assert.False(t, f.Take())
}
