package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Bounds(t *testing.T) {
	p := NewProgress(3)
	assert.Equal(t, 1, p.Current())
	assert.False(t, p.Back())

	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.Next())
	assert.Equal(t, 3, p.Current())
	assert.True(t, p.IsLast())
	assert.InDelta(t, 100.0, p.Percent(), 0.0001)

	assert.True(t, p.Back())
	assert.Equal(t, 2, p.Current())
}

func TestProgress_Percent(t *testing.T) {
	p := NewProgress(4)
	assert.InDelta(t, 25.0, p.Percent(), 0.0001)
	_ = p.GoTo(2)
	assert.InDelta(t, 50.0, p.Percent(), 0.0001)
}

func TestProgress_GoTo(t *testing.T) {
	p := NewProgress(5)
	assert.NoError(t, p.GoTo(5))
	assert.Equal(t, 5, p.Current())

	err := p.GoTo(0)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))
	err = p.GoTo(6)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))
	assert.Equal(t, 5, p.Current())
}

func TestNewProgress_MinimumOnePage(t *testing.T) {
	p := NewProgress(0)
	assert.Equal(t, 1, p.Total())
	assert.True(t, p.IsLast())
}
