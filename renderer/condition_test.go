package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionScheduleCycle(t *testing.T) {
	s := NewConditionSchedule()

	for frame := uint32(0); frame < 60; frame++ {
		assert.True(t, s.Visible(), "frame %d should be visible", frame)
		s.Advance()
	}
	for frame := uint32(60); frame < 120; frame++ {
		assert.False(t, s.Visible(), "frame %d should be hidden", frame)
		s.Advance()
	}

	// The cycle repeats.
	assert.Equal(t, uint32(120), s.Frame())
	assert.True(t, s.Visible())
}

func TestConditionScheduleOverride(t *testing.T) {
	s := NewConditionSchedule()
	assert.True(t, s.Visible())

	s.ToggleOverride()
	assert.True(t, s.Overridden())
	assert.False(t, s.Visible())

	// Advancing frames does not move an overridden condition.
	for i := 0; i < 200; i++ {
		s.Advance()
	}
	assert.False(t, s.Visible())

	s.ToggleOverride()
	assert.True(t, s.Visible())

	s.ClearOverride()
	assert.False(t, s.Overridden())
	// frames is at 200: 200 % 120 = 80, in the hidden half.
	assert.False(t, s.Visible())
}

func TestConditionScheduleCustomPeriods(t *testing.T) {
	s := &ConditionSchedule{VisibleFrames: 1, CycleFrames: 2}

	assert.True(t, s.Visible())
	s.Advance()
	assert.False(t, s.Visible())
	s.Advance()
	assert.True(t, s.Visible())
}
