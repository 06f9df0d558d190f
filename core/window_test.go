package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramebufferResizeCallback(t *testing.T) {
	w := &Window{Width: 1280, Height: 720}

	var gotWidth, gotHeight int
	w.SetResizeCallback(func(width, height int) {
		gotWidth = width
		gotHeight = height
	})

	w.onFramebufferResize(800, 600)

	assert.Equal(t, 800, w.Width)
	assert.Equal(t, 600, w.Height)
	assert.Equal(t, 800, gotWidth)
	assert.Equal(t, 600, gotHeight)
}

func TestFramebufferResizeWithoutCallback(t *testing.T) {
	w := &Window{Width: 1280, Height: 720}

	w.onFramebufferResize(640, 480)

	assert.Equal(t, 640, w.Width)
	assert.Equal(t, 480, w.Height)
}
