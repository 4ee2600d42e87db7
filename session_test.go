package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerCreatesOnFirstTouch(t *testing.T) {
	manager := NewSessionManager()

	first := manager.Get(42)
	require.NotNil(t, first)
	assert.Equal(t, stateIdle, first.State)

	second := manager.Get(42)
	assert.Same(t, first, second)

	other := manager.Get(43)
	assert.NotSame(t, first, other)
}

func TestSessionCursorsNamespacedPerKind(t *testing.T) {
	session := &Session{}

	session.SetCursor(kindThought, 5)
	session.SetCursor(kindReminder, 2)

	assert.Equal(t, 5, session.Cursor(kindThought))
	assert.Equal(t, 0, session.Cursor(kindEpisode))
	assert.Equal(t, 2, session.Cursor(kindReminder))

	session.ResetCursor(kindThought)
	assert.Equal(t, 0, session.Cursor(kindThought))
	assert.Equal(t, 2, session.Cursor(kindReminder))
}
