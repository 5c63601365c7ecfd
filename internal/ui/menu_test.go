package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenu_ChatAsSecondProfile(t *testing.T) {
	a := newTestApp(t)
	m := NewMenuModel(a, 10*time.Millisecond)

	next := press(t, m, "down", "enter")
	c := asChat(t, next)

	assert.Equal(t, 2, a.Current().ID)
	assert.Contains(t, c.View(), "Shilpa")
}

func TestMenu_ToggleMute(t *testing.T) {
	a := newTestApp(t)
	m := NewMenuModel(a, 10*time.Millisecond)

	next := press(t, m, "down", "down", "enter")
	menu, ok := next.(MenuModel)
	require.True(t, ok)

	assert.True(t, a.Muted())
	assert.Contains(t, menu.View(), "Sounds off")
}
