package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saravenpi/duet/internal/app"
	"github.com/saravenpi/duet/internal/models"
	"github.com/saravenpi/duet/internal/profiles"
	"github.com/saravenpi/duet/internal/render"
	"github.com/saravenpi/duet/internal/session"
	"github.com/saravenpi/duet/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	users, err := profiles.Default()
	require.NoError(t, err)
	sess, err := session.New(users)
	require.NoError(t, err)
	a, err := app.New(storage.NewAdapter(storage.NewMemoryKV()), sess, nil)
	require.NoError(t, err)
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m
}

func typeText(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func asChat(t *testing.T, m tea.Model) ChatModel {
	t.Helper()
	c, ok := m.(ChatModel)
	require.True(t, ok, "expected ChatModel, got %T", m)
	return c
}

func openChat(t *testing.T, a *app.App) tea.Model {
	t.Helper()
	m, _ := NewChatModel(a, 10*time.Millisecond).Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestChat_ComposeAndSend(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "n")
	m = typeText(t, m, "hello")
	assert.True(t, asChat(t, m).typing.Visible())

	m = press(t, m, "enter")
	c := asChat(t, m)

	require.Len(t, a.Messages(), 1)
	assert.Equal(t, "hello", a.Messages()[0].Text)
	assert.Equal(t, "", c.textarea.Value())
	assert.False(t, c.typing.Visible())
	require.Len(t, c.view.Items, 1)
	assert.Equal(t, render.SideSent, c.view.Items[0].Side)
	assert.Contains(t, c.View(), "hello")
}

func TestChat_BlankSendIgnored(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "n", " ", "enter")
	assert.Empty(t, a.Messages())
	assert.Equal(t, modeCompose, asChat(t, m).mode)
}

func TestChat_TypingIndicatorExpires(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "n")
	var cmd tea.Cmd
	m, cmd = m.Update(key("x"))
	require.NotNil(t, cmd)
	first := asChat(t, m).typing
	require.True(t, first.Visible())

	stale := typingExpiredMsg{token: 1}
	m, _ = m.Update(key("y"))
	m, _ = m.Update(stale)
	assert.True(t, asChat(t, m).typing.Visible())

	m, _ = m.Update(typingExpiredMsg{token: 2})
	assert.False(t, asChat(t, m).typing.Visible())
}

func TestChat_SwitchUserMarksRead(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "n")
	m = typeText(t, m, "hi")
	m = press(t, m, "enter", "esc", "tab")

	assert.Equal(t, 2, a.Current().ID)
	assert.Equal(t, models.StateRead, a.Messages()[0].Status)

	c := asChat(t, m)
	require.Len(t, c.view.Items, 1)
	assert.Equal(t, render.SideReceived, c.view.Items[0].Side)

	m = press(t, m, "tab")
	c = asChat(t, m)
	assert.Equal(t, render.GlyphDouble, c.view.Items[0].Glyph)
}

func TestChat_ReactAndDeleteWithConfirm(t *testing.T) {
	a := newTestApp(t)
	_, _, err := a.Send("first")
	require.NoError(t, err)
	m := openChat(t, a)

	m = press(t, m, "up", "r", "l", "r")
	c := asChat(t, m)
	require.Len(t, c.view.Items, 1)
	assert.Equal(t, []render.ReactionGroup{{Emoji: "❤️", Count: 2}, {Emoji: "👍", Count: 1}}, c.view.Items[0].Reactions)

	m = press(t, m, "d")
	assert.Equal(t, modeConfirm, asChat(t, m).mode)
	assert.Contains(t, asChat(t, m).View(), "Delete this message?")

	m = press(t, m, "n")
	assert.Len(t, a.Messages(), 1)

	m = press(t, m, "up", "d", "y")
	assert.Empty(t, a.Messages())
	assert.Contains(t, asChat(t, m).View(), render.PlaceholderEmpty.Title)
}

func TestChat_CannotDeleteOthersMessage(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.SwitchUser(2))
	_, _, err := a.Send("not yours")
	require.NoError(t, err)
	require.NoError(t, a.SwitchUser(1))

	m := openChat(t, a)
	m = press(t, m, "up", "d")

	assert.Equal(t, modeBrowse, asChat(t, m).mode)
	assert.Len(t, a.Messages(), 1)
}

func TestChat_ClearAllWithConfirm(t *testing.T) {
	a := newTestApp(t)
	_, _, err := a.Send("one")
	require.NoError(t, err)
	_, _, err = a.Send("two")
	require.NoError(t, err)
	m := openChat(t, a)

	m = press(t, m, "X", "esc")
	assert.Len(t, a.Messages(), 2)

	m = press(t, m, "X", "y")
	assert.Empty(t, a.Messages())
	assert.Equal(t, modeBrowse, asChat(t, m).mode)
}

func TestChat_Search(t *testing.T) {
	a := newTestApp(t)
	_, _, err := a.Send("apples")
	require.NoError(t, err)
	_, _, err = a.Send("pears")
	require.NoError(t, err)
	m := openChat(t, a)

	m = press(t, m, "/")
	m = typeText(t, m, "APP")
	assert.Equal(t, "APP", a.Query())
	c := asChat(t, m)
	require.Len(t, c.view.Items, 1)
	assert.Equal(t, "apples", c.view.Items[0].Message.Text)

	m = typeText(t, m, "zz")
	c = asChat(t, m)
	require.NotNil(t, c.view.Placeholder)
	assert.Equal(t, render.PlaceholderNoResult, *c.view.Placeholder)

	m = press(t, m, "esc")
	assert.Equal(t, "", a.Query())
	assert.Len(t, asChat(t, m).view.Items, 2)
}

func TestChat_EmojiPickerInsertsIntoCompose(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "e")
	assert.Equal(t, modeEmoji, asChat(t, m).mode)

	m = press(t, m, "enter")
	c := asChat(t, m)
	assert.Equal(t, modeCompose, c.mode)
	assert.Equal(t, emojiSet[0].emoji, c.textarea.Value())

	press(t, m, "enter")
	require.Len(t, a.Messages(), 1)
	assert.Equal(t, emojiSet[0].emoji, a.Messages()[0].Text)
}

func TestChat_EmojiPickerEscReturnsToOpeningMode(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)
	browseHeight := asChat(t, m).viewport.Height

	m = press(t, m, "e", "esc")
	c := asChat(t, m)
	assert.Equal(t, modeBrowse, c.mode)
	assert.Equal(t, browseHeight, c.viewport.Height)

	m = press(t, m, "n")
	composeHeight := asChat(t, m).viewport.Height
	m = press(t, m, "ctrl+e", "esc")
	c = asChat(t, m)
	assert.Equal(t, modeCompose, c.mode)
	assert.Equal(t, composeHeight, c.viewport.Height)
}

func TestChat_AttachImage(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()
	gif := filepath.Join(dir, "tiny.gif")
	require.NoError(t, os.WriteFile(gif, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0644))

	m := openChat(t, a)
	m = press(t, m, "a")
	m = typeText(t, m, gif)
	m = press(t, m, "enter")

	require.Len(t, a.Messages(), 1)
	assert.Equal(t, "tiny.gif", a.Messages()[0].ImageName)
	assert.Equal(t, modeBrowse, asChat(t, m).mode)
	assert.Contains(t, asChat(t, m).View(), "[Image: tiny.gif]")
}

func TestChat_AttachRejectsNonImage(t *testing.T) {
	a := newTestApp(t)
	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain words"), 0644))

	m := openChat(t, a)
	m = press(t, m, "a")
	m = typeText(t, m, txt)
	m = press(t, m, "enter")

	c := asChat(t, m)
	assert.Empty(t, a.Messages())
	assert.Equal(t, modeAttach, c.mode)
	assert.Error(t, c.err)
}

func TestChat_MuteToggle(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "m")
	assert.True(t, a.Muted())
	assert.Contains(t, asChat(t, m).View(), "🔕")

	press(t, m, "m")
	assert.False(t, a.Muted())
}

func TestChat_EscReturnsToMenu(t *testing.T) {
	a := newTestApp(t)
	m := openChat(t, a)

	m = press(t, m, "esc")
	_, ok := m.(MenuModel)
	assert.True(t, ok)
}

func TestRenderTranscript_Placeholder(t *testing.T) {
	p := render.PlaceholderEmpty
	s, offsets := renderTranscript(render.View{Placeholder: &p}, 60, -1)
	assert.Contains(t, s, p.Title)
	assert.Contains(t, s, p.Hint)
	assert.Nil(t, offsets)
}
