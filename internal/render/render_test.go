package render

import (
	"strings"
	"testing"
	"time"

	"github.com/saravenpi/duet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	savi   = models.User{ID: 1, Name: "Savi"}
	shilpa = models.User{ID: 2, Name: "Shilpa"}
	base   = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
)

func msg(id, sender int, name, text string, offset time.Duration) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   sender,
		SenderName: name,
		Text:       text,
		Timestamp:  base.Add(offset),
		Status:     models.StateSent,
		Reactions:  []string{},
	}
}

func ids(v View) []int {
	out := make([]int, 0, len(v.Items))
	for _, it := range v.Items {
		out = append(out, it.Message.ID)
	}
	return out
}

func TestRender_SortsByTimestampStable(t *testing.T) {
	messages := []models.Message{
		msg(1, 1, "Savi", "third", 3*time.Minute),
		msg(2, 2, "Shilpa", "first", time.Minute),
		msg(3, 1, "Savi", "tie-a", 2*time.Minute),
		msg(4, 2, "Shilpa", "tie-b", 2*time.Minute),
	}

	v := Render(messages, savi, "")

	require.Nil(t, v.Placeholder)
	assert.Equal(t, []int{2, 3, 4, 1}, ids(v))
	assert.Equal(t, 1, messages[0].ID, "input must not be reordered")
}

func TestRender_SearchMatchesTextOrSender(t *testing.T) {
	messages := []models.Message{
		msg(1, 1, "Savi", "Hello there", 0),
		msg(2, 2, "Shilpa", "how are you", time.Minute),
		msg(3, 1, "Savi", "", 2*time.Minute),
	}
	messages[2].Image = "data:image/png;base64,AA=="

	v := Render(messages, savi, "HELLO")
	assert.Equal(t, []int{1}, ids(v))

	v = Render(messages, savi, "shil")
	assert.Equal(t, []int{2}, ids(v))

	v = Render(messages, savi, "sav")
	assert.Equal(t, []int{1, 3}, ids(v))

	for _, it := range Render(messages, savi, "o").Items {
		m := it.Message
		ok := strings.Contains(strings.ToLower(m.Text), "o") || strings.Contains(strings.ToLower(m.SenderName), "o")
		assert.True(t, ok, "message %d does not match", m.ID)
	}
}

func TestRender_Placeholders(t *testing.T) {
	v := Render(nil, savi, "")
	require.NotNil(t, v.Placeholder)
	assert.Equal(t, PlaceholderEmpty, *v.Placeholder)
	assert.True(t, v.Empty())

	v = Render([]models.Message{msg(1, 1, "Savi", "hi", 0)}, savi, "zzz")
	require.NotNil(t, v.Placeholder)
	assert.Equal(t, PlaceholderNoResult, *v.Placeholder)
}

func TestRender_QueryIsNotTrimmed(t *testing.T) {
	messages := []models.Message{
		msg(1, 1, "Savi", "hello", 0),
		msg(2, 2, "Shilpa", "good morning", time.Minute),
	}

	for _, q := range []string{" ", "o "} {
		v := Render(messages, savi, q)
		assert.Empty(t, ids(v), "query %q", q)
		require.NotNil(t, v.Placeholder, "query %q", q)
		assert.Equal(t, PlaceholderNoResult, *v.Placeholder)
		assert.Equal(t, q, v.Query)
	}

	v := Render(messages, savi, "good ")
	assert.Equal(t, []int{2}, ids(v))
}

func TestRender_SidesAndGlyphs(t *testing.T) {
	a := msg(1, 1, "Savi", "hi", 0)
	b := msg(2, 2, "Shilpa", "yo", time.Minute)
	c := msg(3, 1, "Savi", "seen", 2*time.Minute)
	c.Status = models.StateRead

	v := Render([]models.Message{a, b, c}, savi, "")
	require.Len(t, v.Items, 3)

	assert.Equal(t, SideSent, v.Items[0].Side)
	assert.Equal(t, GlyphSingle, v.Items[0].Glyph)
	assert.True(t, v.Items[0].Deletable)

	assert.Equal(t, SideReceived, v.Items[1].Side)
	assert.Equal(t, GlyphNone, v.Items[1].Glyph)
	assert.False(t, v.Items[1].Deletable)

	assert.Equal(t, GlyphDouble, v.Items[2].Glyph)

	v = Render([]models.Message{a, b, c}, shilpa, "")
	assert.Equal(t, SideReceived, v.Items[0].Side)
	assert.Equal(t, SideSent, v.Items[1].Side)
}

func TestGroupReactions(t *testing.T) {
	got := GroupReactions([]string{"❤️", "👍", "❤️"})
	assert.Equal(t, []ReactionGroup{{Emoji: "❤️", Count: 2}, {Emoji: "👍", Count: 1}}, got)

	assert.Nil(t, GroupReactions(nil))
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	m := msg(1, 2, "Shilpa", "yo", 0)
	m.Reactions = []string{"👍"}
	messages := []models.Message{m}

	v := Render(messages, savi, "")
	v.Items[0].Message.Reactions[0] = "💀"

	assert.Equal(t, models.StateSent, messages[0].Status)
	assert.Equal(t, []string{"👍"}, messages[0].Reactions)
}
