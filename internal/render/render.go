// Package render turns the message collection into the view model the UI
// paints. Nothing here mutates its input.
package render

import (
	"sort"
	"strings"

	"github.com/saravenpi/duet/internal/models"
	"golang.org/x/text/cases"
)

type Side int

const (
	SideReceived Side = iota
	SideSent
)

func (s Side) String() string {
	if s == SideSent {
		return "sent"
	}
	return "received"
}

// Glyph is the delivery marker shown on the viewer's own messages.
type Glyph string

const (
	GlyphNone   Glyph = ""
	GlyphSingle Glyph = "✓"
	GlyphDouble Glyph = "✓✓"
)

// ReactionGroup is one pill: an emoji and how many times it was added.
type ReactionGroup struct {
	Emoji string
	Count int
}

type Item struct {
	Message   models.Message
	Side      Side
	Glyph     Glyph
	Reactions []ReactionGroup
	// Deletable is true for the viewer's own messages only.
	Deletable bool
}

type Placeholder struct {
	Title string
	Hint  string
}

var (
	PlaceholderEmpty    = Placeholder{Title: "No messages yet", Hint: "Start the conversation by sending a message!"}
	PlaceholderNoResult = Placeholder{Title: "No messages found", Hint: "Try a different search term"}
)

// View is the result of one render pass. Exactly one of Items or
// Placeholder is set.
type View struct {
	Items       []Item
	Placeholder *Placeholder
	Query       string
}

func (v View) Empty() bool {
	return len(v.Items) == 0
}

// Render filters messages by query, orders them by timestamp and decorates
// each one from the viewer's perspective. The query is matched exactly as
// typed, surrounding whitespace included.
func Render(messages []models.Message, viewer models.User, query string) View {
	filtered := Filter(messages, query)

	if len(filtered) == 0 {
		p := PlaceholderEmpty
		if query != "" {
			p = PlaceholderNoResult
		}
		return View{Placeholder: &p, Query: query}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	items := make([]Item, 0, len(filtered))
	for _, m := range filtered {
		items = append(items, decorate(m, viewer))
	}
	return View{Items: items, Query: query}
}

// Filter keeps messages whose text or sender name contains query, ignoring
// case. An empty query keeps everything. The result never aliases messages.
func Filter(messages []models.Message, query string) []models.Message {
	out := make([]models.Message, 0, len(messages))
	if query == "" {
		for _, m := range messages {
			out = append(out, m.Clone())
		}
		return out
	}

	fold := cases.Fold()
	needle := fold.String(query)
	for _, m := range messages {
		if strings.Contains(fold.String(m.Text), needle) || strings.Contains(fold.String(m.SenderName), needle) {
			out = append(out, m.Clone())
		}
	}
	return out
}

// GroupReactions counts reactions per emoji in first-seen order.
func GroupReactions(reactions []string) []ReactionGroup {
	if len(reactions) == 0 {
		return nil
	}
	groups := make([]ReactionGroup, 0, len(reactions))
	index := make(map[string]int, len(reactions))
	for _, r := range reactions {
		if i, ok := index[r]; ok {
			groups[i].Count++
			continue
		}
		index[r] = len(groups)
		groups = append(groups, ReactionGroup{Emoji: r, Count: 1})
	}
	return groups
}

func decorate(m models.Message, viewer models.User) Item {
	item := Item{
		Message:   m,
		Side:      SideReceived,
		Glyph:     GlyphNone,
		Reactions: GroupReactions(m.Reactions),
	}
	if m.SenderID == viewer.ID {
		item.Side = SideSent
		item.Deletable = true
		item.Glyph = GlyphSingle
		if m.Status == models.StateRead {
			item.Glyph = GlyphDouble
		}
	}
	return item
}
