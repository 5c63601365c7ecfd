package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Reaction shortcuts offered on every message.
const (
	reactHeart = "❤️"
	reactLike  = "👍"
)

type emojiItem struct {
	emoji string
	name  string
}

func (i emojiItem) FilterValue() string { return i.name }
func (i emojiItem) Title() string       { return i.emoji + "  " + i.name }
func (i emojiItem) Description() string { return "" }

var emojiSet = []emojiItem{
	{"😀", "grinning"},
	{"😂", "joy"},
	{"😍", "heart eyes"},
	{"🥰", "smiling with hearts"},
	{"😊", "blush"},
	{"😎", "sunglasses"},
	{"🤔", "thinking"},
	{"😢", "cry"},
	{"😭", "sob"},
	{"😡", "angry"},
	{"😴", "sleeping"},
	{"👍", "thumbs up"},
	{"👎", "thumbs down"},
	{"👏", "clap"},
	{"🙏", "pray"},
	{"❤️", "heart"},
	{"🔥", "fire"},
	{"🎉", "party"},
	{"✨", "sparkles"},
	{"💯", "hundred"},
}

func newEmojiPicker() list.Model {
	items := make([]list.Item, len(emojiSet))
	for i, e := range emojiSet {
		items[i] = e
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)

	l := list.New(items, delegate, 40, 12)
	l.Title = "Insert emoji"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}
