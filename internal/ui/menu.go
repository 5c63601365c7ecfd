package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saravenpi/duet/internal/app"
)

type menuAction int

const (
	actionChatAs menuAction = iota
	actionToggleMute
)

type menuItem struct {
	title  string
	desc   string
	action menuAction
	userID int
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

type MenuModel struct {
	app          *app.App
	typingDelay  time.Duration
	list         list.Model
	err          error
	windowWidth  int
	windowHeight int
}

// NewMenuModel lists both profiles to chat as, plus the sound toggle.
func NewMenuModel(a *app.App, typingDelay time.Duration) MenuModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New(menuItems(a), delegate, 80, 14)
	l.Title = "Duet - two-person terminal chat"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MenuModel{
		app:          a,
		typingDelay:  typingDelay,
		list:         l,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func menuItems(a *app.App) []list.Item {
	items := make([]list.Item, 0, 3)
	for _, u := range a.Profiles() {
		items = append(items, menuItem{
			title:  fmt.Sprintf("💬 Chat as %s", u.Name),
			desc:   fmt.Sprintf("%s • %s", u.AvatarInitials, u.Status),
			action: actionChatAs,
			userID: u.ID,
		})
	}

	sound := menuItem{title: "🔔 Sounds on", desc: "Ring the terminal bell when a message is sent", action: actionToggleMute}
	if a.Muted() {
		sound.title = "🔕 Sounds off"
		sound.desc = "Sending is silent"
	}
	return append(items, sound)
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

		if msg.String() == "enter" {
			selectedItem, ok := m.list.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}

			switch selectedItem.action {
			case actionChatAs:
				if err := m.app.SwitchUser(selectedItem.userID); err != nil {
					m.err = err
					return m, nil
				}
				chatModel := NewChatModel(m.app, m.typingDelay)
				updatedModel, cmd := chatModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				return updatedModel, tea.Batch(updatedModel.Init(), cmd)

			case actionToggleMute:
				if _, err := m.app.ToggleMute(); err != nil {
					m.err = err
				}
				index := m.list.Index()
				m.list.SetItems(menuItems(m.app))
				m.list.Select(index)
				return m, nil
			}
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	s := m.list.View() + "\n"
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	s += helpStyle.Render("↑↓/jk: navigate • enter: select • q: quit")
	return s
}
