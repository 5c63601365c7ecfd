package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/saravenpi/duet/internal/app"
	"github.com/saravenpi/duet/internal/logger"
	"github.com/saravenpi/duet/internal/render"
	"github.com/saravenpi/duet/internal/typing"
	"go.uber.org/zap"
)

type chatMode int

const (
	modeBrowse chatMode = iota
	modeCompose
	modeSearch
	modeEmoji
	modeAttach
	modeConfirm
)

type confirmKind int

const (
	confirmDeleteMessage confirmKind = iota
	confirmClearChat
)

type typingExpiredMsg struct {
	token uint64
}

func typingTick(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return typingExpiredMsg{token: token}
	})
}

type ChatModel struct {
	app           *app.App
	view          render.View
	offsets       []int
	selected      int
	viewport      viewport.Model
	textarea      textarea.Model
	search        textinput.Model
	attach        textinput.Model
	emoji         list.Model
	typing        *typing.Indicator
	mode          chatMode
	returnMode    chatMode
	confirm       confirmKind
	pendingDelete int
	err           error
	windowWidth   int
	windowHeight  int
}

// NewChatModel opens the conversation from the app's current profile.
func NewChatModel(a *app.App, typingDelay time.Duration) ChatModel {
	vp := viewport.New(80, 20)

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	search := textinput.New()
	search.Placeholder = "Search messages"
	search.CharLimit = 100
	search.Width = 40
	search.SetValue(a.Query())

	attach := textinput.New()
	attach.Placeholder = "Path to an image file"
	attach.CharLimit = 500
	attach.Width = 60

	m := ChatModel{
		app:          a,
		selected:     -1,
		viewport:     vp,
		textarea:     ta,
		search:       search,
		attach:       attach,
		emoji:        newEmojiPicker(),
		typing:       typing.New(typingDelay),
		windowWidth:  80,
		windowHeight: 30,
	}
	m.refresh()
	m.viewport.GotoBottom()
	return m
}

func (m ChatModel) Init() tea.Cmd {
	return nil
}

// refresh re-renders from the app, which also marks the other side's
// messages as read.
func (m *ChatModel) refresh() {
	v, err := m.app.View()
	if err != nil {
		logger.Log.Error("render_persist_failed", zap.Error(err))
		m.err = err
	}
	m.view = v
	if m.selected >= len(v.Items) {
		m.selected = len(v.Items) - 1
	}
	m.updateViewportContent()
}

func (m *ChatModel) resize() {
	headerHeight := 5
	helpHeight := 2
	extra := 0
	switch m.mode {
	case modeCompose:
		extra = 5
	case modeSearch, modeAttach:
		extra = 2
	}
	if m.app.Query() != "" && m.mode != modeSearch {
		extra++
	}
	if m.typing.Visible() {
		extra++
	}

	height := m.windowHeight - headerHeight - helpHeight - extra
	if height < 3 {
		height = 3
	}
	m.viewport.Width = m.windowWidth - 4
	m.viewport.Height = height
	m.textarea.SetWidth(m.windowWidth - 4)
	m.emoji.SetSize(m.windowWidth-4, m.windowHeight-6)
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.resize()
		m.updateViewportContent()
		return m, nil

	case typingExpiredMsg:
		if m.typing.Expire(msg.token) {
			m.resize()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeCompose:
			return m.updateCompose(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeEmoji:
			return m.updateEmoji(msg)
		case modeAttach:
			return m.updateAttach(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m ChatModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		if m.selected >= 0 {
			m.selected = -1
			m.updateViewportContent()
			return m, nil
		}
		if m.app.Query() != "" {
			m.app.SetQuery("")
			m.search.Reset()
			m.refresh()
			m.resize()
			return m, nil
		}
		menuModel := NewMenuModel(m.app, m.typing.Delay())
		updatedModel, _ := menuModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		return updatedModel, updatedModel.Init()

	case "n", "c", "i":
		m.err = nil
		return m.enterCompose()

	case "e":
		m.err = nil
		m.selected = -1
		m.returnMode = modeBrowse
		m.mode = modeEmoji
		m.emoji.ResetFilter()
		return m, nil

	case "/":
		m.mode = modeSearch
		m.resize()
		cmd := m.search.Focus()
		return m, cmd

	case "a":
		m.mode = modeAttach
		m.err = nil
		m.attach.Reset()
		m.resize()
		cmd := m.attach.Focus()
		return m, cmd

	case "tab":
		m.app.ToggleUser()
		m.selected = -1
		m.typing.Hide()
		m.refresh()
		m.resize()
		m.viewport.GotoBottom()
		return m, nil

	case "m":
		if _, err := m.app.ToggleMute(); err != nil {
			m.err = err
		}
		return m, nil

	case "up", "k":
		if len(m.view.Items) == 0 {
			return m, nil
		}
		if m.selected < 0 {
			m.selected = len(m.view.Items) - 1
		} else if m.selected > 0 {
			m.selected--
		}
		m.updateViewportContent()
		m.ensureSelectedVisible()
		return m, nil

	case "down", "j":
		if m.selected < 0 {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.selected < len(m.view.Items)-1 {
			m.selected++
		}
		m.updateViewportContent()
		m.ensureSelectedVisible()
		return m, nil

	case "r", "l":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		emoji := reactHeart
		if msg.String() == "l" {
			emoji = reactLike
		}
		if _, err := m.app.React(item.Message.ID, emoji); err != nil {
			m.err = err
		}
		m.refresh()
		return m, nil

	case "d", "delete":
		item, ok := m.selectedItem()
		if !ok || !item.Deletable {
			return m, nil
		}
		m.mode = modeConfirm
		m.confirm = confirmDeleteMessage
		m.pendingDelete = item.Message.ID
		return m, nil

	case "X":
		if m.app.Query() == "" && m.view.Empty() {
			return m, nil
		}
		m.mode = modeConfirm
		m.confirm = confirmClearChat
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ChatModel) enterCompose() (tea.Model, tea.Cmd) {
	m.mode = modeCompose
	m.selected = -1
	m.resize()
	m.updateViewportContent()
	cmd := m.textarea.Focus()
	return m, tea.Batch(cmd, textarea.Blink)
}

func (m ChatModel) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.textarea.Blur()
		m.typing.Hide()
		m.err = nil
		m.resize()
		return m, nil

	case "enter", "ctrl+s":
		messageText := strings.TrimSpace(m.textarea.Value())
		if messageText == "" {
			return m, nil
		}
		if _, _, err := m.app.Send(messageText); err != nil {
			m.err = err
		}
		m.textarea.Reset()
		m.typing.Hide()
		m.refresh()
		m.resize()
		m.viewport.GotoBottom()
		return m, nil

	case "ctrl+e":
		m.returnMode = modeCompose
		m.mode = modeEmoji
		m.textarea.Blur()
		m.emoji.ResetFilter()
		return m, nil
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() == before {
		return m, cmd
	}

	wasVisible := m.typing.Visible()
	token := m.typing.Input()
	if !wasVisible {
		m.resize()
	}
	return m, tea.Batch(cmd, typingTick(m.typing.Delay(), token))
}

func (m ChatModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		m.resize()
		return m, nil

	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.search.Reset()
		m.app.SetQuery("")
		m.selected = -1
		m.refresh()
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.app.Query() {
		m.app.SetQuery(m.search.Value())
		m.selected = -1
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m, cmd
}

func (m ChatModel) updateEmoji(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.emoji.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.emoji, cmd = m.emoji.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.mode = m.returnMode
		m.resize()
		if m.mode == modeCompose {
			cmd := m.textarea.Focus()
			return m, cmd
		}
		return m, nil

	case "enter":
		item, ok := m.emoji.SelectedItem().(emojiItem)
		if !ok {
			return m, nil
		}
		m.mode = modeCompose
		m.textarea.InsertString(item.emoji)
		m.resize()
		cmd := m.textarea.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.emoji, cmd = m.emoji.Update(msg)
	return m, cmd
}

func (m ChatModel) updateAttach(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.attach.Blur()
		m.resize()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.attach.Value())
		if path == "" {
			return m, nil
		}
		if _, err := m.app.SendImage(path); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.mode = modeBrowse
		m.attach.Blur()
		m.attach.Reset()
		m.refresh()
		m.resize()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.attach, cmd = m.attach.Update(msg)
	return m, cmd
}

func (m ChatModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		var err error
		if m.confirm == confirmDeleteMessage {
			_, err = m.app.Delete(m.pendingDelete)
		} else {
			err = m.app.Clear()
		}
		if err != nil {
			m.err = err
		}
		m.mode = modeBrowse
		m.pendingDelete = 0
		m.selected = -1
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case "n", "N", "esc":
		m.mode = modeBrowse
		m.pendingDelete = 0
		return m, nil
	}
	return m, nil
}

func (m ChatModel) selectedItem() (render.Item, bool) {
	if m.selected < 0 || m.selected >= len(m.view.Items) {
		return render.Item{}, false
	}
	return m.view.Items[m.selected], true
}

func (m *ChatModel) ensureSelectedVisible() {
	if m.selected < 0 || m.selected >= len(m.offsets) {
		return
	}
	line := m.offsets[m.selected]
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height-2 {
		m.viewport.SetYOffset(line - m.viewport.Height + 3)
	}
}

func (m *ChatModel) updateViewportContent() {
	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}
	content, offsets := renderTranscript(m.view, wrapWidth, m.selected)
	m.offsets = offsets
	m.viewport.SetContent(content)
}

// renderTranscript paints the view model and returns the first line of each
// item so the selection can be scrolled into view.
func renderTranscript(v render.View, wrapWidth, selected int) (string, []int) {
	if v.Placeholder != nil {
		s := placeholderStyle.Width(wrapWidth).Render(v.Placeholder.Title) + "\n"
		s += placeholderStyle.Width(wrapWidth).Render(v.Placeholder.Hint)
		return s, nil
	}

	var content strings.Builder
	offsets := make([]int, 0, len(v.Items))
	right := lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth)

	for i, item := range v.Items {
		if i > 0 {
			content.WriteString("\n")
		}
		offsets = append(offsets, strings.Count(content.String(), "\n"))

		message := item.Message
		timestamp := message.Timestamp.Local().Format("3:04 PM")
		header := fmt.Sprintf("%s • %s", message.SenderName, timestamp)
		if item.Glyph != render.GlyphNone {
			header += " " + glyphReadStyle.Render(string(item.Glyph))
		}

		headerStyle := messageHeaderStyle
		if i == selected {
			headerStyle = selectedMarkerStyle
			header = "▶ " + header
		}

		lines := []string{headerStyle.Render(header)}

		if message.HasImage() {
			lines = append(lines, messageHeaderStyle.Render(fmt.Sprintf("🖼  [Image: %s]", message.ImageName)))
		}

		if message.Text != "" {
			wrappedText := wordwrap.String(message.Text, wrapWidth-10)
			if item.Side == render.SideSent {
				lines = append(lines, messageFromMeStyle.Render(wrappedText))
			} else {
				lines = append(lines, messageFromOtherStyle.Render(wrappedText))
			}
		}

		if len(item.Reactions) > 0 {
			pills := make([]string, 0, len(item.Reactions))
			for _, r := range item.Reactions {
				pills = append(pills, reactionStyle.Render(fmt.Sprintf("%s %d", r.Emoji, r.Count)))
			}
			lines = append(lines, strings.Join(pills, " "))
		}

		for _, line := range lines {
			if item.Side == render.SideSent {
				content.WriteString(right.Render(line) + "\n")
			} else {
				content.WriteString(line + "\n")
			}
		}
	}

	return content.String(), offsets
}

func (m ChatModel) header() string {
	me := m.app.Current()
	bell := "🔔"
	if m.app.Muted() {
		bell = "🔕"
	}

	s := avatarStyle(me.AccentColor).Render(me.AvatarInitials) + " " +
		titleStyle.UnsetMarginBottom().Render(me.Name) + "  " + bell + "\n"
	s += statusStyle.Render(m.app.StatusLine()) + "\n"
	s += helpStyle.Render(fmt.Sprintf("Chatting with %s", m.app.Other().Name)) + "\n\n"
	return s
}

func (m ChatModel) View() string {
	if m.mode == modeConfirm {
		return m.confirmView()
	}

	if m.mode == modeEmoji {
		return m.emoji.View() + "\n" + helpStyle.Render("↑↓/jk: navigate • /: filter • enter: insert • esc: back")
	}

	s := m.header()

	if m.mode == modeSearch {
		s += inputStyle.Render("Search: ") + m.search.View() + "\n\n"
	} else if q := m.app.Query(); q != "" {
		s += helpStyle.Render(fmt.Sprintf("🔎 filtering by %q • esc: clear", q)) + "\n"
	}

	s += m.viewport.View() + "\n"

	if m.typing.Visible() {
		s += typingStyle.Render(fmt.Sprintf("%s is typing...", m.app.Current().Name)) + "\n"
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	switch m.mode {
	case modeCompose:
		s += "\n" + inputStyle.Render("New Message:") + "\n"
		s += m.textarea.View() + "\n"
		s += helpStyle.Render("enter: send • ctrl+e: emoji • esc: cancel")
	case modeSearch:
		s += helpStyle.Render("enter: keep filter • esc: clear")
	case modeAttach:
		s += inputStyle.Render("Attach image: ") + m.attach.View() + "\n"
		s += helpStyle.Render("enter: send image • esc: cancel")
	default:
		scrollPercent := int(m.viewport.ScrollPercent() * 100)
		helpText := "n: new • e: emoji • a: attach • /: search • tab: switch user • m: mute • X: clear • esc: back • q: quit"
		if _, ok := m.selectedItem(); ok {
			helpText = "↑↓/jk: select • r: ❤️ react • l: 👍 like • d: delete • esc: deselect"
		}
		s += "\n" + helpStyle.Render(fmt.Sprintf("%s • %d%%", helpText, scrollPercent))
	}

	return s
}

func (m ChatModel) confirmView() string {
	if m.confirm == confirmDeleteMessage {
		s := titleStyle.Render("Delete Message") + "\n\n"
		s += normalStyle.Render("Delete this message?") + "\n\n"
		s += errorStyle.Render("This action cannot be undone.") + "\n\n"
		s += helpStyle.Render("y: confirm delete • n/esc: cancel")
		return s
	}

	s := titleStyle.Render("Clear Chat") + "\n\n"
	s += normalStyle.Render("Are you sure you want to clear all messages?") + "\n\n"
	s += errorStyle.Render("This action cannot be undone.") + "\n\n"
	s += helpStyle.Render("y: confirm clear • n/esc: cancel")
	return s
}
