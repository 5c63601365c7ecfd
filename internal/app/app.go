package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/saravenpi/duet/internal/chat"
	"github.com/saravenpi/duet/internal/logger"
	"github.com/saravenpi/duet/internal/models"
	"github.com/saravenpi/duet/internal/notify"
	"github.com/saravenpi/duet/internal/render"
	"github.com/saravenpi/duet/internal/session"
	"github.com/saravenpi/duet/internal/storage"
	"go.uber.org/zap"
)

// ErrNotImage is returned by SendImage for files that are not images.
var ErrNotImage = errors.New("file is not an image")

// App is the single mutable application state. The UI owns one instance and
// re-renders after every call.
type App struct {
	store    *chat.Store
	session  *session.Session
	prefs    *storage.Adapter
	notifier notify.Notifier
	muted    bool
	query    string
}

// New hydrates the store, the id high-water mark and the mute flag from
// adapter. A backend read failure is returned rather than starting empty, so
// the next save cannot overwrite history that merely failed to load.
func New(adapter *storage.Adapter, sess *session.Session, notifier notify.Notifier, opts ...chat.Option) (*App, error) {
	if notifier == nil {
		notifier = notify.Silent{}
	}

	messages, err := adapter.LoadMessages()
	if err != nil {
		return nil, err
	}
	lastID, err := adapter.LoadLastID()
	if err != nil {
		return nil, err
	}
	muted, err := adapter.LoadMuted()
	if err != nil {
		return nil, err
	}

	opts = append([]chat.Option{chat.WithLastID(lastID)}, opts...)
	return &App{
		store:    chat.NewStore(adapter, messages, opts...),
		session:  sess,
		prefs:    adapter,
		notifier: notifier,
		muted:    muted,
	}, nil
}

func (a *App) Current() models.User       { return a.session.Current() }
func (a *App) Other() models.User         { return a.session.Other() }
func (a *App) Profiles() []models.User    { return a.session.Profiles() }
func (a *App) StatusLine() string         { return a.session.StatusLine() }
func (a *App) Query() string              { return a.query }
func (a *App) Muted() bool                { return a.muted }
func (a *App) Messages() []models.Message { return a.store.All() }

// Send appends a text message from the current profile. Blank text is
// ignored and reported as sent == false.
func (a *App) Send(text string) (models.Message, bool, error) {
	return a.send(models.Content{Text: text})
}

// SendImage reads an image file and sends it from the current profile.
func (a *App) SendImage(path string) (models.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to read attachment: %w", err)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return models.Message{}, fmt.Errorf("%w: %s (%s)", ErrNotImage, filepath.Base(path), contentType)
	}

	msg, _, err := a.send(models.Content{
		Image:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		ImageName: filepath.Base(path),
	})
	return msg, err
}

func (a *App) send(content models.Content) (models.Message, bool, error) {
	me := a.session.Current()
	msg, err := a.store.Append(me.ID, me.Name, content)
	if errors.Is(err, chat.ErrEmptyContent) {
		return models.Message{}, false, nil
	}
	if !a.muted {
		if nerr := a.notifier.Notify(); nerr != nil {
			logger.Log.Debug("notify_failed", zap.Error(nerr))
		}
	}
	return msg, true, err
}

// Delete removes a message. The UI asks for confirmation first.
func (a *App) Delete(id int) (bool, error) {
	return a.store.Delete(id)
}

func (a *App) React(id int, emoji string) (bool, error) {
	return a.store.AddReaction(id, emoji)
}

// Clear removes every message. The UI asks for confirmation first.
func (a *App) Clear() error {
	return a.store.Clear()
}

func (a *App) SetQuery(q string) {
	a.query = q
}

// SwitchUser changes perspective without touching stored messages.
func (a *App) SwitchUser(id int) error {
	if err := a.session.SetCurrent(id); err != nil {
		return err
	}
	logger.Log.Info("user_switched", zap.Int("id", id))
	return nil
}

func (a *App) ToggleUser() models.User {
	u := a.session.Toggle()
	logger.Log.Info("user_switched", zap.Int("id", u.ID))
	return u
}

// ToggleMute flips and persists the mute flag.
func (a *App) ToggleMute() (bool, error) {
	a.muted = !a.muted
	if err := a.prefs.SaveMuted(a.muted); err != nil {
		return a.muted, fmt.Errorf("failed to save mute flag: %w", err)
	}
	return a.muted, nil
}

// View renders the chat for the current profile, then marks every message
// from the other profile as read, including ones hidden by the search.
func (a *App) View() (render.View, error) {
	me := a.session.Current()
	v := render.Render(a.store.All(), me, a.query)
	if _, err := a.store.MarkReadExcept(me.ID); err != nil {
		return v, err
	}
	return v, nil
}
