package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saravenpi/duet/internal/logger"
	"github.com/saravenpi/duet/internal/models"
	"go.uber.org/zap"
)

// ErrEmptyContent is returned by Append when there is neither text nor an
// image. The store is left untouched; callers treat it as a no-op.
var ErrEmptyContent = errors.New("message has no text and no image")

// Persister receives the full collection after every mutation.
type Persister interface {
	SaveMessages(messages []models.Message) error
}

// IDRecorder is implemented by persisters that keep the highest assigned id
// across restarts.
type IDRecorder interface {
	SaveLastID(id int) error
}

// IDPolicy decides the id of an appended message.
type IDPolicy string

const (
	// IDSequential assigns one more than the highest id ever handed out,
	// deleted and cleared messages included. It matches IDCount until the
	// first deletion and never repeats an id.
	IDSequential IDPolicy = "sequential"
	// IDCount assigns len+1, which can repeat an id after deletions.
	IDCount IDPolicy = "count"
)

func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case IDSequential, "":
		return IDSequential, nil
	case IDCount:
		return IDCount, nil
	default:
		return "", fmt.Errorf("unknown id policy %q", s)
	}
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDPolicy(p IDPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLastID seeds the high-water mark loaded at startup.
func WithLastID(id int) Option {
	return func(s *Store) { s.lastID = id }
}

// Store owns the ordered message collection. Every mutation writes the whole
// collection back through the Persister.
type Store struct {
	messages []models.Message
	persist  Persister
	now      func() time.Time
	policy   IDPolicy
	lastID   int
}

// NewStore hydrates a store from messages loaded at startup.
func NewStore(persist Persister, initial []models.Message, opts ...Option) *Store {
	s := &Store{
		messages: make([]models.Message, 0, len(initial)),
		persist:  persist,
		now:      func() time.Time { return time.Now().UTC() },
		policy:   IDSequential,
	}
	for _, m := range initial {
		s.messages = append(s.messages, m.Clone())
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, m := range s.messages {
		if m.ID > s.lastID {
			s.lastID = m.ID
		}
	}
	return s
}

func (s *Store) nextID() int {
	if s.policy == IDCount {
		return len(s.messages) + 1
	}
	return s.lastID + 1
}

func (s *Store) saveLastID() error {
	rec, ok := s.persist.(IDRecorder)
	if !ok {
		return nil
	}
	if err := rec.SaveLastID(s.lastID); err != nil {
		return fmt.Errorf("failed to persist last message id: %w", err)
	}
	return nil
}

func (s *Store) save() error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveMessages(s.messages); err != nil {
		return fmt.Errorf("failed to persist messages: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id int) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Append adds a new message from the given sender and returns it.
func (s *Store) Append(senderID int, senderName string, content models.Content) (models.Message, error) {
	if content.Empty() {
		return models.Message{}, ErrEmptyContent
	}

	msg := models.Message{
		ID:         s.nextID(),
		SenderID:   senderID,
		SenderName: senderName,
		Text:       strings.TrimSpace(content.Text),
		Image:      content.Image,
		ImageName:  content.ImageName,
		Timestamp:  s.now(),
		Status:     models.StateSent,
		Reactions:  []string{},
	}
	s.messages = append(s.messages, msg)
	if msg.ID > s.lastID {
		s.lastID = msg.ID
	}

	logger.Log.Info("message_appended",
		zap.Int("id", msg.ID),
		zap.Int("sender", senderID),
		zap.Bool("image", msg.HasImage()))

	if err := s.save(); err != nil {
		return msg.Clone(), err
	}
	return msg.Clone(), s.saveLastID()
}

// Delete removes the first message with id. It reports whether one was found.
func (s *Store) Delete(id int) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
	logger.Log.Info("message_deleted", zap.Int("id", id))
	return true, s.save()
}

// AddReaction appends emoji to the message's reactions. Duplicates are kept.
func (s *Store) AddReaction(id int, emoji string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 || emoji == "" {
		return false, nil
	}
	s.messages[i].Reactions = append(s.messages[i].Reactions, emoji)
	logger.Log.Debug("reaction_added", zap.Int("id", id), zap.String("emoji", emoji))
	return true, s.save()
}

// Clear removes every message.
func (s *Store) Clear() error {
	n := len(s.messages)
	s.messages = []models.Message{}
	logger.Log.Info("messages_cleared", zap.Int("count", n))
	return s.save()
}

// MarkReadExcept flips every sent message not authored by viewerID to read and
// returns how many changed. Nothing is written when nothing changed.
func (s *Store) MarkReadExcept(viewerID int) (int, error) {
	changed := 0
	for i := range s.messages {
		m := &s.messages[i]
		if m.SenderID != viewerID && m.Status == models.StateSent {
			m.Status = models.StateRead
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	logger.Log.Debug("messages_marked_read", zap.Int("viewer", viewerID), zap.Int("count", changed))
	return changed, s.save()
}

// Get returns a copy of the message with id.
func (s *Store) Get(id int) (models.Message, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Message{}, false
	}
	return s.messages[i].Clone(), true
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []models.Message {
	out := make([]models.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.messages)
}
