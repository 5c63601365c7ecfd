package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saravenpi/duet/internal/logger"
	"github.com/saravenpi/duet/internal/models"
	"go.uber.org/zap"
)

const (
	KeyMessages = "chatMessages"
	KeyMuted    = "isMuted"
	KeyLastID   = "lastMessageId"
)

// Adapter reads and writes the persisted entries: the message list, the mute
// flag and the highest message id ever assigned. Missing or malformed entries
// load as their zero value. Backend read failures are returned.
type Adapter struct {
	kv KV
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// LoadMessages returns the stored messages, or an empty list when the entry is
// absent or cannot be decoded.
func (a *Adapter) LoadMessages() ([]models.Message, error) {
	data, err := a.kv.Get(KeyMessages)
	if errors.Is(err, ErrNotFound) {
		return []models.Message{}, nil
	}
	if err != nil {
		logger.Log.Error("messages_load_failed", zap.Error(err))
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		logger.Log.Warn("messages_blob_malformed", zap.Error(err))
		return []models.Message{}, nil
	}
	if messages == nil {
		return []models.Message{}, nil
	}

	for i := range messages {
		if messages[i].Reactions == nil {
			messages[i].Reactions = []string{}
		}
		if messages[i].Status == "" {
			messages[i].Status = models.StateSent
		}
	}

	logger.Log.Debug("messages_loaded", zap.Int("count", len(messages)))
	return messages, nil
}

// SaveMessages writes the whole collection. An empty collection is stored as [].
func (a *Adapter) SaveMessages(messages []models.Message) error {
	if messages == nil {
		messages = []models.Message{}
	}

	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	if err := a.kv.Set(KeyMessages, data); err != nil {
		logger.Log.Error("messages_save_failed", zap.Error(err))
		return err
	}

	logger.Log.Debug("messages_saved", zap.Int("count", len(messages)))
	return nil
}

// RawMessages returns the persisted blob exactly as stored.
func (a *Adapter) RawMessages() ([]byte, error) {
	return a.kv.Get(KeyMessages)
}

func (a *Adapter) LoadMuted() (bool, error) {
	data, err := a.kv.Get(KeyMuted)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load mute flag: %w", err)
	}

	var muted bool
	if err := json.Unmarshal(data, &muted); err != nil {
		logger.Log.Warn("mute_flag_malformed", zap.Error(err))
		return false, nil
	}
	return muted, nil
}

func (a *Adapter) SaveMuted(muted bool) error {
	data, err := json.Marshal(muted)
	if err != nil {
		return fmt.Errorf("failed to marshal mute flag: %w", err)
	}
	return a.kv.Set(KeyMuted, data)
}

// LoadLastID returns the highest message id ever assigned, or 0.
func (a *Adapter) LoadLastID() (int, error) {
	data, err := a.kv.Get(KeyLastID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load last message id: %w", err)
	}

	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		logger.Log.Warn("last_id_malformed", zap.Error(err))
		return 0, nil
	}
	return id, nil
}

func (a *Adapter) SaveLastID(id int) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to marshal last message id: %w", err)
	}
	return a.kv.Set(KeyLastID, data)
}

// Reset removes every persisted entry.
func (a *Adapter) Reset() error {
	for _, key := range []string{KeyMessages, KeyMuted, KeyLastID} {
		if err := a.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
