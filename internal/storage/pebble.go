package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/saravenpi/duet/internal/logger"
	"go.uber.org/zap"
)

// PebbleKV stores keys in a Pebble LSM directory.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a Pebble database at dir.
func OpenPebble(dir string) (*PebbleKV, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		logger.Log.Error("kv_open_failed", zap.String("backend", BackendPebble), zap.String("path", dir), zap.Error(err))
		return nil, fmt.Errorf("failed to open pebble: %w", err)
	}
	logger.Log.Info("kv_opened", zap.String("backend", BackendPebble), zap.String("path", dir))
	return &PebbleKV{db: db}, nil
}

func (p *PebbleKV) Get(key string) ([]byte, error) {
	v, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

func (p *PebbleKV) Set(key string, value []byte) error {
	if err := p.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (p *PebbleKV) Delete(key string) error {
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (p *PebbleKV) Close() error {
	return p.db.Close()
}
