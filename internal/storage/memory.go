package storage

// MemoryKV keeps values in a map. Nothing survives the process.
type MemoryKV struct {
	items map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	v, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	delete(m.items, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
