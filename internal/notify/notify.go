package notify

import (
	"io"
	"os"
	"sync"
)

// Notifier plays the "message sent" cue.
type Notifier interface {
	Notify() error
}

// Terminal wraps the terminal file so that every write, from the program's
// renderer or from the bell, goes out whole and one at a time. It keeps Fd so
// the program still detects a TTY and tracks the window size.
type Terminal struct {
	mu sync.Mutex
	f  *os.File
}

func NewTerminal(f *os.File) *Terminal {
	return &Terminal{f: f}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.f.Write(p)
}

func (t *Terminal) Read(p []byte) (int, error) {
	return t.f.Read(p)
}

func (t *Terminal) Close() error {
	return t.f.Close()
}

func (t *Terminal) Fd() uintptr {
	return t.f.Fd()
}

// Bell rings the terminal bell. W must be the writer the program renders to,
// usually a *Terminal.
type Bell struct {
	W io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{W: w}
}

func (b *Bell) Notify() error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Silent never makes a sound.
type Silent struct{}

func (Silent) Notify() error { return nil }
