package typing

import "time"

// DefaultDelay is how long the indicator stays up after the last keystroke.
const DefaultDelay = 1000 * time.Millisecond

// Indicator debounces keystrokes into a visible/hidden flag. Each Input hands
// back a token; only the expiry carrying the latest token hides the indicator,
// so a newer keystroke implicitly cancels the pending one.
type Indicator struct {
	delay   time.Duration
	token   uint64
	visible bool
}

func New(delay time.Duration) *Indicator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Indicator{delay: delay}
}

func (i *Indicator) Delay() time.Duration {
	return i.delay
}

// Input shows the indicator and returns the token its expiry must carry.
func (i *Indicator) Input() uint64 {
	i.token++
	i.visible = true
	return i.token
}

// Expire hides the indicator if token is still the latest. It reports whether
// anything changed.
func (i *Indicator) Expire(token uint64) bool {
	if token != i.token || !i.visible {
		return false
	}
	i.visible = false
	return true
}

// Hide drops the indicator immediately and invalidates pending expiries.
func (i *Indicator) Hide() {
	i.token++
	i.visible = false
}

func (i *Indicator) Visible() bool {
	return i.visible
}
