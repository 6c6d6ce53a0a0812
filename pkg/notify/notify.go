// Package notify keeps the bounded log of outcome notifications and the
// single transient toast projected from the newest one.
package notify

import (
	"sync"
	"time"
)

// MaxItems caps the notification log; the oldest entries drop off silently.
const MaxItems = 10

// DefaultToastDuration is how long a toast stays up before auto-dismissing.
const DefaultToastDuration = 5 * time.Second

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Item is one entry of the notification log. IDs are wall-clock derived and
// strictly increasing, so they double as a sort and dedup key.
type Item struct {
	ID        int64
	Kind      Kind
	Message   string
	Timestamp time.Time
}

// Toast is the single transient projection of the most recent notification.
type Toast struct {
	Show    bool
	Kind    Kind
	Message string
}

// Center owns the log and the toast. Safe for concurrent use; the session,
// uploader and poller all push into the same instance.
type Center struct {
	mu            sync.Mutex
	items         []Item
	toast         Toast
	toastGen      uint64
	timer         *time.Timer
	lastID        int64
	toastDuration time.Duration
	onToast       func(Toast)
}

// Option configures a Center.
type Option func(*Center)

// WithToastDuration overrides the auto-dismiss countdown.
func WithToastDuration(d time.Duration) Option {
	return func(c *Center) {
		c.toastDuration = d
	}
}

// WithToastListener registers a callback invoked whenever the toast changes,
// including auto-dismissal.
func WithToastListener(fn func(Toast)) Option {
	return func(c *Center) {
		c.onToast = fn
	}
}

func NewCenter(opts ...Option) *Center {
	c := &Center{toastDuration: DefaultToastDuration}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push prepends a notification, trims the log to MaxItems and arms the toast
// with a fresh countdown, cancelling any in-flight one.
func (c *Center) Push(kind Kind, message string) Item {
	c.mu.Lock()

	item := Item{
		ID:        c.nextID(),
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
	}

	items := make([]Item, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	c.items = items

	if c.timer != nil {
		c.timer.Stop()
	}
	c.toast = Toast{Show: true, Kind: kind, Message: message}
	// Stop cannot interrupt a callback that has already fired and is waiting
	// on c.mu; the generation lets such a stale callback recognize it lost.
	c.toastGen++
	gen := c.toastGen
	c.timer = time.AfterFunc(c.toastDuration, func() { c.dismissToast(gen) })

	toast := c.toast
	onToast := c.onToast
	c.mu.Unlock()

	if onToast != nil {
		onToast(toast)
	}
	return item
}

// Clear empties the log. An already-armed toast keeps running.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns the log, newest first.
func (c *Center) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Toast returns the current toast projection.
func (c *Center) Toast() Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toast
}

func (c *Center) dismissToast(gen uint64) {
	c.mu.Lock()
	if gen != c.toastGen {
		// A newer push re-armed the countdown while this one was firing.
		c.mu.Unlock()
		return
	}
	c.toast = Toast{}
	toast := c.toast
	onToast := c.onToast
	c.mu.Unlock()

	if onToast != nil {
		onToast(toast)
	}
}

// nextID derives an identifier from the wall clock, bumping when two pushes
// land on the same millisecond. Callers must hold c.mu.
func (c *Center) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}
