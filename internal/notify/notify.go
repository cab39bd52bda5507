package notify

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notification is the only shape the workflow signals to the hosting shell.
type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

type Notifier interface {
	Notify(n Notification)
}

// Collector keeps notifications in arrival order. One lives behind every
// HTTP request, and tests read it back directly.
type Collector struct {
	mu            sync.Mutex
	notifications []Notification
}

func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append(c.notifications, n)
}

func (c *Collector) All() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// Last returns the most recent notification, or false when none fired.
func (c *Collector) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.notifications) == 0 {
		return Notification{}, false
	}
	return c.notifications[len(c.notifications)-1], true
}

// Func adapts a plain function to the Notifier interface.
type Func func(n Notification)

func (f Func) Notify(n Notification) { f(n) }
