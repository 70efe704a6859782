package session

import (
	"log/slog"
	"sync"
)

// EventType classifies an auth change.
type EventType string

const (
	// EventLogin fires when a session is created or the active role is
	// switched (the stored record is republished).
	EventLogin EventType = "login"
	// EventLogout fires when a single role's session is destroyed.
	EventLogout EventType = "logout"
	// EventLogoutAll fires when every session is destroyed at once.
	EventLogoutAll EventType = "logout_all"
)

// Event is delivered to subscribers whenever session state changes.
type Event struct {
	Type      EventType
	Role      Role
	SessionID string
}

// Listener receives auth change events.
type Listener func(Event)

// Notifier is a synchronous in-process pub/sub for auth changes. Events are
// fire-and-forget: there is no queueing, and a listener that subscribes
// after an event has fired never receives it.
type Notifier struct {
	log *slog.Logger

	mu   sync.Mutex
	next int
	subs []subscriber
}

type subscriber struct {
	id int
	fn Listener
}

// NewNotifier constructs a Notifier.
func NewNotifier(log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{log: log}
}

// Subscribe registers fn and returns the matching unsubscribe function.
// Listeners are invoked in subscription order.
func (n *Notifier) Subscribe(fn Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.next++
	id := n.next
	n.subs = append(n.subs, subscriber{id: id, fn: fn})

	return func() { n.remove(id) }
}

func (n *Notifier) remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Publish synchronously delivers ev to every current subscriber, in order.
// A panicking listener does not stop delivery to the rest.
func (n *Notifier) Publish(ev Event) {
	n.mu.Lock()
	subs := append([]subscriber(nil), n.subs...)
	n.mu.Unlock()

	for _, s := range subs {
		n.deliver(s, ev)
	}
}

func (n *Notifier) deliver(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("auth.listener_panic",
				"event", string(ev.Type),
				"role", string(ev.Role),
				"panic", r,
			)
		}
	}()
	s.fn(ev)
}
