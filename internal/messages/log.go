package messages

import "sync"

// Observer is notified of every message appended to a Log.
type Observer interface {
	Observe(seq int, message string)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(seq int, message string)

func (f ObserverFunc) Observe(seq int, message string) { f(seq, message) }

// Log is an ordered, append-only list of human readable messages. It is safe for
// concurrent use; entries land in the order Add calls acquire the lock.
type Log struct {
	mu        sync.RWMutex
	messages  []string
	seq       int
	observers []Observer
}

// New returns an empty Log that notifies the given observers.
func New(observers ...Observer) *Log {
	l := &Log{}
	for _, o := range observers {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
	return l
}

// Add appends message and then notifies observers outside the lock.
func (l *Log) Add(message string) {
	l.mu.Lock()
	l.messages = append(l.messages, message)
	l.seq++
	seq := l.seq
	observers := l.observers
	l.mu.Unlock()

	for _, o := range observers {
		o.Observe(seq, message)
	}
}

// Messages returns a copy of the log in insertion order.
func (l *Log) Messages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Clear empties the visible list. Sequence numbers keep growing.
func (l *Log) Clear() {
	l.mu.Lock()
	l.messages = nil
	l.mu.Unlock()
}
