package app

import (
	"github.com/Adda-Baaj/tour-of-heroes/pkg/publishers"
)

// eventQueue is the part of publishers.Dispatcher the observer uses.
type eventQueue interface {
	Enqueue(evt publishers.Event) bool
}

// publishObserver turns message-log entries into events. Enqueue never blocks, so a slow sink
// cannot delay the operation that logged the message.
type publishObserver struct {
	source string
	queue  eventQueue
}

func (o *publishObserver) Observe(seq int, message string) {
	o.queue.Enqueue(publishers.NewEvent(o.source, seq, message))
}
