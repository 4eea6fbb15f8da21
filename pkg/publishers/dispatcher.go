package publishers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/samber/lo"
)

const (
	defaultDeliveryTimeout = 5 * time.Second
	defaultMaxPending      = 1024
)

// Broadcaster delivers one event to every configured sink. *Fanout implements it.
type Broadcaster interface {
	Publish(ctx context.Context, evt Event) (int, error)
}

// DispatcherOptions tunes a Dispatcher.
type DispatcherOptions struct {
	// DeliveryTimeout bounds each Publish on the broadcaster.
	DeliveryTimeout time.Duration
	// MaxPending caps buffered events; events beyond it are dropped with a warning.
	MaxPending int
	Log        logger.Logger
}

// Dispatcher publishes events from a single background goroutine so producers never wait on
// sinks. Events are released in Sequence order starting at 1, even when producers enqueue them
// out of order; a dropped event does not hold back the ones after it.
type Dispatcher struct {
	target     Broadcaster
	timeout    time.Duration
	maxPending int
	log        logger.Logger

	mu      sync.Mutex
	next    int
	pending map[int]Event
	skipped map[int]struct{}
	ready   []Event
	closed  bool

	wake   chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher starts the delivery goroutine. Close must be called to stop it.
func NewDispatcher(target Broadcaster, opts DispatcherOptions) *Dispatcher {
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = defaultMaxPending
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		target:     target,
		timeout:    opts.DeliveryTimeout,
		maxPending: opts.MaxPending,
		log:        logger.Ensure(opts.Log),
		next:       1,
		pending:    make(map[int]Event),
		skipped:    make(map[int]struct{}),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	go d.run()
	return d
}

// Enqueue hands evt to the delivery goroutine without blocking. It reports false when the
// event was dropped because the dispatcher is closed or full.
func (d *Dispatcher) Enqueue(evt Event) bool {
	d.mu.Lock()
	closed := d.closed
	// The awaited event is always taken; it is what frees the buffer.
	accepted := !closed && (evt.Sequence == d.next || len(d.pending)+len(d.ready) < d.maxPending)
	switch {
	case closed:
	case !accepted:
		if evt.Sequence >= d.next {
			d.skipped[evt.Sequence] = struct{}{}
			d.advanceLocked()
		}
	case evt.Sequence < d.next:
		d.ready = append(d.ready, evt)
	default:
		d.pending[evt.Sequence] = evt
		d.advanceLocked()
	}
	d.mu.Unlock()

	if !accepted {
		d.log.WarnObj("event dropped", "dispatch_meta", map[string]any{
			"sequence": evt.Sequence,
			"closed":   closed,
		})
		return false
	}
	d.signal()
	return true
}

// Close stops accepting events and waits until everything buffered has been delivered or
// ctx is done. On ctx expiry in-flight deliveries are cancelled and the rest are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		// Nothing can fill the gaps any more.
		keys := lo.Keys(d.pending)
		sort.Ints(keys)
		for _, k := range keys {
			d.ready = append(d.ready, d.pending[k])
		}
		d.pending = make(map[int]Event)
	}
	d.mu.Unlock()
	d.signal()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return fmt.Errorf("drain publish queue: %w", ctx.Err())
	}
}

// advanceLocked moves the contiguous run starting at next into ready.
func (d *Dispatcher) advanceLocked() {
	for {
		if evt, ok := d.pending[d.next]; ok {
			delete(d.pending, d.next)
			d.ready = append(d.ready, evt)
		} else if _, ok := d.skipped[d.next]; ok {
			delete(d.skipped, d.next)
		} else {
			return
		}
		d.next++
	}
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		batch := d.ready
		d.ready = nil
		finished := d.closed && len(d.pending) == 0
		d.mu.Unlock()

		for _, evt := range batch {
			d.deliver(evt)
		}
		if finished && len(batch) == 0 {
			return
		}
		if len(batch) == 0 {
			<-d.wake
		}
	}
}

func (d *Dispatcher) deliver(evt Event) {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	delivered, err := d.target.Publish(ctx, evt)
	if err != nil {
		d.log.WarnObj("event publish failed", "dispatch_meta", map[string]any{
			"sequence":  evt.Sequence,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	d.log.DebugObj("event published", "dispatch_meta", map[string]any{
		"sequence":  evt.Sequence,
		"delivered": delivered,
	})
}
