package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Fanout delivers each event to every publisher concurrently.
type Fanout struct {
	publishers []Publisher
}

// NewFanout skips nil entries.
func NewFanout(pubs []Publisher) *Fanout {
	return &Fanout{publishers: lo.Compact(pubs)}
}

// Publish waits for every publisher and returns how many accepted the event, together with
// the joined failures of the rest. One failing sink never cancels the others.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	failures := make([]error, len(f.publishers))
	var g errgroup.Group
	for i, p := range f.publishers {
		g.Go(func() error {
			if err := p.Publish(ctx, evt); err != nil {
				failures[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := lo.Compact(failures)
	return len(f.publishers) - len(failed), errors.Join(failed...)
}

// Close releases every publisher, joining the errors.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}
