package events

import (
	"context"
	"errors"
)

// Fanout publishes every event to each of its publishers.
type Fanout []Publisher

// NewFanout keeps only the non-nil publishers. It returns nil when none
// are left so callers can test the result against nil.
func NewFanout(publishers ...Publisher) Publisher {
	var out Fanout
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
