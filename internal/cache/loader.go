package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader implements get-or-compute on top of a Store.
//
// Concurrent misses for the same key inside one process share a single
// compute call. Compute errors are returned and never stored. Store failures
// do not fail the call: a failed read counts as a miss and a failed write is
// reported to OnError and otherwise ignored. A caller whose context ends
// stops waiting; the shared compute keeps running for the others.
type Loader struct {
	Store   Store
	OnError func(op, key string, err error)

	group singleflight.Group
}

// NewLoader returns a Loader over store.
func NewLoader(store Store) *Loader {
	return &Loader{Store: store}
}

// Do returns the cached value for key or computes, stores and returns it.
// hit reports whether the value came from the store.
func (l *Loader) Do(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) ([]byte, error)) (value []byte, hit bool, err error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	if val, ok, err := l.Store.Get(ctx, key); err != nil {
		l.report("get", key, err)
	} else if ok {
		return val, true, nil
	}

	// The shared flight must outlive the caller that started it.
	flightCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		// A flight that finished between our miss and this call has stored it.
		if val, ok, err := l.Store.Get(flightCtx, key); err == nil && ok {
			return val, nil
		}
		val, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		if err := l.Store.Set(flightCtx, key, val, ttl); err != nil {
			l.report("set", key, err)
		}
		return val, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	}
}

func (l *Loader) report(op, key string, err error) {
	if l.OnError != nil {
		l.OnError(op, key, err)
	}
}
