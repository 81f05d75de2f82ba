// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package fetchhook runs a single fetch in the background and exposes its progress
as a Loading, Succeeded or Failed outcome.

A hook is bound to a context. Closing the hook cancels that context, and any result
that arrives afterwards is discarded, so a consumer that has gone away never sees
a late update.
*/
package fetchhook

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-reflect"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/core/requests"
	"codeberg.org/cssload/cssload/core/shape"
)

// FetchFunc produces the hook's value.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Hook tracks one fetch. It is safe for concurrent use.
type Hook[T any] struct {
	fetch  FetchFunc[T]
	ctx    context.Context
	cancel context.CancelFunc

	start     sync.Once
	closeDone sync.Once
	done      chan struct{}

	mu      sync.Mutex
	outcome Outcome[T]
	closed  bool
}

// New returns a hook that has not started yet. Call Start to run fetch.
func New[T any](ctx context.Context, fetch FetchFunc[T]) *Hook[T] {
	ctx, cancel := context.WithCancel(ctx)

	return &Hook[T]{
		fetch:   fetch,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		outcome: Loading[T](),
	}
}

// UseFetch starts fetch in the background and returns its hook.
func UseFetch[T any](ctx context.Context, fetch FetchFunc[T]) *Hook[T] {
	h := New(ctx, fetch)
	h.Start()

	return h
}

// Request adapts a descriptor into a FetchFunc that runs through requests.Fetch.
func Request[T any](
	c *requests.Client,
	d requests.Descriptor,
	transform requests.Transform[T],
	validators ...requests.Validator,
) FetchFunc[T] {
	return func(ctx context.Context) (T, error) {
		return requests.Fetch(ctx, c, d, transform, validators...)
	}
}

// Start launches the fetch. Only the first call has any effect.
func (h *Hook[T]) Start() {
	h.start.Do(func() {
		go h.run()
	})
}

func (h *Hook[T]) run() {
	value, err := h.fetch(h.ctx)
	h.settle(value, err)
}

func (h *Hook[T]) settle(value T, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		log.Ctx(h.ctx).Trace().Msg("Dropping result of closed fetch")

		return
	}

	if h.outcome.State != StateLoading {
		return
	}

	switch {
	case err != nil:
		h.outcome = Failed[T](err)
	case isEmpty(value):
		h.outcome = Failed[T](fmt.Errorf("fetch: %w: %T %v", requests.ErrNoData, value, value))
	default:
		h.outcome = Succeeded(value)
	}

	h.closeDone.Do(func() { close(h.done) })
}

// Outcome returns the current snapshot.
func (h *Hook[T]) Outcome() Outcome[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.outcome
}

// Done returns a channel that is closed once the hook settles or is closed.
func (h *Hook[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the hook settles, is closed, or ctx ends, then returns the snapshot.
func (h *Hook[T]) Wait(ctx context.Context) Outcome[T] {
	select {
	case <-h.done:
	case <-ctx.Done():
	}

	return h.Outcome()
}

// Close cancels the fetch. Results arriving afterwards are dropped,
// and an outcome that has already settled is left as is.
func (h *Hook[T]) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	h.closeDone.Do(func() { close(h.done) })
}

// Emptier is implemented by values that decide for themselves whether they carry data.
type Emptier interface {
	Empty() bool
}

// isEmpty reports whether v carries no data: nil, a nil pointer, map, slice or
// interface, or a zero scalar. A non-nil empty map or slice is data, and so is
// any struct or array. Parsed JSON is empty when it is null, false, 0 or "".
func isEmpty(v any) bool {
	switch r := v.(type) {
	case nil:
		return true
	case gjson.Result:
		return shape.Falsy(r)
	case *gjson.Result:
		return r == nil || shape.Falsy(*r)
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return true
		}
	}

	if e, ok := v.(Emptier); ok {
		return e.Empty()
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func,
		reflect.Struct, reflect.Array:
		return false
	default:
		return rv.IsZero()
	}
}
