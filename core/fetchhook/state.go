// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fetchhook

// State is the lifecycle stage of a Hook.
type State int

const (
	// StateLoading is the initial state. It lasts until the fetch settles.
	StateLoading State = iota

	// StateSucceeded means the fetch produced a non-empty value.
	StateSucceeded

	// StateFailed means the fetch returned an error or an empty value.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a snapshot of a Hook.
//
// Data is only meaningful when State is StateSucceeded and Err only when State is StateFailed.
type Outcome[T any] struct {
	State State
	Data  T
	Err   error
}

// Loading reports whether the fetch is still in flight.
func (o Outcome[T]) Loading() bool {
	return o.State == StateLoading
}

// Message returns the failure message shown to users, or "".
func (o Outcome[T]) Message() string {
	if o.State != StateFailed || o.Err == nil {
		return ""
	}

	return o.Err.Error()
}

// Value returns the data and whether the fetch succeeded.
func (o Outcome[T]) Value() (T, bool) {
	return o.Data, o.State == StateSucceeded
}

// Loading returns the outcome of a fetch that has not settled.
func Loading[T any]() Outcome[T] {
	return Outcome[T]{State: StateLoading}
}

// Succeeded returns a successful outcome holding data.
func Succeeded[T any](data T) Outcome[T] {
	return Outcome[T]{State: StateSucceeded, Data: data}
}

// Failed returns a failed outcome.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{State: StateFailed, Err: err}
}
