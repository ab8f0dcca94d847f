package jrpcclient

import "context"

// Call is a single in-flight or already-resolved RPC call with a result of
// type R. Values are created by [Go] and consumed exactly once: drive the
// call to completion with [Call.Wait], or poll it under your own scheduler
// with [Call.Poll], then stop.
//
// Driving a call that has already terminally resolved is a programming error
// and panics; a well-behaved caller never does it. Abandoning a call without
// driving it is allowed and simply discards the outcome.
//
// A Call is owned by one consumer, it must not be driven from multiple
// goroutines.
type Call[R any] struct {
	id  uint64
	op  <-chan SendResult
	err error // Terminal pre-dispatch failure, set instead of op.

	done bool
}

// ID returns the request id allocated by the transport for this call. It is
// zero when the call failed before an id was used on the wire, which only
// happens on serialization failures.
func (c *Call[R]) ID() uint64 { return c.id }

// Wait drives the call to completion on the current goroutine and returns
// the final result or error. Cancelling ctx abandons the call: Wait returns
// a [TransportError] wrapping ctx.Err() and the eventual transport outcome
// is discarded.
func (c *Call[R]) Wait(ctx context.Context) (R, error) {
	var zero R

	if c.done {
		panic("jrpcclient: call driven after completion")
	}

	if c.err != nil {
		c.done = true

		return zero, c.err
	}

	select {
	case res := <-c.op:
		c.done = true

		return c.finish(res)
	case <-ctx.Done():
		c.done = true

		return zero, &TransportError{Err: ctx.Err()}
	}
}

// Poll drives the call without blocking. While the transport operation is
// not yet ready, Poll reports ready == false and the call stays pending;
// once it is ready, Poll resolves the call and returns the final result or
// error with ready == true. After a ready Poll the call is consumed.
func (c *Call[R]) Poll() (result R, ready bool, err error) {
	var zero R

	if c.done {
		panic("jrpcclient: call driven after completion")
	}

	if c.err != nil {
		c.done = true

		return zero, true, c.err
	}

	select {
	case res := <-c.op:
		c.done = true

		result, err = c.finish(res)

		return result, true, err
	default:
		return zero, false, nil
	}
}

// finish classifies the transport outcome: a transport failure becomes a
// [TransportError], response bytes go through the response parser.
func (c *Call[R]) finish(res SendResult) (R, error) {
	var result R

	if res.Err != nil {
		return result, &TransportError{Err: res.Err}
	}

	if err := decodeResponse(res.Data, c.id, &result); err != nil {
		return result, err
	}

	return result, nil
}

// failedCall creates a call that is already terminally failed with err.
// Driving it yields err once, a second drive panics.
func failedCall[R any](err error) *Call[R] {
	return &Call[R]{err: err}
}
