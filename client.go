package jrpcclient

// Go dispatches a call to method with the given arguments over t and returns
// the pending [Call]. It allocates the request id from the transport, builds
// the request bytes, and hands them to the transport's Send; it never blocks
// beyond what Send itself does to begin the operation.
//
// If the arguments cannot be serialized the returned call is already failed
// with a [SerializeError] and the transport is never asked to send anything.
//
// args go through the params mapping rule: a value serializing to a JSON
// array makes a positional call, an object a named call, null omits params
// entirely, and any other scalar is wrapped into a single-element array:
//
//	call := jrpcclient.Go[string](t, "fizz_buzz", 3)
//
//	s, err := call.Wait(ctx)
//
// Typed APIs are better declared once with [Method] instead of calling Go
// directly.
func Go[R any](t Transport, method string, args any) *Call[R] {
	id := t.NextID()

	data, err := encodeRequest(id, method, args)
	if err != nil {
		return failedCall[R](&SerializeError{Err: err})
	}

	return &Call[R]{id: id, op: t.Send(data)}
}
