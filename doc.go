// Package jrpcclient provides the transport-agnostic core of a JSON-RPC 2.0
// client: strongly typed method calls, automatic argument serialization, and
// classified errors, over any byte transport.
//   - Declare the methods of a remote API once as typed [Method] descriptors,
//     optionally namespaced with [Service].
//   - Dispatch calls over anything implementing [Transport]; HTTP, WebSocket
//     and in-process transports live in the httptransport, wstransport and
//     localtransport packages, decorators (logging, retry, rate limiting) in
//     the middleware package.
//   - Every call returns a lazy [Call] value: drive it to completion with
//     [Call.Wait], or poll it under your own scheduler with [Call.Poll].
//
// Declare a client:
//
//	var fizzBuzz = jrpcclient.NewMethod[uint64, string]("fizz_buzz")
//
//	t := httptransport.New("http://api.fizzbuzzexample.org/rpc/")
//
//	r1, err := fizzBuzz.Call(t, 3).Wait(ctx)
//	r2, err := fizzBuzz.Call(t, 4).Wait(ctx)
//	r3, err := fizzBuzz.Call(t, 5).Wait(ctx)
//
//	// Prints "fizz 4 buzz" if the server implements the service correctly.
//	fmt.Println(r1, r2, r3)
//
// Or make ad-hoc calls with [Go]:
//
//	call := jrpcclient.Go[[]string](t, "list_users", map[string]any{"active": true})
//
//	users, err := call.Wait(ctx)
//
// Errors come in four kinds, see [Error] for how to tell them apart:
//
//	var rpcErr *jrpcclient.Error
//
//	switch {
//	case errors.As(err, &rpcErr):
//	    // The server answered with a JSON-RPC error object.
//	case errors.As(err, new(*jrpcclient.TransportError)):
//	    // The transport could not deliver the call.
//	case errors.As(err, new(*jrpcclient.SerializeError)):
//	    // The arguments could not be serialized; nothing was sent.
//	case errors.As(err, new(*jrpcclient.ResponseError)):
//	    // Bytes came back, but not a well-formed response.
//	}
//
// The core never spawns goroutines, never retries, and imposes no ordering
// between concurrent calls on a shared transport: request-response
// correlation, pooling, timeouts and the like are transport concerns.
package jrpcclient
