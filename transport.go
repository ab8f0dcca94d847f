package jrpcclient

// SendResult is the terminal value of a transport send operation: either the
// raw response bytes for the call, or the transport-specific error that
// prevented them from being delivered. Exactly one of Data and Err is set.
type SendResult struct {
	Data []byte // Raw response bytes, valid when Err is nil.
	Err  error  // Transport-specific failure, nil on success.
}

// Transport is the capability a byte-level transport must provide to carry
// JSON-RPC calls. Implementations exist for HTTP, WebSocket and in-process
// dispatch, see the httptransport, wstransport and localtransport packages.
//
// A single Transport instance may be shared by many concurrent calls: Send
// must be safe to invoke while other sends on the same instance are still
// outstanding, and each returned channel must be independent. Matching
// concurrent responses to requests (for example via the id each call
// allocated) is the transport's job, not the core's.
type Transport interface {
	// NextID returns an id that has not been returned before by this
	// transport instance. It is used to fill in the "id" field of a request.
	// Uniqueness is only required per instance, not globally.
	NextID() uint64

	// Send begins sending data and returns a channel that resolves exactly
	// once with the raw response bytes or a transport error. Send itself
	// must not block on network activity.
	Send(data []byte) <-chan SendResult
}
