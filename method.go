package jrpcclient

// Method is a typed call descriptor: a method name paired with its argument
// type A and result type R. Declaring the methods of a remote API once as
// package-level descriptors gives a strongly typed client without code
// generation:
//
//	var fizzBuzz = jrpcclient.NewMethod[uint64, string]("fizz_buzz")
//
//	s, err := fizzBuzz.Call(transport, 3).Wait(ctx)
//
// Each Call performs exactly one id allocation, one serialization and one
// dispatch.
type Method[A, R any] struct {
	// Name is the method name as it appears on the wire.
	Name string
}

// NewMethod creates a typed call descriptor for the given method name.
func NewMethod[A, R any](name string) Method[A, R] {
	return Method[A, R]{Name: name}
}

// Call dispatches the method over t with the given arguments. Equivalent to
// [Go] with the descriptor's name and types.
func (m Method[A, R]) Call(t Transport, args A) *Call[R] {
	return Go[R](t, m.Name, args)
}

// NoArgs is the argument type for methods that take no arguments. It
// serializes to JSON null, so requests carry no params field at all:
//
//	var version = jrpcclient.NewMethod[jrpcclient.NoArgs, string]("version")
//
//	v, err := version.Call(t, jrpcclient.NoArgs{}).Wait(ctx)
type NoArgs struct{}

// MarshalJSON implements json.Marshaler.
func (NoArgs) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// NoResult is the result type for methods whose result carries no useful
// information. Whatever result value the server puts in the envelope is
// accepted and discarded, the envelope must still carry one:
//
//	var reset = jrpcclient.NewMethod[jrpcclient.NoArgs, jrpcclient.NoResult]("reset")
//
//	_, err := reset.Call(t, jrpcclient.NoArgs{}).Wait(ctx)
type NoResult struct{}

// UnmarshalJSON implements json.Unmarshaler. Every value is accepted.
func (*NoResult) UnmarshalJSON([]byte) error { return nil }
