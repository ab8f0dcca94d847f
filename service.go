package jrpcclient

// DefaultSeparator is the default separator between a service prefix and a
// method name, see [Service.SetSeparator] to use a custom separator.
const DefaultSeparator = "."

// Service composes namespaced method names for a remote API. It mirrors how
// servers commonly group their methods under prefixes ("math.add",
// "math.sub"), so client-side descriptors can be declared against the group
// instead of repeating the prefix. Nested groups are created with
// [Service.Use].
//
// The zero value is a service without prefix, ready to use.
//
// Example:
//
//	math := jrpcclient.NewService("math")
//
//	var (
//	    add = jrpcclient.On[[2]int, int](math, "add") // Calls "math.add".
//	    sub = jrpcclient.On[[2]int, int](math, "sub") // Calls "math.sub".
//	)
type Service struct {
	prefix string
	sep    string
}

// NewService creates a service with the given prefix and the default
// separator. An empty prefix yields method names without prefix nor
// separator.
func NewService(prefix string) *Service {
	return &Service{prefix: prefix, sep: DefaultSeparator}
}

// SetSeparator sets the separator between the service prefix and method
// names. Defaults to [DefaultSeparator]. Subgroups created with [Service.Use]
// inherit the parent's separator.
func (s *Service) SetSeparator(sep string) {
	s.sep = sep
}

// Name returns the full wire name for method under this service's prefix.
func (s *Service) Name(method string) string {
	if s.prefix == "" {
		return method // Ignore separator if prefix is empty.
	}

	sep := s.sep
	if sep == "" {
		sep = DefaultSeparator
	}

	return s.prefix + sep + method
}

// Use creates a nested service whose methods carry both prefixes:
//
//	rpc := jrpcclient.NewService("rpc")
//
//	rpc.Use("math", func(math *jrpcclient.Service) {
//	    add = jrpcclient.On[[2]int, int](math, "add") // Calls "rpc.math.add".
//	})
func (s *Service) Use(prefix string, useS func(sub *Service)) {
	sub := NewService(s.Name(prefix))

	if s.sep != "" {
		sub.SetSeparator(s.sep) // Subgroup separators default to parent's separator.
	}

	useS(sub)
}

// On creates a typed call descriptor for a method under a service's prefix.
// It is the namespaced variant of [NewMethod].
func On[A, R any](s *Service, method string) Method[A, R] {
	return NewMethod[A, R](s.Name(method))
}
