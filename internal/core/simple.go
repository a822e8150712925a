package core

// Simple records how many times a method was invoked and returns a canned value.
//
// The zero value is ready to use. A Simple must not be shared between goroutines.
type Simple[R any] struct {
	callCounter

	ret cannedReturn[R]
}

// NewSimple returns an empty Simple recorder.
func NewSimple[R any]() *Simple[R] {
	return &Simple[R]{}
}

// Call records one invocation of method and returns the canned value.
// It panics with an UnprogrammedInvocation *Error if Returns was never called.
func (s *Simple[R]) Call(method string) R {
	val := s.ret.get(method)
	s.increment()

	return val
}

// Returns sets the value every later invocation returns. The last call wins.
func (s *Simple[R]) Returns(val R) {
	s.ret.store(val)
}
