package core

// Intercepting runs a side-effect function on every invocation, then counts it and returns a canned value.
//
// The interceptor receives the same argument shape ArgWatching logs: Unit, the bare
// parameter, or a generated Args struct. Pointer parameters reach the interceptor as
// pointers. The zero value is ready to use. An Intercepting must not be shared between
// goroutines.
type Intercepting[R, A any] struct {
	callCounter

	ret         cannedReturn[R]
	interceptor func(A)
}

// NewIntercepting returns an empty Intercepting recorder.
func NewIntercepting[R, A any]() *Intercepting[R, A] {
	return &Intercepting[R, A]{}
}

// Call runs the interceptor with args, counts the invocation of method and returns the canned value.
//
// It panics with an UnprogrammedInvocation *Error if Returns was never called, without running
// the interceptor. A panic raised by the interceptor propagates unchanged and the invocation is
// not counted.
func (i *Intercepting[R, A]) Call(method string, args A) R {
	val := i.ret.get(method)

	if i.interceptor != nil {
		i.interceptor(args)
	}

	i.increment()

	return val
}

// HasInterceptor reports whether an interceptor was set.
func (i *Intercepting[R, A]) HasInterceptor() bool {
	return i.interceptor != nil
}

// Returns sets the value every later invocation returns. The last call wins.
func (i *Intercepting[R, A]) Returns(val R) {
	i.ret.store(val)
}

// SetInterceptor sets the function run on every later invocation. The last call wins.
func (i *Intercepting[R, A]) SetInterceptor(interceptor func(A)) {
	i.interceptor = interceptor
}
