package core

// NoStub marks a method that fails the test if it is ever invoked. It holds no state.
type NoStub struct{}

// Invoke panics with an UnstubbedInvocation *Error for method.
func (NoStub) Invoke(method string, recv Receiver) {
	panic(Unstubbed(method, recv))
}
