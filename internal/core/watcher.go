package core

// CallWatcher is the query surface every recording flavor shares.
type CallWatcher interface {
	CallCount() int
	WasCalled() bool
	WasCalledOnce() bool
	WasCalledNTimes(n int) bool
}

// ReturnStubber is implemented by every recorder that can be programmed with a canned return.
type ReturnStubber[R any] interface {
	Returns(val R)
}

// Unit is the argument log entry for methods without parameters and the return value for methods without results.
type Unit = struct{}

// callCounter implements CallWatcher over a plain count.
type callCounter struct {
	count int
}

// CallCount returns the number of successful invocations.
func (c *callCounter) CallCount() int {
	return c.count
}

// WasCalled reports whether there was at least one invocation.
func (c *callCounter) WasCalled() bool {
	return c.count != 0
}

// WasCalledNTimes reports whether there were exactly n invocations.
func (c *callCounter) WasCalledNTimes(n int) bool {
	return c.count == n
}

// WasCalledOnce reports whether there was exactly one invocation.
func (c *callCounter) WasCalledOnce() bool {
	return c.count == 1
}

func (c *callCounter) increment() {
	c.count++
}

// cannedReturn holds an optional return value.
type cannedReturn[R any] struct {
	val R
	set bool
}

// get returns a copy of the canned value, panicking with an UnprogrammedInvocation error when none was set.
func (r *cannedReturn[R]) get(method string) R {
	if !r.set {
		panic(Unprogrammed(method))
	}

	return r.val
}

func (r *cannedReturn[R]) store(val R) {
	r.val = val
	r.set = true
}
