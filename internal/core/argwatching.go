package core

// ArgWatching records the arguments of every invocation and returns a canned value.
//
// A is the argument shape: Unit for methods without parameters, the bare type for a single
// parameter, and a generated Args struct otherwise. Entries are appended in invocation order
// and never rewritten. The zero value is ready to use. An ArgWatching must not be shared
// between goroutines.
type ArgWatching[R, A any] struct {
	ret     cannedReturn[R]
	history []A
}

// NewArgWatching returns an empty ArgWatching recorder.
func NewArgWatching[R, A any]() *ArgWatching[R, A] {
	return &ArgWatching[R, A]{}
}

// AlwaysCalledWithArgs reports whether every recorded invocation used args.
// It is true when there were no invocations.
func (w *ArgWatching[R, A]) AlwaysCalledWithArgs(args A) bool {
	for _, logged := range w.history {
		if !argsEqual(logged, args) {
			return false
		}
	}

	return true
}

// Call logs args for method and returns the canned value.
// It panics with an UnprogrammedInvocation *Error, logging nothing, if Returns was never called.
func (w *ArgWatching[R, A]) Call(method string, args A) R {
	val := w.ret.get(method)
	w.history = append(w.history, args)

	return val
}

// CallCount returns the number of recorded invocations.
func (w *ArgWatching[R, A]) CallCount() int {
	return len(w.history)
}

// Calls returns a copy of the recorded arguments in invocation order.
func (w *ArgWatching[R, A]) Calls() []A {
	calls := make([]A, len(w.history))
	copy(calls, w.history)

	return calls
}

// GetArgsForCall returns the arguments of the i-th invocation, counting from zero.
// The boolean is false when there was no such invocation.
func (w *ArgWatching[R, A]) GetArgsForCall(i int) (A, bool) {
	if i < 0 || i >= len(w.history) {
		var zero A

		return zero, false
	}

	return w.history[i], true
}

// NeverCalledWithArgs reports whether no recorded invocation used args.
func (w *ArgWatching[R, A]) NeverCalledWithArgs(args A) bool {
	return !w.WasCalledWithArgs(args)
}

// Returns sets the value every later invocation returns. The last call wins.
func (w *ArgWatching[R, A]) Returns(val R) {
	w.ret.store(val)
}

// WasCalled reports whether there was at least one invocation.
func (w *ArgWatching[R, A]) WasCalled() bool {
	return len(w.history) != 0
}

// WasCalledNTimes reports whether there were exactly n invocations.
func (w *ArgWatching[R, A]) WasCalledNTimes(n int) bool {
	return len(w.history) == n
}

// WasCalledOnce reports whether there was exactly one invocation.
func (w *ArgWatching[R, A]) WasCalledOnce() bool {
	return w.WasCalledNTimes(1)
}

// WasCalledWithArgs reports whether at least one recorded invocation used args.
func (w *ArgWatching[R, A]) WasCalledWithArgs(args A) bool {
	for _, logged := range w.history {
		if argsEqual(logged, args) {
			return true
		}
	}

	return false
}
