// Package impstub provides call-recording test stubs for Go interfaces.
// Stubs are generated by the stubgen command; this package holds the per-method recorders they are built from.
//
// This is the public API entry point. Implementation lives in internal/core.
package impstub

import (
	"github.com/toejough/impstub/internal/core"
)

// ArgWatching records the arguments of every invocation and returns a canned value.
type ArgWatching[R, A any] = core.ArgWatching[R, A]

// CallWatcher is the query surface every recording flavor shares.
type CallWatcher = core.CallWatcher

// Error is the value stubs panic with, and the error stubgen reports for bad declarations.
type Error = core.Error

// Intercepting runs a side-effect function on every invocation, then counts it and returns a canned value.
type Intercepting[R, A any] = core.Intercepting[R, A]

// Kind classifies a stub failure.
type Kind = core.Kind

// Kind values re-exported from internal/core.
const (
	KindUnprogrammedInvocation = core.KindUnprogrammedInvocation
	KindUnstubbedInvocation    = core.KindUnstubbedInvocation
	KindUnsupportedReceiver    = core.KindUnsupportedReceiver
	KindDuplicateMethod        = core.KindDuplicateMethod
	KindShapeMismatch          = core.KindShapeMismatch
)

// NoStub marks a method that fails the test if it is ever invoked.
type NoStub = core.NoStub

// Receiver describes how a method takes its receiver.
type Receiver = core.Receiver

// Receiver values re-exported from internal/core.
const (
	ReceiverShared    = core.ReceiverShared
	ReceiverMutable   = core.ReceiverMutable
	ReceiverConsuming = core.ReceiverConsuming
	ReceiverStatic    = core.ReceiverStatic
)

// ReturnStubber is implemented by every recorder that can be programmed with a canned return.
type ReturnStubber[R any] = core.ReturnStubber[R]

// Simple records how many times a method was invoked and returns a canned value.
type Simple[R any] = core.Simple[R]

// Unit is the argument log entry for methods without parameters and the return value for methods without results.
type Unit = core.Unit

// Exported variables.
var (
	ErrUnprogrammedInvocation = core.ErrUnprogrammedInvocation
	ErrUnstubbedInvocation    = core.ErrUnstubbedInvocation
	ErrUnsupportedReceiver    = core.ErrUnsupportedReceiver
	ErrDuplicateMethod        = core.ErrDuplicateMethod
	ErrShapeMismatch          = core.ErrShapeMismatch
)

// Clone returns a deep copy of val. Generated stubs use it for arguments declared with the clone policy.
func Clone[T any](val T) T {
	return core.Clone(val)
}

// NewArgWatching returns an empty ArgWatching recorder.
func NewArgWatching[R, A any]() *ArgWatching[R, A] {
	return core.NewArgWatching[R, A]()
}

// NewIntercepting returns an empty Intercepting recorder.
func NewIntercepting[R, A any]() *Intercepting[R, A] {
	return core.NewIntercepting[R, A]()
}

// NewSimple returns an empty Simple recorder.
func NewSimple[R any]() *Simple[R] {
	return core.NewSimple[R]()
}

// ParseReceiver converts a declaration keyword into a Receiver.
func ParseReceiver(name string) (Receiver, error) {
	return core.ParseReceiver(name)
}

// Unprogrammed builds the failure for a call made before Returns.
func Unprogrammed(method string) *Error {
	return core.Unprogrammed(method)
}

// Unstubbed builds the failure for a call to a NoStub method.
func Unstubbed(method string, recv Receiver) *Error {
	return core.Unstubbed(method, recv)
}
