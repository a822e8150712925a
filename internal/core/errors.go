package core

import (
	"errors"
	"fmt"
)

// Kind classifies a stub failure.
type Kind int

// Kind values.
const (
	// KindUnprogrammedInvocation means a recorder was called before Returns.
	KindUnprogrammedInvocation Kind = iota + 1
	// KindUnstubbedInvocation means a NoStub method was called.
	KindUnstubbedInvocation
	// KindUnsupportedReceiver means a consuming or static method was given a recording flavor.
	KindUnsupportedReceiver
	// KindDuplicateMethod means two entries declared the same method name.
	KindDuplicateMethod
	// KindShapeMismatch means two declarations of a method disagree on arity or types.
	KindShapeMismatch
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnprogrammedInvocation:
		return "UnprogrammedInvocation"
	case KindUnstubbedInvocation:
		return "UnstubbedInvocation"
	case KindUnsupportedReceiver:
		return "UnsupportedReceiver"
	case KindDuplicateMethod:
		return "DuplicateMethod"
	case KindShapeMismatch:
		return "ShapeMismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the value stubs panic with, and the error the generator reports at synthesis time.
type Error struct {
	Kind     Kind
	Method   string
	Receiver Receiver
	// Detail is appended to synthesis-time messages. Call-time messages never carry it.
	Detail string
}

// Error returns the message for the failure. Call-time messages are fixed so tests can assert on them.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnprogrammedInvocation:
		return fmt.Sprintf("#returns was not called on [%s] prior to invocation", e.Method)
	case KindUnstubbedInvocation:
		switch e.Receiver {
		case ReceiverStatic:
			return fmt.Sprintf(
				"Method [%s] was not stubbed and static methods cannot currently be stubbed", e.Method,
			)
		case ReceiverConsuming:
			return fmt.Sprintf(
				"Method [%s] was not stubbed and self-consuming methods cannot currently be stubbed", e.Method,
			)
		default:
			return fmt.Sprintf("Method [%s] was not stubbed", e.Method)
		}
	case KindUnsupportedReceiver:
		return fmt.Sprintf(
			"method [%s] has a %s receiver and can only be declared nostub", e.Method, e.Receiver,
		) + e.suffix()
	case KindDuplicateMethod:
		return fmt.Sprintf("method [%s] is declared more than once", e.Method) + e.suffix()
	case KindShapeMismatch:
		return fmt.Sprintf("method [%s] has mismatched declarations", e.Method) + e.suffix()
	default:
		return fmt.Sprintf("stub failure on [%s]", e.Method) + e.suffix()
	}
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]

	return ok && sentinel == target
}

func (e *Error) suffix() string {
	if e.Detail == "" {
		return ""
	}

	return ": " + e.Detail
}

// NewSynthesisError builds the error the generator reports for a bad declaration.
func NewSynthesisError(kind Kind, method string, recv Receiver, detail string) *Error {
	return &Error{Kind: kind, Method: method, Receiver: recv, Detail: detail}
}

// Unprogrammed builds the failure for a call made before Returns.
func Unprogrammed(method string) *Error {
	return &Error{Kind: KindUnprogrammedInvocation, Method: method}
}

// Unstubbed builds the failure for a call to a NoStub method.
func Unstubbed(method string, recv Receiver) *Error {
	return &Error{Kind: KindUnstubbedInvocation, Method: method, Receiver: recv}
}

// Exported variables.
var (
	ErrUnprogrammedInvocation = errors.New("unprogrammed invocation")
	ErrUnstubbedInvocation    = errors.New("unstubbed invocation")
	ErrUnsupportedReceiver    = errors.New("unsupported receiver")
	ErrDuplicateMethod        = errors.New("duplicate method")
	ErrShapeMismatch          = errors.New("shape mismatch")
)

// unexported variables.
var (
	//nolint:gochecknoglobals // fixed lookup table
	sentinels = map[Kind]error{
		KindUnprogrammedInvocation: ErrUnprogrammedInvocation,
		KindUnstubbedInvocation:    ErrUnstubbedInvocation,
		KindUnsupportedReceiver:    ErrUnsupportedReceiver,
		KindDuplicateMethod:        ErrDuplicateMethod,
		KindShapeMismatch:          ErrShapeMismatch,
	}
)
