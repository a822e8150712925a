package core

import (
	"errors"
	"fmt"
	"strings"
)

// Receiver describes how a method takes its receiver.
type Receiver int

// Receiver values.
const (
	// ReceiverShared methods read the stub through a shared handle. This is the default.
	ReceiverShared Receiver = iota
	// ReceiverMutable methods take a pointer receiver.
	ReceiverMutable
	// ReceiverConsuming methods take the receiver by value. Only NoStub may use it.
	ReceiverConsuming
	// ReceiverStatic methods have no receiver at all. Only NoStub may use it.
	ReceiverStatic
)

// ParseReceiver converts a declaration keyword into a Receiver. The empty string means shared.
func ParseReceiver(name string) (Receiver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "shared":
		return ReceiverShared, nil
	case "mutable", "pointer":
		return ReceiverMutable, nil
	case "consuming", "owned":
		return ReceiverConsuming, nil
	case "static", "none":
		return ReceiverStatic, nil
	default:
		return ReceiverShared, fmt.Errorf("%w: %q", errUnknownReceiver, name)
	}
}

// GoName returns the identifier generated code uses to refer to the receiver shape.
func (r Receiver) GoName() string {
	switch r {
	case ReceiverMutable:
		return "ReceiverMutable"
	case ReceiverConsuming:
		return "ReceiverConsuming"
	case ReceiverStatic:
		return "ReceiverStatic"
	default:
		return "ReceiverShared"
	}
}

// Stubbable reports whether a recording flavor may be bound to a method with this receiver.
func (r Receiver) Stubbable() bool {
	return r == ReceiverShared || r == ReceiverMutable
}

// String returns the declaration keyword for the receiver.
func (r Receiver) String() string {
	switch r {
	case ReceiverShared:
		return "shared"
	case ReceiverMutable:
		return "mutable"
	case ReceiverConsuming:
		return "consuming"
	case ReceiverStatic:
		return "static"
	default:
		return fmt.Sprintf("Receiver(%d)", int(r))
	}
}

// unexported variables.
var (
	errUnknownReceiver = errors.New("unknown receiver shape")
)
