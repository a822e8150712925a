package core_test

import (
	"errors"
	"testing"

	"github.com/toejough/impstub/internal/core"
)

// recoverStubError runs fn and returns the *core.Error it panicked with.
// Fails the test if fn returns normally or panics with anything else.
func recoverStubError(t *testing.T, fn func()) (stubErr *core.Error) {
	t.Helper()

	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatalf("expected a panic, but the call returned")
		}

		err, ok := recovered.(error)
		if !ok || !errors.As(err, &stubErr) {
			t.Fatalf("expected a *core.Error panic, got %T: %v", recovered, recovered)
		}
	}()

	fn()

	return nil
}

// recoverValue runs fn and returns whatever it panicked with, or nil.
func recoverValue(fn func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()

	fn()

	return nil
}
