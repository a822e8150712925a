package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toejough/impstub"
	output "github.com/toejough/impstub/stubgen/run/6_output"
)

func TestRealPackageLoader_LoadsLocalPackage(t *testing.T) {
	t.Parallel()

	pkg, err := (&realPackageLoader{}).Load(".")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if pkg.Fset == nil || len(pkg.Files) == 0 {
		t.Errorf("expected parsed files, got %+v", pkg)
	}
}

func TestRealPackageLoader_UnknownPackage(t *testing.T) {
	t.Parallel()

	_, err := (&realPackageLoader{}).Load("example.invalid/nothing/here")
	if err == nil || !strings.Contains(err.Error(), `failed to load package "example.invalid/nothing/here"`) {
		t.Errorf("expected a load error, got %v", err)
	}
}

func TestRealFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()

	name := filepath.Join(t.TempDir(), "generated_Stub.go")
	fileSys := &realFileSystem{}

	err := fileSys.WriteFile(name, []byte("package stub\n"), 0o600)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fileSys.ReadFile(name)
	if err != nil || string(data) != "package stub\n" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}

	_, err = fileSys.ReadFile(filepath.Join(t.TempDir(), "missing.go"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist through the wrapper, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantAdvice string
	}{
		{
			name:       "shape mismatch",
			err:        fmt.Errorf("binding: %w", impstub.ErrShapeMismatch),
			wantMsg:    "declarations disagree",
			wantAdvice: "agree on argument and result types",
		},
		{
			name:       "unsupported receiver",
			err:        impstub.ErrUnsupportedReceiver,
			wantMsg:    "unsupported receiver",
			wantAdvice: "only be declared nostub",
		},
		{
			name:       "duplicate method",
			err:        impstub.ErrDuplicateMethod,
			wantMsg:    "duplicate method",
			wantAdvice: "declare each method once",
		},
		{
			name:       "stale output",
			err:        output.ErrStale,
			wantMsg:    "out of date",
			wantAdvice: "go generate",
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantMsg:    "stub generation failed",
			wantAdvice: "--verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			explained := explain(tt.err)
			if !errors.Is(explained, tt.err) {
				t.Errorf("explained error should wrap %v", tt.err)
			}

			display := explained.Display()
			for _, want := range []string{tt.wantMsg, tt.wantAdvice} {
				if !strings.Contains(display, want) {
					t.Errorf("Display() missing %q:\n%s", want, display)
				}
			}
		})
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report(&buf, explain(errors.New("boom")))

	if !strings.Contains(buf.String(), "Error:") || !strings.Contains(buf.String(), "stub generation failed") {
		t.Errorf("unexpected report: %q", buf.String())
	}
}
