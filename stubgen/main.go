// stubgen generates call-recording stubs for Go interfaces.
// To use it, install it with `go install github.com/toejough/impstub/stubgen@latest`
// and add a `//go:generate stubgen <Interface> [<Interface>...]` comment next to your tests. Every method is backed by
// an ArgWatching recorder unless a flag says otherwise: --simple, --intercept and --nostub take comma separated method
// names. Add `--name <Composite>` to name the generated struct, which otherwise is <Interface>Stub.
// For full control, list composites and bindings in a YAML or TOML file and run `stubgen --config <file>`.
// The stub is written to generated_<Composite>.go, or generated_<Composite>_test.go in test packages.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/sierrasoftworks/humane-errors-go"

	"github.com/toejough/impstub"
	"github.com/toejough/impstub/stubgen/run"
	load "github.com/toejough/impstub/stubgen/run/2_load"
	output "github.com/toejough/impstub/stubgen/run/6_output"
)

// main is the entry point of the stubgen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		report(os.Stderr, explain(err))
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements run.PackageLoader by parsing package source with dst.
type realPackageLoader struct{}

// Load loads a package by import path and returns its DST files and FileSet.
func (pl *realPackageLoader) Load(importPath string) (*load.Package, error) {
	pkg, err := load.PackageDST(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return pkg, nil
}

// explain attaches advice for the failures a stubgen user can act on.
func explain(err error) humane.Error {
	switch {
	case errors.Is(err, arg.ErrHelp):
		return humane.Wrap(err, "stubgen <Interface>... [--name NAME] [--simple M,...] [--intercept M,...] [--nostub M,...]",
			"run `stubgen --config stubs.yaml` to declare composites and bindings in a file")
	case errors.Is(err, impstub.ErrShapeMismatch):
		return humane.Wrap(err, "declarations disagree",
			"make the composite entry, the binding entry and the interface agree on argument and result types")
	case errors.Is(err, impstub.ErrUnsupportedReceiver):
		return humane.Wrap(err, "unsupported receiver",
			"consuming and static methods can only be declared nostub")
	case errors.Is(err, impstub.ErrDuplicateMethod):
		return humane.Wrap(err, "duplicate method",
			"declare each method once per composite and bind it the same way in every interface")
	case errors.Is(err, output.ErrStale):
		return humane.Wrap(err, "generated stubs are out of date", "run `go generate ./...` and commit the result")
	default:
		return humane.Wrap(err, "stub generation failed",
			"check the interface names and the declaration file", "rerun with --verbose to see each step")
	}
}

// report prints err to w, highlighting the message.
func report(w io.Writer, err humane.Error) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintln(w, "Error:")
	_, _ = fmt.Fprintln(w, err.Display())
}
