// Package run implements the main logic for the stubgen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	decl "github.com/toejough/impstub/stubgen/run/1_decl"
	load "github.com/toejough/impstub/stubgen/run/2_load"
	generate "github.com/toejough/impstub/stubgen/run/5_generate"
	output "github.com/toejough/impstub/stubgen/run/6_output"
)

// Interfaces - Public

// FileSystem reads declaration files and reads or writes generated files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader loads a package by import path. "." is the package go:generate runs in.
type PackageLoader interface {
	Load(importPath string) (*load.Package, error)
}

// Functions - Public

// Run executes the stubgen tool logic. It takes command-line arguments, an environment variable getter, a FileSystem
// for file operations, a PackageLoader for package operations and a writer for progress output. It returns an error if
// any step fails. On success, it writes one generated_<Composite>.go file per composite, in the calling package.
//
// With interface names as positional arguments, one composite is derived from the interfaces' methods. With --config,
// composites and bindings are read from a declaration file.
func Run(
	args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer,
) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	logger := newLogger(parsed.Verbose, out)

	defer func() { _ = logger.Sync() }()

	gen := &generator{
		args:    parsed,
		getEnv:  getEnv,
		fileSys: fileSys,
		loader:  pkgLoader,
		out:     out,
		logger:  logger,
	}

	switch {
	case parsed.Config != "" && len(parsed.Interfaces) > 0:
		return errConfigWithInterfaces
	case parsed.Config != "":
		return gen.fromConfig()
	case len(parsed.Interfaces) > 0:
		return gen.fromFlags()
	default:
		return errNoInterfaces
	}
}

// Structs - Private

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interfaces  []string `arg:"positional"    help:"interfaces to bind (e.g. Trait or pkg.Trait)"`
	Name        string   `arg:"--name"        help:"composite name (defaults to <first interface>Stub)"`
	Config      string   `arg:"--config"      help:"declaration file (.yaml, .yml or .toml) listing composites and bindings"`
	Package     string   `arg:"--package"     help:"package of the generated code when GOPACKAGE is unset"`
	Default     string   `arg:"--default"     help:"flavor of methods no flavor flag names"                                 default:"argwatching"`
	Simple      []string `arg:"--simple"      help:"methods backed by a Simple recorder (comma separated)"`
	ArgWatching []string `arg:"--argwatching" help:"methods backed by an ArgWatching recorder (comma separated)"`
	Intercept   []string `arg:"--intercept"   help:"methods backed by an Intercepting recorder (comma separated)"`
	NoStub      []string `arg:"--nostub"      help:"methods that panic when called (comma separated)"`
	Clone       []string `arg:"--clone"       help:"ArgWatching methods whose arguments are deep-copied when recorded"`
	Mutable     []string `arg:"--mutable"     help:"methods implemented on a pointer receiver"`
	Check       bool     `arg:"--check"       help:"fail if the generated files on disk are out of date instead of writing them"`
	Verbose     bool     `arg:"-v,--verbose"  help:"log each generation step"`
}

// generator carries one stubgen invocation through the pipeline.
type generator struct {
	args    cliArgs
	getEnv  func(string) string
	fileSys FileSystem
	loader  PackageLoader
	out     io.Writer
	logger  *zap.Logger
}

// emit generates and writes (or checks) every composite in file.
// resolved maps each binding, by index into file.Bindings, to its interface reference and imports.
func (g *generator) emit(file decl.File, resolved []resolvedBinding) error {
	err := decl.Validate(file)
	if err != nil {
		return fmt.Errorf("invalid declarations: %w", err)
	}

	var stale []string

	for _, composite := range file.Composites {
		input := generate.Input{Package: file.Package, Composite: composite}
		input.Imports = append(input.Imports, file.Imports...)

		for i, binding := range file.Bindings {
			if binding.Composite != composite.Name {
				continue
			}

			input.Bindings = append(input.Bindings, generate.Binding{Binding: binding, Ref: resolved[i].ref})
			input.Imports = append(input.Imports, resolved[i].imports...)
		}

		code, err := generate.Composite(input)
		if err != nil {
			return fmt.Errorf("composite %s: %w", composite.Name, err)
		}

		g.logger.Debug("generated composite",
			zap.String("composite", composite.Name),
			zap.Int("fields", len(composite.Methods)),
			zap.Int("bindings", len(input.Bindings)),
		)

		if g.args.Check {
			err = output.CheckGeneratedCode(code, composite.Name, file.Package, g.getEnv, g.fileSys, g.out)
			if errors.Is(err, output.ErrStale) {
				stale = append(stale, composite.Name)

				continue
			}
		} else {
			err = output.WriteGeneratedCode(code, composite.Name, file.Package, g.getEnv, g.fileSys, g.out)
		}

		if err != nil {
			return fmt.Errorf("composite %s: %w", composite.Name, err)
		}
	}

	if len(stale) > 0 {
		return fmt.Errorf("%w: %s", output.ErrStale, strings.Join(stale, ", "))
	}

	return nil
}

// loadLocal loads the package go:generate runs in.
func (g *generator) loadLocal() (*load.Package, error) {
	local, err := g.loader.Load(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load local package: %w", err)
	}

	g.logger.Debug("loaded local package", zap.String("path", local.Path), zap.Int("files", len(local.Files)))

	return local, nil
}

// outputPackage picks the package of the generated code: GOPACKAGE, then --package, then declared, then the local
// package's name.
func (g *generator) outputPackage(local *load.Package, declared string) (string, error) {
	for _, candidate := range []string{g.getEnv("GOPACKAGE"), g.args.Package, declared} {
		if candidate != "" {
			return candidate, nil
		}
	}

	if local != nil {
		for _, file := range local.Files {
			if !strings.HasSuffix(file.Name.Name, "_test") {
				return file.Name.Name, nil
			}
		}
	}

	return "", errNoPackage
}

// resolvedBinding is how generated code refers to a bound interface.
type resolvedBinding struct {
	ref     string
	imports []decl.Import
}

// Functions - Private

func newLogger(verbose bool, out io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(out), zapcore.DebugLevel))
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "stubgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// splitNames flattens repeated and comma separated flag values.
func splitNames(values []string) []string {
	var names []string

	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	return names
}

// unexported variables.
var (
	errConfigWithInterfaces = errors.New("--config cannot be combined with interface arguments")
	errNoInterfaces         = errors.New("no interfaces given")
	errNoPackage            = errors.New("cannot tell which package to generate into")
)
