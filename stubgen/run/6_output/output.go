// Package output names, orders and writes generated stub files.
package output

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// FileSystem reads and writes generated files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// CheckGeneratedCode compares code with the file WriteGeneratedCode would write.
// On drift it prints a unified diff to out and returns ErrStale.
func CheckGeneratedCode(
	code string, compositeName string, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer,
) error {
	filename := Filename(compositeName, pkgName, getEnv)
	want := reordered(code, filename, out)

	current, err := fileSys.ReadFile(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	if string(current) == want {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", filename)

		return nil
	}

	_, _ = fmt.Fprint(out, textdiff.Unified(filename+" (on disk)", filename+" (generated)", string(current), want))

	return fmt.Errorf("%w: %s", ErrStale, filename)
}

// Filename returns generated_<composite>.go, or generated_<composite>_test.go when generating for a test.
func Filename(compositeName string, pkgName string, getEnv func(string) string) string {
	// Both blackbox (package xxx_test) and whitebox (package xxx in xxx_test.go) tests get a test file.
	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(getEnv("GOFILE"), "_test.go")
	if isTestFile {
		return "generated_" + compositeName + "_test.go"
	}

	return "generated_" + compositeName + ".go"
}

// WriteGeneratedCode writes the generated code to the file named by Filename.
func WriteGeneratedCode(
	code string, compositeName string, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer,
) error {
	const generatedFilePermissions = 0o600

	filename := Filename(compositeName, pkgName, getEnv)

	err := fileSys.WriteFile(filename, []byte(reordered(code, filename, out)), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

// Exported variables.
var (
	// ErrStale is returned by CheckGeneratedCode when the file on disk differs from the generated code.
	ErrStale = errors.New("generated code is out of date")
)

// reordered puts declarations in project order, falling back to code when it does not parse or reordering fails.
func reordered(code string, filename string, out io.Writer) string {
	_, err := parser.ParseFile(token.NewFileSet(), filename, code, parser.ParseComments)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	result, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	return result
}
