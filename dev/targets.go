//go:build targ

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/file"
	"github.com/toejough/targ/sh"
)

// Build builds the local stubgen binary.
func Build() error {
	fmt.Println("Building stubgen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/stubgen", "./stubgen")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,
		CheckGenerated, // committed stubs must match what stubgen writes today
		Test,
		ReorderDecls,
		Lint,
	)
}

// CheckGenerated regenerates every stub and reports the ones that differ from what was on disk.
func CheckGenerated() error {
	fmt.Println("Checking generated stubs...")

	before, err := generatedFiles()
	if err != nil {
		return err
	}

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	after, err := generatedFiles()
	if err != nil {
		return err
	}

	stale := 0

	for _, name := range sortedKeys(after) {
		if before[name] == after[name] {
			continue
		}

		stale++

		fmt.Printf("\n%s\n", textdiff.Unified(name+" (committed)", name+" (generated)", before[name], after[name]))
	}

	if stale > 0 {
		return fmt.Errorf("%d generated file(s) were out of date", stale)
	}

	fmt.Printf("All %d generated file(s) are up to date.\n", len(after))

	return nil
}

// Clean removes build and test output.
func Clean() {
	fmt.Println("Cleaning...")

	_ = os.RemoveAll("bin")
	_ = os.Remove("coverage.out")
}

// Generate runs go generate on all packages using the locally-built stubgen binary.
func Generate() error {
	fmt.Println("Generating...")

	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(filepath.ListSeparator)+os.Getenv("PATH"))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "./...")
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./...", "-run=TestMutation")
}

// ReorderDecls reorders declarations in hand-written Go files.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	files, err := sourceFiles()
	if err != nil {
		return err
	}

	reordered := 0

	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		result, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", name, err)

			continue
		}

		if result == string(content) {
			continue
		}

		if err := os.WriteFile(name, []byte(result), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}

		fmt.Printf("  Reordered: %s\n", name)
		reordered++
	}

	fmt.Printf("Reordered %d file(s).\n", reordered)

	return nil
}

// Test runs the unit tests with the race detector and writes coverage.out.
func Test() error {
	fmt.Println("Running unit tests...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run(
		"go", "test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./internal/...,./stubgen/...",
		"./...",
	)
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=30s", "./...", "-failfast")
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// Watch re-runs Check whenever files change.
func Watch(ctx context.Context) error {
	fmt.Println("Watching...")

	return file.Watch(ctx, []string{"**/*.go", "**/*.yaml", "**/*.toml"}, file.WatchOptions{},
		func(changes file.ChangeSet) error {
			if !hasRelevantChanges(changes) {
				return nil
			}

			fmt.Println("Change detected...")

			targ.ResetDeps()

			if err := Check(); err != nil {
				fmt.Println("continuing to watch after check failure (see errors above)")
			} else {
				fmt.Println("continuing to watch after all checks passed!")
			}

			return nil
		})
}

// generatedFiles maps every generated_*.go file in the module to its contents.
func generatedFiles() (map[string]string, error) {
	contents := make(map[string]string)

	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() && skipDir(path) {
			return filepath.SkipDir
		}

		if entry.IsDir() || !isGeneratedName(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		contents[path] = string(data)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect generated files: %w", err)
	}

	return contents, nil
}

// hasRelevantChanges ignores the files Check writes itself.
func hasRelevantChanges(changes file.ChangeSet) bool {
	all := slices.Concat(changes.Added, changes.Removed, changes.Modified)

	return slices.ContainsFunc(all, func(name string) bool {
		return !isGeneratedName(name) && !strings.HasSuffix(name, "coverage.out")
	})
}

func hasGeneratedMarker(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 200)

	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strings.Contains(string(buf[:n]), "DO NOT EDIT"), nil
}

func isGeneratedName(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "generated_") && strings.HasSuffix(path, ".go")
}

func skipDir(path string) bool {
	base := filepath.Base(path)

	return path != "." && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// sourceFiles lists the hand-written Go files in the module.
func sourceFiles() ([]string, error) {
	var files []string

	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || isGeneratedName(path) {
			return nil
		}

		generated, err := hasGeneratedMarker(path)
		if err != nil || generated {
			return err
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find Go files: %w", err)
	}

	return files, nil
}
