// Package load parses Go packages into DST form.
package load

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"
)

// Package is a parsed package: its import path and every file that parsed.
type Package struct {
	Path  string
	Files []*dst.File
	Fset  *token.FileSet
}

// PackageDST loads a package by import path. "." is the current directory, test files included.
// Other packages are resolved with golang.org/x/tools/go/packages and parsed without their test files.
// Files that fail to parse are skipped.
func PackageDST(importPath string) (*Package, error) {
	dir, pkgPath, err := resolve(importPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	includeTests := importPath == "."
	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return nil, fmt.Errorf("%w: no .go files in %s", errNoPackagesFound, dir)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		dstFile, err := dec.ParseFile(goFile, nil, 0)
		if err != nil {
			continue
		}

		files = append(files, dstFile)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: failed to parse any .go files in %s", errNoPackagesFound, dir)
	}

	return &Package{Path: pkgPath, Files: files, Fset: fset}, nil
}

// resolve finds the directory and import path of a package.
func resolve(importPath string) (dir, pkgPath string, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles, Dir: cwd}

	pkgs, err := packages.Load(cfg, importPath)

	if importPath == "." {
		// PkgPath is best effort here: the directory may hold only test files or sit outside a module.
		if err == nil && len(pkgs) > 0 {
			pkgPath = pkgs[0].PkgPath
		}

		return cwd, pkgPath, nil
	}

	if err != nil {
		return "", "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	for _, pkg := range pkgs {
		if len(pkg.GoFiles) > 0 {
			return filepath.Dir(pkg.GoFiles[0]), pkg.PkgPath, nil
		}
	}

	return "", "", fmt.Errorf("%w: %q", errNoPackagesFound, importPath)
}

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
)
