// Package detect finds interfaces in parsed packages and flattens them into method declarations.
package detect

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dave/dst"
	"github.com/toejough/impstub/internal/core"
	astutil "github.com/toejough/impstub/stubgen/run/0_util"
	decl "github.com/toejough/impstub/stubgen/run/1_decl"
	load "github.com/toejough/impstub/stubgen/run/2_load"
)

// Interface is an interface flattened into method declarations, with types rendered for the output package.
type Interface struct {
	Name string
	// Ref is how the output package refers to the interface, e.g. "Store" or "store.Store".
	Ref     string
	Methods []decl.Method
	Imports []decl.Import
}

// PackageLoader loads a package by import path.
type PackageLoader interface {
	Load(importPath string) (*load.Package, error)
}

// FindInterface locates ref, either "Name" or "pkg.Name", as seen from the local package, and flattens it.
// Types are rendered for use in the package named outPkg.
func FindInterface(ref string, local *load.Package, outPkg string, loader PackageLoader) (Interface, error) {
	finder := &finder{loader: loader, imports: make(map[string]decl.Import)}

	qualifier, name, found := strings.Cut(ref, ".")
	if !found {
		name = ref
	}

	var (
		pkg   *load.Package
		alias string
	)

	if found {
		importPath := finder.importPathFor(local.Files, qualifier)

		var err error

		pkg, err = loader.Load(importPath)
		if err != nil {
			return Interface{}, fmt.Errorf("failed to load package %s: %w", importPath, err)
		}

		alias = qualifier
		finder.addImport(qualifier, importPath)
	} else {
		pkg = local
	}

	spec, file, err := findTypeSpec(pkg.Files, name)
	if err != nil {
		return Interface{}, fmt.Errorf("%s: %w", ref, err)
	}

	if !found && file.Name.Name != outPkg && pkg.Path != "" {
		// Declared in the package under test, generated into its external test package.
		alias = file.Name.Name
		finder.addImport(alias, pkg.Path)
	}

	err = finder.collect(spec, file, pkg, alias)
	if err != nil {
		return Interface{}, fmt.Errorf("%s: %w", ref, err)
	}

	ref = name
	if alias != "" {
		ref = alias + "." + name
	}

	return Interface{Name: name, Ref: ref, Methods: finder.methods, Imports: finder.sortedImports()}, nil
}

// finder accumulates the flattened method set of one interface.
type finder struct {
	loader  PackageLoader
	methods []decl.Method
	imports map[string]decl.Import
}

func (f *finder) addImport(alias, importPath string) {
	imp := decl.Import{Path: importPath}
	if alias != decl.GuessPackageName(importPath) {
		imp.Alias = alias
	}

	f.imports[importPath] = imp
}

func (f *finder) addMethod(method decl.Method) {
	for _, existing := range f.methods {
		if existing.Name == method.Name {
			return
		}
	}

	f.methods = append(f.methods, method)
}

// collect walks the method list of spec, declared in file of pkg. Types are qualified with alias.
func (f *finder) collect(spec *dst.TypeSpec, file *dst.File, pkg *load.Package, alias string) error {
	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return fmt.Errorf("%w: %s", errGenericInterface, spec.Name.Name)
	}

	iface, ok := spec.Type.(*dst.InterfaceType)
	if !ok {
		return fmt.Errorf("%w: %s", errNotInterface, spec.Name.Name)
	}

	if iface.Methods == nil {
		return nil
	}

	printer := &astutil.Printer{Qualifier: alias}

	for _, field := range iface.Methods.List {
		err := f.collectField(field, file, pkg, alias, printer)
		if err != nil {
			return err
		}
	}

	if printer.Used[alias] {
		f.addImport(alias, pkg.Path)
	}

	f.resolveUsedImports(printer.Used, file, alias)

	return nil
}

func (f *finder) collectField(
	field *dst.Field, file *dst.File, pkg *load.Package, alias string, printer *astutil.Printer,
) error {
	if len(field.Names) == 0 {
		return f.collectEmbedded(field.Type, file, pkg, alias)
	}

	funcType, ok := field.Type.(*dst.FuncType)
	if !ok {
		return nil
	}

	for _, name := range field.Names {
		f.addMethod(decl.Method{
			Name:     name.Name,
			Receiver: core.ReceiverShared,
			Signature: decl.Signature{
				Params:  fieldParams(funcType.Params, printer),
				Results: fieldParams(funcType.Results, printer),
			},
			Declared: true,
		})
	}

	return nil
}

func (f *finder) collectEmbedded(expr dst.Expr, file *dst.File, pkg *load.Package, alias string) error {
	switch typed := expr.(type) {
	case *dst.Ident:
		switch typed.Name {
		case "error":
			f.addMethod(decl.Method{
				Name:      "Error",
				Signature: decl.Signature{Results: []decl.Param{{Type: "string"}}},
				Declared:  true,
			})

			return nil
		case "any", "comparable":
			return nil
		}

		spec, embeddedFile, err := findTypeSpec(pkg.Files, typed.Name)
		if err != nil {
			return fmt.Errorf("embedded %s: %w", typed.Name, err)
		}

		return f.collect(spec, embeddedFile, pkg, alias)
	case *dst.SelectorExpr:
		pkgIdent, ok := typed.X.(*dst.Ident)
		if !ok {
			return fmt.Errorf("%w: %T", errUnsupportedEmbedded, typed.X)
		}

		importPath := f.importPathFor([]*dst.File{file}, pkgIdent.Name)

		embeddedPkg, err := f.loader.Load(importPath)
		if err != nil {
			return fmt.Errorf("failed to load embedded interface package %s: %w", importPath, err)
		}

		spec, embeddedFile, err := findTypeSpec(embeddedPkg.Files, typed.Sel.Name)
		if err != nil {
			return fmt.Errorf("embedded %s.%s: %w", pkgIdent.Name, typed.Sel.Name, err)
		}

		return f.collect(spec, embeddedFile, embeddedPkg, pkgIdent.Name)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedEmbedded, astutil.StringifyExpr(expr))
	}
}

// importPathFor finds the import bound to name in files. Names that match no import are taken as
// import paths themselves, which covers standard library packages referenced directly.
func (f *finder) importPathFor(files []*dst.File, name string) string {
	var unnamed []string

	for _, file := range files {
		for _, spec := range file.Imports {
			importPath, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}

			if spec.Name != nil {
				if spec.Name.Name == name {
					return importPath
				}

				continue
			}

			if decl.GuessPackageName(importPath) == name {
				return importPath
			}

			unnamed = append(unnamed, importPath)
		}
	}

	for _, importPath := range unnamed {
		pkg, err := f.loader.Load(importPath)
		if err == nil && len(pkg.Files) > 0 && pkg.Files[0].Name.Name == name {
			return importPath
		}
	}

	return name
}

// resolveUsedImports records an import for every package referenced from file's types.
func (f *finder) resolveUsedImports(used map[string]bool, file *dst.File, alias string) {
	for name := range used {
		if name != alias {
			f.addImport(name, f.importPathFor([]*dst.File{file}, name))
		}
	}
}

func (f *finder) sortedImports() []decl.Import {
	imports := make([]decl.Import, 0, len(f.imports))
	for _, imp := range f.imports {
		imports = append(imports, imp)
	}

	slices.SortFunc(imports, func(a, b decl.Import) int { return strings.Compare(a.Path, b.Path) })

	return imports
}

// Functions - Private

func fieldParams(fields *dst.FieldList, printer *astutil.Printer) []decl.Param {
	if fields == nil {
		return nil
	}

	var params []decl.Param

	for _, field := range fields.List {
		typeExpr := field.Type
		variadic := false

		if ellipsis, ok := typeExpr.(*dst.Ellipsis); ok {
			typeExpr = ellipsis.Elt
			variadic = true
		}

		typeStr := printer.Expr(typeExpr)

		if len(field.Names) == 0 {
			params = append(params, decl.Param{Type: typeStr, Variadic: variadic})

			continue
		}

		for _, name := range field.Names {
			paramName := name.Name
			if paramName == "_" {
				paramName = ""
			}

			params = append(params, decl.Param{Name: paramName, Type: typeStr, Variadic: variadic})
		}
	}

	return params
}

// findTypeSpec finds the type declaration called name.
func findTypeSpec(files []*dst.File, name string) (*dst.TypeSpec, *dst.File, error) {
	for _, file := range files {
		for _, declaration := range file.Decls {
			genDecl, ok := declaration.(*dst.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if ok && typeSpec.Name.Name == name {
					return typeSpec, file, nil
				}
			}
		}
	}

	return nil, nil, fmt.Errorf("%w: %s", errInterfaceNotFound, name)
}

// unexported variables.
var (
	errGenericInterface    = errors.New("generic interfaces are not supported")
	errInterfaceNotFound   = errors.New("interface not found")
	errNotInterface        = errors.New("not an interface type")
	errUnsupportedEmbedded = errors.New("unsupported embedded type")
)
