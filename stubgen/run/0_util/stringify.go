// Package astutil renders DST type expressions back to Go source text.
package astutil

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Printer renders type expressions. The zero value renders them unchanged.
type Printer struct {
	// Qualifier, when set, prefixes every exported identifier declared in the source package.
	Qualifier string
	// Used collects the package names the rendered text refers to, Qualifier included.
	Used map[string]bool
}

// Expr converts a DST expression to its string representation.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types
func (p *Printer) Expr(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return p.ident(typedExpr.Name)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		if pkg, ok := typedExpr.X.(*dst.Ident); ok {
			p.use(pkg.Name)

			return pkg.Name + "." + typedExpr.Sel.Name
		}

		return p.Expr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + p.Expr(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + p.Expr(typedExpr.Len) + "]" + p.Expr(typedExpr.Elt)
		}

		return "[]" + p.Expr(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + p.Expr(typedExpr.Key) + "]" + p.Expr(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + p.Expr(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + p.Expr(typedExpr.Value)
		default:
			return "chan " + p.Expr(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return p.interfaceType(typedExpr)
	case *dst.StructType:
		return p.structType(typedExpr)
	case *dst.FuncType:
		return "func" + p.signature(typedExpr)
	case *dst.Ellipsis:
		return "..." + p.Expr(typedExpr.Elt)
	case *dst.IndexExpr:
		return p.Expr(typedExpr.X) + "[" + p.Expr(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = p.Expr(idx)
		}

		return p.Expr(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + p.Expr(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// FieldTypes expands a field list into one type string per declared name.
// Unnamed fields contribute their type once.
func (p *Printer) FieldTypes(fields []*dst.Field) []string {
	var parts []string

	for _, f := range fields {
		typeStr := p.Expr(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

func (p *Printer) ident(name string) string {
	if p.Qualifier == "" || !IsExportedIdent(name) || IsBuiltinType(name) {
		return name
	}

	p.use(p.Qualifier)

	return p.Qualifier + "." + name
}

func (p *Printer) interfaceType(interfaceType *dst.InterfaceType) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "any"
	}

	elems := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			elems = append(elems, p.Expr(method.Type))

			continue
		}

		elems = append(elems, method.Names[0].Name+p.signature(funcType))
	}

	return "interface{ " + strings.Join(elems, "; ") + " }"
}

func (p *Printer) signature(funcType *dst.FuncType) string {
	var buf strings.Builder

	buf.WriteString("(")

	if funcType.Params != nil {
		buf.WriteString(strings.Join(p.FieldTypes(funcType.Params.List), ", "))
	}

	buf.WriteString(")")

	if funcType.Results == nil {
		return buf.String()
	}

	results := p.FieldTypes(funcType.Results.List)

	switch len(results) {
	case 0:
	case 1:
		buf.WriteString(" " + results[0])
	default:
		buf.WriteString(" (" + strings.Join(results, ", ") + ")")
	}

	return buf.String()
}

func (p *Printer) structType(structType *dst.StructType) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			names := make([]string, len(field.Names))
			for i, name := range field.Names {
				names[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(names, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(p.Expr(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" " + field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return "struct{ " + strings.Join(fields, "; ") + " }"
}

func (p *Printer) use(pkg string) {
	if p.Used == nil {
		p.Used = make(map[string]bool)
	}

	p.Used[pkg] = true
}

// Functions - Public

// IsBuiltinType reports whether name is a predeclared Go type.
func IsBuiltinType(name string) bool {
	switch name {
	case "bool", "byte", "complex64", "complex128",
		"error", "float32", "float64", "int",
		"int8", "int16", "int32", "int64",
		"rune", "string", "uint", "uint8",
		"uint16", "uint32", "uint64", "uintptr",
		"comparable", "any":
		return true
	}

	return false
}

// IsExportedIdent reports whether name starts with an upper-case letter.
func IsExportedIdent(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)

	return first != utf8.RuneError && unicode.IsUpper(first)
}

// IsTypeExpr reports whether expr can only be read as a type. Operators, calls and literals are rejected.
//
//nolint:cyclop // Type-switch over every DST type expression
func IsTypeExpr(expr dst.Expr) bool {
	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return true
	case *dst.SelectorExpr:
		_, ok := typedExpr.X.(*dst.Ident)

		return ok
	case *dst.StarExpr:
		return IsTypeExpr(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			if _, ok := typedExpr.Len.(*dst.BasicLit); !ok && !IsTypeExpr(typedExpr.Len) {
				return false
			}
		}

		return IsTypeExpr(typedExpr.Elt)
	case *dst.MapType:
		return IsTypeExpr(typedExpr.Key) && IsTypeExpr(typedExpr.Value)
	case *dst.ChanType:
		return IsTypeExpr(typedExpr.Value)
	case *dst.InterfaceType, *dst.StructType:
		return true
	case *dst.FuncType:
		return fieldsAreTypes(typedExpr.Params) && fieldsAreTypes(typedExpr.Results)
	case *dst.Ellipsis:
		return IsTypeExpr(typedExpr.Elt)
	case *dst.IndexExpr:
		return IsTypeExpr(typedExpr.X) && IsTypeExpr(typedExpr.Index)
	case *dst.IndexListExpr:
		for _, idx := range typedExpr.Indices {
			if !IsTypeExpr(idx) {
				return false
			}
		}

		return IsTypeExpr(typedExpr.X)
	case *dst.ParenExpr:
		return IsTypeExpr(typedExpr.X)
	default:
		return false
	}
}

// NormalizeType parses a type written as Go source and renders it canonically.
// A leading "..." marks a variadic parameter; it is stripped and reported separately.
func NormalizeType(typeStr string) (normalized string, variadic bool, err error) {
	typeStr = strings.TrimSpace(typeStr)

	if rest, ok := strings.CutPrefix(typeStr, "..."); ok {
		variadic = true
		typeStr = strings.TrimSpace(rest)
	}

	if typeStr == "" {
		return "", false, fmt.Errorf("%w: empty type", errInvalidType)
	}

	fset := token.NewFileSet()

	astExpr, err := parser.ParseExprFrom(fset, "", typeStr, 0)
	if err != nil {
		return "", false, fmt.Errorf("%w %q: %w", errInvalidType, typeStr, err)
	}

	node, err := decorator.Decorate(fset, astExpr)
	if err != nil {
		return "", false, fmt.Errorf("%w %q: %w", errInvalidType, typeStr, err)
	}

	expr, ok := node.(dst.Expr)
	if !ok || !IsTypeExpr(expr) {
		return "", false, fmt.Errorf("%w %q: not a type", errInvalidType, typeStr)
	}

	return StringifyExpr(expr), variadic, nil
}

// StringifyExpr converts a DST expression to its string representation without qualification.
func StringifyExpr(expr dst.Expr) string {
	return (&Printer{}).Expr(expr)
}

func fieldsAreTypes(fields *dst.FieldList) bool {
	if fields == nil {
		return true
	}

	for _, field := range fields.List {
		if !IsTypeExpr(field.Type) {
			return false
		}
	}

	return true
}

// unexported variables.
var (
	errInvalidType = errors.New("invalid type")
)
