// Package decl holds the Compose and Bind declarations stubgen synthesizes code from.
package decl

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"regexp"
	"strings"

	"github.com/toejough/impstub/internal/core"
	astutil "github.com/toejough/impstub/stubgen/run/0_util"
)

// Binding lists the entries binding a composite to one interface.
type Binding struct {
	Composite string
	Interface string
	Methods   []Method
}

// Composite lists the recorder fields of one generated composite.
type Composite struct {
	Name    string
	Methods []Method
}

// File is a complete set of declarations for one output package.
type File struct {
	Package    string
	Imports    []Import
	Composites []Composite
	Bindings   []Binding
}

// Flavor selects the recorder a method is backed by.
type Flavor int

// Flavor values.
const (
	FlavorSimple Flavor = iota + 1
	FlavorArgWatching
	FlavorIntercepting
	FlavorNoStub
)

// Import is an import generated code needs. Alias is empty when the package name suffices.
type Import struct {
	Alias string
	Path  string
}

// Method is one Compose or Bind entry.
type Method struct {
	Name      string
	Flavor    Flavor
	Receiver  core.Receiver
	Policy    Policy
	Signature Signature
	// Declared is false when the signature is to be taken from the interface source.
	Declared bool
}

// Param is one parameter or result.
type Param struct {
	// Name is empty for unnamed parameters.
	Name string
	// Type is the normalized Go type. For a variadic parameter it is the element type.
	Type     string
	Variadic bool
}

// Policy says how ArgWatching records a parameter.
type Policy int

// Policy values.
const (
	PolicyMove Policy = iota
	PolicyClone
)

// Signature is the parameter and result list of a method.
type Signature struct {
	Params  []Param
	Results []Param
}

// Flavor

// ParseFlavor converts a declaration keyword into a Flavor.
func ParseFlavor(name string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple", "simplestub":
		return FlavorSimple, nil
	case "argwatching", "argwatchingstub", "args":
		return FlavorArgWatching, nil
	case "intercepting", "interceptingstub", "intercept":
		return FlavorIntercepting, nil
	case "nostub", "none":
		return FlavorNoStub, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownFlavor, name)
	}
}

// Records reports whether the flavor is backed by a recorder field.
func (f Flavor) Records() bool {
	return f == FlavorSimple || f == FlavorArgWatching || f == FlavorIntercepting
}

// String returns the declaration keyword for the flavor.
func (f Flavor) String() string {
	switch f {
	case FlavorSimple:
		return "simple"
	case FlavorArgWatching:
		return "argwatching"
	case FlavorIntercepting:
		return "intercepting"
	case FlavorNoStub:
		return "nostub"
	default:
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
}

// Policy

// ParsePolicy converts a declaration keyword into a Policy. The empty string means move.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "move", "owned":
		return PolicyMove, nil
	case "clone", "copy":
		return PolicyClone, nil
	default:
		return PolicyMove, fmt.Errorf("%w: %q", errUnknownPolicy, name)
	}
}

// Param

// DeclType returns the type as written in a parameter list.
func (p Param) DeclType() string {
	if p.Variadic {
		return "..." + p.Type
	}

	return p.Type
}

// ValueType returns the type of the parameter's value inside the method body.
func (p Param) ValueType() string {
	if p.Variadic {
		return "[]" + p.Type
	}

	return p.Type
}

// ParseParams parses entries like "a uint32", "uint32" or "args ...any".
func ParseParams(entries []string) ([]Param, error) {
	params := make([]Param, 0, len(entries))

	for _, entry := range entries {
		param, err := parseParam(entry)
		if err != nil {
			return nil, err
		}

		params = append(params, param)
	}

	return params, nil
}

func parseParam(entry string) (Param, error) {
	entry = strings.TrimSpace(entry)

	if name, rest, found := strings.Cut(entry, " "); found && token.IsIdentifier(name) {
		typeStr, variadic, err := astutil.NormalizeType(rest)
		if err == nil {
			if name == "_" {
				name = ""
			}

			return Param{Name: name, Type: typeStr, Variadic: variadic}, nil
		}
	}

	typeStr, variadic, err := astutil.NormalizeType(entry)
	if err != nil {
		return Param{}, fmt.Errorf("%w %q: %w", errInvalidParam, entry, err)
	}

	return Param{Type: typeStr, Variadic: variadic}, nil
}

// Signature

// Diff describes the first difference between two signatures, ignoring names.
// It returns the empty string when they agree.
func (s Signature) Diff(other Signature) string {
	if len(s.Params) != len(other.Params) {
		return fmt.Sprintf("%d parameters vs %d", len(s.Params), len(other.Params))
	}

	for i := range s.Params {
		if s.Params[i].DeclType() != other.Params[i].DeclType() {
			return fmt.Sprintf("parameter %d is %s vs %s", i+1, s.Params[i].DeclType(), other.Params[i].DeclType())
		}
	}

	if len(s.Results) != len(other.Results) {
		return fmt.Sprintf("%d results vs %d", len(s.Results), len(other.Results))
	}

	for i := range s.Results {
		if s.Results[i].Type != other.Results[i].Type {
			return fmt.Sprintf("result %d is %s vs %s", i+1, s.Results[i].Type, other.Results[i].Type)
		}
	}

	return ""
}

// String renders the signature as Go source, without parameter names.
func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, param := range s.Params {
		params[i] = param.DeclType()
	}

	results := make([]string, len(s.Results))
	for i, result := range s.Results {
		results[i] = result.Type
	}

	out := "(" + strings.Join(params, ", ") + ")"

	switch len(results) {
	case 0:
		return out
	case 1:
		return out + " " + results[0]
	default:
		return out + " (" + strings.Join(results, ", ") + ")"
	}
}

// File

// Composite returns the composite named name.
func (f File) Composite(name string) (Composite, bool) {
	for _, composite := range f.Composites {
		if composite.Name == name {
			return composite, true
		}
	}

	return Composite{}, false
}

// BindingsFor returns the bindings of the composite named name, in declaration order.
func (f File) BindingsFor(name string) []Binding {
	var bindings []Binding

	for _, binding := range f.Bindings {
		if binding.Composite == name {
			bindings = append(bindings, binding)
		}
	}

	return bindings
}

// Method returns the entry for the method named name.
func (c Composite) Method(name string) (Method, bool) {
	for _, method := range c.Methods {
		if method.Name == name {
			return method, true
		}
	}

	return Method{}, false
}

// ParseImport parses an entry like "time" or "st example.com/store".
func ParseImport(entry string) (Import, error) {
	fields := strings.Fields(entry)

	switch len(fields) {
	case 1:
		return Import{Path: strings.Trim(fields[0], `"`)}, nil
	case 2:
		if !token.IsIdentifier(fields[0]) {
			return Import{}, fmt.Errorf("%w: %q", errInvalidImport, entry)
		}

		return Import{Alias: fields[0], Path: strings.Trim(fields[1], `"`)}, nil
	default:
		return Import{}, fmt.Errorf("%w: %q", errInvalidImport, entry)
	}
}

// Name returns the identifier code uses to refer to the imported package.
func (i Import) Name() string {
	if i.Alias != "" {
		return i.Alias
	}

	return GuessPackageName(i.Path)
}

// GuessPackageName returns the package name an import path conventionally declares.
func GuessPackageName(importPath string) string {
	base := path.Base(importPath)

	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}

	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")

	if dot := strings.Index(base, "."); dot > 0 {
		base = base[:dot]
	}

	return strings.ReplaceAll(base, "-", "_")
}

// LocalInterfaceName strips any package qualifier from an interface reference.
func LocalInterfaceName(iface string) string {
	if _, name, found := strings.Cut(iface, "."); found {
		return name
	}

	return iface
}

// unexported variables.
var (
	errInvalidImport = errors.New("invalid import")
	errInvalidParam  = errors.New("invalid parameter")
	errUnknownFlavor = errors.New("unknown flavor")
	errUnknownPolicy = errors.New("unknown policy")
	majorVersion     = regexp.MustCompile(`^v[0-9]+$`)
)
