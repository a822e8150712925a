// Package generate writes the Go source of a composite stub and its interface bindings.
package generate

import (
	"bytes"
	"fmt"
	"go/format"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toejough/impstub/internal/core"
	astutil "github.com/toejough/impstub/stubgen/run/0_util"
	decl "github.com/toejough/impstub/stubgen/run/1_decl"
)

// Binding is a decl.Binding plus the way the output package refers to its interface.
type Binding struct {
	decl.Binding

	// Ref is the interface as written in the output package, e.g. "Store" or "store.Store".
	Ref string
}

// Input is everything needed to generate one composite.
type Input struct {
	Package   string
	Composite decl.Composite
	Bindings  []Binding
	Imports   []decl.Import
}

// Composite generates the formatted source for in.Composite and all of its bindings.
// The input must already have passed decl.Validate.
func Composite(in Input) (string, error) {
	gen := &generator{in: in, templates: NewTemplateRegistry(), sections: make(map[string]*section)}

	gen.write()

	formatted, err := format.Source(gen.buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("error formatting generated code: %w\n%s", err, gen.buf.String())
	}

	return string(formatted), nil
}

// accessorData fills tmplAccessor.
type accessorData struct {
	Composite string
	Iface     string
	Ref       string
}

// compositeData fills tmplComposite.
type compositeData struct {
	Name   string
	Fields []fieldData
}

// fieldData is one struct field.
type fieldData struct {
	Name string
	Type string
}

type generator struct {
	in        Input
	templates *TemplateRegistry
	buf       bytes.Buffer
	sections  map[string]*section
}

// headerData fills tmplHeader.
type headerData struct {
	Package     string
	UsesImpstub bool
	Imports     []decl.Import
}

// methodData fills the method templates.
type methodData struct {
	Composite   string
	Name        string
	Recv        string
	RecvType    string
	Params      string
	Results     string
	ResultCount int
	CallArgs    string
	Ret         string
	Unpack      string
	Receiver    string
}

// section is one top-level type with its constructor and methods, or one package function.
type section struct {
	isFunc  bool
	head    bytes.Buffer
	methods map[string]*bytes.Buffer
}

// method returns the buffer for the method called name, creating it on first use.
func (s *section) method(name string) *bytes.Buffer {
	if s.methods[name] == nil {
		s.methods[name] = &bytes.Buffer{}
	}

	return s.methods[name]
}

// writeTo writes the head, then exported methods, then unexported ones, each by name.
func (s *section) writeTo(buf *bytes.Buffer) {
	buf.Write(s.head.Bytes())

	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}

	slices.SortFunc(names, func(a, b string) int {
		if exportedA, exportedB := astutil.IsExportedIdent(a), astutil.IsExportedIdent(b); exportedA != exportedB {
			if exportedA {
				return -1
			}

			return 1
		}

		return strings.Compare(a, b)
	})

	for _, name := range names {
		buf.Write(s.methods[name].Bytes())
	}
}

// tupleData fills tmplTuple.
type tupleData struct {
	Name   string
	Doc    string
	Fields []fieldData
}

func (g *generator) argsType(method decl.Method) string {
	params := method.Signature.Params

	switch len(params) {
	case 0:
		return "_impstub.Unit"
	case 1:
		return params[0].ValueType()
	default:
		return g.in.Composite.Name + method.Name + "Args"
	}
}

// callArgs builds the argument list of the recorder's Call for a bound method.
func (g *generator) callArgs(field, bound decl.Method, names []string) string {
	quoted := strconv.Quote(bound.Name)

	if field.Flavor == decl.FlavorSimple {
		return quoted
	}

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = name
		if field.Flavor == decl.FlavorArgWatching && bound.Policy == decl.PolicyClone {
			values[i] = "_impstub.Clone(" + name + ")"
		}
	}

	switch len(values) {
	case 0:
		return quoted + ", _impstub.Unit{}"
	case 1:
		return quoted + ", " + values[0]
	}

	fields := tupleFieldNames(field.Signature.Params, "A")
	pairs := make([]string, len(values))

	for i := range values {
		pairs[i] = fields[i] + ": " + values[i]
	}

	return quoted + ", " + g.argsType(field) + "{" + strings.Join(pairs, ", ") + "}"
}

func (g *generator) fieldType(method decl.Method) string {
	returns := g.returnsType(method)

	switch method.Flavor {
	case decl.FlavorSimple:
		return "Simple[" + returns + "]"
	case decl.FlavorArgWatching:
		return "ArgWatching[" + returns + ", " + g.argsType(method) + "]"
	default:
		return "Intercepting[" + returns + ", " + g.argsType(method) + "]"
	}
}

func (g *generator) recordingFields() []decl.Method {
	var fields []decl.Method

	for _, method := range g.in.Composite.Methods {
		if method.Flavor.Records() {
			fields = append(fields, method)
		}
	}

	return fields
}

func (g *generator) returnsType(method decl.Method) string {
	results := method.Signature.Results

	switch len(results) {
	case 0:
		return "_impstub.Unit"
	case 1:
		return results[0].Type
	default:
		return g.in.Composite.Name + method.Name + "Returns"
	}
}

// section returns the section called name, creating it on first use.
func (g *generator) section(name string, isFunc bool) *section {
	if g.sections[name] == nil {
		g.sections[name] = &section{isFunc: isFunc, methods: make(map[string]*bytes.Buffer)}
	}

	return g.sections[name]
}

// usedImports drops imports no generated type refers to, and repeated paths.
func (g *generator) usedImports() []decl.Import {
	used := make(map[string]bool)
	mark := func(typeStr string) {
		for _, match := range qualifierPattern.FindAllStringSubmatch(typeStr, -1) {
			used[match[1]] = true
		}
	}
	markAll := func(methods []decl.Method) {
		for _, method := range methods {
			for _, param := range method.Signature.Params {
				mark(param.Type)
			}

			for _, result := range method.Signature.Results {
				mark(result.Type)
			}
		}
	}

	markAll(g.in.Composite.Methods)

	for _, binding := range g.in.Bindings {
		mark(binding.Ref)
		markAll(binding.Methods)
	}

	var imports []decl.Import

	seen := make(map[string]bool, len(g.in.Imports))

	for _, imp := range g.in.Imports {
		if used[imp.Name()] && !seen[imp.Path] {
			seen[imp.Path] = true
			imports = append(imports, imp)
		}
	}

	return imports
}

func (g *generator) usesImpstub() bool {
	if len(g.recordingFields()) > 0 {
		return true
	}

	for _, binding := range g.in.Bindings {
		if len(binding.Methods) > 0 {
			return true
		}
	}

	return false
}

// write renders every declaration into its section, then lays the sections out in canonical order:
// exported types, exported functions, the interface checks, unexported types, unexported functions.
// Types and functions are sorted by name, so reordering the output changes nothing.
func (g *generator) write() {
	name := g.in.Composite.Name
	fields := g.recordingFields()

	g.templates.WriteHeader(&g.buf, headerData{
		Package:     g.in.Package,
		UsesImpstub: g.usesImpstub(),
		Imports:     g.usedImports(),
	})

	data := compositeData{Name: name}
	for _, method := range fields {
		data.Fields = append(data.Fields, fieldData{Name: method.Name, Type: g.fieldType(method)})
	}

	composite := g.section(name, false)
	g.templates.WriteComposite(&composite.head, data)
	g.templates.WriteImplAccessor(composite.method("Impl"), data)
	g.templates.WriteImplType(&g.section(name+"Impl", false).head, data)

	for _, method := range fields {
		g.writeTuples(method)
	}

	emitted := make(map[string]bool)
	assertions := make([]accessorData, 0, len(g.in.Bindings))

	for _, binding := range g.in.Bindings {
		accessor := accessorData{
			Composite: name,
			Iface:     decl.LocalInterfaceName(binding.Interface),
			Ref:       binding.Ref,
		}
		assertions = append(assertions, accessor)

		g.templates.WriteAccessor(composite.method("As"+accessor.Iface), accessor)

		for _, method := range binding.Methods {
			if emitted[method.Name] {
				continue
			}

			emitted[method.Name] = true

			g.writeMethod(method)
		}
	}

	names := make([]string, 0, len(g.sections))
	for sectionName := range g.sections {
		names = append(names, sectionName)
	}

	slices.Sort(names)

	layout := func(exported, isFunc bool) {
		for _, sectionName := range names {
			sec := g.sections[sectionName]
			if sec.isFunc == isFunc && astutil.IsExportedIdent(sectionName) == exported {
				sec.writeTo(&g.buf)
			}
		}
	}

	layout(true, false)
	layout(true, true)

	if len(assertions) > 0 {
		g.templates.WriteAssertions(&g.buf, assertions)
	}

	layout(false, false)
	layout(false, true)
}

func (g *generator) writeMethod(method decl.Method) {
	name := g.in.Composite.Name
	sig := method.Signature

	if method.Flavor == decl.FlavorNoStub {
		data := methodData{
			Composite: name,
			Name:      method.Name,
			RecvType:  name + "Impl",
			Params:    typeList(sig.Params),
			Results:   resultList(sig.Results),
			Receiver:  method.Receiver.GoName(),
		}

		switch method.Receiver {
		case core.ReceiverStatic:
			g.templates.WriteStaticFunc(&g.section(name+method.Name, true).head, data)
		case core.ReceiverMutable:
			data.RecvType = "*" + data.RecvType
			g.templates.WriteNoStubMethod(g.section(name+"Impl", false).method(method.Name), data)
		default:
			g.templates.WriteNoStubMethod(g.section(name+"Impl", false).method(method.Name), data)
		}

		return
	}

	field, _ := g.in.Composite.Method(method.Name)
	names := paramNames(sig.Params)
	recv := uniqueName("impl", names)
	ret := uniqueName("ret", append(names, recv))

	recvType := name + "Impl"
	if method.Receiver == core.ReceiverMutable {
		recvType = "*" + recvType
	}

	unpack := make([]string, len(sig.Results))
	for i, field := range tupleFieldNames(field.Signature.Results, "R") {
		unpack[i] = ret + "." + field
	}

	g.templates.WriteRecordingMethod(g.section(name+"Impl", false).method(method.Name), methodData{
		Composite:   name,
		Name:        method.Name,
		Recv:        recv,
		RecvType:    recvType,
		Params:      namedParamList(sig.Params, names),
		Results:     resultList(sig.Results),
		ResultCount: len(sig.Results),
		CallArgs:    g.callArgs(field, method, names),
		Ret:         ret,
		Unpack:      strings.Join(unpack, ", "),
	})
}

func (g *generator) writeTuples(method decl.Method) {
	prefix := g.in.Composite.Name + method.Name
	sig := method.Signature

	if method.Flavor != decl.FlavorSimple && len(sig.Params) > 1 {
		g.templates.WriteTuple(&g.section(prefix+"Args", false).head, tupleData{
			Name:   prefix + "Args",
			Doc:    "holds the arguments of one " + method.Name + " call.",
			Fields: tupleFields(sig.Params, "A"),
		})
	}

	if len(sig.Results) > 1 {
		g.templates.WriteTuple(&g.section(prefix+"Returns", false).head, tupleData{
			Name:   prefix + "Returns",
			Doc:    "holds the values " + method.Name + " returns.",
			Fields: tupleFields(sig.Results, "R"),
		})
	}
}

// Functions - Private

// qualifierPattern matches the package qualifier of a selector in a type expression.
var qualifierPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\.`)

// exportName upper-cases the first letter of name.
func exportName(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(first)) + name[size:]
}

func namedParamList(params []decl.Param, names []string) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = names[i] + " " + param.DeclType()
	}

	return strings.Join(parts, ", ")
}

// paramNames names every parameter, inventing argN for unnamed ones.
func paramNames(params []decl.Param) []string {
	names := make([]string, len(params))
	taken := make(map[string]bool, len(params))

	for _, param := range params {
		taken[param.Name] = true
	}

	for i, param := range params {
		if param.Name != "" && param.Name != "_" {
			names[i] = param.Name

			continue
		}

		candidate := fmt.Sprintf("arg%d", i+1)
		for taken[candidate] {
			candidate += "_"
		}

		taken[candidate] = true
		names[i] = candidate
	}

	return names
}

func resultList(results []decl.Param) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0].Type
	}

	types := make([]string, len(results))
	for i, result := range results {
		types[i] = result.Type
	}

	return " (" + strings.Join(types, ", ") + ")"
}

// tupleFieldNames returns the exported field names of an Args or Returns struct.
// Declared names are used when every parameter has one and they stay distinct once exported.
// Otherwise fields are numbered: A1..An for arguments, R1..Rn for results.
func tupleFieldNames(params []decl.Param, prefix string) []string {
	names := make([]string, len(params))
	seen := make(map[string]bool, len(params))
	useDeclared := true

	for i, param := range params {
		exported := exportName(param.Name)
		if param.Name == "" || param.Name == "_" || seen[exported] {
			useDeclared = false

			break
		}

		seen[exported] = true
		names[i] = exported
	}

	if useDeclared {
		return names
	}

	for i := range params {
		names[i] = prefix + strconv.Itoa(i+1)
	}

	return names
}

func tupleFields(params []decl.Param, prefix string) []fieldData {
	names := tupleFieldNames(params, prefix)
	fields := make([]fieldData, len(params))

	for i, param := range params {
		fields[i] = fieldData{Name: names[i], Type: param.ValueType()}
	}

	return fields
}

func typeList(params []decl.Param) string {
	types := make([]string, len(params))
	for i, param := range params {
		types[i] = param.DeclType()
	}

	return strings.Join(types, ", ")
}

// uniqueName returns base, suffixed with underscores until it clashes with none of taken.
func uniqueName(base string, taken []string) string {
	for {
		clash := false

		for _, name := range taken {
			if name == base {
				clash = true

				break
			}
		}

		if !clash {
			return base
		}

		base += "_"
	}
}
