package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed templates stubgen writes code with.
// Create one with NewTemplateRegistry.
type TemplateRegistry struct {
	headerTmpl          *template.Template
	compositeTmpl       *template.Template
	implTypeTmpl        *template.Template
	implAccessorTmpl    *template.Template
	tupleTmpl           *template.Template
	accessorTmpl        *template.Template
	assertionsTmpl      *template.Template
	recordingMethodTmpl *template.Template
	noStubMethodTmpl    *template.Template
	staticFuncTmpl      *template.Template
}

// NewTemplateRegistry parses every template. Templates are constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{}

	templates := []struct {
		target  **template.Template
		name    string
		content string
	}{
		{&registry.headerTmpl, "header", tmplHeader},
		{&registry.compositeTmpl, "composite", tmplComposite},
		{&registry.implTypeTmpl, "implType", tmplImplType},
		{&registry.implAccessorTmpl, "implAccessor", tmplImplAccessor},
		{&registry.tupleTmpl, "tuple", tmplTuple},
		{&registry.accessorTmpl, "accessor", tmplAccessor},
		{&registry.assertionsTmpl, "assertions", tmplAssertions},
		{&registry.recordingMethodTmpl, "recordingMethod", tmplRecordingMethod},
		{&registry.noStubMethodTmpl, "noStubMethod", tmplNoStubMethod},
		{&registry.staticFuncTmpl, "staticFunc", tmplStaticFunc},
	}

	for _, def := range templates {
		*def.target = template.Must(template.New(def.name).Parse(def.content))
	}

	return registry
}

// WriteAccessor writes the As<Interface> accessor.
func (r *TemplateRegistry) WriteAccessor(buf *bytes.Buffer, data any) {
	execute(r.accessorTmpl, buf, data)
}

// WriteAssertions writes the compile-time checks that the Impl type satisfies every bound interface.
func (r *TemplateRegistry) WriteAssertions(buf *bytes.Buffer, data any) {
	execute(r.assertionsTmpl, buf, data)
}

// WriteComposite writes the composite struct and its constructor.
func (r *TemplateRegistry) WriteComposite(buf *bytes.Buffer, data any) {
	execute(r.compositeTmpl, buf, data)
}

// WriteHeader writes the generated-code banner, package clause and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	execute(r.headerTmpl, buf, data)
}

// WriteImplAccessor writes the composite's Impl method.
func (r *TemplateRegistry) WriteImplAccessor(buf *bytes.Buffer, data any) {
	execute(r.implAccessorTmpl, buf, data)
}

// WriteImplType writes the type that implements the bound interfaces.
func (r *TemplateRegistry) WriteImplType(buf *bytes.Buffer, data any) {
	execute(r.implTypeTmpl, buf, data)
}

// WriteNoStubMethod writes a method that panics when called.
func (r *TemplateRegistry) WriteNoStubMethod(buf *bytes.Buffer, data any) {
	execute(r.noStubMethodTmpl, buf, data)
}

// WriteRecordingMethod writes a method that forwards to its recorder.
func (r *TemplateRegistry) WriteRecordingMethod(buf *bytes.Buffer, data any) {
	execute(r.recordingMethodTmpl, buf, data)
}

// WriteStaticFunc writes the package-level function standing in for a static method.
func (r *TemplateRegistry) WriteStaticFunc(buf *bytes.Buffer, data any) {
	execute(r.staticFuncTmpl, buf, data)
}

// WriteTuple writes an Args or Returns struct.
func (r *TemplateRegistry) WriteTuple(buf *bytes.Buffer, data any) {
	execute(r.tupleTmpl, buf, data)
}

// execute panics on failure: the templates are fixed, so a failure means the caller passed the wrong data.
func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}

const tmplHeader = `// Code generated by stubgen. DO NOT EDIT.

package {{.Package}}
{{if or .UsesImpstub .Imports}}
import (
{{- if .UsesImpstub}}
	_impstub "github.com/toejough/impstub"
{{- end}}
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}`

const tmplComposite = `
// {{.Name}} holds one recorder per stubbed method.
// Program its recorders before handing Impl() to the code under test.
// A {{.Name}} must not be shared between goroutines.
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} _impstub.{{.Type}}
{{- end}}
}

// New{{.Name}} returns a {{.Name}} whose recorders are all empty.
func New{{.Name}}() *{{.Name}} {
	return &{{.Name}}{}
}
`

const tmplImplType = `
// {{.Name}}Impl implements every interface {{.Name}} is bound to by forwarding to its recorders.
type {{.Name}}Impl struct {
	recorders *{{.Name}}
}
`

const tmplImplAccessor = `
// Impl returns the value that implements every interface {{.Name}} is bound to.
func (s *{{.Name}}) Impl() *{{.Name}}Impl {
	return &{{.Name}}Impl{recorders: s}
}
`

const tmplTuple = `
// {{.Name}} {{.Doc}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}
`

const tmplAccessor = `
// As{{.Iface}} returns the stub as a {{.Ref}}.
func (s *{{.Composite}}) As{{.Iface}}() {{.Ref}} {
	return s.Impl()
}
`

const tmplAssertions = `
// unexported variables.
var (
{{- range .}}
	_ {{.Ref}} = (*{{.Composite}}Impl)(nil)
{{- end}}
)
`

const tmplRecordingMethod = `
// {{.Name}} forwards to {{.Composite}}.{{.Name}}.
func ({{.Recv}} {{.RecvType}}) {{.Name}}({{.Params}}){{.Results}} {
{{- if eq .ResultCount 0}}
	{{.Recv}}.recorders.{{.Name}}.Call({{.CallArgs}})
{{- else if eq .ResultCount 1}}
	return {{.Recv}}.recorders.{{.Name}}.Call({{.CallArgs}})
{{- else}}
	{{.Ret}} := {{.Recv}}.recorders.{{.Name}}.Call({{.CallArgs}})

	return {{.Unpack}}
{{- end}}
}
`

const tmplNoStubMethod = `
// {{.Name}} is not stubbed. Calling it panics.
func ({{.RecvType}}) {{.Name}}({{.Params}}){{.Results}} {
	panic(_impstub.Unstubbed("{{.Name}}", _impstub.{{.Receiver}}))
}
`

const tmplStaticFunc = `
// {{.Composite}}{{.Name}} stands in for the static method {{.Name}}. Calling it panics.
func {{.Composite}}{{.Name}}({{.Params}}){{.Results}} {
	panic(_impstub.Unstubbed("{{.Name}}", _impstub.ReceiverStatic))
}
`
