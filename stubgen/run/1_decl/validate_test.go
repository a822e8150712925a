package decl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/toejough/impstub/internal/core"
	decl "github.com/toejough/impstub/stubgen/run/1_decl"
)

func commentSignature() decl.Signature {
	return decl.Signature{
		Params:  []decl.Param{{Name: "a", Type: "uint32"}, {Name: "b", Type: "uint32"}, {Name: "c", Type: "uint32"}},
		Results: []decl.Param{{Type: "uint32"}, {Type: "error"}},
	}
}

func validFile() decl.File {
	return decl.File{
		Package: "trait_test",
		Composites: []decl.Composite{{
			Name: "TraitStub",
			Methods: []decl.Method{
				{Name: "CreateComment", Flavor: decl.FlavorArgWatching, Signature: commentSignature()},
			},
		}},
		Bindings: []decl.Binding{{
			Composite: "TraitStub",
			Interface: "Trait",
			Methods: []decl.Method{
				{Name: "CreateComment", Flavor: decl.FlavorArgWatching, Signature: commentSignature()},
				{Name: "NoSelfFn", Flavor: decl.FlavorNoStub, Receiver: core.ReceiverStatic},
				{Name: "OwnSelfFn", Flavor: decl.FlavorNoStub, Receiver: core.ReceiverConsuming},
			},
		}},
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	if err := decl.Validate(validFile()); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidate_SameMethodInTwoInterfaces(t *testing.T) {
	t.Parallel()

	file := validFile()
	file.Bindings = append(file.Bindings, decl.Binding{
		Composite: "TraitStub",
		Interface: "Commenter",
		Methods: []decl.Method{
			{Name: "CreateComment", Flavor: decl.FlavorArgWatching, Signature: commentSignature()},
		},
	})

	if err := decl.Validate(file); err != nil {
		t.Fatalf("identical bindings should share one method: %v", err)
	}
}

//nolint:funlen // table of every synthesis failure
func TestValidate_SynthesisErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(file *decl.File)
		wantErr    error
		wantDetail string
	}{
		{
			name: "duplicate compose entry",
			mutate: func(file *decl.File) {
				comp := &file.Composites[0]
				comp.Methods = append(comp.Methods, comp.Methods[0])
			},
			wantErr: core.ErrDuplicateMethod,
		},
		{
			name: "duplicate bind entry",
			mutate: func(file *decl.File) {
				bind := &file.Bindings[0]
				bind.Methods = append(bind.Methods, bind.Methods[1])
			},
			wantErr: core.ErrDuplicateMethod,
		},
		{
			name: "recording a static method",
			mutate: func(file *decl.File) {
				file.Bindings[0].Methods[0].Receiver = core.ReceiverStatic
			},
			wantErr:    core.ErrUnsupportedReceiver,
			wantDetail: "has a static receiver",
		},
		{
			name: "recording a consuming method",
			mutate: func(file *decl.File) {
				file.Bindings[0].Methods[0].Receiver = core.ReceiverConsuming
			},
			wantErr:    core.ErrUnsupportedReceiver,
			wantDetail: "has a consuming receiver",
		},
		{
			name: "argument type disagreement",
			mutate: func(file *decl.File) {
				file.Bindings[0].Methods[0].Signature.Params[2].Type = "uint64"
			},
			wantErr:    core.ErrShapeMismatch,
			wantDetail: "parameter 3 is uint32 vs uint64",
		},
		{
			name: "arity disagreement",
			mutate: func(file *decl.File) {
				sig := &file.Bindings[0].Methods[0].Signature
				sig.Params = sig.Params[:2]
			},
			wantErr:    core.ErrShapeMismatch,
			wantDetail: "3 parameters vs 2",
		},
		{
			name: "flavor disagreement",
			mutate: func(file *decl.File) {
				file.Bindings[0].Methods[0].Flavor = decl.FlavorIntercepting
			},
			wantErr:    core.ErrShapeMismatch,
			wantDetail: "argwatching field bound as intercepting",
		},
		{
			name: "bound method without a field",
			mutate: func(file *decl.File) {
				file.Composites[0].Methods = nil
			},
			wantErr:    core.ErrShapeMismatch,
			wantDetail: "no argwatching field on TraitStub",
		},
		{
			name: "reserved field name",
			mutate: func(file *decl.File) {
				file.Composites[0].Methods[0].Name = "AsTrait"
			},
			wantErr:    core.ErrShapeMismatch,
			wantDetail: "reserved",
		},
		{
			name: "reserved method name",
			mutate: func(file *decl.File) {
				file.Bindings[0].Methods[1].Name = "Impl"
			},
			wantErr:    core.ErrShapeMismatch,
			wantDetail: "reserved",
		},
		{
			name: "two interfaces disagree on a shared method",
			mutate: func(file *decl.File) {
				file.Bindings = append(file.Bindings, decl.Binding{
					Composite: "TraitStub",
					Interface: "Other",
					Methods: []decl.Method{
						{Name: "NoSelfFn", Flavor: decl.FlavorNoStub, Receiver: core.ReceiverShared},
					},
				})
			},
			wantErr:    core.ErrDuplicateMethod,
			wantDetail: "Trait and Other bind it differently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := validFile()
			tt.mutate(&file)

			err := decl.Validate(file)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}

			var stubErr *core.Error
			if !errors.As(err, &stubErr) {
				t.Fatalf("expected a *core.Error in the chain, got %T", err)
			}

			if !strings.Contains(err.Error(), tt.wantDetail) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantDetail)
			}
		})
	}
}

func TestValidate_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]func(file *decl.File){
		"unknown composite": func(file *decl.File) { file.Bindings[0].Composite = "Missing" },
		"missing interface": func(file *decl.File) { file.Bindings[0].Interface = "" },
		"invalid composite": func(file *decl.File) { file.Composites[0].Name = "Trait Stub" },
		"duplicate composite": func(file *decl.File) {
			file.Composites = append(file.Composites, file.Composites[0])
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			file := validFile()
			mutate(&file)

			if err := decl.Validate(file); err == nil {
				t.Error("expected error")
			}
		})
	}
}
