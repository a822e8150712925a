package run

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/toejough/impstub/internal/core"
	decl "github.com/toejough/impstub/stubgen/run/1_decl"
	load "github.com/toejough/impstub/stubgen/run/2_load"
	detect "github.com/toejough/impstub/stubgen/run/3_detect"
)

// fromConfig generates every composite listed in the --config declaration file.
//
// Bound interfaces are looked up in the package source when possible. A found interface fills in entries that omit
// args and returns, and every entry is checked against it. Without the source, entries are taken as declared.
func (g *generator) fromConfig() error {
	data, err := g.fileSys.ReadFile(g.args.Config)
	if err != nil {
		return fmt.Errorf("failed to read declarations: %w", err)
	}

	file, err := decl.Parse(g.args.Config, data)
	if err != nil {
		return err
	}

	g.logger.Debug("parsed declarations",
		zap.String("file", g.args.Config),
		zap.Int("composites", len(file.Composites)),
		zap.Int("bindings", len(file.Bindings)),
	)

	local, err := g.loadLocal()
	if err != nil {
		g.logger.Debug("continuing without package source", zap.Error(err))

		local = nil
	}

	file.Package, err = g.outputPackage(local, file.Package)
	if err != nil {
		return err
	}

	resolved := make([]resolvedBinding, len(file.Bindings))

	for i := range file.Bindings {
		resolved[i], err = g.resolveBinding(&file.Bindings[i], local, file.Package)
		if err != nil {
			return fmt.Errorf("binding %s to %s: %w", file.Bindings[i].Composite, file.Bindings[i].Interface, err)
		}
	}

	fillComposites(&file)

	return g.emit(file, resolved)
}

// resolveBinding checks binding against its interface source and fills in undeclared signatures.
func (g *generator) resolveBinding(binding *decl.Binding, local *load.Package, pkgName string) (resolvedBinding, error) {
	if local == nil {
		return resolvedBinding{ref: binding.Interface}, nil
	}

	iface, err := detect.FindInterface(binding.Interface, local, pkgName, g.loader)
	if err != nil {
		g.logger.Debug("interface source not found, using declarations as written",
			zap.String("interface", binding.Interface),
			zap.Error(err),
		)

		return resolvedBinding{ref: binding.Interface}, nil
	}

	g.logger.Debug("detected interface", zap.String("interface", iface.Ref), zap.Int("methods", len(iface.Methods)))

	methods := make(map[string]decl.Method, len(iface.Methods))
	for _, method := range iface.Methods {
		methods[method.Name] = method
	}

	bound := make(map[string]bool, len(binding.Methods))

	for i, entry := range binding.Methods {
		if entry.Receiver == core.ReceiverStatic {
			continue
		}

		bound[entry.Name] = true

		method, ok := methods[entry.Name]
		if !ok {
			return resolvedBinding{}, core.NewSynthesisError(
				core.KindShapeMismatch, entry.Name, entry.Receiver, iface.Ref+" has no such method",
			)
		}

		if !entry.Declared {
			binding.Methods[i].Signature = method.Signature

			continue
		}

		if diff := method.Signature.Diff(entry.Signature); diff != "" {
			return resolvedBinding{}, core.NewSynthesisError(
				core.KindShapeMismatch, entry.Name, entry.Receiver,
				fmt.Sprintf("%s declares %s: %s", iface.Ref, method.Signature, diff),
			)
		}
	}

	for _, method := range iface.Methods {
		if !bound[method.Name] {
			return resolvedBinding{}, core.NewSynthesisError(
				core.KindShapeMismatch, method.Name, core.ReceiverShared, "declared by "+iface.Ref+" but not bound",
			)
		}
	}

	return resolvedBinding{ref: iface.Ref, imports: iface.Imports}, nil
}

// fillComposites gives composite entries without args or returns the signature their binding entries carry.
func fillComposites(file *decl.File) {
	for c := range file.Composites {
		composite := &file.Composites[c]

		for m, method := range composite.Methods {
			if method.Declared {
				continue
			}

			if entry, ok := boundEntry(file.BindingsFor(composite.Name), method.Name); ok {
				composite.Methods[m].Signature = entry.Signature
			}
		}
	}
}

func boundEntry(bindings []decl.Binding, name string) (decl.Method, bool) {
	for _, binding := range bindings {
		for _, method := range binding.Methods {
			if method.Name == name && method.Flavor != decl.FlavorNoStub {
				return method, true
			}
		}
	}

	return decl.Method{}, false
}
