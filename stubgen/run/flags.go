package run

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/toejough/impstub/internal/core"
	decl "github.com/toejough/impstub/stubgen/run/1_decl"
	detect "github.com/toejough/impstub/stubgen/run/3_detect"
)

// fromFlags derives one composite from the interfaces named on the command line.
// Every method of every interface is bound; the flavor flags decide which recorder backs it.
func (g *generator) fromFlags() error {
	local, err := g.loadLocal()
	if err != nil {
		return err
	}

	pkgName, err := g.outputPackage(local, "")
	if err != nil {
		return err
	}

	choices, err := g.methodChoices()
	if err != nil {
		return err
	}

	name := g.args.Name
	if name == "" {
		name = decl.LocalInterfaceName(g.args.Interfaces[0]) + "Stub"
	}

	file := decl.File{Package: pkgName, Composites: []decl.Composite{{Name: name}}}
	resolved := make([]resolvedBinding, 0, len(g.args.Interfaces))
	declared := make(map[string]bool)

	for _, ref := range g.args.Interfaces {
		iface, err := detect.FindInterface(ref, local, pkgName, g.loader)
		if err != nil {
			return fmt.Errorf("failed to find interface: %w", err)
		}

		g.logger.Debug("detected interface",
			zap.String("interface", iface.Ref),
			zap.Int("methods", len(iface.Methods)),
			zap.Int("imports", len(iface.Imports)),
		)

		binding := decl.Binding{Composite: name, Interface: iface.Ref}

		for _, method := range iface.Methods {
			declared[method.Name] = true
			method = choices.apply(method)
			binding.Methods = append(binding.Methods, method)

			composite := &file.Composites[0]
			if _, ok := composite.Method(method.Name); !ok && method.Flavor.Records() {
				composite.Methods = append(composite.Methods, method)
			}
		}

		file.Bindings = append(file.Bindings, binding)
		resolved = append(resolved, resolvedBinding{ref: iface.Ref, imports: iface.Imports})
	}

	err = choices.checkNamed(declared)
	if err != nil {
		return err
	}

	return g.emit(file, resolved)
}

// methodChoices collects the per-method flags.
func (g *generator) methodChoices() (methodChoices, error) {
	fallback, err := decl.ParseFlavor(g.args.Default)
	if err != nil {
		return methodChoices{}, fmt.Errorf("--default: %w", err)
	}

	choices := methodChoices{
		fallback: fallback,
		flavors:  make(map[string]decl.Flavor),
		clone:    make(map[string]bool),
		mutable:  make(map[string]bool),
	}

	groups := []struct {
		flavor decl.Flavor
		names  []string
	}{
		{decl.FlavorSimple, g.args.Simple},
		{decl.FlavorArgWatching, g.args.ArgWatching},
		{decl.FlavorIntercepting, g.args.Intercept},
		{decl.FlavorNoStub, g.args.NoStub},
	}

	for _, group := range groups {
		for _, name := range splitNames(group.names) {
			if prev, ok := choices.flavors[name]; ok && prev != group.flavor {
				return methodChoices{}, fmt.Errorf("%w: %s is listed as %s and %s", errConflictingFlavors, name, prev, group.flavor)
			}

			choices.flavors[name] = group.flavor
		}
	}

	for _, name := range splitNames(g.args.Clone) {
		choices.clone[name] = true
	}

	for _, name := range splitNames(g.args.Mutable) {
		choices.mutable[name] = true
	}

	return choices, nil
}

// methodChoices holds what the command line says about individual methods.
type methodChoices struct {
	fallback decl.Flavor
	flavors  map[string]decl.Flavor
	clone    map[string]bool
	mutable  map[string]bool
}

func (c methodChoices) apply(method decl.Method) decl.Method {
	method.Flavor = c.fallback
	if flavor, ok := c.flavors[method.Name]; ok {
		method.Flavor = flavor
	}

	if c.clone[method.Name] {
		method.Policy = decl.PolicyClone
	}

	if c.mutable[method.Name] {
		method.Receiver = core.ReceiverMutable
	}

	return method
}

// checkNamed fails when a flag names a method none of the interfaces declare.
func (c methodChoices) checkNamed(declared map[string]bool) error {
	var unknown []string

	for _, names := range []map[string]bool{c.clone, c.mutable} {
		for name := range names {
			if !declared[name] {
				unknown = append(unknown, name)
			}
		}
	}

	for name := range c.flavors {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	slices.Sort(unknown)
	unknown = slices.Compact(unknown)

	return fmt.Errorf("%w: %v", errUnknownMethod, unknown)
}

// unexported variables.
var (
	errConflictingFlavors = errors.New("conflicting flavor flags")
	errUnknownMethod      = errors.New("flags name methods no interface declares")
)
