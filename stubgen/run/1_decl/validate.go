package decl

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/toejough/impstub/internal/core"
)

// Validate checks a File before synthesis. It returns the first problem found.
//
// Duplicate entries fail with core.ErrDuplicateMethod, recording flavors on consuming or static
// methods with core.ErrUnsupportedReceiver, and Compose/Bind disagreements or reserved names with
// core.ErrShapeMismatch.
func Validate(file File) error {
	seen := make(map[string]bool, len(file.Composites))

	for _, composite := range file.Composites {
		if !token.IsIdentifier(composite.Name) {
			return fmt.Errorf("%w: %q", errInvalidComposite, composite.Name)
		}

		if seen[composite.Name] {
			return fmt.Errorf("%w: %s", errDuplicateComposite, composite.Name)
		}

		seen[composite.Name] = true

		err := validateComposite(composite, file.BindingsFor(composite.Name))
		if err != nil {
			return fmt.Errorf("composite %s: %w", composite.Name, err)
		}
	}

	for _, binding := range file.Bindings {
		composite, ok := file.Composite(binding.Composite)
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownComposite, binding.Composite)
		}

		err := validateBinding(composite, binding)
		if err != nil {
			return fmt.Errorf("binding %s to %s: %w", binding.Composite, binding.Interface, err)
		}
	}

	return validateAcrossBindings(file)
}

// ReservedNames returns the identifiers a composite's generated API claims for itself.
func ReservedNames(bindings []Binding) map[string]bool {
	reserved := map[string]bool{"Impl": true, "recorders": true}

	for _, binding := range bindings {
		reserved["As"+LocalInterfaceName(binding.Interface)] = true
	}

	return reserved
}

func validateAcrossBindings(file File) error {
	type owner struct {
		iface  string
		method Method
	}

	for _, composite := range file.Composites {
		owners := make(map[string]owner)

		for _, binding := range file.BindingsFor(composite.Name) {
			for _, method := range binding.Methods {
				prev, ok := owners[method.Name]
				if !ok {
					owners[method.Name] = owner{iface: binding.Interface, method: method}

					continue
				}

				if sameImplMethod(prev.method, method) {
					continue
				}

				return core.NewSynthesisError(
					core.KindDuplicateMethod, method.Name, method.Receiver,
					fmt.Sprintf("%s and %s bind it differently on %sImpl", prev.iface, binding.Interface, composite.Name),
				)
			}
		}
	}

	return nil
}

func sameImplMethod(first, second Method) bool {
	return first.Flavor == second.Flavor &&
		first.Receiver == second.Receiver &&
		first.Policy == second.Policy &&
		first.Signature.Diff(second.Signature) == ""
}

func validateBinding(composite Composite, binding Binding) error {
	if binding.Interface == "" {
		return errMissingInterface
	}

	reserved := ReservedNames([]Binding{binding})
	seen := make(map[string]bool, len(binding.Methods))

	for _, method := range binding.Methods {
		if seen[method.Name] {
			return core.NewSynthesisError(core.KindDuplicateMethod, method.Name, method.Receiver, "")
		}

		seen[method.Name] = true

		if reserved[method.Name] {
			return core.NewSynthesisError(
				core.KindShapeMismatch, method.Name, method.Receiver, "the name is reserved by the generated API",
			)
		}

		if method.Flavor == FlavorNoStub {
			continue
		}

		if !method.Receiver.Stubbable() {
			return core.NewSynthesisError(core.KindUnsupportedReceiver, method.Name, method.Receiver, "")
		}

		field, ok := composite.Method(method.Name)
		if !ok || !field.Flavor.Records() {
			return core.NewSynthesisError(
				core.KindShapeMismatch, method.Name, method.Receiver,
				"no "+method.Flavor.String()+" field on "+composite.Name,
			)
		}

		if field.Flavor != method.Flavor {
			return core.NewSynthesisError(
				core.KindShapeMismatch, method.Name, method.Receiver,
				fmt.Sprintf("%s field bound as %s", field.Flavor, method.Flavor),
			)
		}

		if diff := field.Signature.Diff(method.Signature); diff != "" {
			return core.NewSynthesisError(core.KindShapeMismatch, method.Name, method.Receiver, diff)
		}
	}

	return nil
}

func validateComposite(composite Composite, bindings []Binding) error {
	reserved := ReservedNames(bindings)
	seen := make(map[string]bool, len(composite.Methods))

	for _, method := range composite.Methods {
		if !token.IsIdentifier(method.Name) {
			return fmt.Errorf("%w: %q", errInvalidMethod, method.Name)
		}

		if seen[method.Name] {
			return core.NewSynthesisError(core.KindDuplicateMethod, method.Name, method.Receiver, "")
		}

		seen[method.Name] = true

		if reserved[method.Name] {
			return core.NewSynthesisError(
				core.KindShapeMismatch, method.Name, method.Receiver, "the name is reserved by the generated API",
			)
		}
	}

	return nil
}

// unexported variables.
var (
	errDuplicateComposite = errors.New("composite declared more than once")
	errInvalidComposite   = errors.New("invalid composite name")
	errInvalidMethod      = errors.New("invalid method name")
	errMissingInterface   = errors.New("binding has no interface")
	errUnknownComposite   = errors.New("binding refers to an unknown composite")
)
