package decl

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/toejough/impstub/internal/core"
	"gopkg.in/yaml.v3"
)

// Parse decodes a declaration file. The format is chosen by the file extension: .yaml, .yml or .toml.
func Parse(filename string, data []byte) (File, error) {
	var raw rawFile

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)

		err := decoder.Decode(&raw)
		if err != nil {
			return File{}, fmt.Errorf("failed to decode %s: %w", filename, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), &raw)
		if err != nil {
			return File{}, fmt.Errorf("failed to decode %s: %w", filename, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return File{}, fmt.Errorf("%w in %s: %v", errUnknownKeys, filename, undecoded)
		}
	default:
		return File{}, fmt.Errorf("%w: %s", errUnknownFormat, filename)
	}

	return raw.convert()
}

// rawBinding is the on-disk form of a Binding.
type rawBinding struct {
	Composite string      `toml:"composite" yaml:"composite"`
	Interface string      `toml:"interface" yaml:"interface"`
	Methods   []rawMethod `toml:"methods"   yaml:"methods"`
}

// rawComposite is the on-disk form of a Composite.
type rawComposite struct {
	Name    string      `toml:"name"    yaml:"name"`
	Methods []rawMethod `toml:"methods" yaml:"methods"`
}

// rawFile is the on-disk form of a File.
type rawFile struct {
	Package    string         `toml:"package"    yaml:"package"`
	Imports    []string       `toml:"imports"    yaml:"imports"`
	Composites []rawComposite `toml:"composites" yaml:"composites"`
	Bindings   []rawBinding   `toml:"bindings"   yaml:"bindings"`
}

// rawMethod is the on-disk form of a Method. Args and Returns are nil when omitted.
type rawMethod struct {
	Name     string   `toml:"name"     yaml:"name"`
	Flavor   string   `toml:"flavor"   yaml:"flavor"`
	Receiver string   `toml:"receiver" yaml:"receiver"`
	Policy   string   `toml:"policy"   yaml:"policy"`
	Args     []string `toml:"args"     yaml:"args"`
	Returns  []string `toml:"returns"  yaml:"returns"`
}

func (r rawFile) convert() (File, error) {
	file := File{Package: r.Package}

	for _, entry := range r.Imports {
		imp, err := ParseImport(entry)
		if err != nil {
			return File{}, err
		}

		file.Imports = append(file.Imports, imp)
	}

	for _, rawComp := range r.Composites {
		methods, err := convertMethods(rawComp.Methods)
		if err != nil {
			return File{}, fmt.Errorf("composite %s: %w", rawComp.Name, err)
		}

		file.Composites = append(file.Composites, Composite{Name: rawComp.Name, Methods: methods})
	}

	for _, rawBind := range r.Bindings {
		methods, err := convertMethods(rawBind.Methods)
		if err != nil {
			return File{}, fmt.Errorf("binding %s to %s: %w", rawBind.Composite, rawBind.Interface, err)
		}

		file.Bindings = append(file.Bindings, Binding{
			Composite: rawBind.Composite,
			Interface: rawBind.Interface,
			Methods:   methods,
		})
	}

	return file, nil
}

func convertMethods(raws []rawMethod) ([]Method, error) {
	methods := make([]Method, 0, len(raws))

	for _, raw := range raws {
		method, err := raw.convert()
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", raw.Name, err)
		}

		methods = append(methods, method)
	}

	return methods, nil
}

func (r rawMethod) convert() (Method, error) {
	if r.Name == "" {
		return Method{}, errMissingName
	}

	flavor := FlavorArgWatching

	if r.Flavor != "" {
		var err error

		flavor, err = ParseFlavor(r.Flavor)
		if err != nil {
			return Method{}, err
		}
	}

	recv, err := core.ParseReceiver(r.Receiver)
	if err != nil {
		return Method{}, fmt.Errorf("failed to parse receiver: %w", err)
	}

	policy, err := ParsePolicy(r.Policy)
	if err != nil {
		return Method{}, err
	}

	params, err := ParseParams(r.Args)
	if err != nil {
		return Method{}, err
	}

	results, err := ParseParams(r.Returns)
	if err != nil {
		return Method{}, err
	}

	return Method{
		Name:      r.Name,
		Flavor:    flavor,
		Receiver:  recv,
		Policy:    policy,
		Signature: Signature{Params: params, Results: results},
		Declared:  r.Args != nil || r.Returns != nil,
	}, nil
}

// unexported variables.
var (
	errMissingName   = errors.New("missing method name")
	errUnknownFormat = errors.New("unknown declaration file format")
	errUnknownKeys   = errors.New("unknown keys")
)
