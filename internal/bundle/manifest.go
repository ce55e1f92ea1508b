// Package bundle implements the on-disk module format: a zip archive holding
// a module.yaml manifest plus arbitrary resources. Resources ending in the
// bundle extension are themselves modules.
package bundle

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/mod/module"

	"github.com/toyz/iocscan/internal/annotations"
	"github.com/toyz/iocscan/internal/errors"
)

const (
	// ManifestName is the archive entry holding the manifest.
	ManifestName = "module.yaml"
	// DefaultExtension is the file extension of bundles.
	DefaultExtension = ".iocm"
	// refSeparator splits a qualified type reference into identity and name.
	refSeparator = "#"
)

// TypeKind says whether a declared type is an interface or a concrete type.
type TypeKind string

const (
	KindInterface TypeKind = "interface"
	KindConcrete  TypeKind = "concrete"
)

// Manifest describes a module's identity and types.
type Manifest struct {
	Identity string     `yaml:"identity"`
	Types    []TypeSpec `yaml:"types,omitempty"`
}

// TypeSpec declares one type.
type TypeSpec struct {
	Name       string   `yaml:"name"`
	Kind       TypeKind `yaml:"kind"`
	Extends    []string `yaml:"extends,omitempty"`
	Implements []string `yaml:"implements,omitempty"`
	Marker     string   `yaml:"marker,omitempty"`
	// Binding is a catalog key naming the Go type behind this declaration.
	Binding string `yaml:"binding,omitempty"`
}

// ParseManifest decodes manifest YAML without validating it.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewManifestError("", "invalid YAML").WithCause(err)
	}
	return &m, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Check validates the manifest's semantics. Structural checks live in the
// JSON schema.
func (m *Manifest) Check() error {
	origin := errors.Origin{Module: m.Identity, Resource: ManifestName}

	if err := CheckIdentity(m.Identity); err != nil {
		return errors.NewManifestError("identity", err.Error()).WithOrigin(origin)
	}

	seen := make(map[string]bool, len(m.Types))
	for i, t := range m.Types {
		field := fmt.Sprintf("types[%d]", i)
		typeOrigin := origin
		typeOrigin.Type = t.Name

		if seen[t.Name] {
			return errors.NewManifestError(field+".name", fmt.Sprintf("duplicate type '%s'", t.Name)).WithOrigin(typeOrigin)
		}
		seen[t.Name] = true

		switch t.Kind {
		case KindInterface:
			if len(t.Implements) > 0 {
				return errors.NewManifestError(field+".implements", "interfaces extend, they do not implement").
					WithOrigin(typeOrigin).
					WithSuggestion("use 'extends' for interface inheritance")
			}
			if t.Marker != "" {
				return errors.NewManifestError(field+".marker", "only concrete types carry markers").WithOrigin(typeOrigin)
			}
		case KindConcrete:
			if len(t.Extends) > 0 {
				return errors.NewManifestError(field+".extends", "concrete types implement, they do not extend").
					WithOrigin(typeOrigin).
					WithSuggestion("use 'implements' for concrete types")
			}
		default:
			return errors.NewManifestError(field+".kind", fmt.Sprintf("unknown kind '%s'", t.Kind)).WithOrigin(typeOrigin)
		}

		if t.Marker != "" {
			if _, err := annotations.ParseMarker(t.Marker); err != nil {
				return errors.NewManifestError(field+".marker", err.Error()).WithOrigin(typeOrigin)
			}
		}
	}
	return nil
}

// CheckIdentity validates a module identity: a module path with an optional
// @version suffix.
func CheckIdentity(identity string) error {
	if identity == "" {
		return fmt.Errorf("identity is required")
	}
	path, version, ok := strings.Cut(identity, "@")
	if !ok {
		return module.CheckPath(path)
	}
	return module.Check(path, version)
}

// SplitRef splits "identity#Name" into its parts. Unqualified references
// return an empty identity.
func SplitRef(ref string) (identity, name string) {
	if i := strings.LastIndex(ref, refSeparator); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// QualifiedName joins an identity and a type name.
func QualifiedName(identity, name string) string {
	return identity + refSeparator + name
}
