package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/toyz/iocscan/internal/bundle"
	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/internal/utils"
)

type packOptions struct {
	manifest  string
	resources []string
	output    string
	version   string
}

func (a *app) packCommand() *cobra.Command {
	opts := &packOptions{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build a bundle from a manifest and resource files",
		Long: `pack validates a module.yaml and writes it with the given resources into a
bundle. A manifest without an identity takes the module path of the nearest
go.mod above it, suffixed with --version when set.`,
		Example: `  iocscan pack -m module.yaml -r plugins.iocm=build/plugins.iocm -o app.iocm`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.pack(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.manifest, "manifest", "m", bundle.ManifestName, "Manifest file")
	flags.StringArrayVarP(&opts.resources, "resource", "r", nil, "Resource as name=path (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output bundle path")
	flags.StringVar(&opts.version, "version", "", "Version appended to an inferred identity")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) pack(opts *packOptions) error {
	data, err := os.ReadFile(opts.manifest)
	if err != nil {
		return errors.WrapWithOperation("read", opts.manifest, err)
	}

	result, err := bundle.Validate(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		return result.Err()
	}

	manifest, err := bundle.ParseManifest(data)
	if err != nil {
		return err
	}
	if manifest.Identity == "" {
		identity, err := utils.ModulePathFor(filepath.Dir(opts.manifest))
		if err != nil {
			return errors.NewManifestError("identity", "missing and no go.mod to infer it from").
				WithSuggestion("set 'identity' in " + opts.manifest)
		}
		if opts.version != "" {
			v, err := semver.NewVersion(opts.version)
			if err != nil {
				return errors.NewPreconditionError("version", err.Error())
			}
			identity += "@v" + v.String()
		}
		manifest.Identity = identity
		a.diag.Verbose("Inferred identity %s", identity)
	}
	if err := manifest.Check(); err != nil {
		return err
	}

	resources, err := readResources(opts.resources)
	if err != nil {
		return err
	}
	if err := bundle.WriteFile(opts.output, manifest, resources); err != nil {
		return err
	}

	a.diag.Success("Wrote %s (%s, %d types, %d resources)", opts.output, manifest.Identity, len(manifest.Types), len(resources))
	return nil
}

func readResources(specs []string) (map[string][]byte, error) {
	resources := make(map[string][]byte, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok {
			path = spec
			name = filepath.Base(spec)
		}
		if name == "" || path == "" {
			return nil, errors.NewPreconditionError("resource", "expected name=path, got '"+spec+"'")
		}
		if _, dup := resources[name]; dup {
			return nil, errors.NewPreconditionError("resource", "duplicate resource '"+name+"'")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapWithOperation("read", path, err)
		}
		resources[name] = data
	}
	return resources, nil
}
