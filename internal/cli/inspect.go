package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/iocscan/internal/bundle"
	"github.com/toyz/iocscan/internal/embedded"
	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/pkg/ioc"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <bundle>",
		Short: "Show the types, resources and embedded bundles of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := a.loader()
			m, err := loader.LoadFromPath(args[0], ioc.NoResolver)
			if err != nil {
				return err
			}
			mod, ok := m.(*bundle.Module)
			if !ok {
				return errors.NewLoadError(args[0], errors.New(errors.UnknownErrorCode, "not a bundle"))
			}

			a.diag.Header(mod.Identity())
			a.describeTypes(mod.Manifest())

			a.diag.Section("Resources")
			for _, name := range mod.Resources() {
				a.diag.List("%s", name)
			}

			children, err := embedded.NewLoader(loader, embedded.NewCache(), a.cfg.logger(a)).DiscoverAll([]ioc.Module{mod})
			if err != nil {
				return err
			}
			if len(children) > 0 {
				a.diag.Section("Embedded modules")
				for _, child := range children {
					a.diag.List("%s (%d types)", child.Identity(), len(child.Types()))
				}
			}

			a.diag.Summary("Summary:", map[string]interface{}{
				"types":     len(mod.Types()),
				"concretes": len(ioc.Concretes(mod)),
				"resources": len(mod.Resources()),
				"embedded":  len(children),
			})
			return nil
		},
	}
}

func (a *app) describeTypes(manifest *bundle.Manifest) {
	a.diag.Section("Types")
	for _, spec := range manifest.Types {
		a.diag.List("%s (%s)", spec.Name, spec.Kind)
		a.diag.Indent()
		if len(spec.Extends) > 0 {
			a.diag.List("extends %s", strings.Join(spec.Extends, ", "))
		}
		if len(spec.Implements) > 0 {
			a.diag.List("implements %s", strings.Join(spec.Implements, ", "))
		}
		if spec.Marker != "" {
			a.diag.List("marker %s", strings.TrimSpace(spec.Marker))
		}
		if spec.Binding != "" {
			a.diag.List("binding %s", spec.Binding)
		}
		a.diag.Unindent()
	}
}
