package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/iocscan/internal/bundle"
	"github.com/toyz/iocscan/internal/errors"
)

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <module.yaml>",
		Short: "Check a manifest against the bundle schema and its semantic rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			result, err := bundle.ValidateFile(path)
			if err != nil {
				return err
			}
			if !result.Valid {
				a.diag.Section("Schema issues")
				for _, issue := range result.Issues {
					a.diag.List("%s", issue)
				}
				return result.Err()
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return errors.WrapWithOperation("read", path, err)
			}
			manifest, err := bundle.ParseManifest(data)
			if err != nil {
				return err
			}
			if err := manifest.Check(); err != nil {
				return err
			}

			a.diag.Success("%s is valid (%d types)", path, len(manifest.Types))
			return nil
		},
	}
}
