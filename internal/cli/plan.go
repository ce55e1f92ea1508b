package cli

import (
	"github.com/spf13/cobra"

	"github.com/toyz/iocscan/pkg/ioc/adapters"
	"github.com/toyz/iocscan/pkg/scanner"
)

func (a *app) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [dir]",
		Short: "Scan a directory of bundles and list the registrations it would make",
		Long: `plan loads every bundle directly inside dir (the executable's directory when
omitted), expands embedded bundles and prints the bindings a container would
receive. Types are not bound to Go code, so nothing is instantiated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder := adapters.NewRecorder()
			s, err := scanner.New(recorder, a.loader(),
				scanner.WithConfig(scanner.Config{InterfacePrefix: a.cfg.InterfacePrefix}),
				scanner.WithLogger(a.cfg.logger(a)),
			)
			if err != nil {
				return err
			}

			var result *scanner.Result
			if len(args) == 0 {
				a.diag.Header("scanning executable directory")
				result, err = s.ScanDefault()
			} else {
				a.diag.Header("scanning " + args[0])
				result, err = s.ScanAllModules(args[0])
			}
			if err != nil {
				return err
			}

			a.diag.Section("Modules")
			for _, identity := range result.Modules {
				a.diag.List("%s", identity)
			}
			if len(result.Embedded) > 0 {
				a.diag.Section("Embedded modules")
				for _, identity := range result.Embedded {
					a.diag.List("%s", identity)
				}
			}

			a.diag.Section("Registrations")
			for _, binding := range recorder.Bindings() {
				a.diag.Item("%s", binding)
			}
			a.diag.Verbose("Indexed interface keys: %v", s.Session().IndexedKeys())

			a.diag.Summary("Summary:", map[string]interface{}{
				"modules":     len(result.Modules),
				"embedded":    len(result.Embedded),
				"indexed":     result.Indexed,
				"initialized": result.Stats.Initialized,
				"marker":      result.Stats.MarkerRegistrations,
				"convention":  result.Stats.ConventionRegistrations,
				"misses":      result.Stats.ConventionMisses,
			})
			a.diag.Complete("plan complete")
			return nil
		},
	}
}
