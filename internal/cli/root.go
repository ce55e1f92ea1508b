// Package cli implements the iocscan command line: planning registrations
// for a directory of bundles, inspecting and validating bundles, and packing
// new ones.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/iocscan/internal/bundle"
	"github.com/toyz/iocscan/internal/utils"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	configFile string
	envFile    string
	cfg        Config
	diag       *utils.DiagnosticSystem
}

// NewRootCommand builds the iocscan command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}
	setDefaults(a.v)

	root := &cobra.Command{
		Use:   "iocscan",
		Short: "Discover and register dependency injection bindings from module bundles",
		Long: `iocscan loads module bundles (` + bundle.DefaultExtension + ` archives), follows the bundles
embedded inside them and reports the container registrations a scan would make.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.v, a.configFile, a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.diag = cfg.diagnostics(a)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default ./iocscan.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "Dotenv file supplying IOCSCAN_ defaults")
	flags.String("extension", bundle.DefaultExtension, "Bundle file extension")
	flags.String("interface-prefix", "I", "Prefix marking interfaces for convention matching")
	flags.String("log-level", "info", "Output level (silent|error|warn|info|verbose|debug)")
	flags.Bool("no-color", false, "Disable colored output")

	_ = a.v.BindPFlag("extension", flags.Lookup("extension"))
	_ = a.v.BindPFlag("interface_prefix", flags.Lookup("interface-prefix"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("no_color", flags.Lookup("no-color"))

	root.AddCommand(
		a.planCommand(),
		a.inspectCommand(),
		a.packCommand(),
		a.validateCommand(),
	)
	return root
}

// Execute runs the command tree against the process arguments and reports
// any error on stderr.
func Execute() int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		ReportError(utils.NewDiagnosticSystem(utils.DiagnosticError), err)
		return 1
	}
	return 0
}

func (a *app) loader() *bundle.Loader {
	return bundle.NewLoader(
		bundle.WithExtension(a.cfg.Extension),
		bundle.WithLoaderLogger(a.cfg.logger(a)),
	)
}
