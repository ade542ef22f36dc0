// Package commands assembles the mdevman command tree. Every lifecycle
// command routes its action through the callout engine so operator scripts
// can validate and react to it.
package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/config"
	"github.com/virtkit/mdevman/pkg/logging"
	"github.com/virtkit/mdevman/pkg/paths"
)

var verbosity int

// NewRootCmd creates the mdevman root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdevman",
		Short: "Manage mediated devices",
		Long: `mdevman manages the lifecycle of mediated devices: virtual sub-devices
carved out of a physical parent device for assignment to virtual machines.

Lifecycle actions run operator-installed callout scripts for validation
(pre), reaction (post), and best-effort notification.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v for info, -vv for debug, -vvv for trace)")

	cmd.AddCommand(
		newDefineCmd(),
		newUndefineCmd(),
		newModifyCmd(),
		newStartCmd(),
		newStopCmd(),
		newListCmd(),
		newAttributesCmd(),
	)

	return cmd
}

// newEnvironment resolves the runtime environment: built-in paths plus any
// administrator-configured script directories
func newEnvironment() (paths.Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return paths.New(
		paths.WithExtraCalloutDirs(cfg.Scripts.CalloutDirs),
		paths.WithExtraNotificationDirs(cfg.Scripts.NotificationDirs),
	), nil
}

func newFs() afero.Fs {
	return afero.NewOsFs()
}
