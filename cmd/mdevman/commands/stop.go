package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/callout"
	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newStopCmd() *cobra.Command {
	var (
		uuidStr string
		parent  string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Deactivate a mediated device",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(uuidStr)
			if err != nil {
				return mderrors.Wrapf(err, mderrors.ErrInvalidInput, "invalid uuid %q", uuidStr)
			}

			dev, err := device.GetDefined(env, newFs(), id, parent)
			if err != nil {
				return err
			}

			return callout.Invoke(dev, callout.ActionStop, force, func(callout.Device) error {
				return dev.Stop()
			})
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Device UUID")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent device")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even if a pre callout script rejects the action")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}
