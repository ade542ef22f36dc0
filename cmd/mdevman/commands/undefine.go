package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/callout"
	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newUndefineCmd() *cobra.Command {
	var (
		uuidStr string
		parent  string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "undefine",
		Short: "Remove persisted mediated device definitions",
		Long: `Remove the persisted definition of a mediated device. When no parent is
given and the UUID is defined under several parents, all of them are
undefined.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(uuidStr)
			if err != nil {
				return mderrors.Wrapf(err, mderrors.ErrInvalidInput, "invalid uuid %q", uuidStr)
			}

			devs, err := device.ListDefined(env, newFs(), id, parent)
			if err != nil {
				return err
			}
			if len(devs) == 0 {
				return mderrors.Newf(mderrors.ErrDeviceNotFound, "device %s is not defined", id)
			}

			for _, dev := range devs {
				err := callout.Invoke(dev, callout.ActionUndefine, force, func(callout.Device) error {
					return dev.Undefine()
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Device UUID")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent device")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even if a pre callout script rejects the action")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}
