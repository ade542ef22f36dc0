package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/callout"
	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newStartCmd() *cobra.Command {
	var (
		uuidStr  string
		parent   string
		mdevType string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Activate a mediated device",
		Long: `Activate a mediated device. With only a UUID, the persisted definition is
looked up; parent and type may be given explicitly to start an undefined
device.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(uuidStr)
			if err != nil {
				return mderrors.Wrapf(err, mderrors.ErrInvalidInput, "invalid uuid %q", uuidStr)
			}

			fs := newFs()
			var dev *device.Device
			if mdevType == "" {
				dev, err = device.GetDefined(env, fs, id, parent)
				if err != nil {
					return err
				}
			} else {
				if parent == "" {
					return mderrors.New(mderrors.ErrInvalidInput, "--type requires --parent")
				}
				dev = device.New(env, fs, id)
				dev.SetParent(parent)
				dev.SetMdevType(mdevType)
			}

			return callout.Invoke(dev, callout.ActionStart, force, func(callout.Device) error {
				return dev.Start()
			})
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Device UUID")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent device")
	cmd.Flags().StringVarP(&mdevType, "type", "t", "", "Mediated device type")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even if a pre callout script rejects the action")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}
