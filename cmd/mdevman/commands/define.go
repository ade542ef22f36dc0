package commands

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/callout"
	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newDefineCmd() *cobra.Command {
	var (
		uuidStr  string
		parent   string
		mdevType string
		auto     bool
		jsonFile string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "define",
		Short: "Persist a mediated device definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}

			id := uuid.New()
			if uuidStr != "" {
				id, err = uuid.Parse(uuidStr)
				if err != nil {
					return mderrors.Wrapf(err, mderrors.ErrInvalidInput, "invalid uuid %q", uuidStr)
				}
			}

			dev := device.New(env, newFs(), id)
			dev.SetParent(parent)

			if jsonFile != "" {
				if mdevType != "" {
					return mderrors.New(mderrors.ErrInvalidInput,
						"an mdev type cannot be specified separately from a JSON file")
				}
				data, err := os.ReadFile(jsonFile)
				if err != nil {
					return mderrors.Wrapf(err, mderrors.ErrFileAccess, "failed to read %s", jsonFile)
				}
				if err := dev.LoadFromJSON(parent, data); err != nil {
					return err
				}
			} else {
				if mdevType == "" {
					return mderrors.New(mderrors.ErrInvalidInput,
						"either an mdev type or a JSON file is required")
				}
				dev.SetMdevType(mdevType)
				dev.AutoStart = auto
			}

			err = callout.Invoke(dev, callout.ActionDefine, force, func(callout.Device) error {
				return dev.Define()
			})
			if err != nil {
				return err
			}

			cmd.Println(dev.ID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Device UUID (generated when omitted)")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent device")
	cmd.Flags().StringVarP(&mdevType, "type", "t", "", "Mediated device type")
	cmd.Flags().BoolVar(&auto, "auto", false, "Start the device automatically")
	cmd.Flags().StringVar(&jsonFile, "jsonfile", "", "Define from a JSON device definition")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even if a pre callout script rejects the action")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}
