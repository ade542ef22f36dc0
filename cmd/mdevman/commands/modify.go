package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/callout"
	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newModifyCmd() *cobra.Command {
	var (
		uuidStr   string
		parent    string
		mdevType  string
		addAttr   string
		attrValue string
		delAttr   bool
		index     int
		auto      bool
		manual    bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Modify a persisted mediated device definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			if auto && manual {
				return mderrors.New(mderrors.ErrInvalidInput, "--auto and --manual are mutually exclusive")
			}

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

			if mdevType != "" {
				dev.SetMdevType(mdevType)
			}
			if auto {
				dev.AutoStart = true
			}
			if manual {
				dev.AutoStart = false
			}
			if addAttr != "" {
				dev.AddAttribute(addAttr, attrValue, index)
			} else if delAttr {
				if err := dev.DeleteAttribute(index); err != nil {
					return err
				}
			}

			return callout.Invoke(dev, callout.ActionModify, force, func(callout.Device) error {
				return dev.Update()
			})
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Device UUID")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent device")
	cmd.Flags().StringVarP(&mdevType, "type", "t", "", "New mediated device type")
	cmd.Flags().StringVar(&addAttr, "addattr", "", "Attribute name to add")
	cmd.Flags().StringVar(&attrValue, "value", "", "Value for --addattr")
	cmd.Flags().BoolVar(&delAttr, "delattr", false, "Delete an attribute")
	cmd.Flags().IntVar(&index, "index", -1, "Attribute index for --addattr/--delattr")
	cmd.Flags().BoolVar(&auto, "auto", false, "Start the device automatically")
	cmd.Flags().BoolVar(&manual, "manual", false, "Start the device manually")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even if a pre callout script rejects the action")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}
