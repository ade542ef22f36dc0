package commands

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/callout"
	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newAttributesCmd() *cobra.Command {
	var (
		uuidStr string
		parent  string
	)

	cmd := &cobra.Command{
		Use:   "attributes",
		Short: "Query a device's attributes from its callout script",
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

			value, err := callout.GetAttributes(dev)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return mderrors.Wrap(err, mderrors.ErrInternal, "failed to render attributes")
			}
			cmd.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Device UUID")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent device")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}
