package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/virtkit/mdevman/pkg/device"
	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

func newListCmd() *cobra.Command {
	var (
		uuidStr string
		parent  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted mediated device definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}

			id := uuid.Nil
			if uuidStr != "" {
				id, err = uuid.Parse(uuidStr)
				if err != nil {
					return mderrors.Wrapf(err, mderrors.ErrInvalidInput, "invalid uuid %q", uuidStr)
				}
			}

			devs, err := device.ListDefined(env, newFs(), id, parent)
			if err != nil {
				return err
			}

			for _, dev := range devs {
				devParent, err := dev.Parent()
				if err != nil {
					return err
				}
				out, err := dev.PrettyJSON()
				if err != nil {
					return err
				}
				cmd.Printf("%s %s\n%s", dev.ID(), devParent, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&uuidStr, "uuid", "u", "", "Filter by device UUID")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Filter by parent device")

	return cmd
}
