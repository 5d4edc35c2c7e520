package options

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/dump"
)

// RejectOptions
type RejectOptions struct {
	Reason string
}

func AddRejectArgs(cmd *cobra.Command, o *RejectOptions) {
	cmd.Flags().StringVarP(&o.Reason, "reason", "r", "",
		fmt.Sprintf("Why the dump is wrong, at least %d characters.", dump.MinRejectReason))
}
