package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/timeutil"
)

// WindowOptions
type WindowOptions struct {
	Within   string
	Calendar bool
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVarP(&o.Within, "within", "w", timeutil.DefaultWindow,
		`Look-ahead window, example: --within=3d, --within=2w or --within=all.`)
	cmd.Flags().BoolVar(&o.Calendar, "calendar", false,
		"Show a month calendar with reminder days highlighted.")
}

func (o *WindowOptions) GetWindow() (timeutil.Window, error) {
	return timeutil.ParseWindow(o.Within)
}
