package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/remind"
)

func addReminders(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"remind"},
		Short:   "List upcoming reminders",
		Long: `Reminders lists the scheduled reminders due within the given window,
soonest first.`,
		Example: `
dumpdash reminders
dumpdash reminders --within 3d
dumpdash reminders --within 1w2d --calendar
dumpdash reminders --within all --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			window, err := wo.GetWindow()
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := remind.Remind{
				Window:   window,
				Calendar: wo.Calendar,
				JSON:     output.JSON,
				App:      svc,
			}
			return output.HandleError(explain(s.Do(cmd.Context())))
		},
	}

	options.AddWindowArgs(cmd, wo)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
