package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/get"
)

func addDashboard(topLevel *cobra.Command) {
	do := &options.DashboardOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash", "ls"},
		Short:   "Print the bucketed dashboard",
		Long: `Print every dump grouped into overdue, today, tomorrow, next week,
next month and later. Collapsed buckets only show their count unless --all
is given or the bucket is asked for by name.`,
		Example: `
dumpdash dashboard
dumpdash dashboard --bucket today
dumpdash dashboard --all --show-id
dumpdash dashboard --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runDashboard(cmd, do, io)
		},
	}

	options.AddDashboardArgs(cmd, do)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func runDashboard(cmd *cobra.Command, do *options.DashboardOptions, io *options.IDOptions) error {
	svc, err := loadService()
	if err != nil {
		return output.HandleError(err)
	}
	s := get.Get{
		Bucket: do.Bucket,
		All:    do.All,
		ShowID: io.ShowID,
		JSON:   output.JSON,
		App:    svc,
	}
	return output.HandleError(explain(s.Do(cmd.Context())))
}

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one dump with everything extracted from it",
		Example: `
dumpdash show 6f1c2a
dumpdash show 6f1c2a --json
`,
		Args: requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := get.Get{
				ID:     args[0],
				ShowID: io.ShowID,
				JSON:   output.JSON,
				App:    svc,
			}
			return output.HandleError(explain(s.Do(cmd.Context())))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
