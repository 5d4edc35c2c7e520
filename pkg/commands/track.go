package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/track"
)

func addTracking(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "tracking",
		Aliases: []string{"track"},
		Short:   "List contacts and follow-ups being tracked",
		Example: `
dumpdash tracking
dumpdash tracking --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := track.Track{JSON: output.JSON, App: svc}
			return output.HandleError(explain(s.Do(cmd.Context())))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
