package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/api"
	"tableflip.dev/dumpdash/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	var logFile string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive dashboard",
		Example: `
dumpdash ui
dumpdash ui --log-file /tmp/dumpdash.log
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runUI(cmd, logFile)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "",
		"Write logs here while the dashboard owns the screen.")

	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, logFile string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	// Search-as-you-type drops answers to queries that were typed over.
	s.App.Searcher = api.NewSearcher(s.Client)
	i := ui.UI{App: s.App, LogFile: logFile}
	return i.Do(cmd.Context())
}
