package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration, session and where they are stored.",
		Example: `
dumpdash info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession()
			if err != nil {
				return err
			}
			i := info.Info{
				Config:      s.Config,
				Persistence: s.Persistence,
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
