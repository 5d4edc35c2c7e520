package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/login"
)

func addLogin(topLevel *cobra.Command) {
	lo := &options.LoginOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your phone number",
		Example: `
dumpdash login
dumpdash login --phone +15555550100
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := login.Login{
				Phone:  lo.Phone,
				Code:   lo.Code,
				Prompt: i.Prompter(cmd),
				App:    svc,
			}
			return s.Do(cmd.Context())
		},
	}

	options.AddLoginArgs(cmd, lo)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Example: `
dumpdash logout
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := login.Logout{App: svc}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
