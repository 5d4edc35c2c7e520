package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/feedback"
)

func addFeedback(topLevel *cobra.Command) {
	fo := &options.FeedbackOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback to the dumpdash team",
		Example: `
dumpdash feedback
dumpdash feedback -c bug -m "the today bucket shows yesterday's dumps"
dumpdash feedback -c feature -m "export to calendar please" --rating 4
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := feedback.Feedback{
				Form:   fo.Form(),
				Prompt: i.Prompter(cmd),
				App:    svc,
			}
			return explain(s.Do(cmd.Context()))
		},
	}

	options.AddFeedbackArgs(cmd, fo)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}
