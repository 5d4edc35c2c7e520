package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/runner/review"
)

func requireID(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("requires a dump id")
	}
	return nil
}

func addApprove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Accept what the assistant extracted from a dump",
		Example: `
dumpdash approve 6f1c2a
`,
		Args: requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := review.Review{ID: args[0], App: svc}
			return explain(s.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}

func addReject(topLevel *cobra.Command) {
	ro := &options.RejectOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a dump and tell the assistant why",
		Example: `
dumpdash reject 6f1c2a --reason "this was a joke, not a task"
dumpdash reject 6f1c2a
`,
		Args: requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if ro.Reason == "" {
				label := fmt.Sprintf("Reason (at least %d characters)", dump.MinRejectReason)
				reason, err := i.Prompter(cmd).String(label, dump.ValidateRejectReason)
				if err != nil {
					return err
				}
				ro.Reason = reason
			}
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := review.Review{ID: args[0], Reject: true, Reason: ro.Reason, App: svc}
			return explain(s.Do(cmd.Context()))
		},
	}

	options.AddRejectArgs(cmd, ro)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}
