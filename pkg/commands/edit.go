package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	eo := &options.EditOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the category, notes or text of a dump",
		Long: `Edit applies the change locally right away and rolls it back when the
server refuses it. Only the flags you pass are sent.`,
		Example: `
dumpdash edit 6f1c2a --category errands
dumpdash edit 6f1c2a --notes "ask about the invoice"
dumpdash edit 6f1c2a --notes=""
`,
		Args: requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := edit.Edit{
				ID:     args[0],
				Patch:  eo.Patch(cmd),
				ShowID: io.ShowID,
				App:    svc,
			}
			return explain(s.Do(cmd.Context()))
		},
	}

	options.AddEditArgs(cmd, eo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
