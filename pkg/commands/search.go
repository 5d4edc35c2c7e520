package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command) {
	so := &options.SearchOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search dumps in plain language",
		Example: `
dumpdash search dentist appointment
dumpdash search "invoices from march" --category finance --from 2025-3-1 --to 3/31
dumpdash search groceries -u high -u critical --json
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a query")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			req, err := so.Request(strings.Join(args, " "), svc.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s := search.Search{
				Request: req,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
				App:     svc,
			}
			return output.HandleError(explain(s.Do(cmd.Context())))
		},
	}

	options.AddSearchArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
