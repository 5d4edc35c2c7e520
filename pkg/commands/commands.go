package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/dumpdash/pkg/commands/options"
)

var (
	output  = &options.OutputOptions{}
	verbose bool
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "dumpdash",
		Short: base.Wrap80("A terminal dashboard for your AI-sorted brain dumps."),
		Long: base.Wrap80("Dumpdash groups your captured dumps into time buckets " +
			"(overdue, today, tomorrow, next week, next month and later) and lets you " +
			"approve, reject and edit what the assistant extracted. Run without a " +
			"sub-command in a terminal to open the interactive dashboard."),
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactiveTerminal() {
				return runUI(cmd, "")
			}
			return runDashboard(cmd, &options.DashboardOptions{}, &options.IDOptions{})
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log requests and other debug output to stderr.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addDashboard(topLevel)
	addShow(topLevel)
	addEdit(topLevel)
	addApprove(topLevel)
	addReject(topLevel)
	addSearch(topLevel)
	addReminders(topLevel)
	addTracking(topLevel)
	addFeedback(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05", NoColor: true})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func interactiveTerminal() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}
