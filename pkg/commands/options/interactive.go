package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/prompt"
)

// InteractiveOptions
type InteractiveOptions struct {
	NoInput bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVar(&o.NoInput, "no-input", false,
		`Never prompt, fail when a required value is missing.`)
}

// Prompter asks on the command's streams when stdin is a terminal.
func (o *InteractiveOptions) Prompter(cmd *cobra.Command) prompt.Prompter {
	fd := os.Stdin.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return prompt.Prompter{
		In:          os.Stdin,
		Out:         prompt.NopCloser(cmd.OutOrStdout()),
		Interactive: tty && !o.NoInput,
	}
}
