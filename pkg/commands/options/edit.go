package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/dump"
)

// EditOptions
type EditOptions struct {
	Category string
	Notes    string
	Content  string
}

func AddEditArgs(cmd *cobra.Command, o *EditOptions) {
	cmd.Flags().StringVar(&o.Category, "category", "",
		"Set the category.")
	cmd.Flags().StringVar(&o.Notes, "notes", "",
		`Set the notes, --notes="" clears them.`)
	cmd.Flags().StringVar(&o.Content, "content", "",
		"Replace the captured text.")
}

// Patch holds only the flags that were set on cmd.
func (o *EditOptions) Patch(cmd *cobra.Command) dump.Patch {
	var p dump.Patch
	if cmd.Flags().Changed("category") {
		p.Category = &o.Category
	}
	if cmd.Flags().Changed("notes") {
		p.Notes = &o.Notes
	}
	if cmd.Flags().Changed("content") {
		p.RawContent = &o.Content
	}
	return p
}
