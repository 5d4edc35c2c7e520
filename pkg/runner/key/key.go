// Package key provides CLI helpers to display the dashboard legend.
package key

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/printers"
)

// Key prints the glyphs used for review state, urgency and flags.
type Key struct{}

// Do renders the legend to stdout.
func (k *Key) Do(ctx context.Context) error {
	_, _ = fmt.Fprintln(color.Output, "")
	pp := printers.PrettyPrint{}
	pp.Legend()
	return nil
}
