// Package track provides the runner that lists followed-up contacts.
package track

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/printers"
)

// Track prints the tracking list.
type Track struct {
	JSON bool
	App  *app.Service
}

// Do executes the runner.
func (n *Track) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get tracking, no service")
	}
	items, err := n.App.Tracking(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Tracking(items)
	return nil
}
