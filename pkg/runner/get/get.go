// Package get provides the runners that print the dashboard or a single dump.
package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/printers"
)

// Get prints the bucketed dashboard, or one dump when ID is set.
type Get struct {
	ID     string
	Bucket string
	All    bool
	ShowID bool
	JSON   bool
	Width  int
	App    *app.Service
}

// Do executes the runner.
func (n *Get) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get, no service")
	}
	if n.ID != "" {
		return n.one(ctx)
	}

	var only *bucket.Bucket
	if n.Bucket != "" {
		b, err := bucket.Parse(n.Bucket)
		if err != nil {
			return err
		}
		only = &b
	}

	d, err := n.App.Dashboard(ctx)
	if err != nil {
		return err
	}
	if only != nil {
		kept := d.Sections[:0]
		for _, sec := range d.Sections {
			if sec.Bucket == *only {
				// Asking for a bucket by name shows it even when collapsed.
				sec.Expanded = true
				kept = append(kept, sec)
			}
		}
		d.Sections = kept
	}

	if n.JSON {
		return printJSON(d)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Width: n.Width}
	pp.NewLine()
	pp.Dashboard(d, n.All)
	return nil
}

func (n *Get) one(ctx context.Context) error {
	it, err := n.App.Item(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printJSON(it)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Width: n.Width}
	pp.NewLine()
	pp.Detail(it)
	return nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
