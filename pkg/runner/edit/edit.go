// Package edit provides the runner that changes the user-owned fields of a
// dump.
package edit

import (
	"context"
	"errors"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/printers"
	"tableflip.dev/dumpdash/pkg/runner/review"
)

// Edit applies Patch to ID and prints the result.
type Edit struct {
	ID     string
	Patch  dump.Patch
	ShowID bool
	App    *app.Service
}

// Do executes the runner.
func (n *Edit) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not edit, no service")
	}
	res, err := n.App.Edit(ctx, n.ID, n.Patch)
	if err != nil {
		return err
	}
	if err := review.Report("edit", res); err != nil {
		return err
	}
	if d, ok := dump.Find(res.Value, n.ID); ok {
		pp := printers.PrettyPrint{ShowID: n.ShowID}
		pp.NewLine()
		pp.Detail(derive.Enrich(d, n.App.Now()))
	}
	return nil
}
