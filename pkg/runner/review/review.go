// Package review provides the runner that approves or rejects AI-flagged
// dumps.
package review

import (
	"context"
	"errors"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/printers"
)

// ErrRolledBack is returned when the server refused or never received the
// decision. The toast has already been printed by then.
var ErrRolledBack = errors.New("change was rolled back")

// Review approves ID, or rejects it with Reason when Reject is set.
type Review struct {
	ID     string
	Reject bool
	Reason string
	App    *app.Service
}

// Do executes the runner.
func (n *Review) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not review, no service")
	}

	var (
		op  string
		res cache.Result
		err error
	)
	if n.Reject {
		op = "reject"
		res, err = n.App.Reject(ctx, n.ID, n.Reason)
	} else {
		op = "approve"
		res, err = n.App.Approve(ctx, n.ID)
	}
	if err != nil {
		return err
	}
	return Report(op, res)
}

// Report prints the settled outcome of a mutation and turns a rollback into
// ErrRolledBack.
func Report(op string, res cache.Result) error {
	pp := printers.PrettyPrint{}
	pp.Toast(op, res)
	if !res.Success {
		return ErrRolledBack
	}
	return nil
}
