// Package remind provides the runner that lists upcoming reminders.
package remind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/printers"
	"tableflip.dev/dumpdash/pkg/timeutil"
)

// Remind lists reminders due inside Window, soonest first.
type Remind struct {
	Window   timeutil.Window
	Calendar bool
	JSON     bool
	App      *app.Service
}

// Do executes the runner.
func (n *Remind) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not list reminders, no service")
	}
	items, err := n.App.Reminders(ctx, n.Window)
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
	if n.Calendar {
		pp.ReminderCalendar(n.App.Now(), items)
	}
	pp.Reminders(n.Window.String(), items)
	return nil
}
