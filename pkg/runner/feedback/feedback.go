// Package feedback provides the runner that sends product feedback.
package feedback

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/prompt"
)

// Feedback submits Form. A missing category or message is asked for when
// Prompt is interactive.
type Feedback struct {
	Form   dump.Feedback
	Prompt prompt.Prompter
	App    *app.Service
}

// Do executes the runner.
func (n *Feedback) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not send feedback, no service")
	}

	if n.Form.Category == "" {
		cats := dump.AllFeedbackCategories()
		items := make([]string, 0, len(cats))
		for _, c := range cats {
			items = append(items, string(c))
		}
		picked, err := n.Prompt.Select("Category", items)
		if err != nil {
			return err
		}
		n.Form.Category = dump.FeedbackCategory(picked)
	}
	if n.Form.Message == "" {
		msg, err := n.Prompt.String("Message", func(s string) error {
			probe := n.Form
			probe.Message = s
			return probe.Validate()
		})
		if err != nil {
			return err
		}
		n.Form.Message = msg
	}

	if err := n.App.Feedback(ctx, n.Form); err != nil {
		return err
	}
	_, _ = color.New(color.FgGreen).Fprintln(color.Output, "✓ thanks, feedback sent")
	return nil
}
