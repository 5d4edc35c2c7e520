// Package login provides the runners that sign in and out.
package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/prompt"
)

// Login exchanges a phone number and verification code for a session.
// Missing values are asked for when Prompt is interactive.
type Login struct {
	Phone  string
	Code   string
	Prompt prompt.Prompter
	App    *app.Service
}

// Do executes the runner.
func (n *Login) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not login, no service")
	}

	var err error
	if n.Phone == "" {
		if n.Phone, err = n.Prompt.String("Phone number", nil); err != nil {
			return err
		}
	}
	if n.Code == "" {
		if n.Code, err = n.Prompt.Secret("Verification code", nil); err != nil {
			return err
		}
	}

	session, err := n.App.Login(ctx, n.Phone, n.Code)
	if err != nil {
		return err
	}

	who := session.User.Name
	if who == "" {
		who = session.User.ID
	}
	_, _ = color.New(color.FgGreen).Fprintf(color.Output, "✓ logged in as %s\n", who)
	return nil
}

// Logout forgets the stored session.
type Logout struct {
	App *app.Service
}

// Do executes the runner.
func (n *Logout) Do(_ context.Context) error {
	if n.App == nil {
		return errors.New("can not logout, no service")
	}
	if err := n.App.Logout(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, "logged out")
	return nil
}
