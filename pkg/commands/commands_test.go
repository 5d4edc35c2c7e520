package commands

import (
	"errors"
	"fmt"
	"testing"

	"tableflip.dev/dumpdash/pkg/api"
	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/optimistic"
	"tableflip.dev/dumpdash/pkg/runner/review"
)

func TestCommandsRegistered(t *testing.T) {
	root := New()
	for _, name := range []string{
		"ui", "dashboard", "show", "edit", "approve", "reject", "search",
		"reminders", "tracking", "feedback", "login", "logout", "mcp",
		"info", "key", "completion", "version", "upgrade",
	} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("expected sub-command %q, got %v", name, err)
		}
	}
	if f := root.PersistentFlags().Lookup("verbose"); f == nil || f.Shorthand != "v" {
		t.Fatalf("expected a --verbose/-v flag")
	}
}

func TestRequireID(t *testing.T) {
	if err := requireID(nil, nil); err == nil {
		t.Fatalf("expected an error without an id")
	}
	if err := requireID(nil, []string{"a", "b"}); err == nil {
		t.Fatalf("expected an error with two ids")
	}
	if err := requireID(nil, []string{"a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExplainAddsLoginHint(t *testing.T) {
	err := explain(fmt.Errorf("list dumps: %w", api.ErrUnauthorized))
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected the cause to be kept, got %v", err)
	}
	if got := err.Error(); got != "list dumps: unauthorized (run `dumpdash login`)" {
		t.Fatalf("unexpected message %q", got)
	}

	plain := errors.New("boom")
	if explain(plain) != plain {
		t.Fatalf("expected other errors untouched")
	}
}

func TestReportedErrors(t *testing.T) {
	err := explain(review.Report("approve", cache.Result{Phase: optimistic.RolledBack, Message: "approve failed: offline"}))
	if err == nil || !Reported(err) {
		t.Fatalf("expected a reported error, got %v", err)
	}
	if !Reported(fmt.Errorf("%w: boom", options.ErrPrinted)) {
		t.Fatalf("expected json errors to count as reported")
	}
	if Reported(errors.New("boom")) || Reported(fmt.Errorf("list dumps: %w", api.ErrUnauthorized)) {
		t.Fatalf("other errors still need logging")
	}
}
