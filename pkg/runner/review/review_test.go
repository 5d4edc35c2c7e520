package review

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/optimistic"
)

func TestReport(t *testing.T) {
	if err := Report("approve", cache.Result{Success: true, Phase: optimistic.Committed}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := Report("approve", cache.Result{Phase: optimistic.RolledBack, Message: "approve failed: offline"})
	if !errors.Is(err, ErrRolledBack) {
		t.Fatalf("expected ErrRolledBack, got %v", err)
	}
}

func TestReviewWithoutService(t *testing.T) {
	r := Review{ID: "a"}
	if err := r.Do(context.Background()); err == nil {
		t.Fatalf("expected an error without a service")
	}
}
