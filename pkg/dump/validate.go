package dump

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MinRejectReason is the shortest rejection reason the form accepts.
	MinRejectReason = 10
	// MinFeedbackMessage is the shortest feedback message the form accepts.
	MinFeedbackMessage = 10
)

// ValidationError is a form-level problem tied to a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateRejectReason checks the free-text reason given with a rejection.
func ValidateRejectReason(reason string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(reason)); n < MinRejectReason {
		return &ValidationError{
			Field:   "reason",
			Message: fmt.Sprintf("must be at least %d characters (got %d)", MinRejectReason, n),
		}
	}
	return nil
}

// Validate checks that the patch changes something and keeps a category.
func (p Patch) Validate() error {
	if p.Category == nil && p.Notes == nil && p.RawContent == nil {
		return &ValidationError{Field: "patch", Message: "nothing to update"}
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return &ValidationError{Field: "category", Message: "required"}
	}
	if p.RawContent != nil && strings.TrimSpace(*p.RawContent) == "" {
		return &ValidationError{Field: "content", Message: "can not be empty"}
	}
	return nil
}

// FeedbackCategory is the closed set of feedback kinds.
type FeedbackCategory string

const (
	FeedbackBug     FeedbackCategory = "bug"
	FeedbackFeature FeedbackCategory = "feature"
	FeedbackGeneral FeedbackCategory = "general"
	FeedbackOther   FeedbackCategory = "other"
)

// AllFeedbackCategories returns the supported feedback kinds.
func AllFeedbackCategories() []FeedbackCategory {
	return []FeedbackCategory{FeedbackBug, FeedbackFeature, FeedbackGeneral, FeedbackOther}
}

// Feedback is the body of POST /feedback/submit.
type Feedback struct {
	Category FeedbackCategory `json:"category"`
	Message  string           `json:"message"`
	Rating   int              `json:"rating,omitempty"`
	Email    string           `json:"email,omitempty"`
	UserID   string           `json:"user_id,omitempty"`
}

// Validate checks the feedback form.
func (f Feedback) Validate() error {
	known := false
	for _, c := range AllFeedbackCategories() {
		if f.Category == c {
			known = true
			break
		}
	}
	if !known {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("must be one of %v", AllFeedbackCategories())}
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(f.Message)); n < MinFeedbackMessage {
		return &ValidationError{
			Field:   "message",
			Message: fmt.Sprintf("must be at least %d characters (got %d)", MinFeedbackMessage, n),
		}
	}
	if f.Rating < 0 || f.Rating > 5 {
		return &ValidationError{Field: "rating", Message: "must be between 0 and 5"}
	}
	if f.Email != "" && !strings.Contains(f.Email, "@") {
		return &ValidationError{Field: "email", Message: "does not look like an address"}
	}
	return nil
}
