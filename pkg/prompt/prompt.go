// Package prompt asks for missing command input on an interactive terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrNotInteractive is returned when input is needed but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("input required but not running interactively")

var templates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

// Prompter reads answers from In and echoes to Out.
type Prompter struct {
	In          io.ReadCloser
	Out         io.WriteCloser
	Interactive bool
}

// String asks for a line of text. validate may be nil.
func (p Prompter) String(label string, validate func(string) error) (string, error) {
	if !p.Interactive {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrNotInteractive)
	}
	pr := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Validate:  trimmed(validate),
		Stdin:     p.In,
		Stdout:    p.Out,
	}
	result, err := pr.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Secret is String with the answer masked.
func (p Prompter) Secret(label string, validate func(string) error) (string, error) {
	if !p.Interactive {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrNotInteractive)
	}
	pr := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Validate:  trimmed(validate),
		Mask:      '•',
		Stdin:     p.In,
		Stdout:    p.Out,
	}
	result, err := pr.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Select asks the user to pick one of items.
func (p Prompter) Select(label string, items []string) (string, error) {
	if !p.Interactive {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrNotInteractive)
	}
	sel := promptui.Select{
		HideHelp: true,
		Label:    label,
		Items:    items,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ . | bold }}",
			Inactive: "   {{ . }}",
			Selected: "{{ . | bold }}",
		},
		Size:   len(items),
		Stdin:  p.In,
		Stdout: p.Out,
	}
	_, result, err := sel.Run()
	return result, err
}

func trimmed(validate func(string) error) promptui.ValidateFunc {
	return func(input string) error {
		input = strings.TrimSpace(input)
		if validate != nil {
			return validate(input)
		}
		if input == "" {
			return errors.New("empty")
		}
		return nil
	}
}

// NopCloser wraps w so promptui can take ownership of it without closing
// the real stream.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
