package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/api"
)

// ErrPrinted marks errors that HandleError already wrote to stdout.
var ErrPrinted = errors.New("error printed as json")

// OutputOptions selects machine-readable output.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

type jsonError struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Status int    `json:"status,omitempty"`
}

// HandleError writes err as a JSON document when --json is set. The
// returned error wraps ErrPrinted so the exit code stays non-zero.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	out := jsonError{Error: err.Error()}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		out.Kind = apiErr.Kind.String()
		out.Status = apiErr.StatusCode
	}
	b, merr := json.Marshal(out)
	if merr != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return fmt.Errorf("%w: %w", ErrPrinted, err)
}
