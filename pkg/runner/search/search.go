// Package search provides the runner for natural-language search.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/printers"
)

// Search runs Request and prints ranked hits with facet counts.
type Search struct {
	Request dump.SearchRequest
	ShowID  bool
	JSON    bool
	App     *app.Service
}

// Do executes the runner.
func (n *Search) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not search, no service")
	}
	resp, err := n.App.Search(ctx, n.Request)
	if err != nil {
		return err
	}
	if n.JSON {
		b, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.SearchResults(resp)
	return nil
}
