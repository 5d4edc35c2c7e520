package options

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/dump"
)

const defaultSearchLimit = 20

// SearchOptions
type SearchOptions struct {
	Categories   []string
	Urgency      []string
	ContentTypes []string
	From         string
	To           string
	Limit        int
}

func AddSearchArgs(cmd *cobra.Command, o *SearchOptions) {
	cmd.Flags().StringSliceVarP(&o.Categories, "category", "c", nil,
		"Only match these categories (repeatable or comma separated).")
	cmd.Flags().StringSliceVarP(&o.Urgency, "urgency", "u", nil,
		"Only match these urgency levels: low, medium, high, critical.")
	cmd.Flags().StringSliceVarP(&o.ContentTypes, "type", "t", nil,
		"Only match these content types.")
	cmd.Flags().StringVar(&o.From, "from", "",
		`Earliest capture date, example: --from="2020-2-28" or --from="2/28".`)
	cmd.Flags().StringVar(&o.To, "to", "",
		`Latest capture date, example: --to="2020-3-15".`)
	cmd.Flags().IntVarP(&o.Limit, "limit", "n", defaultSearchLimit,
		"Maximum number of results.")

	_ = cmd.RegisterFlagCompletionFunc("urgency", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, 4)
		for _, u := range dump.AllUrgencies() {
			out = append(out, u.String())
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// Request builds the search body for query.
func (o *SearchOptions) Request(query string, now time.Time) (dump.SearchRequest, error) {
	req := dump.SearchRequest{
		Query: strings.TrimSpace(query),
		Limit: o.Limit,
		Filters: dump.SearchFilters{
			Categories:   o.Categories,
			ContentTypes: o.ContentTypes,
		},
	}
	if req.Query == "" {
		return req, errors.New("requires a query")
	}
	if req.Limit <= 0 {
		return req, fmt.Errorf("invalid limit %d", o.Limit)
	}
	for _, raw := range o.Urgency {
		u := dump.ParseUrgency(raw)
		if u == dump.UrgencyUnknown {
			return req, fmt.Errorf("unknown urgency %q", raw)
		}
		req.Filters.Urgency = append(req.Filters.Urgency, u)
	}

	var from, to time.Time
	if o.From != "" {
		t, err := ParseDay(o.From, now)
		if err != nil {
			return req, fmt.Errorf("--from: %w", err)
		}
		from = t
		req.Filters.DateFrom = dump.FormatDate(t)
	}
	if o.To != "" {
		t, err := ParseDay(o.To, now)
		if err != nil {
			return req, fmt.Errorf("--to: %w", err)
		}
		to = t
		req.Filters.DateTo = dump.FormatDate(t)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return req, errors.New("--to is before --from")
	}
	return req, nil
}
