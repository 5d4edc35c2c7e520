package printers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/dump"
)

func (pp *PrettyPrint) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width() / 2)
	return tbl
}

// SearchResults prints ranked hits followed by the facet counts.
func (pp *PrettyPrint) SearchResults(resp *dump.SearchResponse) {
	bold := color.New(color.Bold)
	if resp == nil || len(resp.Results) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), " no matches")
		return
	}
	pp.TitleWithCount(fmt.Sprintf("Results for %q", resp.Query), resp.Total, "")

	tbl := pp.table()
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Score"), bold.Sprint("Match"), bold.Sprint("Dump"))
	} else {
		tbl.AddRow(bold.Sprint("Score"), bold.Sprint("Match"), bold.Sprint("Dump"))
	}
	for _, r := range resp.Results {
		text := oneLine(r.Dump.Title())
		if len(r.Highlights) > 0 {
			text = oneLine(r.Highlights[0])
		}
		score := fmt.Sprintf("%.2f", r.Score)
		if pp.ShowID {
			tbl.AddRow(r.Dump.ID, score, r.MatchType.String(), text)
		} else {
			tbl.AddRow(score, r.MatchType.String(), text)
		}
	}
	tbl.RightAlign(0)
	if pp.ShowID {
		tbl.RightAlign(1)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
	pp.Facets(resp.Facets)
}

// Facets prints one line per facet with counts, largest first.
func (pp *PrettyPrint) Facets(f dump.Facets) {
	label := color.New(color.Bold)
	line := func(name string, counts map[string]int) {
		if len(counts) == 0 {
			return
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if counts[keys[i]] != counts[keys[j]] {
				return counts[keys[i]] > counts[keys[j]]
			}
			return keys[i] < keys[j]
		})
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s (%d)", k, counts[k]))
		}
		_, _ = label.Fprintf(pp.out(), "%-14s", name)
		_, _ = fmt.Fprintln(pp.out(), strings.Join(parts, ", "))
	}
	line("categories", f.Categories)
	line("urgency", f.Urgency)
	line("content types", f.ContentTypes)
}

// Reminders prints upcoming reminders.
func (pp *PrettyPrint) Reminders(window string, items []app.ReminderItem) {
	pp.TitleWithCount("Reminders", len(items), window)
	if len(items) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), " none\n\n")
		return
	}
	bold := color.New(color.Bold)
	tbl := pp.table()
	tbl.AddRow(bold.Sprint("When"), bold.Sprint(""), bold.Sprint("Message"), bold.Sprint("Dump"))
	for _, r := range items {
		when := r.RemindAt
		if !r.At.IsZero() {
			when = r.At.Format("Mon Jan 2 15:04")
		}
		repeat := ""
		if r.Recurring {
			repeat = "↻"
		}
		tbl.AddRow(when, repeat, r.Message, r.DumpID)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Tracking prints followed-up contacts.
func (pp *PrettyPrint) Tracking(items []dump.Trackable) {
	pp.TitleWithCount("Tracking", len(items), "")
	if len(items) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), " none\n\n")
		return
	}
	bold := color.New(color.Bold)
	tbl := pp.table()
	tbl.AddRow(bold.Sprint("Contact"), bold.Sprint("Label"), bold.Sprint("Status"), bold.Sprint("Dump"))
	for _, t := range items {
		contact := t.PhoneNumber
		if contact == "" {
			contact = t.Kind
		}
		tbl.AddRow(contact, t.Label, t.Status, t.DumpID)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Legend prints the glyphs used by the dashboard.
func (pp *PrettyPrint) Legend() {
	bold := color.New(color.Bold)
	tbl := pp.table()
	tbl.AddRow(bold.Sprint("Review"), bold.Sprint("Meaning"))
	for _, r := range []dump.Review{dump.ReviewPending, dump.ReviewApproved, dump.ReviewRejected} {
		tbl.AddRow(r.Symbol(), r.String())
	}
	tbl.AddRow("", "")
	tbl.AddRow(bold.Sprint("Urgency"), bold.Sprint("Meaning"))
	for _, u := range dump.AllUrgencies() {
		tbl.AddRow(u.Symbol(), u.String())
	}
	tbl.AddRow("", "")
	tbl.AddRow(bold.Sprint("Flags"), bold.Sprint("Meaning"))
	tbl.AddRow("⏰", "has action items")
	tbl.AddRow("☎", "has phone numbers to follow up")
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
