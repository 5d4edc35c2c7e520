package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
)

const defaultWidth = 80

type PrettyPrint struct {
	ShowID bool
	Width  int
	Out    io.Writer
}

var (
	spacing = strings.Repeat(" ", len("3fa85f64-5717-4562  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return defaultWidth
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, note string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprint(pp.out(), " item")
	default:
		_, _ = c.Fprint(pp.out(), " items")
	}
	if note != "" {
		_, _ = c.Fprintf(pp.out(), " (%s)", note)
	}
	_, _ = fmt.Fprintln(pp.out())
}

// Dashboard prints every bucket. Collapsed buckets show only their heading
// unless all is set.
func (pp *PrettyPrint) Dashboard(d app.Dashboard, all bool) {
	for _, sec := range d.Sections {
		if !sec.Expanded && !all {
			pp.TitleWithCount(sec.Title(), len(sec.Items), "collapsed")
			pp.NewLine()
			continue
		}
		pp.TitleWithCount(sec.Title(), len(sec.Items), "")
		pp.Items(sec.Items...)
	}
	pp.Summary(d.Summary)
}

func (pp *PrettyPrint) Items(items ...derive.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	for _, it := range items {
		pp.Item(it)
	}
	pp.NewLine()
}

// Item prints one dashboard line.
func (pp *PrettyPrint) Item(it derive.Item) {
	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	date := color.New(color.Faint)
	if it.Overdue {
		date = color.New(color.FgRed)
	}

	if pp.ShowID {
		id := it.ID
		if len(id) >= len(spacing) {
			id = id[:len(spacing)-2]
		}
		_, _ = y.Fprint(pp.out(), id)
		_, _ = y.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(id)))
	}

	prefix := fmt.Sprintf("%s %-2s ", it.Review.Symbol(), it.Urgency().Symbol())
	when := it.DisplayDate.Format("Jan 02")
	flags := flagsFor(it)
	room := pp.width() - len(prefix) - len(when) - len(flags) - 3
	if pp.ShowID {
		room -= len(spacing)
	}
	if room < 10 {
		room = 10
	}
	title := truncate.StringWithTail(oneLine(it.Title()), uint(room), "…")

	_, _ = t.Fprint(pp.out(), prefix)
	_, _ = date.Fprint(pp.out(), when)
	_, _ = t.Fprintf(pp.out(), "  %s", title)
	if flags != "" {
		_, _ = color.New(color.FgCyan).Fprintf(pp.out(), " %s", flags)
	}
	_, _ = fmt.Fprintln(pp.out())
}

func flagsFor(it derive.Item) string {
	var f []string
	if it.HasReminder {
		f = append(f, "⏰")
	}
	if it.HasTracking {
		f = append(f, "☎")
	}
	return strings.Join(f, " ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Detail prints everything known about one dump.
func (pp *PrettyPrint) Detail(it derive.Item) {
	label := color.New(color.Bold)
	faint := color.New(color.Faint)
	w := pp.out()

	pp.Title(oneLine(it.Title()))
	row := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		_, _ = label.Fprintf(w, "%-12s", name)
		_, _ = fmt.Fprintln(w, value)
	}
	row("id", it.ID)
	row("bucket", it.Bucket.Title())
	due := it.DisplayDate.Format("Mon Jan 2, 2006")
	if !it.HasDueDate {
		due += faint.Sprint(" (no date extracted)")
	} else if it.Overdue {
		due += color.New(color.FgRed).Sprint(" (overdue)")
	}
	row("date", due)
	row("created", it.CreatedAt)
	row("category", it.Category)
	row("type", it.ContentType)
	row("status", fmt.Sprintf("%s %s", it.Processing.Symbol(), it.Processing))
	if it.Review != dump.ReviewUnknown {
		row("review", fmt.Sprintf("%s %s", it.Review.Symbol(), it.Review))
	}
	if u := it.Urgency(); u != dump.UrgencyUnknown {
		row("urgency", fmt.Sprintf("%s %s", u.Symbol(), u))
	}
	row("actions", strings.Join(it.ActionItems(), "; "))
	row("phones", strings.Join(it.PhoneNumbers(), ", "))
	if it.Extracted != nil {
		row("people", strings.Join(it.Extracted.People, ", "))
		row("places", strings.Join(it.Extracted.Locations, ", "))
		row("dates", strings.Join(it.Extracted.Dates, ", "))
	}
	pp.NewLine()
	pp.block("Summary", it.Summary)
	pp.block("Content", it.RawContent)
	pp.block("Notes", it.Notes)
}

func (pp *PrettyPrint) block(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	_, _ = color.New(color.Italic).Fprintln(pp.out(), title)
	_, _ = fmt.Fprintln(pp.out(), wordwrap.String(strings.TrimSpace(body), pp.width()))
	pp.NewLine()
}

// Toast prints the outcome of a mutation on one line.
func (pp *PrettyPrint) Toast(op string, res cache.Result) {
	if res.Success {
		_, _ = color.New(color.FgGreen).Fprintf(pp.out(), "✓ %s done\n", op)
		return
	}
	msg := res.Message
	if msg == "" && res.Err != nil {
		msg = res.Err.Error()
	}
	_, _ = color.New(color.FgRed).Fprintf(pp.out(), "✘ %s\n", msg)
}

// Summary prints the dashboard footer.
func (pp *PrettyPrint) Summary(s app.Summary) {
	c := color.New(color.Faint)
	parts := []string{fmt.Sprintf("%d total", s.Total)}
	if s.Overdue > 0 {
		parts = append(parts, color.New(color.FgRed).Sprintf("%d overdue", s.Overdue))
	}
	if s.PendingReview > 0 {
		parts = append(parts, fmt.Sprintf("%d awaiting review", s.PendingReview))
	}
	if s.WithReminder > 0 {
		parts = append(parts, fmt.Sprintf("%d with reminders", s.WithReminder))
	}
	if s.WithTracking > 0 {
		parts = append(parts, fmt.Sprintf("%d tracked", s.WithTracking))
	}
	_, _ = c.Fprintln(pp.out(), strings.Join(parts, " · "))
}
