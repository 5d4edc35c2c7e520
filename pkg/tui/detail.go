package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
)

func (m *Model) openDetail(it derive.Item) {
	m.mode = modeDetail
	m.detailFor = it.ID
	m.detail = viewport.New(m.detailWidth(), m.detailHeight())
	m.detail.SetContent(m.renderMarkdown(detailMarkdown(it)))
}

func (m *Model) handleDetailKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Detail):
		m.mode = modeNormal
		m.detailFor = ""
	default:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

// resizeDetail re-renders the open detail for the new window size.
func (m *Model) resizeDetail() {
	if m.mode != modeDetail {
		return
	}
	if d, ok := m.svc.Cache().Get(m.detailFor); ok {
		m.openDetail(derive.Enrich(d, m.svc.Now()))
	}
}

func (m *Model) detailWidth() int {
	return max(m.viewWidth()-2, 20)
}

func (m *Model) detailHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	return max(h-chromeLines, 3)
}

func (m *Model) renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(m.detailWidth()-4, 10)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func detailMarkdown(it derive.Item) string {
	var b strings.Builder
	title := strings.Join(strings.Fields(it.Title()), " ")
	if title == "" {
		title = it.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	due := it.DisplayDate.Format("Mon Jan 2, 2006")
	switch {
	case !it.HasDueDate:
		due += " (no date extracted)"
	case it.Overdue:
		due += " (overdue)"
	}
	fields := [][2]string{
		{"Bucket", it.Bucket.Title()},
		{"Date", due},
		{"Category", it.Category},
		{"Type", it.ContentType},
		{"Status", it.Processing.String()},
	}
	if it.Review != dump.ReviewUnknown {
		fields = append(fields, [2]string{"Review", it.Review.String()})
	}
	if u := it.Urgency(); u != dump.UrgencyUnknown {
		fields = append(fields, [2]string{"Urgency", u.String()})
	}
	fields = append(fields, [2]string{"ID", "`" + it.ID + "`"})
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", f[0], f[1])
	}
	b.WriteString("\n")

	section := func(name, body string) {
		if body = strings.TrimSpace(body); body != "" {
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", name, body)
		}
	}
	list := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", name)
		for _, s := range items {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(s))
		}
		b.WriteString("\n")
	}
	section("Summary", it.Summary)
	section("Content", it.RawContent)
	section("Notes", it.Notes)
	list("Action items", it.ActionItems())
	list("Phone numbers", it.PhoneNumbers())
	if it.Extracted != nil {
		list("People", it.Extracted.People)
		list("Places", it.Extracted.Locations)
	}
	return b.String()
}
