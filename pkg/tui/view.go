package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header line + blank, blank + footer line
	chromeLines = 4
	// frame, title, input, error
	modalLines = 6
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.mode == modeHelp:
		b.WriteString(m.help.FullHelpView([][]key.Binding{m.keys.full()}))
		b.WriteString("\n")
	case m.mode == modeSearch:
		b.WriteString(m.renderSearch())
	case m.mode == modeDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n")
	case !m.loaded && m.status != "":
		b.WriteString(m.theme.Header.Alert.Render(m.status))
		b.WriteString("\n")
	case !m.loaded:
		b.WriteString(m.theme.Item.Empty.Render("loading dumps…"))
		b.WriteString("\n")
	default:
		first, last := m.window()
		for i := first; i < last; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	if m.mode == modeReason {
		b.WriteString(m.renderReason())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	h := m.theme.Header
	title := h.Title.Render("dumpdash")
	if !m.loaded {
		return title
	}
	s := m.dash.Summary
	parts := []string{fmt.Sprintf("%d dumps", s.Total)}
	if s.Overdue > 0 {
		parts = append(parts, h.Alert.Render(fmt.Sprintf("%d overdue", s.Overdue)))
	}
	if s.PendingReview > 0 {
		parts = append(parts, fmt.Sprintf("%d awaiting review", s.PendingReview))
	}
	if m.loading {
		parts = append(parts, "refreshing…")
	}
	return title + "  " + h.Stats.Render(strings.Join(parts, " · "))
}

func (m *Model) renderRow(i int) string {
	r := m.rows[i]
	selected := i == m.cursor
	if r.header {
		return m.renderSection(r, selected)
	}
	return m.renderItem(r.item, selected)
}

func (m *Model) renderSection(r row, selected bool) string {
	st := m.theme.Section
	expanded := m.svc.Expanded(r.bucket)
	count := 0
	for _, sec := range m.dash.Sections {
		if sec.Bucket == r.bucket {
			count = len(sec.Items)
			break
		}
	}

	arrow := "▾"
	if !expanded {
		arrow = "▸"
	}
	title := r.bucket.Title()
	if selected {
		title = st.Selected.Render(title)
	} else {
		title = st.Title.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", arrow, title, st.Count.Render(fmt.Sprintf("(%d)", count)))
	if !expanded {
		line += " " + st.Collapsed.Render("collapsed")
	}
	return line
}

func (m *Model) renderItem(it derive.Item, selected bool) string {
	st := m.theme.Item
	pending := m.pending(it.ID)

	date := st.Date
	if it.Overdue {
		date = st.Overdue
	}
	when := it.DisplayDate.Format("Jan 02")
	prefix := fmt.Sprintf("  %s %-2s ", it.Review.Symbol(), it.Urgency().Symbol())

	var flags []string
	if it.HasReminder {
		flags = append(flags, "⏰")
	}
	if it.HasTracking {
		flags = append(flags, "☎")
	}
	suffix := strings.Join(flags, " ")
	if pending {
		suffix = strings.TrimSpace(suffix + " saving…")
	}

	room := m.viewWidth() - lipgloss.Width(prefix) - len(when) - lipgloss.Width(suffix) - 4
	if room < 10 {
		room = 10
	}
	title := truncate.StringWithTail(strings.Join(strings.Fields(it.Title()), " "), uint(room), "…")

	body := st.Normal
	switch {
	case pending:
		body = st.Pending
		date = st.Pending
	case selected:
		body = st.Selected
	}

	line := prefix + date.Render(when) + "  " + body.Render(title)
	if suffix != "" {
		if pending {
			line += " " + st.Pending.Render(suffix)
		} else {
			line += " " + st.Flags.Render(suffix)
		}
	}
	return line
}

func (m *Model) renderReason() string {
	mt := m.theme.Modal
	title := "Reject"
	if d, ok := m.svc.Cache().Get(m.reasonFor); ok {
		title = "Reject: " + truncate.StringWithTail(d.Title(), uint(max(m.viewWidth()-16, 10)), "…")
	}
	lines := []string{mt.Title.Render(title), m.reason.View()}
	n := len([]rune(strings.TrimSpace(m.reason.Value())))
	switch {
	case m.reasonErr != "":
		lines = append(lines, mt.Error.Render(m.reasonErr))
	case n < dump.MinRejectReason:
		lines = append(lines, m.theme.Footer.Help.Render(fmt.Sprintf("%d/%d characters · enter to submit · esc to cancel", n, dump.MinRejectReason)))
	default:
		lines = append(lines, m.theme.Footer.Help.Render("enter to submit · esc to cancel"))
	}
	return mt.Frame.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	switch {
	case m.toast != "" && m.toastOK:
		return m.theme.Toast.Success.Render("✓ " + m.toast)
	case m.toast != "":
		return m.theme.Toast.Failure.Render("✘ " + m.toast)
	case m.loaded && m.status != "":
		return m.theme.Footer.Status.Render(m.status)
	case m.mode == modeHelp:
		return m.theme.Footer.Help.Render("? or esc to close")
	case m.mode == modeSearch:
		return m.theme.Footer.Help.Render("↑/↓ pick · enter to jump · esc to close")
	case m.mode == modeDetail:
		return m.theme.Footer.Help.Render(fmt.Sprintf("↑/↓ scroll · %3.f%% · esc to close", m.detail.ScrollPercent()*100))
	}
	return m.help.ShortHelpView(m.keys.short())
}

func (m *Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

// listHeight is how many rows fit between the header and the footer.
func (m *Model) listHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	h -= chromeLines
	if m.mode == modeReason {
		h -= modalLines
	}
	if h < 3 {
		h = 3
	}
	return h
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if maxOffset := len(m.rows) - h; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
}

func (m *Model) window() (int, int) {
	first := m.offset
	last := first + m.listHeight()
	if last > len(m.rows) {
		last = len(m.rows)
	}
	if first > last {
		first = last
	}
	return first, last
}
