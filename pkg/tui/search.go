package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/dumpdash/pkg/api"
	"tableflip.dev/dumpdash/pkg/dump"
)

const searchLimit = 20

type searchDoneMsg struct {
	seq  int
	resp *dump.SearchResponse
	err  error
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search your dumps"
	ti.CharLimit = 200
	ti.Width = 60
	return ti
}

func (m *Model) openSearch(cmds *[]tea.Cmd) {
	m.mode = modeSearch
	m.results = nil
	m.resultCursor = 0
	m.searchErr = ""
	m.query.Reset()
	*cmds = append(*cmds, m.query.Focus(), textinput.Blink)
}

func (m *Model) closeSearch() {
	m.mode = modeNormal
	m.searching = false
	m.query.Blur()
}

// search sends the current query. Older requests still in flight are
// superseded and their answers dropped.
func (m *Model) search() tea.Cmd {
	q := strings.TrimSpace(m.query.Value())
	m.searchSeq++
	if q == "" {
		m.results = nil
		m.searching = false
		return nil
	}
	m.searching = true
	seq, svc, ctx := m.searchSeq, m.svc, m.ctx
	req := dump.SearchRequest{Query: q, Limit: searchLimit}
	return func() tea.Msg {
		resp, err := svc.Search(ctx, req)
		return searchDoneMsg{seq: seq, resp: resp, err: err}
	}
}

func (m *Model) searched(msg searchDoneMsg) {
	if msg.seq != m.searchSeq || errors.Is(msg.err, api.ErrSuperseded) || errors.Is(msg.err, context.Canceled) {
		return
	}
	m.searching = false
	if msg.err != nil {
		m.searchErr = describe(msg.err)
		return
	}
	m.searchErr = ""
	m.results = nil
	if msg.resp != nil {
		m.results = msg.resp.Results
	}
	if m.resultCursor >= len(m.results) {
		m.resultCursor = max(len(m.results)-1, 0)
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case key.Matches(msg, m.keys.Cancel):
		m.closeSearch()
	case msg.Type == tea.KeyUp:
		if m.resultCursor > 0 {
			m.resultCursor--
		}
	case msg.Type == tea.KeyDown:
		if m.resultCursor < len(m.results)-1 {
			m.resultCursor++
		}
	case key.Matches(msg, m.keys.Submit):
		if len(m.results) == 0 {
			return
		}
		id := m.results[m.resultCursor].Dump.ID
		m.closeSearch()
		m.reveal(id, cmds)
	default:
		before := m.query.Value()
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		*cmds = append(*cmds, cmd)
		if m.query.Value() != before {
			*cmds = append(*cmds, m.search())
		}
	}
}

// reveal moves the cursor to the dashboard row of id, expanding its bucket
// when needed.
func (m *Model) reveal(id string, cmds *[]tea.Cmd) {
	for _, sec := range m.dash.Sections {
		for _, it := range sec.Items {
			if it.ID != id {
				continue
			}
			if !sec.Expanded {
				if err := m.svc.SetExpanded(sec.Bucket, true); err != nil {
					*cmds = append(*cmds, m.notify(false, describe(err)))
					return
				}
			}
			m.setDashboardAt(m.svc.View(), row{bucket: sec.Bucket, item: it}.key())
			return
		}
	}
	*cmds = append(*cmds, m.notify(false, "that dump is not on the dashboard, press r to refresh"))
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.query.View())
	b.WriteString("\n\n")

	st := m.theme.Item
	switch {
	case m.searchErr != "":
		b.WriteString(m.theme.Modal.Error.Render(m.searchErr))
		b.WriteString("\n")
	case m.searching && len(m.results) == 0:
		b.WriteString(st.Empty.Render("searching…"))
		b.WriteString("\n")
	case strings.TrimSpace(m.query.Value()) != "" && len(m.results) == 0:
		b.WriteString(st.Empty.Render("no matches"))
		b.WriteString("\n")
	}

	room := uint(max(m.viewWidth()-16, 10))
	for i, r := range m.results {
		if i >= m.listHeight()-2 {
			break
		}
		score := fmt.Sprintf("%.2f", r.Score)
		title := truncate.StringWithTail(strings.Join(strings.Fields(r.Dump.Title()), " "), room, "…")
		if i == m.resultCursor {
			title = st.Selected.Render(title)
		} else {
			title = st.Normal.Render(title)
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", st.Date.Render(score), title))
	}
	return b.String()
}
