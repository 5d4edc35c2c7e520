// Package tui hosts the Bubble Tea dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/dumpdash/pkg/api"
	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeReason
	modeHelp
	modeSearch
	modeDetail
)

const toastTTL = 4 * time.Second

// row is either a bucket heading or one of its items.
type row struct {
	bucket bucket.Bucket
	header bool
	item   derive.Item
}

func (r row) key() string {
	if r.header {
		return "b:" + r.bucket.String()
	}
	return "i:" + r.item.ID
}

// Model is the dashboard program state.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme
	keys  keyMap
	help  help.Model

	mode    mode
	dash    app.Dashboard
	rows    []row
	cursor  int
	offset  int
	loaded  bool
	loading bool
	status  string

	reason    textinput.Model
	reasonFor string
	reasonErr string

	query        textinput.Model
	results      []dump.SearchResult
	resultCursor int
	searchSeq    int
	searching    bool
	searchErr    string

	detail    viewport.Model
	detailFor string

	inflight map[string]bool

	toast    string
	toastOK  bool
	toastSeq int

	width  int
	height int
}

type dashboardLoadedMsg struct {
	dash app.Dashboard
	err  error
}

type mutationDoneMsg struct {
	op  string
	id  string
	res cache.Result
	err error
}

type cacheEventMsg struct {
	event cache.Event
}

type toastExpiredMsg struct {
	seq int
}

// New builds the model. Nothing is fetched until Init runs.
func New(ctx context.Context, svc *app.Service) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("why is this wrong? (at least %d characters)", dump.MinRejectReason)
	ti.CharLimit = 500
	ti.Width = 60

	return &Model{
		ctx:    ctx,
		svc:    svc,
		theme:  theme.Default(),
		keys:   defaultKeys(),
		help:   help.New(),
		reason: ti,
		query:  newSearchInput(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForEvent())
}

func (m *Model) refresh() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	m.loading = true
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		d, err := svc.Dashboard(ctx)
		return dashboardLoadedMsg{dash: d, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	ch, ctx := m.svc.Cache().Events(), m.ctx
	return func() tea.Msg {
		select {
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return cacheEventMsg{event: ev}
		case <-ctx.Done():
			return nil
		}
	}
}

// mutate reserves id until its mutationDoneMsg arrives, so a second key
// press cannot dispatch before the cache marks the item pending.
func (m *Model) mutate(op, id string, fn func(context.Context) (cache.Result, error)) tea.Cmd {
	if m.inflight == nil {
		m.inflight = make(map[string]bool)
	}
	m.inflight[id] = true
	ctx := m.ctx
	return func() tea.Msg {
		res, err := fn(ctx)
		return mutationDoneMsg{op: op, id: id, res: res, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 8; w > 20 {
			m.reason.Width = w
			m.query.Width = w
		}
		m.scroll()
		m.resizeDetail()
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = describe(msg.err)
			break
		}
		m.loaded = true
		m.status = ""
		m.setDashboard(msg.dash)
	case cacheEventMsg:
		if m.loaded {
			m.setDashboard(m.svc.View())
		}
		cmds = append(cmds, m.waitForEvent())
	case mutationDoneMsg:
		delete(m.inflight, msg.id)
		m.setDashboard(m.svc.View())
		cmds = append(cmds, m.settled(msg))
	case searchDoneMsg:
		m.searched(msg)
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
	case tea.KeyMsg:
		m.handleKey(msg, &cmds)
	default:
		var cmd tea.Cmd
		switch m.mode {
		case modeReason:
			m.reason, cmd = m.reason.Update(msg)
		case modeSearch:
			m.query, cmd = m.query.Update(msg)
		case modeDetail:
			m.detail, cmd = m.detail.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch m.mode {
	case modeReason:
		m.handleReasonKey(msg, cmds)
	case modeHelp:
		m.handleHelpKey(msg, cmds)
	case modeSearch:
		m.handleSearchKey(msg, cmds)
	case modeDetail:
		m.handleDetailKey(msg, cmds)
	default:
		m.handleNormalKey(msg, cmds)
	}
}

func (m *Model) handleHelpKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.mode = modeNormal
	}
}

func (m *Model) handleNormalKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		*cmds = append(*cmds, tea.Quit)
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		m.move(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.move(len(m.rows))
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	case key.Matches(msg, m.keys.Detail):
		if r, ok := m.current(); ok && !r.header {
			m.openDetail(r.item)
		}
	case key.Matches(msg, m.keys.Search):
		if m.loaded {
			m.openSearch(cmds)
		}
	case key.Matches(msg, m.keys.Refresh):
		if !m.loading {
			*cmds = append(*cmds, m.refresh())
		}
	case key.Matches(msg, m.keys.Toggle):
		r, ok := m.current()
		if !ok {
			return
		}
		if _, err := m.svc.ToggleBucket(r.bucket); err != nil {
			*cmds = append(*cmds, m.notify(false, describe(err)))
			return
		}
		// Land on the heading so collapsing never strands the cursor.
		m.setDashboardAt(m.svc.View(), row{bucket: r.bucket, header: true}.key())
	case key.Matches(msg, m.keys.Expand):
		for _, b := range bucket.All() {
			if err := m.svc.SetExpanded(b, true); err != nil {
				*cmds = append(*cmds, m.notify(false, describe(err)))
				return
			}
		}
		m.setDashboard(m.svc.View())
	case key.Matches(msg, m.keys.Approve):
		it, ok := m.actionable(cmds)
		if !ok {
			return
		}
		id := it.ID
		*cmds = append(*cmds, m.mutate("approve", id, func(ctx context.Context) (cache.Result, error) {
			return m.svc.Approve(ctx, id)
		}))
	case key.Matches(msg, m.keys.Reject):
		it, ok := m.actionable(cmds)
		if !ok {
			return
		}
		m.mode = modeReason
		m.reasonFor = it.ID
		m.reasonErr = ""
		m.reason.Reset()
		*cmds = append(*cmds, m.reason.Focus(), textinput.Blink)
	}
}

func (m *Model) handleReasonKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case key.Matches(msg, m.keys.Cancel):
		m.closeReason()
	case key.Matches(msg, m.keys.Submit):
		reason := m.reason.Value()
		if err := dump.ValidateRejectReason(reason); err != nil {
			m.reasonErr = describe(err)
			return
		}
		id := m.reasonFor
		m.closeReason()
		*cmds = append(*cmds, m.mutate("reject", id, func(ctx context.Context) (cache.Result, error) {
			return m.svc.Reject(ctx, id, reason)
		}))
	default:
		var cmd tea.Cmd
		m.reason, cmd = m.reason.Update(msg)
		if m.reasonErr != "" && dump.ValidateRejectReason(m.reason.Value()) == nil {
			m.reasonErr = ""
		}
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) closeReason() {
	m.mode = modeNormal
	m.reasonFor = ""
	m.reasonErr = ""
	m.reason.Blur()
	m.reason.Reset()
}

// actionable returns the item under the cursor when it can take a review
// action. Items with a mutation in flight are skipped.
func (m *Model) actionable(cmds *[]tea.Cmd) (derive.Item, bool) {
	r, ok := m.current()
	if !ok || r.header {
		return derive.Item{}, false
	}
	if m.pending(r.item.ID) {
		*cmds = append(*cmds, m.notify(false, "still saving the last change, try again in a moment"))
		return derive.Item{}, false
	}
	return r.item, true
}

// pending reports whether id has a mutation dispatched or in flight.
func (m *Model) pending(id string) bool {
	return m.inflight[id] || m.svc.Cache().Pending(id)
}

func (m *Model) settled(msg mutationDoneMsg) tea.Cmd {
	if msg.err != nil {
		return m.notify(false, describe(msg.err))
	}
	if !msg.res.Success {
		text := msg.res.Message
		if text == "" && msg.res.Err != nil {
			text = describe(msg.res.Err)
		}
		return m.notify(false, text)
	}
	title := msg.id
	if d, ok := dump.Find(msg.res.Value, msg.id); ok && d.Title() != "" {
		title = d.Title()
	}
	return m.notify(true, fmt.Sprintf("%s: %s", pastTense(msg.op), title))
}

func pastTense(op string) string {
	switch op {
	case "approve":
		return "approved"
	case "reject":
		return "rejected"
	}
	return op + "ed"
}

// notify shows a toast and schedules its removal.
func (m *Model) notify(ok bool, text string) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastOK = ok
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.scroll()
}

func (m *Model) setDashboard(d app.Dashboard) {
	keep := ""
	if r, ok := m.current(); ok {
		keep = r.key()
	}
	m.setDashboardAt(d, keep)
}

// setDashboardAt rebuilds the rows and puts the cursor back on the row with
// key keep. When that row is gone the cursor falls back to its bucket
// heading, then to the same position.
func (m *Model) setDashboardAt(d app.Dashboard, keep string) {
	fallback := ""
	if r, ok := m.current(); ok {
		fallback = row{bucket: r.bucket, header: true}.key()
	}

	m.dash = d
	m.rows = m.rows[:0]
	for _, sec := range d.Sections {
		m.rows = append(m.rows, row{bucket: sec.Bucket, header: true})
		if !sec.Expanded {
			continue
		}
		for _, it := range sec.Items {
			m.rows = append(m.rows, row{bucket: sec.Bucket, item: it})
		}
	}

	for _, want := range []string{keep, fallback} {
		if want == "" {
			continue
		}
		for i, r := range m.rows {
			if r.key() == want {
				m.cursor = i
				m.scroll()
				return
			}
		}
	}
	m.move(0)
}

// describe turns err into toast text.
func describe(err error) string {
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNoUser) {
		return "not logged in, run `dumpdash login`"
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, svc *app.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
