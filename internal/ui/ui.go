package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/services"
	"github.com/desertthunder/ytsheet/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PreviewView
	ConfirmView
	SyncView
	ResultView
)

// recentLimit is the number of finished rows kept on screen during a sync.
const recentLimit = 8

// Syncer runs a sync; [tasks.SyncEngine] implements it.
type Syncer interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate, opts tasks.RunOpts) (*tasks.RunResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	view   ViewState
	store  services.RowStore
	engine Syncer
	opts   tasks.RunOpts

	width   int
	height  int
	rowList list.Model
	rows    []models.Row

	progressChan chan tasks.ProgressUpdate
	doneChan     chan syncComplete
	progress     tasks.ProgressUpdate
	recent       []string
	succeeded    int
	failed       int
	cancelled    bool

	result *tasks.RunResult
	err    error

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model that previews store and syncs with engine.
func NewModel(ctx context.Context, store services.RowStore, engine Syncer, opts tasks.RunOpts) *Model {
	return &Model{
		ctx:     ctx,
		view:    LoadingView,
		store:   store,
		engine:  engine,
		opts:    opts,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the finished run, or nil if no sync completed.
func (m *Model) Result() *tasks.RunResult { return m.result }

// Err returns the error that ended the session, if any.
func (m *Model) Err() error { return m.err }

// Init fetches the rows to preview.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchRows())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == PreviewView {
			m.rowList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.bar.Width = min(60, max(10, msg.Width-10))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			if key.Matches(msg, m.keys.quit) || key.Matches(msg, m.keys.enter) {
				return m, tea.Quit
			}
			return m, nil
		}

	case spinner.TickMsg:
		if m.view != LoadingView && m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == PreviewView {
		var cmd tea.Cmd
		m.rowList, cmd = m.rowList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRowsFetched:
		data := msg.data.(rowsFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ResultView
			return m, nil
		}
		m.rows = data.rows
		m.rowList = list.New(rowItems(data.rows), list.NewDefaultDelegate(), max(0, m.width-4), max(0, m.height-8))
		m.rowList.Title = fmt.Sprintf("%s: %d rows", m.store.Name(), len(data.rows))
		m.view = PreviewView
		return m, nil

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = update
		if outcome, ok := update.Data.(models.RowOutcome); ok && update.Phase == tasks.RowFinished {
			if outcome.Succeeded() {
				m.succeeded++
			} else {
				m.failed++
			}
			m.recent = append(m.recent, update.Message)
			if len(m.recent) > recentLimit {
				m.recent = m.recent[len(m.recent)-recentLimit:]
			}
		}
		return m, m.waitForProgress()

	case MsgSyncComplete:
		data := msg.data.(syncComplete)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rowList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.rowList, cmd = m.rowList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if len(m.rows) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.rowList, cmd = m.rowList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = SyncView
		return m, m.startSync()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = PreviewView
	}
	return m, nil
}

// handleSyncKeys cancels the run on ctrl+c; the view stays until the engine reports back.
func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.cancel) && m.cancel != nil && !m.cancelled {
		m.cancelled = true
		m.cancel()
	}
	return m, nil
}

func (m *Model) fetchRows() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.store.Fetch(m.ctx)
		return rowsFetchedMsg(rows, err)
	}
}

func (m *Model) startSync() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.progressChan = make(chan tasks.ProgressUpdate, 64)
	m.doneChan = make(chan syncComplete, 1)

	progressChan, doneChan, opts := m.progressChan, m.doneChan, m.opts
	go func() {
		result, err := m.engine.Run(ctx, progressChan, opts)
		doneChan <- syncComplete{result: result, err: err}
		close(progressChan)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, doneChan := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progressChan == nil {
			return syncCompleteMsg(m.result, m.err)
		}

		update, ok := <-progressChan
		if !ok {
			done := <-doneChan
			return syncCompleteMsg(done.result, done.err)
		}
		return progressUpdateMsg(update)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("%s Fetching rows from %s...", m.spinner.View(), m.store.Name())
	case PreviewView:
		return m.renderPreview()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) renderPreview() string {
	if len(m.rows) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("No rows to sync."), m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.up, m.keys.down, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.rowList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Process %d rows?", len(m.rows)))

	action := "Rows that finish every step will be deleted from the sheet."
	if m.opts.DryRun {
		action = "Dry run: the sheet will not be modified."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n\n%s", title, action, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing")
	if m.cancelled {
		title = styles.warn.Render("Cancelling, waiting for the current row...")
	}

	percent := 0.0
	if m.progress.Total > 0 && (m.progress.Phase == tasks.ProcessRow || m.progress.Phase == tasks.RowFinished) {
		percent = float64(m.succeeded+m.failed) / float64(m.progress.Total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s %s\n\n", title, m.spinner.View(), m.progress.Message)
	fmt.Fprintf(&b, "%s\n", m.bar.ViewAs(percent))
	fmt.Fprintf(&b, "%s  %s\n\n", styles.ok.Render(fmt.Sprintf("✓ %d", m.succeeded)), styles.err.Render(fmt.Sprintf("✗ %d", m.failed)))
	for _, line := range m.recent {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.cancel}))
	return b.String()
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	if m.result == nil {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)) + "\n\n" + helpView
		}
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	r := m.result
	title := styles.ok.Render("✓ Sync complete")
	if r.DeleteErr != nil {
		title = styles.err.Render(fmt.Sprintf("✗ Rows processed but not deleted: %v", r.DeleteErr))
	}

	var deleted string
	switch {
	case r.DryRun:
		deleted = fmt.Sprintf("Dry run: would delete %d rows", len(r.Positions))
	case r.Deleted():
		deleted = fmt.Sprintf("Deleted %d rows from the sheet", len(r.Positions))
	default:
		deleted = "No rows deleted"
	}

	info := fmt.Sprintf("Rows: %d (%d succeeded, %d failed)\n%s", len(r.Rows), r.Succeeded, r.Failed, deleted)

	var failed string
	if failures := r.Failures(); len(failures) > 0 {
		lines := []string{styles.warn.Render(fmt.Sprintf("%d rows failed:", len(failures)))}
		for _, o := range failures {
			lines = append(lines, fmt.Sprintf("  • %s (%s): %v", o.Row.Label(), o.Step, o.Err))
		}
		failed = "\n\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf("%s\n\n%s%s\n\n%s", title, styles.box.Render(info), failed, helpView)
}
