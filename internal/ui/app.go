package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/pivot/internal/config"
	"github.com/five82/pivot/internal/prefs"
	"github.com/five82/pivot/internal/upload"
)

// focusArea identifies which control receives keys that are not global.
type focusArea int

const (
	focusPicker focusArea = iota
	focusButton
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Uploads   *upload.Controller
	Config    *config.Config
	Endpoint  string
	Prefs     prefs.Prefs
	PrefsPath string // empty disables persistence
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	uploads   *upload.Controller
	config    *config.Config
	endpoint  string
	prefs     prefs.Prefs
	prefsPath string
	logger    zerolog.Logger

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	focus    focusArea
	showHelp bool
	notice   notice

	picker  filepicker.Model
	spinner spinner.Model
	preview *previewCache
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uploads := opts.Uploads
	if uploads == nil {
		uploads = upload.NewController(nil)
	}

	m := Model{
		ctx:       ctx,
		uploads:   uploads,
		config:    opts.Config,
		endpoint:  opts.Endpoint,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		logger:    opts.Logger,
		theme:     GetTheme(opts.Prefs.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		preview:   &previewCache{},
	}

	m.picker = filepicker.New()
	m.picker.CurrentDirectory = m.startDir()
	m.picker.AutoHeight = true
	m.picker.ShowPermissions = false

	// A file handed over on the command line goes straight to the button.
	if uploads.Snapshot().File != nil {
		m.focus = focusButton
	}

	m.applyTheme()
	return m
}

func (m Model) startDir() string {
	if m.prefs.LastDir != "" {
		return m.prefs.LastDir
	}
	if m.config != nil && m.config.StartDir != "" {
		return m.config.StartDir
	}
	return "."
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.WarningText

	ps := filepicker.DefaultStyles()
	ps.Cursor = styles.AccentText
	ps.Directory = styles.AccentText
	ps.File = styles.Text
	ps.DisabledFile = styles.FaintText
	ps.DisabledCursor = styles.FaintText
	ps.Selected = styles.AccentText.Bold(true)
	ps.FileSize = styles.FaintText
	ps.EmptyDirectory = styles.FaintText
	m.picker.Styles = ps
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.picker.Init(),
		tea.SetWindowTitle("pivot"),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		return m.resizePicker()

	case spinner.TickMsg:
		if !m.uploads.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case uploadDoneMsg:
		m.logger.Debug().
			Str("file", msg.file).
			Str("outcome", msg.outcome.String()).
			Msg("upload settled")
		// The result pane appears or disappears, so the picker changes size.
		return m.resizePicker()

	case saveResultMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("save result")
			m.notice = errorNotice("save failed: " + msg.err.Error())
			return m, nil
		}
		m.logger.Info().Str("path", msg.path).Msg("result saved")
		m.notice = infoNotice("saved " + msg.path)
		return m, nil
	}

	// Directory listings and anything else belong to the picker.
	return m.updatePicker(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.toggleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()
	}

	if m.focus == focusButton {
		if key.Matches(msg, m.keys.Press) {
			return m.submit()
		}
		return m, nil
	}
	return m.updatePicker(msg)
}

func (m *Model) toggleFocus() {
	if m.focus == focusPicker {
		m.focus = focusButton
		return
	}
	m.focus = focusPicker
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	// Every file is selectable; the content decides whether it is an image.
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.selectFile(path)
		resized, resizeCmd := m.resizePicker()
		return resized, tea.Batch(cmd, resizeCmd)
	}
	return m, cmd
}

// selectFile inspects path and hands it to the upload controller, which
// drops any previous result.
func (m *Model) selectFile(path string) {
	file, err := upload.Inspect(path)
	if err != nil {
		m.logger.Warn().Err(err).Str("path", path).Msg("inspect selection")
		m.notice = errorNotice("cannot read " + filepath.Base(path))
		return
	}
	if !file.IsImage() {
		m.notice = errorNotice(file.Name + " is " + file.ContentType + ", not an image")
		return
	}

	m.uploads.Select(file)
	m.notice = notice{}
	m.focus = focusButton

	m.prefs.LastDir = filepath.Dir(file.Path)
	m.savePrefs()
}

// submit raises the loading flag right away and runs the request off the
// update loop.
func (m Model) submit() (tea.Model, tea.Cmd) {
	cycle, ok := m.uploads.Begin()
	if !ok {
		return m, nil
	}
	m.notice = notice{}
	return m, tea.Batch(m.spinner.Tick, runCycleCmd(m.ctx, cycle))
}

func (m Model) saveCmd() tea.Cmd {
	snap := m.uploads.Snapshot()
	if !snap.HasResult() || snap.File == nil {
		return nil
	}
	data, ok := m.uploads.Resolve(snap.Result)
	if !ok {
		return nil
	}
	dir := m.saveDir()
	source := snap.File.Name
	return func() tea.Msg {
		path, err := upload.SaveResult(dir, source, data)
		return saveResultMsg{path: path, err: err}
	}
}

func (m Model) saveDir() string {
	if m.config != nil && m.config.SaveDir != "" {
		return m.config.SaveDir
	}
	return "."
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs")
	}
}

// resizePicker feeds the picker a window size matching its pane.
func (m Model) resizePicker() (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	l := computeLayout(m.width, m.height, m.uploads.Snapshot().HasResult())
	inner := l.picker.inner()
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{
		Width:  inner.w,
		Height: max(inner.h-1, 1) + pickerMarginBottom, // one row for the directory line
	})
	return m, cmd
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	snap := m.uploads.Snapshot()
	l := computeLayout(m.width, m.height, snap.HasResult())

	panes := m.renderPicker(l.picker)
	if snap.HasResult() {
		result := m.renderResult(snap, l.result)
		if l.stacked {
			panes = lipgloss.JoinVertical(lipgloss.Left, panes, result)
		} else {
			panes = lipgloss.JoinHorizontal(lipgloss.Top, panes, result)
		}
	}

	return strings.Join([]string{
		m.renderHeader(snap),
		panes,
		m.renderActions(snap),
		m.renderFooter(),
	}, "\n")
}

// notice is a one-line message in the header.
type notice struct {
	text string
	err  bool
}

func infoNotice(text string) notice  { return notice{text: text} }
func errorNotice(text string) notice { return notice{text: text, err: true} }

// Messages

type uploadDoneMsg struct {
	file    string
	outcome upload.Outcome
}

type saveResultMsg struct {
	path string
	err  error
}

// Commands

func runCycleCmd(ctx context.Context, cycle *upload.Cycle) tea.Cmd {
	return func() tea.Msg {
		outcome := cycle.Run(ctx)
		return uploadDoneMsg{file: cycle.File().Name, outcome: outcome}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
