// Package tui provides a Bubble Tea terminal user interface for editing the
// tags of the MP3 files in one directory.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cshotwell/mp3-tagger/internal/artwork"
	"github.com/cshotwell/mp3-tagger/internal/config"
	"github.com/cshotwell/mp3-tagger/internal/http"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/cshotwell/mp3-tagger/internal/selection"
	"github.com/sirupsen/logrus"
)

// State represents the current UI state.
type State int

const (
	StateBrowse State = iota
	StateArtQuery
	StateArtBusy
	StateArtResults
	StateReport
)

type focusArea int

const (
	focusFiles focusArea = iota
	focusFields
)

// StatusLevel picks the style of the status line.
type StatusLevel int

const (
	LevelInfo StatusLevel = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// fieldRow is one editor line: the write checkbox and the value widget.
type fieldRow struct {
	desc     selection.Descriptor
	write    bool
	conflict bool
	checked  bool
	input    textinput.Model
}

// Options configures NewModel.
type Options struct {
	Settings *config.Settings
	Dir      string
	Logger   logrus.FieldLogger

	// Sync defaults to a Synchronizer over selection.DefaultFields.
	Sync *selection.Synchronizer

	Searcher *artwork.Searcher
	Fetcher  *artwork.Fetcher

	// Watcher, when set, triggers a reload of the file list.
	Watcher *ioutils.Watcher
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	focus    focusArea
	settings *config.Settings
	log      logrus.FieldLogger

	sync     *selection.Synchronizer
	searcher *artwork.Searcher
	fetcher  *artwork.Fetcher
	watcher  *ioutils.Watcher

	dir      string
	files    []string
	cursor   int
	selected map[string]bool

	fields      []fieldRow
	fieldCursor int

	query      textinput.Model
	spinner    spinner.Model
	busyText   string
	candidates []artwork.Candidate
	candCursor int

	status      string
	statusLevel StatusLevel
	report      string

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	dir := opts.Dir
	if dir == "" {
		dir = settings.MusicDir
	}

	sync := opts.Sync
	if sync == nil {
		sync = selection.New(
			selection.DefaultFields(settings.DefaultCommentKey),
			selection.WithLogger(log),
			selection.WithSeparator(settings.RenameSeparator),
		)
	}

	q := textinput.New()
	q.Placeholder = "artist album"
	q.CharLimit = 200
	q.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:    StateBrowse,
		settings: settings,
		log:      log,
		sync:     sync,
		searcher: opts.Searcher,
		fetcher:  opts.Fetcher,
		watcher:  opts.Watcher,
		dir:      dir,
		selected: make(map[string]bool),
		query:    q,
		spinner:  sp,
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, v := range sync.Views() {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Width = 40
		m.fields = append(m.fields, fieldRow{desc: v.Descriptor, input: ti})
	}
	m.loadViews()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadFiles()}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) loadFiles() tea.Cmd {
	dir, pattern := m.dir, m.settings.FilePattern
	return func() tea.Msg {
		files, err := ioutils.ListAudioFiles(dir, pattern)
		return FilesLoadedMsg{Files: files, Err: err}
	}
}

func waitForChange(w *ioutils.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return DirChangedMsg{}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateArtBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case FilesLoadedMsg:
		m.filesLoaded(msg)

	case DirChangedMsg:
		cmds = append(cmds, m.loadFiles(), waitForChange(m.watcher))

	case ArtResultsMsg:
		if msg.Err != nil || len(msg.Candidates) == 0 {
			if msg.Err != nil {
				m.log.WithError(msg.Err).Warn("Album art search failed")
			}
			m.state = StateBrowse
			m.setStatus(LevelWarning, fmt.Sprintf("No album art found for %q.", msg.Query))
			break
		}
		m.candidates = msg.Candidates
		m.candCursor = 0
		m.state = StateArtResults

	case ArtFetchedMsg:
		m.state = StateBrowse
		if msg.Err != nil {
			m.log.WithError(msg.Err).WithField("url", msg.Image.URL).Warn("Album art download failed")
			m.setStatus(LevelError, fmt.Sprintf("Could not download album art: %v", msg.Err))
			break
		}
		report := m.sync.ApplyPicture(msg.Image.Data, msg.Image.MIMEType)
		m.showApplyReport("Album art", report)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) filesLoaded(msg FilesLoadedMsg) {
	if msg.Err != nil {
		m.files = nil
		m.setStatus(LevelError, fmt.Sprintf("Cannot list %s: %v", m.dir, msg.Err))
	} else {
		m.files = msg.Files
		if len(m.files) == 0 {
			m.setStatus(LevelWarning, "No MP3 files found in selected folder.")
		}
	}

	present := make(map[string]bool, len(m.files))
	for _, f := range m.files {
		present[f] = true
	}
	for p := range m.selected {
		if !present[p] {
			delete(m.selected, p)
		}
	}
	if m.cursor >= len(m.files) {
		m.cursor = max(len(m.files)-1, 0)
	}

	m.sync.Forget(m.files)
	m.applySelection()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateReport:
		m.state = StateBrowse
		m.report = ""
		return m, nil

	case StateArtQuery:
		switch msg.String() {
		case "esc":
			m.state = StateBrowse
			m.query.Blur()
			return m, nil
		case "enter":
			m.query.Blur()
			cmd := m.startSearch(m.query.Value())
			return m, cmd
		}
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		return m, cmd

	case StateArtBusy:
		if msg.String() == "esc" {
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
			m.state = StateBrowse
			m.setStatus(LevelWarning, "Cancelled.")
		}
		return m, nil

	case StateArtResults:
		switch msg.String() {
		case "esc":
			m.state = StateBrowse
		case "up", "k":
			if m.candCursor > 0 {
				m.candCursor--
			}
		case "down", "j":
			if m.candCursor < len(m.candidates)-1 {
				m.candCursor++
			}
		case "enter":
			cmd := m.startFetch(m.candidates[m.candCursor])
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.toggleFocus()
		return m, nil
	case "ctrl+s":
		m.save()
		return m, nil
	case "ctrl+r":
		m.rename()
		cmd := m.loadFiles()
		return m, cmd
	case "ctrl+f":
		return m.openArtSearch()
	}

	if m.focus == focusFields {
		return m.handleFieldKey(msg)
	}
	return m.handleFileKey(msg)
}

func (m Model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.cancel()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.files) > 0 {
			p := m.files[m.cursor]
			if m.selected[p] {
				delete(m.selected, p)
			} else {
				m.selected[p] = true
			}
			m.applySelection()
		}
	case "a":
		for _, f := range m.files {
			m.selected[f] = true
		}
		m.applySelection()
	case "n":
		m.selected = make(map[string]bool)
		m.applySelection()
	case "r":
		return m, m.loadFiles()
	}
	return m, nil
}

func (m Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row := &m.fields[m.fieldCursor]

	switch msg.String() {
	case "esc":
		m.toggleFocus()
		return m, nil
	case "up", "shift+tab":
		m.moveField(-1)
		return m, nil
	case "down":
		m.moveField(1)
		return m, nil
	case "enter":
		row.write = !row.write
		return m, nil
	}

	if row.desc.Toggle {
		if msg.String() == " " {
			row.checked = !row.checked
			row.conflict = false
			row.write = true
		}
		return m, nil
	}

	before := row.input.Value()
	var cmd tea.Cmd
	row.input, cmd = row.input.Update(msg)
	if row.input.Value() != before {
		row.write = true
		row.conflict = false
		row.input.Placeholder = ""
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusFiles && len(m.sync.Selected()) > 0 {
		m.focus = focusFields
		m.focusField()
		return
	}
	m.focus = focusFiles
	for i := range m.fields {
		m.fields[i].input.Blur()
	}
}

func (m *Model) moveField(delta int) {
	next := m.fieldCursor + delta
	if next < 0 || next >= len(m.fields) {
		return
	}
	m.fieldCursor = next
	m.focusField()
}

func (m *Model) focusField() {
	for i := range m.fields {
		if i == m.fieldCursor && !m.fields[i].desc.Toggle {
			m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
}

// applySelection pushes the selected paths, in list order, to the
// synchronizer and refreshes the editor.
func (m *Model) applySelection() {
	var paths []string
	for _, f := range m.files {
		if m.selected[f] {
			paths = append(paths, f)
		}
	}

	if err := m.sync.SetSelection(paths); err != nil {
		m.setStatus(LevelError, fmt.Sprintf("Some files could not be opened: %v", err))
		for _, p := range paths {
			if _, ok := m.sync.Track(p); !ok {
				delete(m.selected, p)
			}
		}
	}
	if len(m.sync.Selected()) == 0 {
		m.focus = focusFiles
	}
	m.loadViews()
}

// loadViews fills the editor from the synchronizer's field views and
// clears every write checkbox.
func (m *Model) loadViews() {
	for i, v := range m.sync.Views() {
		row := &m.fields[i]
		row.write = false
		row.conflict = v.State == selection.ViewConflict
		row.checked = v.State == selection.ViewSingle && v.Value.Checked

		row.input.Placeholder = ""
		if row.conflict {
			row.input.Placeholder = selection.MultipleValuesText
		}
		if v.State == selection.ViewSingle {
			row.input.SetValue(v.Value.Text)
		} else {
			row.input.SetValue("")
		}
	}
}

func (m Model) edits() selection.Edits {
	edits := make(selection.Edits)
	for _, row := range m.fields {
		if !row.write {
			continue
		}
		v := selection.Text(row.input.Value())
		if row.desc.Toggle {
			v = selection.Checked(row.checked)
		}
		edits[row.desc.Field] = selection.Edit{Value: v, Write: true}
	}
	return edits
}

func (m *Model) save() {
	if len(m.sync.Selected()) == 0 {
		m.setStatus(LevelWarning, "No files selected.")
		return
	}
	edits := m.edits()
	if len(edits) == 0 {
		m.setStatus(LevelWarning, "No fields ticked; nothing to save.")
		return
	}
	m.showApplyReport("Save", m.sync.Apply(edits))
}

func (m *Model) showApplyReport(what string, report selection.ApplyReport) {
	m.loadViews()
	if len(report.Errors) > 0 {
		m.report = report.String()
		m.state = StateReport
		return
	}
	m.setStatus(LevelSuccess, fmt.Sprintf("%s: saved %d file(s).", what, len(report.Saved)))
}

func (m *Model) rename() {
	if len(m.sync.Selected()) == 0 {
		m.setStatus(LevelWarning, "No files selected to rename.")
		return
	}

	report := m.sync.RenameSelected()
	for _, mv := range report.Renamed {
		delete(m.selected, mv.From)
		m.selected[mv.To] = true
	}

	if !report.OK() {
		m.report = report.String()
		m.state = StateReport
		return
	}
	m.setStatus(LevelSuccess, fmt.Sprintf("Renamed %d file(s).", len(report.Renamed)))
}

func (m Model) openArtSearch() (tea.Model, tea.Cmd) {
	if m.searcher == nil || m.fetcher == nil {
		m.setStatus(LevelWarning, "Album art lookup is not configured.")
		return m, nil
	}
	if len(m.sync.Selected()) == 0 {
		m.setStatus(LevelWarning, "Select the files to add album art to first.")
		return m, nil
	}

	var terms []string
	for _, f := range []string{"Artist", "Album"} {
		for _, row := range m.fields {
			if row.desc.Label == f && !row.conflict && row.input.Value() != "" {
				terms = append(terms, row.input.Value())
			}
		}
	}
	m.query.SetValue(strings.Join(terms, " "))
	m.query.CursorEnd()
	m.query.Focus()
	m.state = StateArtQuery
	return m, textinput.Blink
}

func (m *Model) startSearch(query string) tea.Cmd {
	m.state = StateArtBusy
	m.busyText = "Searching album art..."
	ctx, searcher, limit := m.ctx, m.searcher, m.settings.ArtworkLimit
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		candidates, err := searcher.Candidates(ctx, query)
		if err != nil {
			return ArtResultsMsg{Query: query, Err: err}
		}
		return ArtResultsMsg{Query: query, Candidates: artwork.Take(candidates, limit)}
	})
}

func (m *Model) startFetch(c artwork.Candidate) tea.Cmd {
	m.state = StateArtBusy
	m.busyText = "Downloading " + c.String() + "..."
	ctx, fetcher := m.ctx, m.fetcher
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		img, err := fetcher.Fetch(ctx, c.URL)
		return ArtFetchedMsg{Image: img, Err: err}
	})
}

func (m *Model) setStatus(level StatusLevel, text string) {
	m.status = text
	m.statusLevel = level
}

// Close releases the tracks and the watcher.
func (m Model) Close() error {
	m.cancel()
	if m.watcher != nil {
		m.watcher.Close()
	}
	return m.sync.Close()
}

// Run starts the TUI on dir. Logs go to the logger, never to the terminal.
func Run(settings *config.Settings, dir string, log logrus.FieldLogger) error {
	if dir == "" {
		dir = settings.MusicDir
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	client := http.NewClient(settings.HTTPTimeout(), settings.UserAgent)
	opts := Options{
		Settings: settings,
		Dir:      dir,
		Logger:   log,
		Searcher: artwork.NewSearcher(client, artwork.SearchOptions{
			BaseURL: settings.ArtworkSearchURL,
			Country: settings.ArtworkCountry,
			Limit:   settings.ArtworkLimit,
			Size:    settings.ArtworkSize,
			Logger:  log,
		}),
		Fetcher: artwork.NewFetcher(client, ioutils.PrepareOptions{
			MaxSize:       settings.CoverArtMaxSize,
			ConvertToJPEG: settings.ConvertCoverArtToJPG,
		}),
	}
	if settings.WatchDirectory {
		w, err := ioutils.NewWatcher(dir, settings.FilePattern, log)
		if err != nil {
			log.WithError(err).Warn("Directory watching disabled")
		} else {
			opts.Watcher = w
		}
	}

	m := NewModel(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
