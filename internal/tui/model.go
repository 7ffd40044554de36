package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/termdock/termdock/internal/config"
	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/namer"
	"github.com/termdock/termdock/internal/shell"
	"github.com/termdock/termdock/internal/store"
	"github.com/termdock/termdock/internal/term"
	"github.com/termdock/termdock/internal/term/pool"
)

// paneSurface is the shared render target for pooled terminals. Its
// size tracks the content pane and is updated on window resize.
type paneSurface struct {
	mu   sync.Mutex
	cols int
	rows int
}

func (s *paneSurface) Size() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

func (s *paneSurface) set(cols, rows int) {
	s.mu.Lock()
	s.cols = cols
	s.rows = rows
	s.mu.Unlock()
}

// shellSet tracks the shell process behind each pooled terminal. It is
// shared between the model and the app's shutdown path.
type shellSet struct {
	mu      sync.Mutex
	runners map[string]*shell.Runner
}

func newShellSet() *shellSet {
	return &shellSet{runners: make(map[string]*shell.Runner)}
}

func (s *shellSet) put(ownerKey string, r *shell.Runner) {
	s.mu.Lock()
	s.runners[ownerKey] = r
	s.mu.Unlock()
}

func (s *shellSet) get(ownerKey string) *shell.Runner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runners[ownerKey]
}

func (s *shellSet) remove(ownerKey string) *shell.Runner {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.runners[ownerKey]
	delete(s.runners, ownerKey)
	return r
}

func (s *shellSet) stopAll() {
	s.mu.Lock()
	runners := make([]*shell.Runner, 0, len(s.runners))
	for _, r := range s.runners {
		runners = append(runners, r)
	}
	s.runners = make(map[string]*shell.Runner)
	s.mu.Unlock()

	for _, r := range runners {
		r.Stop()
	}
}

// Model holds the TUI state.
type Model struct {
	// Core components
	pool   *pool.Manager
	store  *store.Store
	cfg    *config.Config
	logger *logging.Logger

	shells  *shellSet
	relay   *relay
	surface *paneSurface

	// UI state
	owners      []string
	active      int
	titles      map[string]string
	width       int
	height      int
	ready       bool
	quitting    bool
	inputMode   bool
	prompting   bool
	searching   bool
	nameInput   textinput.Model
	searchInput textinput.Model

	errorMessage string
	infoMessage  string
}

// NewModel creates the TUI model.
func NewModel(cfg *config.Config, p *pool.Manager, st *store.Store, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.NopLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "owner key"
	ti.CharLimit = 64
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "search term"
	si.CharLimit = 128
	si.Width = 40

	surface := &paneSurface{
		cols: cfg.Terminal.Cols,
		rows: cfg.Terminal.Rows,
	}

	return Model{
		pool:        p,
		store:       st,
		cfg:         cfg,
		logger:      logger.WithComponent("tui"),
		shells:      newShellSet(),
		relay:       &relay{},
		surface:     surface,
		titles:      make(map[string]string),
		nameInput:   ti,
		searchInput: si,
	}
}

// activeOwner returns the owner key of the selected terminal, or "".
func (m Model) activeOwner() string {
	if len(m.owners) == 0 || m.active < 0 || m.active >= len(m.owners) {
		return ""
	}
	return m.owners[m.active]
}

// activeInstance returns the selected terminal, or nil.
func (m Model) activeInstance() *term.Instance {
	owner := m.activeOwner()
	if owner == "" {
		return nil
	}
	return m.pool.Get(owner)
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick(m.cfg.TUI.CaptureInterval())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeTerminals()
		return m, nil

	case tickMsg:
		return m, tick(m.cfg.TUI.CaptureInterval())

	case outputMsg:
		if inst := m.pool.Get(msg.ownerKey); inst != nil {
			inst.Write(msg.data)
		}
		return m, nil

	case shellExitMsg:
		m.shells.remove(msg.ownerKey)
		if inst := m.pool.Get(msg.ownerKey); inst != nil {
			inst.Writeln("")
			inst.Writeln("[process exited]")
		}
		if msg.ownerKey == m.activeOwner() {
			m.inputMode = false
		}
		return m, nil

	case titleMsg:
		m.titles[msg.ownerKey] = msg.title
		return m, nil

	case bellMsg:
		return m, ringBell()

	case errMsg:
		m.errorMessage = msg.err.Error()
		return m, nil
	}

	return m, nil
}

// handleKeypress processes keyboard input.
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Owner-name prompt.
	if m.prompting {
		return m.handlePromptInput(msg)
	}

	// Search prompt.
	if m.searching {
		return m.handleSearchInput(msg)
	}

	// Terminal input mode: forward keys to the active shell. Ctrl+]
	// returns to navigation.
	if m.inputMode {
		if msg.Type == tea.KeyCtrlCloseBracket {
			m.inputMode = false
			return m, nil
		}
		if seq := keyToSequence(msg); seq != "" {
			if r := m.shells.get(m.activeOwner()); r != nil {
				if err := r.Write(seq); err != nil {
					m.errorMessage = err.Error()
					m.inputMode = false
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "n":
		if m.pool.Size() >= m.pool.MaxSize() {
			m.errorMessage = fmt.Sprintf("terminal pool is full (%d)", m.pool.MaxSize())
			return m, nil
		}
		m.prompting = true
		m.errorMessage = ""
		m.nameInput.SetValue("")
		m.nameInput.Placeholder = namer.Suggest(m.owners)
		m.nameInput.Focus()
		return m, textinput.Blink

	case "j", "down", "tab":
		m.selectNext(1)
		return m, nil

	case "k", "up", "shift+tab":
		m.selectNext(-1)
		return m, nil

	case "enter", "i":
		if m.activeOwner() == "" {
			m.infoMessage = "no terminal selected; press n to create one"
			return m, nil
		}
		if m.shells.get(m.activeOwner()) == nil {
			m.infoMessage = "shell has exited; buffer is read-only"
			return m, nil
		}
		m.inputMode = true
		m.errorMessage = ""
		return m, nil

	case "d":
		m.detachTerminal()
		return m, nil

	case "a":
		m.reattachTerminal()
		return m, nil

	case "/":
		if m.activeOwner() == "" {
			m.infoMessage = "no terminal selected; press n to create one"
			return m, nil
		}
		m.searching = true
		m.errorMessage = ""
		m.searchInput.Focus()
		return m, textinput.Blink

	case "s":
		m.saveSnapshot()
		return m, nil

	case "r":
		m.restoreSnapshot()
		return m, nil

	case "c":
		if inst := m.activeInstance(); inst != nil {
			inst.Clear()
		}
		return m, nil

	case "x":
		m.closeTerminal()
		return m, nil
	}

	return m, nil
}

// handlePromptInput drives the owner-name prompt.
func (m Model) handlePromptInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.nameInput.SetValue("")
		return m, nil

	case tea.KeyEnter:
		ownerKey := strings.TrimSpace(m.nameInput.Value())
		if ownerKey == "" {
			// Blank input accepts the suggested key.
			ownerKey = m.nameInput.Placeholder
		}
		m.prompting = false
		m.nameInput.SetValue("")
		cmd := m.createTerminal(ownerKey)
		return m, cmd
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// handleSearchInput drives the search prompt. The term is kept across
// prompts, so reopening and confirming advances to the next match.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		return m, nil

	case tea.KeyEnter:
		m.searching = false
		m.runSearch(strings.TrimSpace(m.searchInput.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// runSearch looks for query in the active terminal's buffer.
func (m *Model) runSearch(query string) {
	if query == "" {
		return
	}
	inst := m.activeInstance()
	if inst == nil {
		return
	}
	if inst.Search(query, term.SearchOptions{}) {
		m.infoMessage = fmt.Sprintf("match for %q; / then enter finds the next", query)
	} else {
		m.infoMessage = fmt.Sprintf("no match for %q", query)
	}
}

// detachTerminal releases the active terminal from the content pane.
// Its buffer keeps accumulating offscreen until it is reattached.
func (m *Model) detachTerminal() {
	owner := m.activeOwner()
	if owner == "" {
		return
	}
	if attached, err := m.pool.IsAttached(owner); err == nil && !attached {
		m.infoMessage = fmt.Sprintf("%s is already detached", owner)
		return
	}
	if err := m.pool.Detach(owner); err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}
	m.inputMode = false
	m.infoMessage = fmt.Sprintf("detached %s; press a to reattach", owner)
}

// reattachTerminal binds the active terminal back to the content pane,
// bringing its preserved buffer with it.
func (m *Model) reattachTerminal() {
	owner := m.activeOwner()
	if owner == "" {
		return
	}
	if attached, err := m.pool.IsAttached(owner); err == nil && attached {
		m.infoMessage = fmt.Sprintf("%s is already attached", owner)
		return
	}
	if err := m.pool.Attach(owner, m.surface); err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}
	m.infoMessage = fmt.Sprintf("reattached %s", owner)
}

// createTerminal adds an owner to the pool, restores its snapshot if
// one exists, and starts a shell bridged to the terminal.
func (m *Model) createTerminal(ownerKey string) tea.Cmd {
	cols, rows := m.surface.Size()
	opts := term.Options{
		Cols:       cols,
		Rows:       rows,
		Scrollback: m.cfg.Terminal.ScrollbackLines,
	}

	inst, err := m.pool.Create(ownerKey, opts, m.surface)
	if err != nil {
		m.errorMessage = errors.UserMessage(err)
		return nil
	}

	if snap, err := m.store.Load(context.Background(), ownerKey); err == nil {
		if err := inst.RestoreBufferState(snap.Buffer); err == nil {
			m.infoMessage = fmt.Sprintf("restored snapshot from %s", snap.SavedAt.Format("Jan 2 15:04:05"))
		}
	}

	relay := m.relay
	runner, err := shell.Start(shell.Options{
		Command: m.cfg.Terminal.ShellCommand(),
		Cols:    cols,
		Rows:    rows,
	}, func(data string) {
		relay.post(outputMsg{ownerKey: ownerKey, data: data})
	}, m.logger)
	if err != nil {
		m.errorMessage = fmt.Sprintf("shell failed to start: %v", err)
		m.logger.Error("shell start failed", "owner_key", ownerKey, "error", err.Error())
	}

	if runner != nil {
		m.shells.put(ownerKey, runner)
		inst.RegisterEventHandlers(term.EventHandlers{
			OnData: func(data string) {
				_ = runner.Write(data)
			},
			OnTitleChange: func(title string) {
				relay.post(titleMsg{ownerKey: ownerKey, title: title})
			},
			OnBell: func() {
				relay.post(bellMsg{})
			},
		})
	}

	m.owners = append(m.owners, ownerKey)
	m.setActive(len(m.owners) - 1)

	if runner != nil {
		return waitExit(ownerKey, runner)
	}
	return nil
}

// closeTerminal snapshots the active terminal, stops its shell, and
// destroys the pool entry.
func (m *Model) closeTerminal() {
	owner := m.activeOwner()
	if owner == "" {
		return
	}

	if st, err := m.pool.CaptureBufferState(owner); err == nil {
		if err := m.store.Save(context.Background(), owner, st); err != nil {
			m.logger.Warn("snapshot on close failed", "owner_key", owner, "error", err.Error())
		}
	}

	if r := m.shells.remove(owner); r != nil {
		r.Stop()
	}
	if err := m.pool.Destroy(owner); err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}

	m.owners = append(m.owners[:m.active], m.owners[m.active+1:]...)
	delete(m.titles, owner)
	if m.active >= len(m.owners) {
		m.active = len(m.owners) - 1
	}
	if m.active < 0 {
		m.active = 0
	}
	m.inputMode = false
	m.focusActive()
	m.infoMessage = fmt.Sprintf("closed %s (snapshot saved)", owner)
}

// saveSnapshot captures the active terminal's buffer to disk.
func (m *Model) saveSnapshot() {
	owner := m.activeOwner()
	if owner == "" {
		return
	}
	st, err := m.pool.CaptureBufferState(owner)
	if err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}
	if err := m.store.Save(context.Background(), owner, st); err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}
	m.infoMessage = fmt.Sprintf("snapshot saved (%d bytes)", st.SizeBytes)
}

// restoreSnapshot loads the active terminal's snapshot from disk.
func (m *Model) restoreSnapshot() {
	owner := m.activeOwner()
	if owner == "" {
		return
	}
	snap, err := m.store.Load(context.Background(), owner)
	if err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}
	if err := m.pool.RestoreBufferState(owner, snap.Buffer); err != nil {
		m.errorMessage = errors.UserMessage(err)
		return
	}
	m.infoMessage = fmt.Sprintf("restored snapshot from %s", snap.SavedAt.Format("Jan 2 15:04:05"))
}

// selectNext moves the sidebar selection by delta, wrapping around.
func (m *Model) selectNext(delta int) {
	if len(m.owners) == 0 {
		return
	}
	m.active = (m.active + delta + len(m.owners)) % len(m.owners)
	m.focusActive()
}

// focusActive gives keyboard focus to the selected terminal and blurs
// the rest.
func (m *Model) focusActive() {
	active := m.activeOwner()
	for _, owner := range m.owners {
		if owner == active {
			_ = m.pool.Focus(owner)
		} else {
			_ = m.pool.Blur(owner)
		}
	}
}

// setActive changes the selection to index i.
func (m *Model) setActive(i int) {
	if i < 0 || i >= len(m.owners) {
		return
	}
	m.active = i
	m.focusActive()
}

// resizeTerminals fits every pooled terminal and its shell to the
// content pane.
func (m *Model) resizeTerminals() {
	cols, rows := m.contentDims()
	if cols <= 0 || rows <= 0 {
		return
	}
	m.surface.set(cols, rows)
	for _, owner := range m.owners {
		if err := m.pool.Resize(owner, cols, rows); err != nil {
			m.logger.Warn("resize failed", "owner_key", owner, "error", err.Error())
			continue
		}
		if r := m.shells.get(owner); r != nil {
			_ = r.Resize(cols, rows)
		}
	}
}

// contentDims returns the inner size of the terminal pane.
func (m Model) contentDims() (cols, rows int) {
	return CalculateContentDimensions(m.width, m.height, m.cfg.TUI.SidebarWidth)
}

// sidebarWidth returns the sidebar width, narrowed on small screens.
func (m Model) sidebarWidth() int {
	return EffectiveSidebarWidth(m.cfg.TUI.SidebarWidth, m.width)
}
