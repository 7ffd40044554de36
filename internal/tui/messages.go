package tui

import (
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/termdock/termdock/internal/shell"
)

// tickMsg drives the periodic refresh of the visible terminal.
type tickMsg time.Time

// outputMsg carries a chunk the shell wrote to its pty.
type outputMsg struct {
	ownerKey string
	data     string
}

// shellExitMsg is sent when a shell process exits.
type shellExitMsg struct {
	ownerKey string
}

// titleMsg is sent when a terminal's title changes.
type titleMsg struct {
	ownerKey string
	title    string
}

// bellMsg is sent when a terminal rings its bell.
type bellMsg struct{}

// errMsg wraps an error for display in the status line.
type errMsg struct {
	err error
}

// relay delivers messages into the running program from shell reader
// goroutines. It is bound once the program exists; posts before that
// are dropped.
type relay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (r *relay) bind(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

func (r *relay) post(msg tea.Msg) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Commands

// tick schedules the next refresh.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitExit blocks until the shell exits, then reports it.
func waitExit(ownerKey string, r *shell.Runner) tea.Cmd {
	return func() tea.Msg {
		<-r.Done()
		return shellExitMsg{ownerKey: ownerKey}
	}
}

// ringBell forwards a terminal bell to the parent terminal. Writing
// the bell byte directly works even in alt-screen mode.
func ringBell() tea.Cmd {
	return func() tea.Msg {
		_, _ = os.Stdout.Write([]byte{'\a'})
		return nil
	}
}
