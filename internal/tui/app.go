// Package tui is the interactive front end: a sidebar of pooled
// terminals, a content pane mirroring the active terminal's buffer,
// and key forwarding to the shell behind it. Buffers are snapshotted
// to disk when terminals close and when the program exits.
package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/termdock/termdock/internal/config"
	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/store"
	"github.com/termdock/termdock/internal/term/pool"
)

// App wraps the Bubbletea program.
type App struct {
	program *tea.Program
	model   Model
	pool    *pool.Manager
	store   *store.Store
	logger  *logging.Logger
}

// New creates the TUI application.
func New(cfg *config.Config, p *pool.Manager, st *store.Store, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{
		model:  NewModel(cfg, p, st, logger),
		pool:   p,
		store:  st,
		logger: logger.WithComponent("tui"),
	}
}

// Run starts the TUI and blocks until it exits. Terminal buffers are
// snapshotted and shells stopped on the way out, for both normal quits
// and signals.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)
	a.model.relay.bind(a.program.Send)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	a.shutdown()

	return err
}

// shutdown snapshots every pooled terminal, stops the shells, and
// drains the pool.
func (a *App) shutdown() {
	ctx := context.Background()

	for _, owner := range a.pool.OwnerKeys() {
		st, err := a.pool.CaptureBufferState(owner)
		if err != nil {
			a.logger.Warn("exit snapshot capture failed", "owner_key", owner, "error", err.Error())
			continue
		}
		if err := a.store.Save(ctx, owner, st); err != nil {
			a.logger.Warn("exit snapshot save failed", "owner_key", owner, "error", err.Error())
		}
	}

	a.model.shells.stopAll()
	a.pool.ClearAll()
	a.logger.Info("tui stopped")
}
