package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/termdock/termdock/internal/config"
	"github.com/termdock/termdock/internal/lock"
	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/store"
	"github.com/termdock/termdock/internal/term"
	"github.com/termdock/termdock/internal/term/pool"
	"github.com/termdock/termdock/internal/tui"
	xterm "golang.org/x/term"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the terminal dashboard",
	Long: `Start the Termdock dashboard.
This launches the TUI where you can create, switch between, and close
pooled terminals. Closing a terminal saves its buffer; creating one with
the same owner key later restores it.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLoggerWithRotation(cfg.Logging.ResolveFile(), cfg.Logging.Level, logging.DefaultRotationConfig())
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	}
	defer func() { _ = logger.Close() }()

	logger.Info("termdock starting", "version", version, "pid", os.Getpid())

	dataLock, err := lock.Acquire(config.DataDir(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = dataLock.Release() }()

	st, err := store.NewStore(config.SnapshotsDir(), logger)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}

	defaults := term.Options{
		Cols:       cfg.Terminal.Cols,
		Rows:       cfg.Terminal.Rows,
		Scrollback: cfg.Terminal.ScrollbackLines,
	}

	// Size new terminals to the content pane before the TUI reports its
	// first WindowSizeMsg
	if termWidth, termHeight, err := xterm.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows := tui.CalculateContentDimensions(termWidth, termHeight, cfg.TUI.SidebarWidth)
		if cols > 0 && rows > 0 {
			defaults.Cols = cols
			defaults.Rows = rows
		}
	}

	p := pool.NewManager(pool.Config{
		MaxSize:  cfg.Pool.MaxSize,
		Defaults: defaults,
	}, nil, nil, logger)

	app := tui.New(cfg, p, st, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
