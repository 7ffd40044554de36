// Package internal contains integration tests that drive the terminal
// pool, snapshot store, and shell runner together, the way the TUI
// wires them at runtime.
package internal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/shell"
	"github.com/termdock/termdock/internal/store"
	"github.com/termdock/termdock/internal/term"
	"github.com/termdock/termdock/internal/term/pool"
)

// stubSurface is a fixed-size render target.
type stubSurface struct {
	cols, rows int
}

func (s stubSurface) Size() (cols, rows int) { return s.cols, s.rows }

// requirePTY skips the test when the host cannot allocate
// pseudo-terminals (some minimal containers).
func requirePTY(t *testing.T) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	ptmx.Close()
	tty.Close()
}

// waitForBuffer polls the captured buffer until it contains want.
func waitForBuffer(t *testing.T, p *pool.Manager, ownerKey, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if state, err := p.CaptureBufferState(ownerKey); err == nil && strings.Contains(state.Content, want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	state, _ := p.CaptureBufferState(ownerKey)
	t.Fatalf("timed out waiting for buffer containing %q, got %q", want, state.Content)
}

// TestTerminalLifecycleRoundTrip walks a terminal through the full
// close-and-reopen cycle: write, capture, persist, destroy, recreate,
// restore.
func TestTerminalLifecycleRoundTrip(t *testing.T) {
	ctx := context.Background()
	surface := stubSurface{cols: 80, rows: 24}

	st, err := store.NewStore(t.TempDir(), logging.NopLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	p := pool.NewManager(pool.Config{MaxSize: 4}, nil, nil, logging.NopLogger())
	if _, err := p.Create("web", term.Options{Cols: 80, Rows: 24}, surface); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inst := p.Get("web")
	inst.Writeln("make test")
	inst.Write("ok")

	captured, err := p.CaptureBufferState("web")
	if err != nil {
		t.Fatalf("CaptureBufferState() error = %v", err)
	}
	if err := st.Save(ctx, "web", captured); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := p.Destroy("web"); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	// A later session opens a terminal under the same owner key.
	if _, err := p.Create("web", term.Options{Cols: 80, Rows: 24}, surface); err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	snap, err := st.Load(ctx, "web")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.RestoreBufferState("web", snap.Buffer); err != nil {
		t.Fatalf("RestoreBufferState() error = %v", err)
	}

	restored, err := p.CaptureBufferState("web")
	if err != nil {
		t.Fatalf("CaptureBufferState() after restore error = %v", err)
	}
	if restored.Content != captured.Content {
		t.Errorf("restored content = %q, want %q", restored.Content, captured.Content)
	}
	if restored.CursorX != captured.CursorX || restored.CursorY != captured.CursorY {
		t.Errorf("restored cursor = (%d,%d), want (%d,%d)",
			restored.CursorX, restored.CursorY, captured.CursorX, captured.CursorY)
	}

	buf := p.Get("web").Engine().Buffer()
	if buf.Length() == 0 || buf.Line(0) != "make test" {
		t.Errorf("restored first line = %q, want %q", buf.Line(0), "make test")
	}
}

// TestDetachedTerminalKeepsOutput verifies that a backgrounded terminal
// keeps accumulating output and shows it when it is attached again.
func TestDetachedTerminalKeepsOutput(t *testing.T) {
	surface := stubSurface{cols: 80, rows: 24}
	p := pool.NewManager(pool.Config{MaxSize: 4}, nil, nil, logging.NopLogger())

	for _, owner := range []string{"web", "build"} {
		if _, err := p.Create(owner, term.Options{Cols: 80, Rows: 24}, surface); err != nil {
			t.Fatalf("Create(%q) error = %v", owner, err)
		}
	}

	if err := p.Detach("build"); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}
	p.Get("build").Writeln("background job finished")

	if err := p.Attach("build", surface); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	state, err := p.CaptureBufferState("build")
	if err != nil {
		t.Fatalf("CaptureBufferState() error = %v", err)
	}
	if !strings.Contains(state.Content, "background job finished") {
		t.Errorf("buffer lost output written while detached: %q", state.Content)
	}
}

// TestShellOutputPersistence runs a real shell on a pty, relays its
// output into a pooled terminal, and round-trips the result through
// the snapshot store.
func TestShellOutputPersistence(t *testing.T) {
	requirePTY(t)

	ctx := context.Background()
	surface := stubSurface{cols: 80, rows: 24}

	st, err := store.NewStore(t.TempDir(), logging.NopLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	p := pool.NewManager(pool.Config{}, nil, nil, logging.NopLogger())
	if _, err := p.Create("job", term.Options{Cols: 80, Rows: 24}, surface); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inst := p.Get("job")

	r, err := shell.Start(shell.Options{
		Command: "sh",
		Args:    []string{"-c", "printf 'integration marker\\n'"},
		Cols:    80,
		Rows:    24,
	}, func(data string) {
		inst.Write(data)
	}, logging.NopLogger())
	if err != nil {
		t.Skipf("shell not available: %v", err)
	}
	defer r.Stop()

	waitForBuffer(t, p, "job", "integration marker")

	captured, err := p.CaptureBufferState("job")
	if err != nil {
		t.Fatalf("CaptureBufferState() error = %v", err)
	}
	if err := st.Save(ctx, "job", captured); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	snap, err := st.Load(ctx, "job")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(snap.Buffer.Content, "integration marker") {
		t.Errorf("persisted buffer missing shell output: %q", snap.Buffer.Content)
	}
}
