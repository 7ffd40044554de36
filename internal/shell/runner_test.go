package shell

import (
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/termdock/termdock/internal/errors"
)

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

// requireCommand skips the test when the named binary is not installed.
func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

// outputSink collects runner output across goroutines.
type outputSink struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (s *outputSink) write(data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.WriteString(data)
}

func (s *outputSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// waitForOutput polls until the collected output contains want.
func waitForOutput(t *testing.T, sink *outputSink, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(sink.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for output containing %q, got %q", want, sink.String())
}

func TestStart_StreamsOutput(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "sh")

	sink := &outputSink{}
	r, err := Start(Options{
		Command: "sh",
		Args:    []string{"-c", "printf ready"},
	}, sink.write, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	waitForOutput(t, sink, "ready")
}

func TestStart_BadCommand(t *testing.T) {
	requirePTY(t)

	_, err := Start(Options{Command: "/nonexistent-binary-for-test"}, nil, nil)
	if err == nil {
		t.Fatal("Start() with missing binary should fail")
	}
}

func TestStart_DefaultSize(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "sh")
	requireCommand(t, "stty")

	sink := &outputSink{}
	r, err := Start(Options{
		Command: "sh",
		Args:    []string{"-c", "stty size"},
	}, sink.write, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	// stty reports "rows cols".
	waitForOutput(t, sink, "24 80")
}

func TestStart_ExplicitSize(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "sh")
	requireCommand(t, "stty")

	sink := &outputSink{}
	r, err := Start(Options{
		Command: "sh",
		Args:    []string{"-c", "stty size"},
		Cols:    100,
		Rows:    30,
	}, sink.write, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	waitForOutput(t, sink, "30 100")
}

func TestRunner_WriteReachesProcess(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "cat")

	sink := &outputSink{}
	r, err := Start(Options{Command: "cat"}, sink.write, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	if err := r.Write("ping\n"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	waitForOutput(t, sink, "ping")
}

func TestRunner_Resize(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "cat")

	r, err := Start(Options{Command: "cat"}, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	if err := r.Resize(120, 40); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}

	if err := r.Resize(0, 40); err == nil {
		t.Error("Resize(0, 40) should fail")
	}
	if err := r.Resize(120, -1); err == nil {
		t.Error("Resize(120, -1) should fail")
	}
}

func TestRunner_DoneOnExit(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "sh")

	r, err := Start(Options{
		Command: "sh",
		Args:    []string{"-c", "exit 0"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for shell to exit")
	}

	if r.Running() {
		t.Error("Running() should be false after exit")
	}
	if err := r.Write("anything"); !errors.Is(err, ErrStopped) {
		t.Errorf("Write() after exit = %v, want ErrStopped", err)
	}
	if err := r.Resize(80, 24); !errors.Is(err, ErrStopped) {
		t.Errorf("Resize() after exit = %v, want ErrStopped", err)
	}

	// Stop after natural exit is a no-op.
	r.Stop()
}

func TestRunner_Stop(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "cat")

	r, err := Start(Options{Command: "cat"}, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !r.Running() {
		t.Fatal("Running() should be true before Stop")
	}

	r.Stop()

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after Stop")
	}
	if r.Running() {
		t.Error("Running() should be false after Stop")
	}

	// Idempotent.
	r.Stop()
}

func TestRunner_Pid(t *testing.T) {
	requirePTY(t)
	requireCommand(t, "cat")

	r, err := Start(Options{Command: "cat"}, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	if r.Pid() <= 0 {
		t.Errorf("Pid() = %d, want positive", r.Pid())
	}
}
