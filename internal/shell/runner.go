// Package shell runs a command on a pseudo-terminal and streams its
// output. The TUI bridges a Runner to a terminal instance: pty output
// feeds the terminal's buffer, and the terminal's user input feeds the
// pty.
package shell

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/logging"
)

// ErrStopped indicates the shell process is no longer running.
var ErrStopped = errors.New("shell is not running")

// stopTimeout bounds how long Stop waits for the process to exit after
// the pty closes before killing it.
const stopTimeout = 3 * time.Second

// Options configures a shell process.
type Options struct {
	// Command is the binary to run. Empty means $SHELL, falling back
	// to /bin/sh.
	Command string

	// Args are passed to the command.
	Args []string

	// Dir is the working directory. Empty means the user's home
	// directory, falling back to the OS temp directory.
	Dir string

	// Env holds extra KEY=VALUE pairs appended to the inherited
	// environment.
	Env []string

	// Cols and Rows set the initial pty size. Zero means 80x24.
	Cols int
	Rows int
}

// Runner owns one shell process on a pty. All methods are safe for
// concurrent use.
type Runner struct {
	logger *logging.Logger

	cmd  *exec.Cmd
	ptmx *os.File

	onOutput func(data string)
	done     chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Start launches the command on a new pty. onOutput is invoked from a
// reader goroutine with each chunk the process writes; it may be nil.
func Start(opts Options, onOutput func(data string), logger *logging.Logger) (*Runner, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	command := opts.Command
	if command == "" {
		command = os.Getenv("SHELL")
	}
	if command == "" {
		command = "/bin/sh"
	}

	dir := opts.Dir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		} else {
			dir = os.TempDir()
		}
	}

	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	cmd := exec.Command(command, opts.Args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start shell on pty")
	}

	r := &Runner{
		logger:   logger.WithComponent("shell"),
		cmd:      cmd,
		ptmx:     ptmx,
		onOutput: onOutput,
		done:     make(chan struct{}),
	}

	go r.readLoop()
	go r.reap()

	r.logger.Info("shell started",
		"command", command,
		"pid", cmd.Process.Pid)
	return r, nil
}

// readLoop pumps pty output to the onOutput callback until the pty
// closes.
func (r *Runner) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := r.ptmx.Read(buf)
		if n > 0 && r.onOutput != nil {
			r.onOutput(string(buf[:n]))
		}
		if err != nil {
			if err != io.EOF {
				r.logger.Debug("pty read ended", "error", err.Error())
			}
			return
		}
	}
}

// reap waits for the process so it does not linger as a zombie, then
// signals Done.
func (r *Runner) reap() {
	err := r.cmd.Wait()

	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	if err != nil {
		r.logger.Debug("shell exited", "error", err.Error())
	} else {
		r.logger.Debug("shell exited")
	}
	close(r.done)
}

// Write sends data to the shell's stdin.
func (r *Runner) Write(data string) error {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	if _, err := r.ptmx.Write([]byte(data)); err != nil {
		return errors.Wrap(err, "failed to write to shell")
	}
	return nil
}

// Resize changes the pty dimensions, notifying the process with
// SIGWINCH.
func (r *Runner) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return errors.NewValidationError("pty dimensions must be positive")
	}

	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	if err := pty.Setsize(r.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return errors.Wrap(err, "failed to resize pty")
	}
	return nil
}

// Running reports whether the process is still alive.
func (r *Runner) Running() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the process has exited and been
// reaped.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Pid returns the shell's process id.
func (r *Runner) Pid() int {
	return r.cmd.Process.Pid
}

// Stop shuts the shell down. Closing the pty hangs up the process;
// if it has not exited within the grace period it is killed. Stop is
// idempotent and returns once the process is gone or the kill has been
// issued.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.stopped = true
	r.mu.Unlock()

	r.ptmx.Close()

	select {
	case <-r.done:
		return
	case <-time.After(stopTimeout):
	}

	r.logger.Warn("shell did not exit after hangup, killing", "pid", r.Pid())
	if r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}

	select {
	case <-r.done:
	case <-time.After(stopTimeout):
		r.logger.Error("shell still running after kill", "pid", r.Pid())
	}
}
