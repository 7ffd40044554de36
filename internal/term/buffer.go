package term

import (
	"strings"
	"time"
)

// BufferState is a point-in-time snapshot of a terminal's buffer. It
// carries everything needed to rebuild the terminal's content in a
// fresh engine: the full text, the individual scrollback lines (oldest
// first), the cursor position, and the dimensions at capture time.
type BufferState struct {
	// Content is the buffer text with lines joined by newlines.
	// Trailing blank lines are not captured.
	Content string `json:"content"`

	// Scrollback holds the same lines as Content, oldest first. Its
	// length is bounded by the engine's scrollback limit.
	Scrollback []string `json:"scrollback"`

	// CursorX and CursorY record the cursor position at capture time.
	// They are best-effort: restore places the cursor at the end of
	// the restored content.
	CursorX int `json:"cursor_x"`
	CursorY int `json:"cursor_y"`

	// Cols and Rows are the terminal dimensions at capture time.
	Cols int `json:"cols"`
	Rows int `json:"rows"`

	// SizeBytes is the byte length of Content.
	SizeBytes int `json:"size_bytes"`

	// Timestamp records when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}

// IsZero reports whether the snapshot was never captured.
func (s BufferState) IsZero() bool {
	return s.Timestamp.IsZero() && s.Content == "" && len(s.Scrollback) == 0
}

// captureBuffer reads the engine's buffer into a BufferState.
//
// Trailing blank lines are dropped so that a snapshot taken right
// after a newline restores to the same content it captured.
func captureBuffer(e Engine) BufferState {
	buf := e.Buffer()
	n := buf.Length()

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, buf.Line(i))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	content := strings.Join(lines, "\n")
	cols, rows := e.Size()

	return BufferState{
		Content:    content,
		Scrollback: lines,
		CursorX:    buf.CursorX(),
		CursorY:    buf.CursorY(),
		Cols:       cols,
		Rows:       rows,
		SizeBytes:  len(content),
		Timestamp:  time.Now(),
	}
}

// replayBuffer clears the engine and rewrites a snapshot's lines. The
// last line is written without a newline so the cursor ends up at the
// end of the restored content.
func replayBuffer(e Engine, st BufferState) {
	e.Clear()

	lines := st.Scrollback
	if len(lines) == 0 && st.Content != "" {
		lines = strings.Split(st.Content, "\n")
	}

	for i, line := range lines {
		if i < len(lines)-1 {
			e.Writeln(line)
		} else {
			e.Write(line)
		}
	}
}
