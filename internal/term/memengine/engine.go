package memengine

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/term"
)

// ErrTierUnsupported reports a renderer tier the in-memory engine
// cannot drive. Only the software tier works without a hardware
// surface.
var ErrTierUnsupported = errors.New("renderer tier requires a hardware surface")

// Engine is an in-memory terminal emulator. It interprets a small
// subset of terminal semantics: newlines push lines into a bounded
// scrollback ring, carriage returns rewind the current line, BEL rings
// the bell, and OSC title sequences update the window title. All other
// escape sequences are stripped. All methods are safe for concurrent
// use.
type Engine struct {
	mu sync.Mutex

	ring       *lineRing
	cols, rows int
	scrollback int
	title      string
	focused    bool
	disposed   bool

	surface term.Surface
	addons  []term.Addon

	nextSub    int
	dataSubs   map[int]func(string)
	resizeSubs map[int]func(int, int)
	titleSubs  map[int]func(string)
	bellSubs   map[int]func()
	cursorSubs map[int]func()
	scrollSubs map[int]func(int)
}

// New creates an engine with the given options. Zero or negative
// option fields fall back to defaults.
func New(opts term.Options) *Engine {
	opts = opts.WithDefaults()
	return &Engine{
		ring:       newLineRing(opts.Scrollback),
		cols:       opts.Cols,
		rows:       opts.Rows,
		scrollback: opts.Scrollback,
		dataSubs:   make(map[int]func(string)),
		resizeSubs: make(map[int]func(int, int)),
		titleSubs:  make(map[int]func(string)),
		bellSubs:   make(map[int]func()),
		cursorSubs: make(map[int]func()),
		scrollSubs: make(map[int]func(int)),
	}
}

// Open binds the engine to a surface. Re-opening replaces the surface.
func (e *Engine) Open(s term.Surface) error {
	if s == nil {
		return errors.Wrap(errors.ErrInvalidInput, "open requires a surface")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return errors.NewDisposedError("open")
	}
	e.surface = s
	return nil
}

// Surface returns the most recently opened surface, or nil.
func (e *Engine) Surface() term.Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface
}

// Write feeds data through the emulation pipeline. Escape sequences
// are stripped, OSC titles are applied, and the resulting text lands
// in the line buffer. Writes to a disposed engine are ignored.
func (e *Engine) Write(data string) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}

	titles := extractTitles(data)
	if len(titles) > 0 {
		e.title = titles[len(titles)-1]
	}

	clean := strings.ReplaceAll(stripSequences(data), "\r\n", "\n")

	var pending strings.Builder
	scrolled := 0
	moved := false
	bells := 0

	flush := func() {
		if pending.Len() == 0 {
			return
		}
		e.ring.appendToLast(pending.String())
		pending.Reset()
		moved = true
	}

	for _, r := range clean {
		switch {
		case r == '\n':
			flush()
			e.ring.push("")
			scrolled++
			moved = true
		case r == '\r':
			// Rewind to column zero; the next text overwrites the
			// line. Progress-bar style output collapses to its final
			// frame.
			flush()
			e.ring.setLast("")
			moved = true
		case r == '\a':
			bells++
		case r == '\t':
			pending.WriteByte('\t')
		case r < 0x20 || r == 0x7f:
			// Drop remaining control characters.
		default:
			pending.WriteRune(r)
		}
	}
	flush()

	titleFns := e.snapshotTitleSubs(len(titles) > 0)
	bellFns := e.snapshotBellSubs(bells > 0)
	scrollFns := e.snapshotScrollSubs(scrolled > 0)
	cursorFns := e.snapshotCursorSubs(moved)
	e.mu.Unlock()

	// Dispatch outside of lock; handlers may call back into the engine.
	for _, title := range titles {
		for _, fn := range titleFns {
			fn(title)
		}
	}
	for i := 0; i < bells; i++ {
		for _, fn := range bellFns {
			fn()
		}
	}
	if scrolled > 0 {
		for _, fn := range scrollFns {
			fn(scrolled)
		}
	}
	if moved {
		for _, fn := range cursorFns {
			fn()
		}
	}
}

// Writeln writes data followed by a newline.
func (e *Engine) Writeln(data string) {
	e.Write(data + "\n")
}

// Clear empties the line buffer.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.ring.reset()
}

// Reset clears the buffer and forgets the title, returning the
// terminal to its initial state. Dimensions are kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.ring.reset()
	e.title = ""
}

// Focus marks the terminal as having keyboard focus.
func (e *Engine) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true
}

// Blur removes keyboard focus.
func (e *Engine) Blur() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = false
}

// Focused reports whether the terminal has keyboard focus.
func (e *Engine) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// Resize changes the terminal dimensions and notifies resize
// subscribers. Dimensions must be positive.
func (e *Engine) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return errors.NewValidationError("terminal dimensions must be positive")
	}

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return errors.NewDisposedError("resize")
	}
	e.cols, e.rows = cols, rows
	fns := e.snapshotResizeSubs()
	e.mu.Unlock()

	for _, fn := range fns {
		fn(cols, rows)
	}
	return nil
}

// Size returns the current terminal dimensions.
func (e *Engine) Size() (cols, rows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cols, e.rows
}

// Title returns the window title set by the most recent OSC title
// sequence, or the empty string.
func (e *Engine) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// ScrollbackLimit returns the maximum number of lines the engine
// retains.
func (e *Engine) ScrollbackLimit() int {
	return e.scrollback
}

// Buffer returns a live reader over the line buffer.
func (e *Engine) Buffer() term.BufferReader {
	return bufferView{e}
}

// SendInput delivers data to OnData subscribers, as if the user had
// typed it into the terminal. The host forwards this to whatever
// process feeds the terminal.
func (e *Engine) SendInput(data string) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	fns := make([]func(string), 0, len(e.dataSubs))
	for _, fn := range e.dataSubs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(data)
	}
}

// LoadAddon activates an addon on this engine. Renderer addons for
// tiers other than software are rejected.
func (e *Engine) LoadAddon(a term.Addon) error {
	if a == nil {
		return errors.Wrap(errors.ErrInvalidInput, "addon is required")
	}

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return errors.NewDisposedError("load addon")
	}
	if ra, ok := a.(*term.RendererAddon); ok && ra.Type() != term.RendererSoftware {
		e.mu.Unlock()
		return errors.NewRendererError(ra.Type().String(), ErrTierUnsupported)
	}
	e.mu.Unlock()

	// Activate outside of lock; addons call back into the engine.
	if err := a.Activate(e); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.addons = append(e.addons, a)
	return nil
}

// OnData subscribes to user input. See SendInput.
func (e *Engine) OnData(fn func(data string)) term.Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID()
	e.dataSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.dataSubs, id)
	}
}

// OnResize subscribes to dimension changes.
func (e *Engine) OnResize(fn func(cols, rows int)) term.Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID()
	e.resizeSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.resizeSubs, id)
	}
}

// OnTitleChange subscribes to OSC title updates.
func (e *Engine) OnTitleChange(fn func(title string)) term.Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID()
	e.titleSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.titleSubs, id)
	}
}

// OnBell subscribes to BEL characters in the output stream.
func (e *Engine) OnBell(fn func()) term.Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID()
	e.bellSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.bellSubs, id)
	}
}

// OnCursorMove subscribes to cursor movement.
func (e *Engine) OnCursorMove(fn func()) term.Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID()
	e.cursorSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.cursorSubs, id)
	}
}

// OnScroll subscribes to scroll events carrying the number of lines
// scrolled by a write.
func (e *Engine) OnScroll(fn func(lines int)) term.Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID()
	e.scrollSubs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.scrollSubs, id)
	}
}

// Dispose shuts the engine down. Loaded addons are disposed, all
// subscriptions are dropped, and further writes are ignored. Dispose
// is idempotent.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.surface = nil
	addons := e.addons
	e.addons = nil
	e.dataSubs = make(map[int]func(string))
	e.resizeSubs = make(map[int]func(int, int))
	e.titleSubs = make(map[int]func(string))
	e.bellSubs = make(map[int]func())
	e.cursorSubs = make(map[int]func())
	e.scrollSubs = make(map[int]func(int))
	e.mu.Unlock()

	for _, a := range addons {
		a.Dispose()
	}
}

// Disposed reports whether the engine has been shut down.
func (e *Engine) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

// subID issues the next subscription id. Caller must hold the lock.
func (e *Engine) subID() int {
	id := e.nextSub
	e.nextSub++
	return id
}

func (e *Engine) snapshotTitleSubs(want bool) []func(string) {
	if !want {
		return nil
	}
	fns := make([]func(string), 0, len(e.titleSubs))
	for _, fn := range e.titleSubs {
		fns = append(fns, fn)
	}
	return fns
}

func (e *Engine) snapshotBellSubs(want bool) []func() {
	if !want {
		return nil
	}
	fns := make([]func(), 0, len(e.bellSubs))
	for _, fn := range e.bellSubs {
		fns = append(fns, fn)
	}
	return fns
}

func (e *Engine) snapshotScrollSubs(want bool) []func(int) {
	if !want {
		return nil
	}
	fns := make([]func(int), 0, len(e.scrollSubs))
	for _, fn := range e.scrollSubs {
		fns = append(fns, fn)
	}
	return fns
}

func (e *Engine) snapshotCursorSubs(want bool) []func() {
	if !want {
		return nil
	}
	fns := make([]func(), 0, len(e.cursorSubs))
	for _, fn := range e.cursorSubs {
		fns = append(fns, fn)
	}
	return fns
}

func (e *Engine) snapshotResizeSubs() []func(int, int) {
	fns := make([]func(int, int), 0, len(e.resizeSubs))
	for _, fn := range e.resizeSubs {
		fns = append(fns, fn)
	}
	return fns
}

// bufferView reads the engine's lines under its lock.
type bufferView struct {
	e *Engine
}

func (v bufferView) Length() int {
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	return v.e.ring.len()
}

func (v bufferView) Line(i int) string {
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	if i < 0 || i >= v.e.ring.len() {
		return ""
	}
	return strings.TrimRight(v.e.ring.at(i), " \t")
}

func (v bufferView) CursorX() int {
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	return utf8.RuneCountInString(v.e.ring.last())
}

func (v bufferView) CursorY() int {
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	return v.e.ring.len() - 1
}

// Interface conformance.
var _ term.Engine = (*Engine)(nil)
