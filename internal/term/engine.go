package term

// Disposer releases something registered elsewhere, such as an event
// subscription. Implementations must tolerate being called more than
// once.
type Disposer func()

// Surface is a visible area a terminal engine renders into.
type Surface interface {
	// Size returns the surface dimensions in terminal cells.
	Size() (cols, rows int)
}

// BufferReader provides read access to an engine's line buffer.
// Line indices run from 0 (oldest retained line) to Length()-1.
type BufferReader interface {
	// Length returns the total number of buffered lines, scrollback
	// included.
	Length() int

	// Line returns the text of line i with trailing whitespace
	// trimmed. Out-of-range indices return the empty string.
	Line(i int) string

	// CursorX returns the cursor column.
	CursorX() int

	// CursorY returns the cursor row, counted from the top of the
	// buffer.
	CursorY() int
}

// Addon extends an engine with an optional capability. Addons are
// handed to Engine.LoadAddon, which activates them; the engine
// disposes its addons when it is disposed.
type Addon interface {
	// Activate binds the addon to the engine hosting it.
	Activate(e Engine) error

	// Dispose releases the addon. It must be safe to call twice.
	Dispose()
}

// Engine is the boundary to a terminal emulator. Implementations wrap
// a concrete emulation core; the rest of the system only depends on
// this interface.
//
// Engines are created unattached and may buffer output before Open is
// called. Dispose shuts the emulator down; afterwards all writes are
// ignored.
type Engine interface {
	// Open binds the engine to a surface. The first call opens the
	// terminal; later calls re-bind it to a new surface.
	Open(s Surface) error

	// Surface returns the surface passed to the most recent Open, or
	// nil if the engine was never opened.
	Surface() Surface

	// Write sends data to the terminal.
	Write(data string)

	// Writeln sends data followed by a newline.
	Writeln(data string)

	// Clear empties the buffer.
	Clear()

	// Reset restores the terminal to its initial state.
	Reset()

	// Focus gives the terminal keyboard focus.
	Focus()

	// Blur removes keyboard focus.
	Blur()

	// Resize changes the terminal dimensions.
	Resize(cols, rows int) error

	// Size returns the current terminal dimensions.
	Size() (cols, rows int)

	// Buffer returns a reader over the terminal's line buffer.
	Buffer() BufferReader

	// LoadAddon activates an addon on this engine. Engines reject
	// addons they cannot host, such as renderer tiers they do not
	// support.
	LoadAddon(a Addon) error

	// OnData subscribes to user input produced by the terminal.
	OnData(fn func(data string)) Disposer

	// OnResize subscribes to dimension changes.
	OnResize(fn func(cols, rows int)) Disposer

	// OnTitleChange subscribes to title updates.
	OnTitleChange(fn func(title string)) Disposer

	// OnBell subscribes to bell rings.
	OnBell(fn func()) Disposer

	// OnCursorMove subscribes to cursor movement.
	OnCursorMove(fn func()) Disposer

	// OnScroll subscribes to scroll events. The callback receives the
	// number of lines scrolled.
	OnScroll(fn func(lines int)) Disposer

	// Dispose shuts the engine down and disposes its loaded addons.
	Dispose()
}

// Options configures a new terminal engine.
type Options struct {
	// Cols is the initial width in columns.
	Cols int

	// Rows is the initial height in rows.
	Rows int

	// Scrollback is the maximum number of lines the engine retains.
	// Older lines are dropped once the limit is reached.
	Scrollback int
}

// DefaultOptions returns the standard engine options: an 80x24
// terminal with 10000 lines of scrollback.
func DefaultOptions() Options {
	return Options{
		Cols:       80,
		Rows:       24,
		Scrollback: 10000,
	}
}

// WithDefaults fills zero or negative fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Cols <= 0 {
		o.Cols = d.Cols
	}
	if o.Rows <= 0 {
		o.Rows = d.Rows
	}
	if o.Scrollback <= 0 {
		o.Scrollback = d.Scrollback
	}
	return o
}

// EventHandlers bundles the callbacks an Instance can register with
// its engine. Nil handlers are skipped.
type EventHandlers struct {
	OnData        func(data string)
	OnResize      func(cols, rows int)
	OnTitleChange func(title string)
	OnBell        func()
	OnCursorMove  func()
	OnScroll      func(lines int)
}
