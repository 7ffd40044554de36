package term

import (
	"sync"

	"github.com/google/uuid"

	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/logging"
)

// Instance wraps a single terminal engine together with its capability
// addons and tracks where the terminal is in its lifecycle. All methods
// are safe for concurrent use.
//
// Once disposed, an instance is permanently dead: writes are ignored
// with a warning, buffer operations fail with a DisposedError, and a
// second Dispose only logs.
type Instance struct {
	mu sync.Mutex

	id    string
	eng   Engine
	state State

	renderer     RendererManager
	rendererType RendererType

	fit    *FitAddon
	search *SearchAddon
	links  *LinksAddon

	surface Surface

	// disposers holds the event subscriptions registered through
	// RegisterEventHandlers, keyed so batch disposers can remove their
	// own entries.
	disposers    map[int]Disposer
	nextDisposer int

	// lastCols and lastRows keep the most recent dimensions so
	// Dimensions stays answerable after dispose.
	lastCols int
	lastRows int

	logger *logging.Logger
}

// New creates an Instance around eng. It loads the fit, search, and
// links addons and selects a renderer through rm. The instance starts
// in StateConstructed; call Attach to bind it to a surface.
func New(eng Engine, rm RendererManager, logger *logging.Logger) (*Instance, error) {
	if eng == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "terminal instance requires an engine")
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	inst := &Instance{
		id:        uuid.NewString()[:8],
		eng:       eng,
		state:     StateConstructed,
		renderer:  rm,
		fit:       NewFitAddon(),
		search:    NewSearchAddon(),
		links:     NewLinksAddon(),
		disposers: make(map[int]Disposer),
		logger:    logger.WithComponent("term"),
	}
	inst.lastCols, inst.lastRows = eng.Size()

	for _, a := range []Addon{inst.fit, inst.search, inst.links} {
		if err := eng.LoadAddon(a); err != nil {
			return nil, errors.Wrap(err, "failed to load terminal addon")
		}
	}

	if rm != nil {
		inst.rendererType = rm.Initialize(eng)
	}

	inst.logger.Debug("terminal created",
		"terminal_id", inst.id,
		"renderer", inst.rendererType.String())

	return inst, nil
}

// ID returns the instance's unique identifier.
func (i *Instance) ID() string {
	return i.id
}

// Engine returns the wrapped terminal engine.
func (i *Instance) Engine() Engine {
	return i.eng
}

// State returns the current lifecycle state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Attached reports whether the terminal is bound to a surface.
func (i *Instance) Attached() bool {
	return i.State() == StateAttached
}

// RendererType returns the renderer tier selected for this terminal.
func (i *Instance) RendererType() RendererType {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rendererType
}

// Attach binds the terminal to a surface. The first attach opens the
// engine onto it; later attaches re-bind after a detach. Attaching a
// disposed terminal is an error.
func (i *Instance) Attach(surface Surface) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == StateDisposed {
		return errors.NewDisposedError("attach")
	}
	if surface == nil {
		return errors.Wrap(errors.ErrInvalidInput, "attach requires a surface")
	}

	if err := i.eng.Open(surface); err != nil {
		return errors.Wrap(err, "failed to open terminal on surface")
	}
	i.surface = surface
	i.state = StateAttached

	// Size the terminal to its new surface right away.
	if err := i.fit.Fit(); err != nil {
		i.logger.Warn("fit after attach failed",
			"terminal_id", i.id,
			"error", err.Error())
	}
	i.lastCols, i.lastRows = i.eng.Size()

	i.logger.Debug("terminal attached", "terminal_id", i.id)
	return nil
}

// Detach releases the terminal's surface. The engine keeps running
// offscreen and its buffer is preserved, so a later Attach shows the
// same content.
func (i *Instance) Detach() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("detach") {
		return
	}
	if i.state != StateAttached {
		return
	}

	i.surface = nil
	i.state = StateDetached
	i.logger.Debug("terminal detached", "terminal_id", i.id)
}

// Write sends data to the terminal. Writes to a disposed terminal are
// ignored with a warning.
func (i *Instance) Write(data string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("write") {
		return
	}
	i.eng.Write(data)
}

// Writeln sends data followed by a newline.
func (i *Instance) Writeln(data string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("writeln") {
		return
	}
	i.eng.Writeln(data)
}

// Clear empties the terminal buffer.
func (i *Instance) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("clear") {
		return
	}
	i.eng.Clear()
}

// Reset restores the terminal to its initial state.
func (i *Instance) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("reset") {
		return
	}
	i.eng.Reset()
}

// Focus gives the terminal keyboard focus.
func (i *Instance) Focus() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("focus") {
		return
	}
	i.eng.Focus()
}

// Blur removes keyboard focus from the terminal.
func (i *Instance) Blur() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("blur") {
		return
	}
	i.eng.Blur()
}

// Resize changes the terminal dimensions. Resizing a disposed terminal
// is ignored with a warning.
func (i *Instance) Resize(cols, rows int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("resize") {
		return nil
	}
	if err := i.eng.Resize(cols, rows); err != nil {
		return errors.Wrap(err, "failed to resize terminal")
	}
	i.lastCols, i.lastRows = cols, rows
	return nil
}

// Fit resizes the terminal to fill its attached surface. It fails when
// the terminal is not attached.
func (i *Instance) Fit() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("fit") {
		return nil
	}
	if i.state != StateAttached {
		return errors.ErrNotAttached
	}
	if err := i.fit.Fit(); err != nil {
		return err
	}
	i.lastCols, i.lastRows = i.eng.Size()
	return nil
}

// Dimensions returns the terminal size. It keeps answering after
// dispose, reporting the last known dimensions.
func (i *Instance) Dimensions() (cols, rows int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StateDisposed {
		i.lastCols, i.lastRows = i.eng.Size()
	}
	return i.lastCols, i.lastRows
}

// BufferState captures the terminal's buffer, cursor, and dimensions.
// Capturing a disposed terminal fails with a DisposedError.
func (i *Instance) BufferState() (BufferState, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == StateDisposed {
		return BufferState{}, errors.NewDisposedError("capture buffer state")
	}
	return captureBuffer(i.eng), nil
}

// RestoreBufferState clears the terminal and replays a snapshot into
// it. The cursor ends up at the end of the restored content. Restoring
// into a disposed terminal fails with a DisposedError.
func (i *Instance) RestoreBufferState(st BufferState) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == StateDisposed {
		return errors.NewDisposedError("restore buffer state")
	}
	replayBuffer(i.eng, st)
	return nil
}

// Search looks for term in the buffer, resuming after the previous
// match when called repeatedly with the same term. A disposed terminal
// always reports no match.
func (i *Instance) Search(term string, opts SearchOptions) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("search") {
		return false
	}
	return i.search.FindNext(term, opts)
}

// Links returns the URLs currently present in the buffer.
func (i *Instance) Links() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("links") {
		return nil
	}
	return i.links.Links()
}

// RegisterEventHandlers subscribes the non-nil handlers to engine
// events. The returned Disposer removes the subscriptions made by this
// call; Dispose removes them as well.
func (i *Instance) RegisterEventHandlers(h EventHandlers) Disposer {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.warnIfDisposed("register event handlers") {
		return func() {}
	}

	var ids []int
	track := func(d Disposer) {
		id := i.nextDisposer
		i.nextDisposer++
		i.disposers[id] = d
		ids = append(ids, id)
	}

	if h.OnData != nil {
		track(i.eng.OnData(h.OnData))
	}
	if h.OnResize != nil {
		track(i.eng.OnResize(h.OnResize))
	}
	if h.OnTitleChange != nil {
		track(i.eng.OnTitleChange(h.OnTitleChange))
	}
	if h.OnBell != nil {
		track(i.eng.OnBell(h.OnBell))
	}
	if h.OnCursorMove != nil {
		track(i.eng.OnCursorMove(h.OnCursorMove))
	}
	if h.OnScroll != nil {
		track(i.eng.OnScroll(h.OnScroll))
	}

	return func() {
		i.mu.Lock()
		var ds []Disposer
		for _, id := range ids {
			if d, ok := i.disposers[id]; ok {
				ds = append(ds, d)
				delete(i.disposers, id)
			}
		}
		i.mu.Unlock()

		for _, d := range ds {
			d()
		}
	}
}

// Dispose permanently releases the terminal. Registered event
// subscriptions are removed, the addons and renderer binding are
// released, and the engine is shut down. A second Dispose logs a
// warning and does nothing else.
func (i *Instance) Dispose() {
	i.mu.Lock()
	if i.state == StateDisposed {
		i.mu.Unlock()
		i.logger.Warn("terminal already disposed", "terminal_id", i.id)
		return
	}
	i.state = StateDisposed
	i.surface = nil
	i.lastCols, i.lastRows = i.eng.Size()

	ds := make([]Disposer, 0, len(i.disposers))
	for _, d := range i.disposers {
		ds = append(ds, d)
	}
	i.disposers = nil
	i.mu.Unlock()

	// Tear down outside the lock; disposers may call back in.
	for _, d := range ds {
		d()
	}
	i.search.Dispose()
	i.links.Dispose()
	i.fit.Dispose()
	if i.renderer != nil {
		i.renderer.Release(i.eng)
	}
	i.eng.Dispose()

	i.logger.Info("terminal disposed", "terminal_id", i.id)
}

// warnIfDisposed reports whether the terminal is disposed, logging the
// rejected operation. Caller must hold the lock.
func (i *Instance) warnIfDisposed(op string) bool {
	if i.state != StateDisposed {
		return false
	}
	i.logger.Warn("operation on disposed terminal ignored",
		"terminal_id", i.id,
		"op", op)
	return true
}
