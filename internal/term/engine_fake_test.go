package term

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// fakeSurface is a fixed-size surface for tests.
type fakeSurface struct {
	cols, rows int
}

func (s *fakeSurface) Size() (int, int) {
	return s.cols, s.rows
}

// fakeEngine is a minimal in-memory Engine used to exercise Instance
// and addon behavior. Failure hooks let tests inject errors at the
// engine boundary.
type fakeEngine struct {
	mu sync.Mutex

	lines      []string
	cols, rows int
	scrollback int

	surface  Surface
	opened   bool
	focused  bool
	disposed bool

	writes       []string
	clears       int
	resets       int
	resizes      int
	disposeCalls int

	openErr     error
	resizeErr   error
	rejectAddon func(a Addon) error

	addons []Addon

	nextSub    int
	dataSubs   map[int]func(string)
	resizeSubs map[int]func(int, int)
	titleSubs  map[int]func(string)
	bellSubs   map[int]func()
	cursorSubs map[int]func()
	scrollSubs map[int]func(int)
}

func newFakeEngine(opts Options) *fakeEngine {
	opts = opts.WithDefaults()
	return &fakeEngine{
		lines:      []string{""},
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

func (f *fakeEngine) Open(s Surface) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.surface = s
	f.opened = true
	return nil
}

func (f *fakeEngine) Surface() Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.surface
}

func (f *fakeEngine) Write(data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return
	}
	f.writes = append(f.writes, data)
	for _, r := range data {
		if r == '\n' {
			f.lines = append(f.lines, "")
			if len(f.lines) > f.scrollback {
				f.lines = f.lines[len(f.lines)-f.scrollback:]
			}
			continue
		}
		f.lines[len(f.lines)-1] += string(r)
	}
}

func (f *fakeEngine) Writeln(data string) {
	f.Write(data + "\n")
}

func (f *fakeEngine) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return
	}
	f.lines = []string{""}
	f.clears++
}

func (f *fakeEngine) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return
	}
	f.lines = []string{""}
	f.resets++
}

func (f *fakeEngine) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = true
}

func (f *fakeEngine) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = false
}

func (f *fakeEngine) Resize(cols, rows int) error {
	f.mu.Lock()
	if f.resizeErr != nil {
		f.mu.Unlock()
		return f.resizeErr
	}
	if cols <= 0 || rows <= 0 {
		f.mu.Unlock()
		return fmt.Errorf("invalid dimensions %dx%d", cols, rows)
	}
	f.cols, f.rows = cols, rows
	f.resizes++
	subs := make([]func(int, int), 0, len(f.resizeSubs))
	for _, fn := range f.resizeSubs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(cols, rows)
	}
	return nil
}

func (f *fakeEngine) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cols, f.rows
}

func (f *fakeEngine) Buffer() BufferReader {
	return fakeBufferReader{f}
}

func (f *fakeEngine) LoadAddon(a Addon) error {
	if f.rejectAddon != nil {
		if err := f.rejectAddon(a); err != nil {
			return err
		}
	}
	if err := a.Activate(f); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addons = append(f.addons, a)
	return nil
}

func (f *fakeEngine) OnData(fn func(string)) Disposer {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.dataSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.dataSubs, id)
	}
}

func (f *fakeEngine) OnResize(fn func(int, int)) Disposer {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.resizeSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.resizeSubs, id)
	}
}

func (f *fakeEngine) OnTitleChange(fn func(string)) Disposer {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.titleSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.titleSubs, id)
	}
}

func (f *fakeEngine) OnBell(fn func()) Disposer {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.bellSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.bellSubs, id)
	}
}

func (f *fakeEngine) OnCursorMove(fn func()) Disposer {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.cursorSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.cursorSubs, id)
	}
}

func (f *fakeEngine) OnScroll(fn func(int)) Disposer {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.scrollSubs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.scrollSubs, id)
	}
}

func (f *fakeEngine) Dispose() {
	f.mu.Lock()
	f.disposeCalls++
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.disposed = true
	addons := f.addons
	f.addons = nil
	f.dataSubs = make(map[int]func(string))
	f.resizeSubs = make(map[int]func(int, int))
	f.titleSubs = make(map[int]func(string))
	f.bellSubs = make(map[int]func())
	f.cursorSubs = make(map[int]func())
	f.scrollSubs = make(map[int]func(int))
	f.mu.Unlock()

	for _, a := range addons {
		a.Dispose()
	}
}

// emitData delivers input to data subscribers, simulating a user
// typing into the terminal.
func (f *fakeEngine) emitData(data string) {
	f.mu.Lock()
	subs := make([]func(string), 0, len(f.dataSubs))
	for _, fn := range f.dataSubs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(data)
	}
}

// emitBell rings the terminal bell.
func (f *fakeEngine) emitBell() {
	f.mu.Lock()
	subs := make([]func(), 0, len(f.bellSubs))
	for _, fn := range f.bellSubs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// subCount returns the total number of live event subscriptions.
func (f *fakeEngine) subCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dataSubs) + len(f.resizeSubs) + len(f.titleSubs) +
		len(f.bellSubs) + len(f.cursorSubs) + len(f.scrollSubs)
}

// writeCount returns how many Write calls reached the engine.
func (f *fakeEngine) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

// fakeBufferReader is a live view over a fakeEngine's lines.
type fakeBufferReader struct {
	f *fakeEngine
}

func (r fakeBufferReader) Length() int {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return len(r.f.lines)
}

func (r fakeBufferReader) Line(i int) string {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if i < 0 || i >= len(r.f.lines) {
		return ""
	}
	return strings.TrimRight(r.f.lines[i], " \t")
}

func (r fakeBufferReader) CursorX() int {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return utf8.RuneCountInString(r.f.lines[len(r.f.lines)-1])
}

func (r fakeBufferReader) CursorY() int {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return len(r.f.lines) - 1
}

// Compile-time interface checks for the test doubles.
var (
	_ Engine       = (*fakeEngine)(nil)
	_ Surface      = (*fakeSurface)(nil)
	_ BufferReader = fakeBufferReader{}
)
