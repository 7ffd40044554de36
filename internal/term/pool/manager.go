// Package pool manages a capacity-bounded registry of terminal
// instances keyed by owner.
//
// The pool enforces admission control: once it holds MaxSize
// terminals, Create fails with a CapacityError until the caller
// destroys one. There is no eviction. Evicting silently would tear
// down a live, possibly attached terminal and destroy in-flight user
// work, so running out of slots is a caller-visible error instead.
//
// Each owner key maps to exactly one terminal. The pool is the single
// source of truth for terminal liveness; callers address terminals by
// owner key and only hold the *term.Instance handles the pool returns.
package pool

import (
	"sort"
	"sync"
	"time"

	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/term"
	"github.com/termdock/termdock/internal/term/memengine"
	"github.com/termdock/termdock/internal/term/render"
)

// DefaultMaxSize is the pool capacity used when Config.MaxSize is not
// set.
const DefaultMaxSize = 10

// EngineFactory produces the terminal engine backing a new instance.
type EngineFactory func(opts term.Options) term.Engine

// Config controls pool behavior.
type Config struct {
	// MaxSize is the hard capacity limit. Zero or negative means
	// DefaultMaxSize.
	MaxSize int

	// Defaults fills unset fields of the options passed to Create.
	Defaults term.Options
}

// entry associates an owner key with its terminal.
type entry struct {
	inst         *term.Instance
	createdAt    time.Time
	lastAccessed time.Time
}

// Metadata describes one pool entry for introspection and UI display.
type Metadata struct {
	OwnerKey     string
	TerminalID   string
	State        term.State
	Attached     bool
	Renderer     term.RendererType
	Cols         int
	Rows         int
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Manager owns the terminal registry. All methods are safe for
// concurrent use.
type Manager struct {
	logger    *logging.Logger
	renderer  term.RendererManager
	newEngine EngineFactory

	mu      sync.Mutex
	cfg     Config
	entries map[string]*entry
}

// NewManager creates a pool. A nil renderer gets the default provider
// chain, a nil factory builds in-memory engines, and a nil logger
// disables logging.
func NewManager(cfg Config, renderer term.RendererManager, factory EngineFactory, logger *logging.Logger) *Manager {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	if renderer == nil {
		renderer = render.NewManager(nil, logger)
	}
	if factory == nil {
		factory = func(opts term.Options) term.Engine {
			return memengine.New(opts)
		}
	}
	return &Manager{
		logger:    logger.WithComponent("pool"),
		renderer:  renderer,
		newEngine: factory,
		cfg:       cfg,
		entries:   make(map[string]*entry),
	}
}

// Create builds a terminal for ownerKey, attaches it to target, and
// registers it. It fails with a CapacityError when the pool is full
// and a DuplicateOwnerError when the owner already has a terminal.
func (m *Manager) Create(ownerKey string, opts term.Options, target term.Surface) (*term.Instance, error) {
	if ownerKey == "" {
		return nil, errors.NewValidationError("owner key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.cfg.MaxSize {
		m.logger.Warn("pool at capacity",
			"owner_key", ownerKey,
			"max_size", m.cfg.MaxSize)
		return nil, errors.NewCapacityError(m.cfg.MaxSize)
	}
	if _, exists := m.entries[ownerKey]; exists {
		return nil, errors.NewDuplicateOwnerError(ownerKey)
	}

	eng := m.newEngine(m.withDefaults(opts))
	inst, err := term.New(eng, m.renderer, m.logger)
	if err != nil {
		eng.Dispose()
		return nil, errors.Wrap(err, "failed to create terminal")
	}
	if err := inst.Attach(target); err != nil {
		inst.Dispose()
		return nil, errors.Wrap(err, "failed to attach new terminal")
	}

	now := time.Now()
	m.entries[ownerKey] = &entry{
		inst:         inst,
		createdAt:    now,
		lastAccessed: now,
	}

	m.logger.Info("terminal created",
		"owner_key", ownerKey,
		"terminal_id", inst.ID(),
		"renderer", inst.RendererType().String(),
		"pool_size", len(m.entries))

	return inst, nil
}

// Get returns the terminal for ownerKey, or nil when the owner has
// none. It never creates. A hit refreshes the entry's last-accessed
// time.
func (m *Manager) Get(ownerKey string) *term.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[ownerKey]
	if !ok {
		return nil
	}
	e.lastAccessed = time.Now()
	return e.inst
}

// Has reports whether ownerKey has a terminal.
func (m *Manager) Has(ownerKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[ownerKey]
	return ok
}

// Attach re-binds the owner's terminal to a surface, restoring its
// visible content there.
func (m *Manager) Attach(ownerKey string, target term.Surface) error {
	inst, err := m.instance(ownerKey, true)
	if err != nil {
		return err
	}
	return inst.Attach(target)
}

// Detach releases the owner's terminal from its surface. Content is
// preserved for a later Attach.
func (m *Manager) Detach(ownerKey string) error {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return err
	}
	inst.Detach()
	return nil
}

// Focus gives the owner's terminal keyboard focus.
func (m *Manager) Focus(ownerKey string) error {
	inst, err := m.instance(ownerKey, true)
	if err != nil {
		return err
	}
	inst.Focus()
	return nil
}

// Blur removes keyboard focus from the owner's terminal.
func (m *Manager) Blur(ownerKey string) error {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return err
	}
	inst.Blur()
	return nil
}

// Fit resizes the owner's terminal to fill its attached surface.
func (m *Manager) Fit(ownerKey string) error {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return err
	}
	return inst.Fit()
}

// Resize changes the owner's terminal dimensions.
func (m *Manager) Resize(ownerKey string, cols, rows int) error {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return err
	}
	return inst.Resize(cols, rows)
}

// CaptureBufferState snapshots the owner's terminal buffer.
func (m *Manager) CaptureBufferState(ownerKey string) (term.BufferState, error) {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return term.BufferState{}, err
	}
	return inst.BufferState()
}

// RestoreBufferState replays a snapshot into the owner's terminal.
func (m *Manager) RestoreBufferState(ownerKey string, st term.BufferState) error {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return err
	}
	return inst.RestoreBufferState(st)
}

// Destroy disposes the owner's terminal and frees its admission slot.
func (m *Manager) Destroy(ownerKey string) error {
	m.mu.Lock()
	e, ok := m.entries[ownerKey]
	if !ok {
		m.mu.Unlock()
		return errors.NewNotFoundError("terminal", ownerKey)
	}
	delete(m.entries, ownerKey)
	size := len(m.entries)
	m.mu.Unlock()

	// Dispose outside of lock; teardown invokes registered callbacks.
	e.inst.Dispose()

	m.logger.Info("terminal destroyed",
		"owner_key", ownerKey,
		"pool_size", size)
	return nil
}

// ClearAll disposes every terminal and empties the registry. Used at
// shutdown.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	insts := make([]*term.Instance, 0, len(m.entries))
	for _, e := range m.entries {
		insts = append(insts, e.inst)
	}
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	for _, inst := range insts {
		inst.Dispose()
	}

	m.logger.Info("pool cleared", "terminals_disposed", len(insts))
}

// Size returns the number of live terminals.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// MaxSize returns the pool's capacity limit.
func (m *Manager) MaxSize() int {
	return m.cfg.MaxSize
}

// OwnerKeys returns every owner key, sorted.
func (m *Manager) OwnerKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsAttached reports whether the owner's terminal is bound to a
// surface.
func (m *Manager) IsAttached(ownerKey string) (bool, error) {
	inst, err := m.instance(ownerKey, false)
	if err != nil {
		return false, err
	}
	return inst.Attached(), nil
}

// Metadata returns a description of the owner's entry.
func (m *Manager) Metadata(ownerKey string) (Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[ownerKey]
	if !ok {
		return Metadata{}, errors.NewNotFoundError("terminal", ownerKey)
	}
	return m.describe(ownerKey, e), nil
}

// AllMetadata returns a description of every entry, sorted by owner
// key.
func (m *Manager) AllMetadata() []Metadata {
	m.mu.Lock()
	defer m.mu.Unlock()

	metas := make([]Metadata, 0, len(m.entries))
	for k, e := range m.entries {
		metas = append(metas, m.describe(k, e))
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].OwnerKey < metas[j].OwnerKey
	})
	return metas
}

// describe builds the metadata for one entry. Caller must hold the
// lock.
func (m *Manager) describe(ownerKey string, e *entry) Metadata {
	cols, rows := e.inst.Dimensions()
	return Metadata{
		OwnerKey:     ownerKey,
		TerminalID:   e.inst.ID(),
		State:        e.inst.State(),
		Attached:     e.inst.Attached(),
		Renderer:     e.inst.RendererType(),
		Cols:         cols,
		Rows:         rows,
		CreatedAt:    e.createdAt,
		LastAccessed: e.lastAccessed,
	}
}

// instance looks up the owner's terminal, refreshing last-accessed
// when touch is true.
func (m *Manager) instance(ownerKey string, touch bool) (*term.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[ownerKey]
	if !ok {
		return nil, errors.NewNotFoundError("terminal", ownerKey)
	}
	if touch {
		e.lastAccessed = time.Now()
	}
	return e.inst, nil
}

// withDefaults layers the pool's default options under opts.
func (m *Manager) withDefaults(opts term.Options) term.Options {
	if opts.Cols <= 0 {
		opts.Cols = m.cfg.Defaults.Cols
	}
	if opts.Rows <= 0 {
		opts.Rows = m.cfg.Defaults.Rows
	}
	if opts.Scrollback <= 0 {
		opts.Scrollback = m.cfg.Defaults.Scrollback
	}
	return opts.WithDefaults()
}
