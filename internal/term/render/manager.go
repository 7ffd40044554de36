// Package render selects the drawing backend for terminal engines.
//
// A Manager walks an ordered chain of providers, one per renderer
// tier, and binds the first tier the engine accepts. The default chain
// tries GPU, then 2D, then software; engines that cannot host hardware
// tiers reject them in LoadAddon and fall through to software, which
// every engine accepts. The chosen tier is memoized per engine until
// Release.
package render

import (
	"sync"

	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/term"
)

// Provider attempts to bind one renderer tier to an engine.
type Provider interface {
	// Tier returns the renderer tier this provider installs.
	Tier() term.RendererType

	// Attach binds the tier to the engine. It returns an error when
	// the engine cannot host the tier.
	Attach(e term.Engine) error
}

// tierProvider installs its tier by loading a renderer addon into the
// engine. The engine decides acceptance.
type tierProvider struct {
	tier term.RendererType
}

// NewProvider returns a provider for the given tier.
func NewProvider(tier term.RendererType) Provider {
	return &tierProvider{tier: tier}
}

func (p *tierProvider) Tier() term.RendererType {
	return p.tier
}

func (p *tierProvider) Attach(e term.Engine) error {
	return e.LoadAddon(term.NewRendererAddon(p.tier))
}

// DefaultProviders returns the standard fallback chain: GPU, then 2D,
// then software.
func DefaultProviders() []Provider {
	return []Provider{
		NewProvider(term.RendererGPU),
		NewProvider(term.Renderer2D),
		NewProvider(term.RendererSoftware),
	}
}

// Manager picks renderers for engines by walking a provider chain in
// order. It implements term.RendererManager and is safe for concurrent
// use.
type Manager struct {
	logger *logging.Logger

	mu        sync.Mutex
	providers []Provider
	active    map[term.Engine]term.RendererType
}

// NewManager creates a manager over the given provider chain. A nil or
// empty chain falls back to DefaultProviders.
func NewManager(providers []Provider, logger *logging.Logger) *Manager {
	if len(providers) == 0 {
		providers = DefaultProviders()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Manager{
		logger:    logger.WithComponent("render"),
		providers: providers,
		active:    make(map[term.Engine]term.RendererType),
	}
}

// Initialize picks a renderer tier for e. The first provider whose
// tier the engine accepts wins; when every provider fails the engine
// is recorded as having no renderer. Repeat calls for the same engine
// return the memoized answer without walking the chain again.
func (m *Manager) Initialize(e term.Engine) term.RendererType {
	if e == nil {
		return term.RendererNone
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tier, ok := m.active[e]; ok {
		return tier
	}

	for _, p := range m.providers {
		if err := p.Attach(e); err != nil {
			m.logger.Warn("renderer tier unavailable",
				"tier", p.Tier().String(),
				"error", err.Error())
			continue
		}
		m.active[e] = p.Tier()
		m.logger.Info("renderer selected", "tier", p.Tier().String())
		return p.Tier()
	}

	m.active[e] = term.RendererNone
	m.logger.Warn("no renderer tier available for engine")
	return term.RendererNone
}

// ActiveType returns the tier memoized for e, or RendererNone when
// Initialize has not run for it.
func (m *Manager) ActiveType(e term.Engine) term.RendererType {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tier, ok := m.active[e]; ok {
		return tier
	}
	return term.RendererNone
}

// Release forgets the renderer binding for e. A later Initialize walks
// the provider chain again.
func (m *Manager) Release(e term.Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, e)
}

// Interface conformance.
var _ term.RendererManager = (*Manager)(nil)
