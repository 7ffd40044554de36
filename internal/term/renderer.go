package term

// RendererType identifies the drawing backend an engine renders with.
type RendererType int

const (
	// RendererNone indicates no renderer could be bound.
	RendererNone RendererType = iota

	// RendererGPU is the hardware-accelerated tier.
	RendererGPU

	// Renderer2D is the canvas-style drawing tier.
	Renderer2D

	// RendererSoftware is the plain cell-grid tier. Every engine can
	// host it.
	RendererSoftware
)

// String returns a human-readable string for the renderer type.
func (r RendererType) String() string {
	switch r {
	case RendererNone:
		return "none"
	case RendererGPU:
		return "gpu"
	case Renderer2D:
		return "2d"
	case RendererSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// RendererManager selects and tracks the renderer backing each engine.
// Implementations memoize per engine: the first Initialize call walks
// the available tiers and later calls return the same answer.
type RendererManager interface {
	// Initialize picks a renderer for e, or returns the tier already
	// chosen for it.
	Initialize(e Engine) RendererType

	// ActiveType returns the tier previously selected for e, or
	// RendererNone if Initialize was never called.
	ActiveType(e Engine) RendererType

	// Release forgets the renderer binding for e.
	Release(e Engine)
}

// RendererAddon asks an engine to draw with a specific renderer tier.
// Engines refuse the addon in LoadAddon when they cannot host the
// tier, which is what drives fallback to the next one.
type RendererAddon struct {
	tier RendererType
	eng  Engine
}

// NewRendererAddon creates an addon for the given tier.
func NewRendererAddon(tier RendererType) *RendererAddon {
	return &RendererAddon{tier: tier}
}

// Type returns the renderer tier this addon installs.
func (a *RendererAddon) Type() RendererType {
	return a.tier
}

// Activate implements Addon.
func (a *RendererAddon) Activate(e Engine) error {
	a.eng = e
	return nil
}

// Dispose implements Addon.
func (a *RendererAddon) Dispose() {
	a.eng = nil
}
