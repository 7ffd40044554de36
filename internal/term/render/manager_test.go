package render

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/term"
	"github.com/termdock/termdock/internal/term/memengine"
)

// recordingProvider counts attach attempts and fails on demand.
type recordingProvider struct {
	tier     term.RendererType
	err      error
	attempts int
}

func (p *recordingProvider) Tier() term.RendererType {
	return p.tier
}

func (p *recordingProvider) Attach(term.Engine) error {
	p.attempts++
	return p.err
}

func TestManager_Initialize_FallbackOrder(t *testing.T) {
	gpu := &recordingProvider{tier: term.RendererGPU, err: fmt.Errorf("no gpu")}
	canvas := &recordingProvider{tier: term.Renderer2D, err: fmt.Errorf("no canvas")}
	software := &recordingProvider{tier: term.RendererSoftware}
	m := NewManager([]Provider{gpu, canvas, software}, nil)

	eng := memengine.New(term.Options{})
	if got := m.Initialize(eng); got != term.RendererSoftware {
		t.Errorf("Initialize() = %v, want %v", got, term.RendererSoftware)
	}

	if gpu.attempts != 1 || canvas.attempts != 1 || software.attempts != 1 {
		t.Errorf("attempts = %d/%d/%d, want 1/1/1 (walked in order)",
			gpu.attempts, canvas.attempts, software.attempts)
	}
}

func TestManager_Initialize_FirstAcceptingTierWins(t *testing.T) {
	gpu := &recordingProvider{tier: term.RendererGPU}
	canvas := &recordingProvider{tier: term.Renderer2D}
	m := NewManager([]Provider{gpu, canvas}, nil)

	eng := memengine.New(term.Options{})
	if got := m.Initialize(eng); got != term.RendererGPU {
		t.Errorf("Initialize() = %v, want %v", got, term.RendererGPU)
	}
	if canvas.attempts != 0 {
		t.Errorf("later provider attempted %d times, want 0", canvas.attempts)
	}
}

func TestManager_Initialize_Memoized(t *testing.T) {
	software := &recordingProvider{tier: term.RendererSoftware}
	m := NewManager([]Provider{software}, nil)

	eng := memengine.New(term.Options{})
	m.Initialize(eng)
	m.Initialize(eng)
	m.Initialize(eng)

	if software.attempts != 1 {
		t.Errorf("provider attempted %d times, want 1 (memoized)", software.attempts)
	}
}

func TestManager_Initialize_AllTiersFail(t *testing.T) {
	gpu := &recordingProvider{tier: term.RendererGPU, err: fmt.Errorf("no gpu")}
	m := NewManager([]Provider{gpu}, nil)

	eng := memengine.New(term.Options{})
	if got := m.Initialize(eng); got != term.RendererNone {
		t.Errorf("Initialize() = %v, want %v", got, term.RendererNone)
	}

	// The failure is memoized too.
	m.Initialize(eng)
	if gpu.attempts != 1 {
		t.Errorf("provider attempted %d times, want 1", gpu.attempts)
	}
}

func TestManager_Initialize_TierFailureLoggedAsWarning(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "render.log")
	logger, err := logging.NewLogger(logPath, logging.LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Close()

	gpu := &recordingProvider{tier: term.RendererGPU, err: fmt.Errorf("no gpu")}
	software := &recordingProvider{tier: term.RendererSoftware}
	m := NewManager([]Provider{gpu, software}, logger)

	eng := memengine.New(term.Options{})
	if got := m.Initialize(eng); got != term.RendererSoftware {
		t.Fatalf("Initialize() = %v, want %v", got, term.RendererSoftware)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// A WARN-threshold logger drops anything quieter, so the fallback
	// entry must itself be a warning to show up here.
	entries, err := logging.AggregateLogs(logPath)
	if err != nil {
		t.Fatalf("AggregateLogs() error = %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Message == "renderer tier unavailable" && e.Level == logging.LevelWarn {
			found = true
		}
	}
	if !found {
		t.Errorf("no WARN entry for the failed tier in %d entries", len(entries))
	}
}

func TestManager_Initialize_NilEngine(t *testing.T) {
	m := NewManager(nil, nil)
	if got := m.Initialize(nil); got != term.RendererNone {
		t.Errorf("Initialize(nil) = %v, want %v", got, term.RendererNone)
	}
}

func TestManager_DefaultChain_FallsBackToSoftware(t *testing.T) {
	// The in-memory engine rejects the GPU and 2D tiers, so the
	// default chain must land on software.
	m := NewManager(nil, nil)

	eng := memengine.New(term.Options{})
	if got := m.Initialize(eng); got != term.RendererSoftware {
		t.Errorf("Initialize() = %v, want %v", got, term.RendererSoftware)
	}
	if got := m.ActiveType(eng); got != term.RendererSoftware {
		t.Errorf("ActiveType() = %v, want %v", got, term.RendererSoftware)
	}
}

func TestManager_ActiveType_BeforeInitialize(t *testing.T) {
	m := NewManager(nil, nil)
	eng := memengine.New(term.Options{})

	if got := m.ActiveType(eng); got != term.RendererNone {
		t.Errorf("ActiveType() = %v, want %v", got, term.RendererNone)
	}
}

func TestManager_Release(t *testing.T) {
	software := &recordingProvider{tier: term.RendererSoftware}
	m := NewManager([]Provider{software}, nil)
	eng := memengine.New(term.Options{})

	m.Initialize(eng)
	m.Release(eng)

	if got := m.ActiveType(eng); got != term.RendererNone {
		t.Errorf("ActiveType() after release = %v, want %v", got, term.RendererNone)
	}

	// Release clears the memo, so the chain walks again.
	m.Initialize(eng)
	if software.attempts != 2 {
		t.Errorf("provider attempted %d times, want 2", software.attempts)
	}
}

func TestManager_TracksEnginesIndependently(t *testing.T) {
	m := NewManager(nil, nil)
	a := memengine.New(term.Options{})
	b := memengine.New(term.Options{})

	m.Initialize(a)

	if got := m.ActiveType(b); got != term.RendererNone {
		t.Errorf("ActiveType(b) = %v, want %v before its Initialize", got, term.RendererNone)
	}
	m.Release(a)
	if got := m.ActiveType(a); got != term.RendererNone {
		t.Errorf("ActiveType(a) after release = %v, want %v", got, term.RendererNone)
	}
}
