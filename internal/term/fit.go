package term

import "github.com/termdock/termdock/internal/errors"

// FitAddon resizes an engine to fill its attached surface.
type FitAddon struct {
	eng Engine
}

// NewFitAddon creates an inactive fit addon. Load it with
// Engine.LoadAddon before use.
func NewFitAddon() *FitAddon {
	return &FitAddon{}
}

// Activate implements Addon.
func (a *FitAddon) Activate(e Engine) error {
	a.eng = e
	return nil
}

// Dispose implements Addon.
func (a *FitAddon) Dispose() {
	a.eng = nil
}

// ProposeDimensions returns the dimensions the engine would adopt on
// Fit. ok is false when there is no surface to measure.
func (a *FitAddon) ProposeDimensions() (cols, rows int, ok bool) {
	if a.eng == nil {
		return 0, 0, false
	}
	s := a.eng.Surface()
	if s == nil {
		return 0, 0, false
	}
	cols, rows = s.Size()
	return cols, rows, cols > 0 && rows > 0
}

// Fit resizes the engine to match its surface. It fails when the
// engine has no surface.
func (a *FitAddon) Fit() error {
	cols, rows, ok := a.ProposeDimensions()
	if !ok {
		return errors.ErrNotAttached
	}
	if curCols, curRows := a.eng.Size(); curCols == cols && curRows == rows {
		return nil
	}
	return a.eng.Resize(cols, rows)
}
