// Package term provides the terminal instance layer: an Engine
// abstraction over terminal emulators and an Instance adapter that
// manages one engine's lifecycle, capability addons, and buffer
// snapshots.
//
// An Instance moves through four lifecycle states:
//
//	constructed -> attached <-> detached -> disposed
//
// Attach binds the engine to a visible Surface; Detach releases the
// surface while the engine keeps running offscreen with its buffer
// intact. Dispose is terminal: once disposed, write operations are
// ignored with a warning and state reads fail with a DisposedError.
//
// Usage:
//
//	eng := memengine.New(term.DefaultOptions())
//	inst, err := term.New(eng, renderer, logger)
//	if err != nil {
//	    return err
//	}
//	defer inst.Dispose()
//
//	if err := inst.Attach(surface); err != nil {
//	    return err
//	}
//	inst.Writeln("hello")
//
//	// Snapshot the buffer, e.g. before detaching
//	state, err := inst.BufferState()
//
// Buffer snapshots round-trip: restoring a captured BufferState and
// capturing again yields the same content, cursor position, and
// dimensions.
package term
