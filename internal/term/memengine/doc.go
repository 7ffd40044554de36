// Package memengine provides an in-memory terminal engine.
//
// The engine keeps the terminal buffer as plain text lines bounded by a
// scrollback limit, strips ANSI escape sequences from incoming writes,
// and emits events for data, resize, title changes, bell, cursor moves,
// and scrolling. It implements term.Engine and is the engine the pool
// creates terminals with.
//
// Usage:
//
//	eng := memengine.New(term.Options{Cols: 80, Rows: 24, Scrollback: 10000})
//	eng.Write("hello\r\n")
//	buf := eng.Buffer()
//	line := buf.Line(0)
//
// The engine accepts only the software renderer tier; loading a GPU or
// 2D renderer addon fails, which drives renderer fallback down the
// provider chain.
package memengine
