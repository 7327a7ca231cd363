// Package renderer draws a line document through a viewport onto a
// terminal backend.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│  Viewport (pixel scroll position)       │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend (tests) │
//	└─────────────────────────────────────────┘
//
// The bottom row is a status line; document lines fill the rows above it.
// Rows past the end of the document are marked with a tilde.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.Render(doc, view.Viewport(), status)
package renderer
