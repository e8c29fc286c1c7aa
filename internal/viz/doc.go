// Package viz is the presentation layer of the step-response lab.
//
//   - [ChartRenderer]: asciigraph chart of the enabled signals, the
//     [app.Renderer] used by the CLI and the TUI
//   - [Model]: Bubble Tea program with the parameter form and toggles
//   - Theme selection with 2 built-in color schemes
//
// # Key Bindings
//
//	Space/Enter - Update the chart (simulate)
//	Tab/↑/↓     - Move between parameter fields
//	F1..F4      - Toggle reference, output, error, feedback
//	Ctrl+R      - Reset the form
//	Ctrl+U      - Clear the focused field
//	Q/Esc       - Quit
//
// A form that does not parse leaves the previous chart on screen and shows
// no message.
package viz
