// Package export writes grid graphs in formats meant for people and tools.
//
// # Formats
//
//   - JSON ([WriteJSON], [ReadJSON]): a full snapshot of topology and
//     traversal state that can be loaded back into a [grid.Graph].
//   - ASCII walls ([Walls]): the carved maze drawn with +, -, and | characters.
//     A wall is drawn wherever two orthogonal neighbors share no tree edge.
//   - DOT ([ToDOT]) and SVG ([RenderSVG]): a node-link drawing with cells
//     pinned to their grid positions. Tree edges are solid; potential edges can
//     be shown dotted.
//
// SVG rendering uses [github.com/goccy/go-graphviz], which runs Graphviz as
// WebAssembly in-process. No system install is required.
package export
