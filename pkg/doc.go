// Package pkg provides the libraries behind mazegen, a stepwise perfect-maze
// generator.
//
// # Overview
//
// A maze is carved by a randomized depth-first backtracker over a grid graph.
// Every call to Step does one unit of work, so callers can render, pace, or
// inspect the maze between steps. The pkg directory is organized in layers:
//
//  1. [grid] and [maze] - the graph and the generator, with no I/O
//  2. [session] and [driver] - a graph bound to a generator, and wall-clock pacing
//  3. [export] and [cache] - JSON, DOT, SVG, and ASCII output with cached renders
//  4. [server] and [config] - the HTTP API and TOML configuration
//  5. [errors], [observability], [buildinfo] - ambient support
//
// # Architecture
//
// The typical data flow:
//
//	grid.NewRect (cells + potential adjacency)
//	         ↓
//	maze.New (bind generator to a start cell)
//	         ↓
//	Step ... Step (carve tree edges, backtrack)
//	         ↓
//	export.Walls / WriteJSON / ToDOT / RenderSVG
//
// # Quick Start
//
//	g, err := grid.NewRect(16, 8)
//	if err != nil {
//	    return err
//	}
//	gen, err := maze.New(g, grid.Key{}, maze.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	for range gen.All() {
//	}
//	fmt.Print(export.Walls(g))
//
// [grid]: github.com/matzehuels/mazegen/pkg/grid
// [maze]: github.com/matzehuels/mazegen/pkg/maze
// [session]: github.com/matzehuels/mazegen/pkg/session
// [driver]: github.com/matzehuels/mazegen/pkg/driver
// [export]: github.com/matzehuels/mazegen/pkg/export
// [cache]: github.com/matzehuels/mazegen/pkg/cache
// [server]: github.com/matzehuels/mazegen/pkg/server
// [config]: github.com/matzehuels/mazegen/pkg/config
// [errors]: github.com/matzehuels/mazegen/pkg/errors
// [observability]: github.com/matzehuels/mazegen/pkg/observability
// [buildinfo]: github.com/matzehuels/mazegen/pkg/buildinfo
package pkg
