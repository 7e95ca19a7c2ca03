// Package model defines the in-memory document tree produced by external
// conversion and rewritten by the classification and styling passes.
//
// A Document is an ordered sequence of Blocks. Each Block owns either a
// sequence of Runs (styled text spans), a Table (rows of Cells, each Cell
// itself a small block tree), a Figure, or an Equation. The tree is a
// strict forest: a Block has exactly one parent and ownership flows
// top-down.
package model
