// Package transform provides operations over changeset graphs that prepare
// them for ancestry computation and rendering.
//
// # Generations
//
// Input files often list only parent edges. [AssignGenerations] computes
// each node's generation as its longest distance from a root, which is the
// ordering the ancestry traversal relies on.
//
// # Cycles
//
// A changeset graph must be acyclic. [FindCycle] reports one offending
// cycle so loaders can produce a useful error.
//
// # Subgraphs
//
// [Ancestry] cuts a graph down to a set of heads and everything they
// descend from; [Restrict] keeps an arbitrary node set. Rendering uses
// these to draw only the part of a large history that a result touches.
package transform
