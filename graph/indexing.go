// Package graph implements the arena-backed graph representation of
// spec §4.B: two parallel arenas (nodes, edges), with each node owning a
// balanced binary search tree of outgoing edges keyed by token symbol.
// Nothing here knows about suffix automata, failure links, or tokens
// beyond "an unsigned integer used as a BST key" — that knowledge lives
// in the dawgs and cdawg packages, which build automata on top of Graph.
package graph

// NodeIndex addresses a node in a Graph's node arena. It is the only
// form of "pointer" used: indices are stable across appends and across
// AVL rotations of any node's edge tree.
type NodeIndex uint32

// EdgeIndex addresses an edge in a Graph's edge arena.
type EdgeIndex uint32

// NilNode is the reserved index meaning "no node" (e.g. a failure link
// that hasn't been set, or the root's own failure link).
const NilNode NodeIndex = ^NodeIndex(0)

// NilEdge is the reserved index meaning "no edge" (an empty edge tree,
// or a BST child slot that is empty).
const NilEdge EdgeIndex = ^EdgeIndex(0)
