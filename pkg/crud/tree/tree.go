// Package tree implements whole-tree expand/collapse for hierarchical rows.
package tree

import (
	"slices"
	"sync"
)

// DefaultChildrenKey is the row field holding child nodes.
const DefaultChildrenKey = "children"

// CollectExpandableIDs walks nodes depth-first and returns the id of every
// node with at least one child, parents before their descendants.
func CollectExpandableIDs[T any, K comparable](nodes []T, children func(T) []T, id func(T) K) []K {
	var ids []K
	var walk func([]T)
	walk = func(level []T) {
		for _, n := range level {
			kids := children(n)
			if len(kids) == 0 {
				continue
			}
			ids = append(ids, id(n))
			walk(kids)
		}
	}
	walk(nodes)
	return ids
}

// Count returns the number of nodes in the whole forest.
func Count[T any](nodes []T, children func(T) []T) int {
	n := 0
	for _, node := range nodes {
		n += 1 + Count(children(node), children)
	}
	return n
}

// Walk visits every node depth-first with its depth (roots are 0). Returning
// false from visit skips the node's subtree.
func Walk[T any](nodes []T, children func(T) []T, visit func(node T, depth int) bool) {
	var walk func([]T, int)
	walk = func(level []T, depth int) {
		for _, n := range level {
			if visit(n, depth) {
				walk(children(n), depth+1)
			}
		}
	}
	walk(nodes, 0)
}

// Expander tracks the expanded node set of one tree screen. Expansion is a
// whole-tree switch: either every expandable node is expanded or none is.
type Expander[T any, K comparable] struct {
	mu       sync.RWMutex
	children func(T) []T
	id       func(T) K
	source   func() []T
	expanded []K
}

// NewExpander binds the expander to source, which returns the current tree.
func NewExpander[T any, K comparable](source func() []T, children func(T) []T, id func(T) K) *Expander[T, K] {
	return &Expander[T, K]{source: source, children: children, id: id}
}

func (e *Expander[T, K]) ExpandAll() {
	ids := CollectExpandableIDs(e.source(), e.children, e.id)
	e.mu.Lock()
	e.expanded = ids
	e.mu.Unlock()
}

func (e *Expander[T, K]) CollapseAll() {
	e.mu.Lock()
	e.expanded = nil
	e.mu.Unlock()
}

// Toggle collapses when anything is expanded, otherwise expands all.
func (e *Expander[T, K]) Toggle() {
	if e.IsExpanded() {
		e.CollapseAll()
		return
	}
	e.ExpandAll()
}

func (e *Expander[T, K]) ExpandedIDs() []K {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.expanded)
}

func (e *Expander[T, K]) IsExpanded() bool {
	return e.ExpandedCount() > 0
}

func (e *Expander[T, K]) ExpandedCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.expanded)
}

// Contains reports whether id is currently expanded.
func (e *Expander[T, K]) Contains(id K) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Contains(e.expanded, id)
}
