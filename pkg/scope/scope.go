// Package scope provides a tree-scoped, type-keyed value registry for
// component hierarchies. Values provided on a node are visible to that
// node and all of its descendants; lookup walks the parent chain and
// returns the nearest provider. The tree is an explicit handle threaded
// through component construction, not a hidden global.
package scope

import (
	"reflect"
	"sync"
)

// Node is one scope in a component tree. Nodes own the values provided
// on them and any cleanup functions registered against them. Disposing
// a node disposes its children first, then runs its cleanups in
// reverse registration order.
type Node struct {
	parent *Node

	mu       sync.Mutex
	children []*Node
	values   map[reflect.Type]any
	cleanups []func()
	disposed bool
}

// NewNode creates a node with the given parent. A nil parent creates a
// root node.
func NewNode(parent *Node) *Node {
	n := &Node{parent: parent}
	if parent != nil {
		parent.addChild(n)
	}
	return n
}

// Child creates a child node of n.
func (n *Node) Child() *Node {
	return NewNode(n)
}

// Parent returns the parent node, or nil for a root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Disposed reports whether the node has been disposed.
func (n *Node) Disposed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disposed
}

// OnCleanup registers fn to run when the node is disposed. If the node
// is already disposed, fn runs immediately.
func (n *Node) OnCleanup(fn func()) {
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		fn()
		return
	}
	n.cleanups = append(n.cleanups, fn)
	n.mu.Unlock()
}

// Dispose tears the node down: children first (newest first), then
// this node's cleanups in reverse registration order. Dispose is
// idempotent. Provided values are dropped.
func (n *Node) Dispose() {
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return
	}
	n.disposed = true
	children := n.children
	cleanups := n.cleanups
	n.children = nil
	n.cleanups = nil
	n.values = nil
	n.mu.Unlock()

	if n.parent != nil {
		n.parent.removeChild(n)
	}

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (n *Node) addChild(child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) setValue(key reflect.Type, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}
	if n.values == nil {
		n.values = make(map[reflect.Type]any)
	}
	n.values[key] = value
}

func (n *Node) lookup(key reflect.Type) (any, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		v, ok := cur.values[key]
		cur.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Provide makes value available to n and all descendants under the key
// type T. Providing again on the same node overwrites the previous
// value, which is how providers republish updated state.
func Provide[T any](n *Node, value T) {
	n.setValue(reflect.TypeOf((*T)(nil)).Elem(), value)
}

// Lookup returns the nearest provided value of type T, walking from n
// up through its ancestors. ok is false when no ancestor provides T.
func Lookup[T any](n *Node) (T, bool) {
	if v, ok := n.lookup(reflect.TypeOf((*T)(nil)).Elem()); ok {
		return v.(T), true
	}
	var zero T
	return zero, false
}
