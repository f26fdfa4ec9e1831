// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import "fmt"

// Speciate splits a living leaf into two children with fresh unique names.
// The leaf becomes an internal node (keeping its name and edge weight);
// the two new children get fresh names and zero edge weight.
// It returns the IDs of the two new children.
func (t *Tree) Speciate(leaf int) (child1, child2 int, err error) {
	n, ok := t.nodes[leaf]
	if !ok {
		return 0, 0, fmt.Errorf("speciate: %w: %d", ErrNoSuchNode, leaf)
	}
	if len(n.Children) != 0 {
		return 0, 0, fmt.Errorf("speciate: %w: %d", ErrNotLeaf, leaf)
	}
	if t.dead[leaf] {
		return 0, 0, fmt.Errorf("speciate: %w: %d", ErrNotLiving, leaf)
	}

	id1 := t.newID()
	id2 := t.newID()
	c1 := &Node{ID: id1, Name: t.freshName(), Parent: leaf}
	c2 := &Node{ID: id2, Name: t.freshName(), Parent: leaf}
	t.nodes[id1] = c1
	t.nodes[id2] = c2

	n.Children = []int{id1, id2}
	return id1, id2, nil
}

// KillLeaf marks the leaf as dead. It does not remove it from the tree.
func (t *Tree) KillLeaf(leaf int) error {
	n, ok := t.nodes[leaf]
	if !ok {
		return fmt.Errorf("kill leaf: %w: %d", ErrNoSuchNode, leaf)
	}
	if len(n.Children) != 0 {
		return fmt.Errorf("kill leaf: %w: %d", ErrNotLeaf, leaf)
	}
	t.dead[leaf] = true
	return nil
}

// MakeDead marks any node, leaf or internal, as dead.
func (t *Tree) MakeDead(id int) error {
	if _, ok := t.nodes[id]; !ok {
		return fmt.Errorf("make dead: %w: %d", ErrNoSuchNode, id)
	}
	t.dead[id] = true
	return nil
}

// Revive clears the dead flag on a node, restoring it to the living
// set. It is the inverse of KillLeaf/MakeDead, used to undo a kill
// rule's commit against a node preferences mark as protected.
func (t *Tree) Revive(id int) error {
	if _, ok := t.nodes[id]; !ok {
		return fmt.Errorf("revive: %w: %d", ErrNoSuchNode, id)
	}
	delete(t.dead, id)
	return nil
}

// MakeInternalsDead marks every non-leaf node dead.
func (t *Tree) MakeInternalsDead() {
	for id, n := range t.nodes {
		if len(n.Children) > 0 {
			t.dead[id] = true
		}
	}
}

// AgeAllLeaves adds dt to the edge weight of every living leaf.
// dt must be non-negative.
func (t *Tree) AgeAllLeaves(dt float64) {
	if dt <= 0 {
		return
	}
	for id, n := range t.nodes {
		if len(n.Children) == 0 && !t.dead[id] {
			n.EdgeWeight += dt
		}
	}
}

// PruneBranch removes the leaf and walks up through any singleton
// ancestors it leaves behind, removing those too.
func (t *Tree) PruneBranch(leaf int) error {
	n, ok := t.nodes[leaf]
	if !ok {
		return fmt.Errorf("prune branch: %w: %d", ErrNoSuchNode, leaf)
	}
	if len(n.Children) != 0 {
		return fmt.Errorf("prune branch: %w: %d", ErrNotLeaf, leaf)
	}

	cur := leaf
	for {
		if cur == t.root {
			delete(t.nodes, cur)
			delete(t.dead, cur)
			return nil
		}
		p := t.nodes[cur].Parent
		t.removeChild(p, cur)
		delete(t.nodes, cur)
		delete(t.dead, cur)

		pn := t.nodes[p]
		if len(pn.Children) != 1 {
			return nil
		}
		// p is now a singleton: continue pruning upward through it,
		// unless it is the root, in which case it is left as a
		// singleton root (collapsed explicitly via CollapseNode).
		if p == t.root {
			return nil
		}
		cur = p
	}
}

func (t *Tree) removeChild(parent, child int) {
	p := t.nodes[parent]
	for i, c := range p.Children {
		if c == child {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return
		}
	}
}

// CollapseNode removes a singleton node by attaching its only child
// to its grandparent, with edge weights summed. If the singleton is
// the root, its child becomes the new root and the root's own edge
// weight (which has no parent to attach to) is discarded.
func (t *Tree) CollapseNode(id int) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("collapse node: %w: %d", ErrNoSuchNode, id)
	}
	if len(n.Children) != 1 {
		return fmt.Errorf("collapse node: node %d is not a singleton", id)
	}
	child := n.Children[0]
	cn := t.nodes[child]

	if id == t.root {
		cn.Parent = NoParent
		cn.EdgeWeight = 0
		t.root = child
		delete(t.nodes, id)
		delete(t.dead, id)
		return nil
	}

	parent := n.Parent
	cn.Parent = parent
	cn.EdgeWeight += n.EdgeWeight
	t.removeChild(parent, id)
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
	delete(t.nodes, id)
	delete(t.dead, id)
	return nil
}

// CollapseSingletons repeatedly collapses singleton internal nodes
// until none remain.
func (t *Tree) CollapseSingletons() {
	for {
		var target int
		found := false
		for id, n := range t.nodes {
			if len(n.Children) == 1 {
				target = id
				found = true
				break
			}
		}
		if !found {
			return
		}
		_ = t.CollapseNode(target)
	}
}

// SetEdgeWeight sets the weight of the branch from id to its parent.
// Negative weights are rejected.
func (t *Tree) SetEdgeWeight(id int, w float64) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("set edge weight: %w: %d", ErrNoSuchNode, id)
	}
	if w < 0 {
		return fmt.Errorf("set edge weight: %w", ErrNegativeEdge)
	}
	n.EdgeWeight = w
	return nil
}

// SetNodeName renames a node, without checking for duplicates: callers
// that need taxon-name uniqueness (as Speciate's fresh names do)
// should check first.
func (t *Tree) SetNodeName(id int, name string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("set node name: %w: %d", ErrNoSuchNode, id)
	}
	n.Name = name
	return nil
}

// DeleteDeadLeaves iteratively prunes dead leaves until none remain.
func (t *Tree) DeleteDeadLeaves() {
	for {
		var target int
		found := false
		for _, id := range t.Leaves() {
			if t.dead[id] {
				target = id
				found = true
				break
			}
		}
		if !found {
			return
		}
		_ = t.PruneBranch(target)
	}
}
