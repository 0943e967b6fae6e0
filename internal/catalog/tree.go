package catalog

import "strings"

// node is one level of the merged taxonomy. Children keep insertion order;
// sibling names are unique case-insensitively.
type node struct {
	name     string
	children []*node
}

// tree is the merged per-client taxonomy. Depth is fixed by the domain:
// root -> categories -> subtypes -> accounts.
type tree struct {
	root *node
}

func newTree() *tree {
	return &tree{root: &node{}}
}

// find returns the child with the given name, matched case-insensitively.
func (n *node) find(name string) *node {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// ensureChild returns the existing child with the given name or appends a
// new one.
func (n *node) ensureChild(name string) *node {
	if c := n.find(name); c != nil {
		return c
	}
	c := &node{name: name}
	n.children = append(n.children, c)
	return c
}

// names returns the child names in insertion order.
func (n *node) names() []string {
	out := make([]string, len(n.children))
	for i, c := range n.children {
		out[i] = c.name
	}
	return out
}
