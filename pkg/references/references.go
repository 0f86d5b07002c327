// Package references lists the parameters and functions a formula refers to.
package references

import (
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/types"
)

// References holds the names found in a tree, without duplicates, in
// pre-order left-to-right discovery order. A function name is recorded
// before the names inside its arguments.
type References struct {
	Parameters []string // parameter names
	Functions  []string // functions that are not built-in
	Builtins   []string // built-in functions
}

// Collect walks node and gathers its references. It never evaluates
// anything and accepts a nil tree.
func Collect(node *types.Node) References {
	c := collector{seen: make(map[string]bool)}
	c.walk(node)
	return c.refs
}

type collector struct {
	refs References
	seen map[string]bool
}

func (c *collector) walk(node *types.Node) {
	if node == nil {
		return
	}
	switch node.Type {
	case types.NodeParameter:
		c.add(&c.refs.Parameters, "p:", node.Name)
	case types.NodeFunction:
		if functions.IsBuiltin(node.Name) {
			c.add(&c.refs.Builtins, "b:", node.Name)
		} else {
			c.add(&c.refs.Functions, "f:", node.Name)
		}
	}
	for _, child := range node.Children() {
		c.walk(child)
	}
}

// add appends name once per kind; prefix keeps the kinds apart in seen.
func (c *collector) add(list *[]string, prefix, name string) {
	if c.seen[prefix+name] {
		return
	}
	c.seen[prefix+name] = true
	*list = append(*list, name)
}
