// Package graph orders named nodes so that every node comes after the nodes it
// depends on.
package graph

import (
	"errors"
	"fmt"
)

var ErrCycle = errors.New("circular dependency")

type node struct {
	name string
	deps []string
}

// DependencyGraph keeps nodes in insertion order. Ties in the topological
// order are broken by that order, so the result is stable across runs.
type DependencyGraph struct {
	nodes []node
	index map[string]int
	order []string
}

func New() *DependencyGraph {
	return &DependencyGraph{
		index: make(map[string]int),
	}
}

// Add registers name with its dependencies. Adding the same name twice
// replaces its dependency list but keeps its original position.
func (g *DependencyGraph) Add(name string, deps ...string) {
	if i, ok := g.index[name]; ok {
		g.nodes[i].deps = deps
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, node{name: name, deps: deps})
}

func (g *DependencyGraph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

func (g *DependencyGraph) BuildOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	order := make([]string, 0, len(g.nodes))

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			return fmt.Errorf("%w involving %s", ErrCycle, name)
		}
		if visited[name] {
			return nil
		}

		i, ok := g.index[name]
		if !ok {
			return fmt.Errorf("unknown dependency: %s", name)
		}

		temp[name] = true
		for _, dep := range g.nodes[i].deps {
			if dep == name {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		temp[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, n := range g.nodes {
		if err := visit(n.name); err != nil {
			return nil, err
		}
	}

	g.order = order
	return order, nil
}

// Order returns the result of the last successful BuildOrder call.
func (g *DependencyGraph) Order() []string {
	return g.order
}
