package ui

import (
	"fmt"
	"sort"

	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Graph tracks which definitions extend or compose which, for validation and
// registration ordering.
type Graph struct {
	nodes    map[string]struct{}
	incoming map[string]map[string]struct{}
	outgoing map[string]map[string]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
		outgoing: make(map[string]map[string]struct{}),
	}
}

// AddNode ensures the definition exists within the graph.
func (g *Graph) AddNode(name string) {
	if _, exists := g.nodes[name]; exists {
		return
	}
	g.nodes[name] = struct{}{}
	g.incoming[name] = make(map[string]struct{})
	g.outgoing[name] = make(map[string]struct{})
}

// AddEdge records that dependent needs dependency.
func (g *Graph) AddEdge(dependent, dependency string) {
	g.AddNode(dependent)
	g.AddNode(dependency)

	g.outgoing[dependent][dependency] = struct{}{}
	g.incoming[dependency][dependent] = struct{}{}
}

// DetectCycles returns one cycle, closed on its first element ("A", "B", "A"),
// or nil when the graph is acyclic.
func (g *Graph) DetectCycles() []string {
	visited := make(map[string]bool)
	stack := make(map[string]bool)
	path := []string{}

	var cycle []string
	var dfs func(node string) bool

	dfs = func(node string) bool {
		visited[node] = true
		stack[node] = true
		path = append(path, node)

		for _, dependency := range g.Dependencies(node) {
			if !visited[dependency] {
				if dfs(dependency) {
					return true
				}
			} else if stack[dependency] {
				idx := len(path) - 1
				for idx >= 0 && path[idx] != dependency {
					idx--
				}
				if idx >= 0 {
					cycle = append(append([]string{}, path[idx:]...), dependency)
					return true
				}
			}
		}

		stack[node] = false
		path = path[:len(path)-1]
		return false
	}

	for _, node := range g.Nodes() {
		if !visited[node] {
			if dfs(node) {
				break
			}
		}
	}

	return cycle
}

// TopologicalSort returns definitions dependencies-first.
func (g *Graph) TopologicalSort() ([]string, error) {
	remaining := make(map[string]int, len(g.nodes))
	for node := range g.nodes {
		remaining[node] = len(g.outgoing[node])
	}

	queue := make([]string, 0, len(g.nodes))
	for node, deps := range remaining {
		if deps == 0 {
			queue = append(queue, node)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, dependent := range g.Dependents(current) {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(g.nodes) {
		if cycle := g.DetectCycles(); len(cycle) > 0 {
			return nil, &tesseraerrors.CyclicInheritanceError{Cycle: cycle}
		}
		return nil, fmt.Errorf("definition graph contains unresolved nodes")
	}

	return result, nil
}

// Dependencies returns what node needs, sorted.
func (g *Graph) Dependencies(node string) []string {
	return sortedKeys(g.outgoing[node])
}

// Dependents returns the definitions that need node, sorted.
func (g *Graph) Dependents(node string) []string {
	return sortedKeys(g.incoming[node])
}

// HasNode reports if the node exists in the graph.
func (g *Graph) HasNode(node string) bool {
	if g == nil {
		return false
	}
	_, ok := g.nodes[node]
	return ok
}

// Nodes returns every node, sorted.
func (g *Graph) Nodes() []string {
	return sortedKeys(g.nodes)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
