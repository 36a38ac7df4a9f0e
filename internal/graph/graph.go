// Package graph derives the blocking relation from the task set.
// Edges live redundantly on the blocking task's record; the graph is
// rebuilt per invocation and never persisted separately.
package graph

import (
	"sort"

	"github.com/tasksense/tasksense/internal/task"
)

// Edge is one "blocker blocks blocked" pair.
type Edge struct {
	Blocker string `json:"blocker"`
	Blocked string `json:"blocked"`
}

// Graph holds the blocking relation over a snapshot of tasks.
type Graph struct {
	byID     map[string]*task.Task
	inbound  map[string][]string // blocked -> blockers
	outbound map[string][]string // blocker -> blocked
}

// New builds a graph from all known tasks (open and archived).
// Edges referencing unknown task IDs are ignored.
func New(tasks []*task.Task) *Graph {
	g := &Graph{
		byID:     make(map[string]*task.Task, len(tasks)),
		inbound:  make(map[string][]string),
		outbound: make(map[string][]string),
	}
	for _, t := range tasks {
		g.byID[t.ID] = t
	}
	for _, t := range tasks {
		for _, blocked := range t.Blocks {
			if _, ok := g.byID[blocked]; !ok {
				continue
			}
			g.outbound[t.ID] = append(g.outbound[t.ID], blocked)
			g.inbound[blocked] = append(g.inbound[blocked], t.ID)
		}
	}
	return g
}

// IsBlocked reports whether any inbound blocker of the task is still open.
func (g *Graph) IsBlocked(id string) bool {
	for _, blocker := range g.inbound[id] {
		if t, ok := g.byID[blocker]; ok && t.IsOpen() {
			return true
		}
	}
	return false
}

// BlocksOpen returns how many still-open tasks this one blocks.
func (g *Graph) BlocksOpen(id string) int {
	n := 0
	for _, blocked := range g.outbound[id] {
		if t, ok := g.byID[blocked]; ok && t.IsOpen() {
			n++
		}
	}
	return n
}

// Blockers returns the open tasks currently blocking the given task.
func (g *Graph) Blockers(id string) []*task.Task {
	var out []*task.Task
	for _, blocker := range g.inbound[id] {
		if t, ok := g.byID[blocker]; ok && t.IsOpen() {
			out = append(out, t)
		}
	}
	return out
}

// Edges returns the (blocker, blocked) pairs with at least one open
// side, ordered by blocker creation time, then blocker ID, then
// blocked ID. The result is finite even when the relation is cyclic.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for blocker, blockeds := range g.outbound {
		bt := g.byID[blocker]
		for _, blocked := range blockeds {
			ct := g.byID[blocked]
			if !bt.IsOpen() && !ct.IsOpen() {
				continue
			}
			edges = append(edges, Edge{Blocker: blocker, Blocked: blocked})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := g.byID[edges[i].Blocker], g.byID[edges[j].Blocker]
		if !a.Created.Equal(b.Created) {
			return a.Created.Before(b.Created)
		}
		if edges[i].Blocker != edges[j].Blocker {
			return edges[i].Blocker < edges[j].Blocker
		}
		return edges[i].Blocked < edges[j].Blocked
	})
	return edges
}

// Walk visits tasks reachable from id along outgoing edges, calling fn
// for each. A visited set makes the traversal cycle-safe: a self-edge
// or a mutual block terminates instead of recursing unboundedly.
func (g *Graph) Walk(id string, fn func(t *task.Task, depth int)) {
	visited := make(map[string]bool)
	var walk func(cur string, depth int)
	walk = func(cur string, depth int) {
		if visited[cur] {
			return
		}
		visited[cur] = true
		t, ok := g.byID[cur]
		if !ok {
			return
		}
		fn(t, depth)
		for _, next := range g.outbound[cur] {
			walk(next, depth+1)
		}
	}
	walk(id, 0)
}
