package network

import (
	"errors"
	"fmt"
	"sort"
)

// busGraph is the undirected bus adjacency induced by connected branches.
type busGraph struct {
	nodes          []string
	adjacentcyList map[string][]string
}

func newBusGraph() busGraph {
	return busGraph{
		nodes:          make([]string, 0),
		adjacentcyList: make(map[string][]string),
	}
}

func (g *busGraph) AddNode(id string) error {
	if _, exists := g.adjacentcyList[id]; exists {
		return errors.New(fmt.Sprintf("node %s already exists in graph.", id))
	}
	g.adjacentcyList[id] = make([]string, 0)
	g.nodes = append(g.nodes, id)
	return nil
}

func (g *busGraph) AddEdge(n1 string, n2 string) error {
	if _, exists := g.adjacentcyList[n1]; !exists {
		return errors.New(fmt.Sprintf("start node %s does not exist in graph.", n1))
	}
	if _, exists := g.adjacentcyList[n2]; !exists {
		return errors.New(fmt.Sprintf("end node %s does not exist in graph.", n2))
	}
	g.adjacentcyList[n1] = append(g.adjacentcyList[n1], n2)
	g.adjacentcyList[n2] = append(g.adjacentcyList[n2], n1)
	return nil
}

func (g busGraph) Edges(n string) []string {
	if edges, exists := g.adjacentcyList[n]; exists {
		return edges
	}
	return make([]string, 0)
}

// components groups nodes by reachability, each group in discovery order.
func (g busGraph) components() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	groups := make([][]string, 0)
	for _, start := range g.nodes {
		if visited[start] {
			continue
		}
		visited[start] = true
		group := []string{start}
		for queue := []string{start}; len(queue) > 0; {
			current := queue[0]
			queue = queue[1:]
			for _, next := range g.Edges(current) {
				if !visited[next] {
					visited[next] = true
					group = append(group, next)
					queue = append(queue, next)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// AssignComponents numbers the connected components of the network from its
// branches. The largest component is 0; equal sizes keep declaration order.
func (n *Network) AssignComponents() {
	g := newBusGraph()
	for _, id := range n.busOrder {
		g.AddNode(id)
	}
	for _, e := range n.equipments {
		if !e.Kind.IsBranch() {
			continue
		}
		b1, b2 := e.BusID(SideOne), e.BusID(SideTwo)
		if b1 == "" || b2 == "" {
			continue
		}
		g.AddEdge(b1, b2)
	}

	groups := g.components()
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})
	for num, group := range groups {
		for _, id := range group {
			b := n.buses[id]
			b.Component = num
			n.buses[id] = b
		}
	}
}
