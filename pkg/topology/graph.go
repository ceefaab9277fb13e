// Package topology builds the signal-flow graph of an audio function from
// its control interface entities and enumerates the paths audio can take
// through it.
package topology

import (
	"fmt"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// EdgeKind separates the audio signal graph from the clock distribution
// graph. Both live in the same node set.
type EdgeKind int

const (
	EdgeSignal EdgeKind = iota
	EdgeClock
)

func (k EdgeKind) String() string {
	if k == EdgeClock {
		return "clock"
	}
	return "signal"
}

// Node wraps one control-interface entity for graph traversal.
type Node struct {
	ID     uint8
	Entity descriptors.Entity
}

// Label renders a short human-readable name for the node.
func (n *Node) Label() string {
	switch e := n.Entity.(type) {
	case *descriptors.InputTerminal:
		return withName(fmt.Sprintf("Input Terminal %d (%s)", e.ID, e.Type.Name()), e.Name)
	case *descriptors.OutputTerminal:
		return withName(fmt.Sprintf("Output Terminal %d (%s)", e.ID, e.Type.Name()), e.Name)
	case *descriptors.FeatureUnit:
		return withName(fmt.Sprintf("Feature Unit %d", e.ID), e.Name)
	case *descriptors.MixerUnit:
		return withName(fmt.Sprintf("Mixer Unit %d", e.ID), e.Name)
	case *descriptors.SelectorUnit:
		return withName(fmt.Sprintf("Selector Unit %d", e.ID), e.Name)
	case *descriptors.ProcessingUnit:
		return withName(fmt.Sprintf("Processing Unit %d (%s)", e.ID, e.ProcessType), e.Name)
	case *descriptors.ExtensionUnit:
		return withName(fmt.Sprintf("Extension Unit %d", e.ID), e.Name)
	case *descriptors.ClockSource:
		return withName(fmt.Sprintf("Clock Source %d (%s)", e.ID, e.Type()), e.Name)
	case *descriptors.ClockSelector:
		return withName(fmt.Sprintf("Clock Selector %d", e.ID), e.Name)
	case *descriptors.ClockMultiplier:
		return withName(fmt.Sprintf("Clock Multiplier %d", e.ID), e.Name)
	default:
		return fmt.Sprintf("Entity %d", n.ID)
	}
}

func withName(label, name string) string {
	if name == "" {
		return label
	}
	return fmt.Sprintf("%s %q", label, name)
}

// Edge is one directed connection, pointing the way the signal or clock
// flows: from the source entity to its consumer.
type Edge struct {
	From uint8
	To   uint8
	Kind EdgeKind
}

// DanglingRef records a source reference to an entity ID that no descriptor
// declares. The edge is omitted from the graph.
type DanglingRef struct {
	FromID uint8 // the entity holding the reference
	ToID   uint8 // the ID nothing declares
	Kind   EdgeKind
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("entity %d references missing %s source %d", d.FromID, d.Kind, d.ToID)
}

// Graph is the directed signal and clock topology of one audio function.
// Nodes and edges keep descriptor declaration order, so traversal output is
// deterministic for a given dump.
type Graph struct {
	Nodes    []*Node
	Edges    []Edge
	Dangling []DanglingRef

	byID map[uint8]*Node
	succ map[uint8][]uint8 // signal adjacency, insertion-ordered
}

// Build constructs the topology from a parsed control interface. References
// to undeclared entities become DanglingRef entries instead of edges; a
// source ID of zero means "not connected" and is ignored.
func Build(ac *descriptors.ControlInterface) *Graph {
	g := &Graph{
		byID: make(map[uint8]*Node),
		succ: make(map[uint8][]uint8),
	}
	if ac == nil {
		return g
	}
	for _, e := range ac.Entities() {
		n := &Node{ID: e.EntityID(), Entity: e}
		g.Nodes = append(g.Nodes, n)
		g.byID[n.ID] = n
	}

	for _, t := range ac.InputTerminals {
		g.addEdge(t.ClockSourceID, t.ID, EdgeClock)
	}
	for _, t := range ac.OutputTerminals {
		g.addEdge(t.SourceID, t.ID, EdgeSignal)
		g.addEdge(t.ClockSourceID, t.ID, EdgeClock)
	}
	for _, u := range ac.FeatureUnits {
		g.addEdge(u.SourceID, u.ID, EdgeSignal)
	}
	for _, u := range ac.MixerUnits {
		for _, src := range u.SourceIDs {
			g.addEdge(src, u.ID, EdgeSignal)
		}
	}
	for _, u := range ac.SelectorUnits {
		for _, src := range u.SourceIDs {
			g.addEdge(src, u.ID, EdgeSignal)
		}
	}
	for _, u := range ac.ProcessingUnits {
		for _, src := range u.SourceIDs {
			g.addEdge(src, u.ID, EdgeSignal)
		}
	}
	for _, u := range ac.ExtensionUnits {
		for _, src := range u.SourceIDs {
			g.addEdge(src, u.ID, EdgeSignal)
		}
	}
	for _, c := range ac.ClockSelectors {
		for _, src := range c.SourceIDs {
			g.addEdge(src, c.ID, EdgeClock)
		}
	}
	for _, c := range ac.ClockMultiplier {
		g.addEdge(c.SourceID, c.ID, EdgeClock)
	}
	return g
}

func (g *Graph) addEdge(from, to uint8, kind EdgeKind) {
	if from == 0 {
		return
	}
	if _, ok := g.byID[from]; !ok {
		g.Dangling = append(g.Dangling, DanglingRef{FromID: to, ToID: from, Kind: kind})
		return
	}
	g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: kind})
	if kind == EdgeSignal {
		g.succ[from] = append(g.succ[from], to)
	}
}

// Node returns the node with the given entity ID, or nil.
func (g *Graph) Node(id uint8) *Node { return g.byID[id] }

// Successors lists the signal-edge targets of a node in declaration order.
func (g *Graph) Successors(id uint8) []uint8 { return g.succ[id] }

// SignalEdges returns only the audio signal edges.
func (g *Graph) SignalEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == EdgeSignal {
			out = append(out, e)
		}
	}
	return out
}

// ClockEdges returns only the clock distribution edges.
func (g *Graph) ClockEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == EdgeClock {
			out = append(out, e)
		}
	}
	return out
}
