package topology

import (
	"fmt"
	"strings"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// PathKind classifies a signal path by where the audio enters and leaves.
type PathKind int

const (
	// PathPlayback starts at a USB streaming input terminal: host to device.
	PathPlayback PathKind = iota
	// PathCapture ends at a USB streaming output terminal: device to host.
	PathCapture
	// PathInternal never touches the USB data stream, such as a sidetone
	// loop from microphone to speaker.
	PathInternal
)

func (k PathKind) String() string {
	switch k {
	case PathPlayback:
		return "playback"
	case PathCapture:
		return "capture"
	default:
		return "internal"
	}
}

// Path is one route audio can take from an input terminal to a sink.
type Path struct {
	IDs  []uint8
	Kind PathKind

	// Truncated marks a path cut short because it revisited a node. The
	// prefix up to the repeat is kept.
	Truncated bool
}

func (p Path) String() string {
	parts := make([]string, len(p.IDs))
	for i, id := range p.IDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	s := strings.Join(parts, " -> ")
	if p.Truncated {
		s += " (cycle)"
	}
	return s
}

// Paths enumerates every signal path from every input terminal, in terminal
// declaration order and then edge declaration order. Cycles truncate the
// affected path rather than aborting the walk.
func (g *Graph) Paths() []Path {
	var paths []Path
	for _, n := range g.Nodes {
		it, ok := n.Entity.(*descriptors.InputTerminal)
		if !ok {
			continue
		}
		visited := map[uint8]bool{it.ID: true}
		g.walk(it, []uint8{it.ID}, visited, &paths)
	}
	return paths
}

func (g *Graph) walk(start *descriptors.InputTerminal, trail []uint8, visited map[uint8]bool, paths *[]Path) {
	current := trail[len(trail)-1]
	next := g.succ[current]
	if len(next) == 0 {
		*paths = append(*paths, g.finish(start, trail, false))
		return
	}
	for _, to := range next {
		if visited[to] {
			*paths = append(*paths, g.finish(start, trail, true))
			continue
		}
		visited[to] = true
		g.walk(start, append(trail, to), visited, paths)
		delete(visited, to)
	}
}

func (g *Graph) finish(start *descriptors.InputTerminal, trail []uint8, truncated bool) Path {
	ids := make([]uint8, len(trail))
	copy(ids, trail)
	return Path{IDs: ids, Kind: g.classify(start, ids), Truncated: truncated}
}

func (g *Graph) classify(start *descriptors.InputTerminal, ids []uint8) PathKind {
	if start.Type.IsUSBStreaming() {
		return PathPlayback
	}
	last := g.byID[ids[len(ids)-1]]
	if last != nil {
		if ot, ok := last.Entity.(*descriptors.OutputTerminal); ok && ot.Type.IsUSBStreaming() {
			return PathCapture
		}
	}
	return PathInternal
}

// PathsOfKind filters the enumerated paths.
func (g *Graph) PathsOfKind(kind PathKind) []Path {
	var out []Path
	for _, p := range g.Paths() {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
