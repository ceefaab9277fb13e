package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ford-prefect/uac-analyzer/pkg/topology"
)

// Topology writes the signal paths as box-and-arrow chains, one per line,
// grouped by direction, followed by clock wiring and any dangling
// references.
func Topology(w io.Writer, g *topology.Graph) {
	paths := g.Paths()
	if len(paths) == 0 {
		fmt.Fprintln(w, "No signal paths.")
	}
	for _, kind := range []topology.PathKind{topology.PathPlayback, topology.PathCapture, topology.PathInternal} {
		var lines []string
		for _, p := range paths {
			if p.Kind != kind {
				continue
			}
			lines = append(lines, pathLine(g, p))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", strings.ToUpper(kind.String()[:1])+kind.String()[1:])
		for _, l := range lines {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}

	if clocks := g.ClockEdges(); len(clocks) > 0 {
		fmt.Fprintln(w, "Clocks:")
		for _, e := range clocks {
			fmt.Fprintf(w, "  %s ..> %s\n", nodeBox(g, e.From), nodeBox(g, e.To))
		}
	}
	for _, d := range g.Dangling {
		fmt.Fprintf(w, "Warning: %s\n", d)
	}
}

func pathLine(g *topology.Graph, p topology.Path) string {
	boxes := make([]string, len(p.IDs))
	for i, id := range p.IDs {
		boxes[i] = nodeBox(g, id)
	}
	s := strings.Join(boxes, " --> ")
	if p.Truncated {
		s += " --> (cycle)"
	}
	return s
}

func nodeBox(g *topology.Graph, id uint8) string {
	if n := g.Node(id); n != nil {
		return "[" + n.Label() + "]"
	}
	return fmt.Sprintf("[Entity %d]", id)
}
