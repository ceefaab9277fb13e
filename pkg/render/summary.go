package render

import (
	"fmt"
	"io"

	"github.com/ford-prefect/uac-analyzer/pkg/bandwidth"
	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
	"github.com/ford-prefect/uac-analyzer/pkg/topology"
)

// Summary writes a one-screen digest: device identity, path counts, and the
// worst-case bandwidth per direction.
func Summary(w io.Writer, dev *descriptors.Device, g *topology.Graph, rep *bandwidth.Report) {
	fmt.Fprintf(w, "%s [%04x:%04x], UAC %s\n", dev.Name(), dev.VendorID, dev.ProductID, dev.UACVersion())

	var playback, capture, internal int
	for _, p := range g.Paths() {
		switch p.Kind {
		case topology.PathPlayback:
			playback++
		case topology.PathCapture:
			capture++
		default:
			internal++
		}
	}
	fmt.Fprintf(w, "Paths: %d playback, %d capture", playback, capture)
	if internal > 0 {
		fmt.Fprintf(w, ", %d internal", internal)
	}
	fmt.Fprintln(w)

	if rep.PlaybackMaxPayloadKnown {
		fmt.Fprintf(w, "Playback: up to %s\n", formatBytesPerSec(rep.PlaybackMaxPayload))
	} else if rep.PlaybackMaxReserved > 0 {
		fmt.Fprintf(w, "Playback: reserves %s\n", formatBytesPerSec(rep.PlaybackMaxReserved))
	}
	if rep.CaptureMaxPayloadKnown {
		fmt.Fprintf(w, "Capture: up to %s\n", formatBytesPerSec(rep.CaptureMaxPayload))
	} else if rep.CaptureMaxReserved > 0 {
		fmt.Fprintf(w, "Capture: reserves %s\n", formatBytesPerSec(rep.CaptureMaxReserved))
	}
	if rep.TotalMaxPayloadKnown {
		fmt.Fprintf(w, "Total: up to %s\n", formatBytesPerSec(rep.TotalMaxPayload))
	} else if rep.TotalMaxReserved > 0 {
		fmt.Fprintf(w, "Total: reserves %s\n", formatBytesPerSec(rep.TotalMaxReserved))
	}
}

// Full writes everything: the device report, the topology diagram, and the
// bandwidth table.
func Full(w io.Writer, dev *descriptors.Device, g *topology.Graph, rep *bandwidth.Report) {
	Device(w, dev)
	fmt.Fprintln(w)
	Topology(w, g)
	fmt.Fprintln(w)
	Bandwidth(w, rep)
}
