package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ford-prefect/uac-analyzer/pkg/bandwidth"
	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// Bandwidth writes the per-alternate bandwidth table and the direction
// maxima. Alternates without a declared sample rate show "unknown" in the
// payload column; their reservation figure is still printed.
func Bandwidth(w io.Writer, rep *bandwidth.Report) {
	if len(rep.Interfaces) == 0 {
		fmt.Fprintln(w, "No operational streaming alternates.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IFACE\tALT\tDIR\tCH\tBITS\tRATE\tPAYLOAD\tRESERVED\tTERMINAL")
	for _, si := range rep.Interfaces {
		terminal := "-"
		switch {
		case si.TerminalLink != 0 && si.TerminalType != 0:
			terminal = fmt.Sprintf("%d (%s)", si.TerminalLink, si.TerminalType.Name())
		case si.TerminalLink != 0:
			terminal = fmt.Sprintf("%d", si.TerminalLink)
		}
		for _, e := range si.Entries {
			payload := "unknown"
			if e.PayloadKnown {
				payload = formatBytesPerSec(e.Payload)
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
				e.InterfaceNumber, e.AltSetting, direction(e.Direction),
				e.Channels, e.BitResolution, e.Rate,
				payload, formatBytesPerSec(e.Reserved), terminal)
		}
	}
	tw.Flush()

	fmt.Fprintln(w)
	printMax(w, "Playback", rep.PlaybackMaxPayload, rep.PlaybackMaxPayloadKnown, rep.PlaybackMaxReserved)
	printMax(w, "Capture", rep.CaptureMaxPayload, rep.CaptureMaxPayloadKnown, rep.CaptureMaxReserved)
	printMax(w, "Total", rep.TotalMaxPayload, rep.TotalMaxPayloadKnown, rep.TotalMaxReserved)
	for _, gap := range rep.Gaps {
		fmt.Fprintf(w, "Note: %s\n", gap)
	}
}

func printMax(w io.Writer, label string, payload uint64, known bool, reserved uint64) {
	if !known && reserved == 0 {
		return
	}
	fmt.Fprintf(w, "%s max: ", label)
	if known {
		fmt.Fprintf(w, "%s payload", formatBytesPerSec(payload))
	} else {
		fmt.Fprint(w, "payload unknown")
	}
	fmt.Fprintf(w, ", %s reserved\n", formatBytesPerSec(reserved))
}

func direction(d descriptors.Direction) string {
	if d == descriptors.DirectionOut {
		return "play"
	}
	return "capt"
}

func formatBytesPerSec(n uint64) string {
	switch {
	case n >= 1000*1000:
		return fmt.Sprintf("%.2f MB/s", float64(n)/1e6)
	case n >= 1000:
		return fmt.Sprintf("%.1f kB/s", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d B/s", n)
	}
}
