package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rivo/tview"

	uac "github.com/ford-prefect/uac-analyzer"
	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: uac-browse <lsusb -v dump file>")
		os.Exit(2)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	analysis, err := uac.Analyze(f, uac.Options{})
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dev := analysis.Device
	cfg := dev.ActiveConfiguration()
	if cfg == nil {
		fmt.Fprintln(os.Stderr, "no configuration in dump")
		os.Exit(1)
	}

	app := tview.NewApplication()

	streamingIfaces := tview.NewList().ShowSecondaryText(false)
	streamingIfaces.SetBorder(true).SetTitle("Streaming Interfaces")

	alternates := tview.NewList()
	alternates.SetBorder(true).SetTitle("Alternate Settings")

	detail := tview.NewTextView()
	detail.SetBorder(true).SetTitle(fmt.Sprintf("%s (UAC %s)", dev.Name(), dev.UACVersion()))

	for _, si := range cfg.Streaming {
		si := si
		dir := "inactive"
		if d, ok := si.Direction(); ok {
			if d == descriptors.DirectionOut {
				dir = "playback"
			} else {
				dir = "capture"
			}
		}
		streamingIfaces.AddItem(fmt.Sprintf("Interface %d (%s)", si.Number, dir), "", 0, func() {
			alternates.Clear()
			for _, alt := range si.Alternates {
				alt := alt
				alternates.AddItem(alternateTitle(alt), alternateSubtitle(alt), 0, func() {
					detail.SetText(alternateDetail(cfg, alt))
					app.SetFocus(detail)
				})
			}
			app.SetFocus(alternates)
		})
	}

	flex := tview.NewFlex().
		AddItem(streamingIfaces, 0, 1, true).
		AddItem(alternates, 0, 1, false).
		AddItem(detail, 0, 2, false)

	if err := app.SetRoot(flex, true).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func alternateTitle(alt *descriptors.AlternateSetting) string {
	if alt.ZeroBandwidth() {
		return fmt.Sprintf("Alt %d (idle)", alt.Setting)
	}
	return fmt.Sprintf("Alt %d", alt.Setting)
}

func alternateSubtitle(alt *descriptors.AlternateSetting) string {
	if alt.Format == nil {
		return ""
	}
	return fmt.Sprintf("%d ch, %d-bit", alt.Channels(), alt.Format.BitResolution)
}

func alternateDetail(cfg *descriptors.Configuration, alt *descriptors.AlternateSetting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interface %d, alternate %d\n\n", alt.InterfaceNumber, alt.Setting)
	if g := alt.General; g != nil {
		fmt.Fprintf(&b, "Terminal link: %d\n", g.TerminalLink)
		if g.FormatTag != 0 {
			fmt.Fprintf(&b, "Format: %s\n", descriptors.FormatTagName(g.FormatTag))
		}
	}
	if f := alt.Format; f != nil {
		fmt.Fprintf(&b, "Channels: %d\n", alt.Channels())
		fmt.Fprintf(&b, "Resolution: %d-bit (%d bytes/sample)\n", f.BitResolution, f.BytesPerSample())
		if f.Rates.Known() {
			if f.Rates.Continuous {
				fmt.Fprintf(&b, "Rates: %d-%d Hz\n", f.Rates.MinHz, f.Rates.MaxHz)
			} else {
				fmt.Fprintf(&b, "Rates: %v Hz\n", f.Rates.Discrete)
			}
		} else {
			fmt.Fprintf(&b, "Rates: negotiated via clock source\n")
		}
	}
	if ep := alt.Endpoint; ep != nil {
		fmt.Fprintf(&b, "\nEndpoint 0x%02x %s\n", ep.Address, ep.Direction())
		fmt.Fprintf(&b, "  %s, %s sync\n", ep.TransferType, ep.SyncType)
		fmt.Fprintf(&b, "  %d bytes/packet, interval %d\n", ep.MaxPacketSize, ep.Interval)
	}
	if g := alt.General; g != nil && cfg.AudioControl != nil {
		if e := cfg.AudioControl.EntityByID(g.TerminalLink); e != nil {
			fmt.Fprintf(&b, "\nLinked entity: %v\n", describeTerminal(e))
		}
	}
	return b.String()
}

func describeTerminal(e descriptors.Entity) string {
	switch t := e.(type) {
	case *descriptors.InputTerminal:
		return fmt.Sprintf("Input Terminal %d (%s)", t.ID, t.Type.Name())
	case *descriptors.OutputTerminal:
		return fmt.Sprintf("Output Terminal %d (%s)", t.ID, t.Type.Name())
	default:
		return fmt.Sprintf("Entity %d", e.EntityID())
	}
}
