// Package render turns analysis results into human-readable text. Output is
// plain ASCII so it survives terminals, pagers, and bug reports unchanged.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// Device writes the structured device report: identity, control entities,
// and every streaming interface with its alternates.
func Device(w io.Writer, dev *descriptors.Device) {
	fmt.Fprintf(w, "Device: %s\n", dev.Name())
	fmt.Fprintf(w, "  Vendor:Product  %04x:%04x (%s)\n", dev.VendorID, dev.ProductID, dev.ManufacturerName())
	if dev.SerialNumber != "" {
		fmt.Fprintf(w, "  Serial          %s\n", dev.SerialNumber)
	}
	fmt.Fprintf(w, "  USB Version     %s\n", dev.USBVersion)
	fmt.Fprintf(w, "  UAC Version     %s", dev.UACVersion())
	if dev.UACVersion().Incomplete() {
		fmt.Fprint(w, " (support incomplete)")
	}
	fmt.Fprintln(w)
	if versions := dev.AvailableUACVersions(); len(versions) > 1 {
		names := make([]string, len(versions))
		for i, v := range versions {
			names[i] = v.String()
		}
		fmt.Fprintf(w, "  Configurations  %s\n", strings.Join(names, ", "))
	}

	cfg := dev.ActiveConfiguration()
	if cfg == nil {
		fmt.Fprintln(w, "  No configuration to analyze.")
		return
	}
	if cfg.AudioControl != nil {
		renderControl(w, cfg.AudioControl)
	}
	for _, si := range cfg.Streaming {
		renderStreaming(w, si)
	}
}

func renderControl(w io.Writer, ac *descriptors.ControlInterface) {
	fmt.Fprintln(w, "\nAudio Control:")
	version := ac.Version()
	for _, it := range ac.InputTerminals {
		fmt.Fprintf(w, "  Input Terminal %d: %s, %d channel(s)", it.ID, it.Type.Name(), it.Channels)
		if it.ClockSourceID != 0 {
			fmt.Fprintf(w, ", clock %d", it.ClockSourceID)
		}
		fmt.Fprintln(w)
	}
	for _, ot := range ac.OutputTerminals {
		fmt.Fprintf(w, "  Output Terminal %d: %s, source %d", ot.ID, ot.Type.Name(), ot.SourceID)
		if ot.ClockSourceID != 0 {
			fmt.Fprintf(w, ", clock %d", ot.ClockSourceID)
		}
		fmt.Fprintln(w)
	}
	for _, fu := range ac.FeatureUnits {
		controls := fu.MasterControls(version)
		fmt.Fprintf(w, "  Feature Unit %d: source %d", fu.ID, fu.SourceID)
		if len(controls) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(controls, ", "))
		}
		fmt.Fprintln(w)
	}
	for _, mu := range ac.MixerUnits {
		fmt.Fprintf(w, "  Mixer Unit %d: sources %v\n", mu.ID, mu.SourceIDs)
	}
	for _, su := range ac.SelectorUnits {
		fmt.Fprintf(w, "  Selector Unit %d: sources %v\n", su.ID, su.SourceIDs)
	}
	for _, pu := range ac.ProcessingUnits {
		fmt.Fprintf(w, "  Processing Unit %d (%s): sources %v\n", pu.ID, pu.ProcessType, pu.SourceIDs)
	}
	for _, eu := range ac.ExtensionUnits {
		fmt.Fprintf(w, "  Extension Unit %d (code 0x%04x): sources %v\n", eu.ID, eu.ExtensionCode, eu.SourceIDs)
	}
	for _, cs := range ac.ClockSources {
		fmt.Fprintf(w, "  Clock Source %d: %s", cs.ID, cs.Type())
		if cs.Name != "" {
			fmt.Fprintf(w, " %q", cs.Name)
		}
		fmt.Fprintln(w)
	}
	for _, sel := range ac.ClockSelectors {
		fmt.Fprintf(w, "  Clock Selector %d: sources %v\n", sel.ID, sel.SourceIDs)
	}
	for _, mul := range ac.ClockMultiplier {
		fmt.Fprintf(w, "  Clock Multiplier %d: source %d\n", mul.ID, mul.SourceID)
	}
}

func renderStreaming(w io.Writer, si *descriptors.StreamingInterface) {
	dir := "inactive"
	if d, ok := si.Direction(); ok {
		if d == descriptors.DirectionOut {
			dir = "playback"
		} else {
			dir = "capture"
		}
	}
	fmt.Fprintf(w, "\nStreaming Interface %d (%s):\n", si.Number, dir)
	for _, alt := range si.Alternates {
		if alt.ZeroBandwidth() {
			fmt.Fprintf(w, "  Alt %d: idle\n", alt.Setting)
			continue
		}
		fmt.Fprintf(w, "  Alt %d:", alt.Setting)
		if f := alt.Format; f != nil {
			fmt.Fprintf(w, " %d ch, %d-bit", alt.Channels(), f.BitResolution)
			fmt.Fprintf(w, ", rates %s", formatRates(f.Rates))
		}
		if g := alt.General; g != nil && g.FormatTag != 0 {
			fmt.Fprintf(w, ", %s", descriptors.FormatTagName(g.FormatTag))
		}
		if ep := alt.Endpoint; ep != nil {
			fmt.Fprintf(w, ", EP 0x%02x %s %s, %d bytes/packet",
				ep.Address, ep.Direction(), ep.SyncType, ep.MaxPacketSize)
		}
		fmt.Fprintln(w)
	}
}

func formatRates(r descriptors.SampleRates) string {
	if r.Continuous {
		return fmt.Sprintf("%d-%d Hz", r.MinHz, r.MaxHz)
	}
	if len(r.Discrete) == 0 {
		return "unknown"
	}
	parts := make([]string, len(r.Discrete))
	for i, hz := range r.Discrete {
		parts[i] = fmt.Sprintf("%d", hz)
	}
	return strings.Join(parts, "/") + " Hz"
}
