// Package uac analyzes USB Audio Class descriptors from `lsusb -v` output.
// It ties the parser, the topology builder, and the bandwidth analyzer
// together behind one call and folds their diagnostics into a single
// warning list.
package uac

import (
	"fmt"
	"io"

	"github.com/ford-prefect/uac-analyzer/pkg/bandwidth"
	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
	"github.com/ford-prefect/uac-analyzer/pkg/lsusb"
	"github.com/ford-prefect/uac-analyzer/pkg/topology"
)

// WarningKind separates the three non-fatal diagnostic classes.
type WarningKind int

const (
	// WarningField: a descriptor field failed to decode and was zeroed.
	WarningField WarningKind = iota
	// WarningReferential: an entity references an ID nothing declares.
	WarningReferential
	// WarningAnalysisGap: a result could not be computed from what the
	// dump provides, such as payload throughput without a rate table.
	WarningAnalysisGap
)

func (k WarningKind) String() string {
	switch k {
	case WarningReferential:
		return "referential"
	case WarningAnalysisGap:
		return "analysis gap"
	default:
		return "field"
	}
}

// Warning is one non-fatal finding. Line is zero for warnings that are not
// tied to an input line.
type Warning struct {
	Kind    WarningKind
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", w.Kind, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Options tune the analysis.
type Options struct {
	// ForceVersion overrides UAC generation detection, for dumps whose
	// bcdADC is mangled or missing.
	ForceVersion descriptors.UACVersion
}

// Analysis is the complete result for one device dump.
type Analysis struct {
	Device    *descriptors.Device
	Graph     *topology.Graph
	Bandwidth *bandwidth.Report
	Warnings  []Warning

	parseWarnings []lsusb.Warning
}

// Analyze parses a dump and runs topology and bandwidth analysis on the
// device's active configuration. Structurally broken input returns a
// *lsusb.ParseError; everything recoverable lands in Warnings.
func Analyze(r io.Reader, opts Options) (*Analysis, error) {
	res, err := lsusb.Parse(r, lsusb.Options{ForceVersion: opts.ForceVersion})
	if err != nil {
		return nil, err
	}
	a := &Analysis{Device: res.Device, parseWarnings: res.Warnings}
	a.run()
	return a, nil
}

// SelectVersion re-runs the analysis against the configuration advertising
// the given UAC generation. It reports whether the device has one.
func (a *Analysis) SelectVersion(v descriptors.UACVersion) bool {
	if !a.Device.SelectConfiguration(v) {
		return false
	}
	a.run()
	return true
}

func (a *Analysis) run() {
	cfg := a.Device.ActiveConfiguration()
	if cfg != nil {
		a.Graph = topology.Build(cfg.AudioControl)
	} else {
		a.Graph = topology.Build(nil)
	}
	a.Bandwidth = bandwidth.Analyze(a.Device)

	a.Warnings = a.Warnings[:0]
	for _, w := range a.parseWarnings {
		msg := w.Message
		if w.Field != "" {
			msg = w.Field + ": " + msg
		}
		a.Warnings = append(a.Warnings, Warning{Kind: WarningField, Line: w.Line, Message: msg})
	}
	for _, d := range a.Graph.Dangling {
		a.Warnings = append(a.Warnings, Warning{Kind: WarningReferential, Message: d.String()})
	}
	for _, g := range a.Bandwidth.Gaps {
		a.Warnings = append(a.Warnings, Warning{Kind: WarningAnalysisGap, Message: g.String()})
	}
}
