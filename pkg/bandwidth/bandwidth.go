// Package bandwidth computes the isochronous bus load of each streaming
// alternate setting. Two figures are reported: the payload throughput that
// follows from the declared sample rate, and the bus reservation implied by
// wMaxPacketSize. The payload figure is only available when the descriptors
// actually carry a rate table; it is never guessed.
package bandwidth

import (
	"fmt"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// Rate is an explicitly optional sample rate. UAC 2.0 devices negotiate
// rates through clock source requests, so their dumps leave Known false.
type Rate struct {
	Hz    uint32
	Known bool
}

func (r Rate) String() string {
	if !r.Known {
		return "unknown"
	}
	return fmt.Sprintf("%d Hz", r.Hz)
}

// Entry is the bandwidth figure for one operational alternate setting.
type Entry struct {
	InterfaceNumber uint8
	AltSetting      uint8
	Direction       descriptors.Direction
	Channels        int
	BytesPerSample  int
	BitResolution   int
	MaxPacketSize   uint16
	PacketsPerSec   int

	// Rate is the highest declared sample rate. Payload is the resulting
	// throughput in bytes per second, rounded up to whole packets per
	// service interval; PayloadKnown is false when Rate is unknown and
	// Payload is then meaningless.
	Rate         Rate
	Payload      uint64
	PayloadKnown bool

	// Reserved is wMaxPacketSize times the packet rate: the bus time the
	// endpoint claims regardless of what is streamed through it.
	Reserved uint64
}

// Gap records an alternate whose payload throughput could not be computed.
type Gap struct {
	InterfaceNumber uint8
	AltSetting      uint8
	Reason          string
}

func (g Gap) String() string {
	return fmt.Sprintf("interface %d alt %d: %s", g.InterfaceNumber, g.AltSetting, g.Reason)
}

// InterfaceSummary aggregates the entries of one streaming interface.
type InterfaceSummary struct {
	Number    uint8
	Direction descriptors.Direction
	Entries   []Entry

	// TerminalLink is the control-interface terminal the stream attaches
	// to, with its resolved type when the configuration declares it. Zero
	// when no alternate carries a link.
	TerminalLink uint8
	TerminalType descriptors.TerminalType

	MaxPayload      uint64
	MaxPayloadKnown bool
	MaxReserved     uint64
}

// Report is the bandwidth analysis of one configuration. Direction maxima
// skip unknown-rate entries for the payload figure; the reservation maxima
// cover every operational alternate.
type Report struct {
	Interfaces []InterfaceSummary
	Gaps       []Gap

	PlaybackMaxPayload      uint64
	PlaybackMaxPayloadKnown bool
	CaptureMaxPayload       uint64
	CaptureMaxPayloadKnown  bool

	PlaybackMaxReserved uint64
	CaptureMaxReserved  uint64

	// TotalMaxPayload sums the direction maxima, the worst case of both
	// directions streaming at once. Unknown-rate directions stay out of the
	// sum; TotalMaxPayloadKnown is false when neither direction has a known
	// payload. TotalMaxReserved sums the reservations unconditionally.
	TotalMaxPayload      uint64
	TotalMaxPayloadKnown bool
	TotalMaxReserved     uint64
}

// Analyze computes bandwidth for the device's active configuration.
func Analyze(dev *descriptors.Device) *Report {
	cfg := dev.ActiveConfiguration()
	if cfg == nil {
		return &Report{}
	}
	return AnalyzeConfiguration(cfg, dev.USBVersion)
}

// AnalyzeConfiguration computes bandwidth for one configuration. The USB
// version decides the service interval: full-speed buses run 1000 frames
// per second, high-speed buses 8000 microframes scaled by bInterval.
func AnalyzeConfiguration(cfg *descriptors.Configuration, usb descriptors.BCD) *Report {
	rep := &Report{}
	for _, si := range cfg.Streaming {
		sum := InterfaceSummary{Number: si.Number}
		if dir, ok := si.Direction(); ok {
			sum.Direction = dir
		}
		for _, alt := range si.Alternates {
			if alt.General != nil && alt.General.TerminalLink != 0 {
				sum.TerminalLink = alt.General.TerminalLink
				break
			}
		}
		if sum.TerminalLink != 0 && cfg.AudioControl != nil {
			switch term := cfg.AudioControl.EntityByID(sum.TerminalLink).(type) {
			case *descriptors.InputTerminal:
				sum.TerminalType = term.Type
			case *descriptors.OutputTerminal:
				sum.TerminalType = term.Type
			}
		}
		for _, alt := range si.Alternates {
			if alt.ZeroBandwidth() {
				continue
			}
			e := analyzeAlternate(alt, usb)
			sum.Entries = append(sum.Entries, e)
			if !e.PayloadKnown {
				rep.Gaps = append(rep.Gaps, Gap{
					InterfaceNumber: e.InterfaceNumber,
					AltSetting:      e.AltSetting,
					Reason:          "no sample rate in descriptors, payload throughput unknown",
				})
			}
			if e.PayloadKnown && e.Payload > sum.MaxPayload {
				sum.MaxPayload = e.Payload
				sum.MaxPayloadKnown = true
			}
			if e.Reserved > sum.MaxReserved {
				sum.MaxReserved = e.Reserved
			}
		}
		if len(sum.Entries) == 0 {
			continue
		}
		rep.Interfaces = append(rep.Interfaces, sum)
		rep.merge(sum)
	}
	if rep.PlaybackMaxPayloadKnown {
		rep.TotalMaxPayload += rep.PlaybackMaxPayload
		rep.TotalMaxPayloadKnown = true
	}
	if rep.CaptureMaxPayloadKnown {
		rep.TotalMaxPayload += rep.CaptureMaxPayload
		rep.TotalMaxPayloadKnown = true
	}
	rep.TotalMaxReserved = rep.PlaybackMaxReserved + rep.CaptureMaxReserved
	return rep
}

func (rep *Report) merge(sum InterfaceSummary) {
	if sum.Direction == descriptors.DirectionOut {
		if sum.MaxPayloadKnown && sum.MaxPayload > rep.PlaybackMaxPayload {
			rep.PlaybackMaxPayload = sum.MaxPayload
			rep.PlaybackMaxPayloadKnown = true
		}
		if sum.MaxReserved > rep.PlaybackMaxReserved {
			rep.PlaybackMaxReserved = sum.MaxReserved
		}
		return
	}
	if sum.MaxPayloadKnown && sum.MaxPayload > rep.CaptureMaxPayload {
		rep.CaptureMaxPayload = sum.MaxPayload
		rep.CaptureMaxPayloadKnown = true
	}
	if sum.MaxReserved > rep.CaptureMaxReserved {
		rep.CaptureMaxReserved = sum.MaxReserved
	}
}

func analyzeAlternate(alt *descriptors.AlternateSetting, usb descriptors.BCD) Entry {
	ep := alt.Endpoint
	e := Entry{
		InterfaceNumber: alt.InterfaceNumber,
		AltSetting:      alt.Setting,
		Direction:       ep.Direction(),
		Channels:        alt.Channels(),
		MaxPacketSize:   ep.MaxPacketSize,
		PacketsPerSec:   packetsPerSecond(usb, ep.Interval),
	}
	if alt.Format != nil {
		e.BytesPerSample = alt.Format.BytesPerSample()
		e.BitResolution = int(alt.Format.BitResolution)
		if hz, ok := alt.Format.Rates.Max(); ok {
			e.Rate = Rate{Hz: hz, Known: true}
		}
	}
	e.Reserved = uint64(ep.MaxPacketSize) * uint64(e.PacketsPerSec)
	if !e.Rate.Known || e.Channels == 0 || e.BytesPerSample == 0 || e.PacketsPerSec == 0 {
		return e
	}

	frameBytes := uint64(e.Channels) * uint64(e.BytesPerSample)
	pps := uint64(e.PacketsPerSec)
	samplesPerPacket := (uint64(e.Rate.Hz) + pps - 1) / pps
	e.Payload = samplesPerPacket * frameBytes * pps
	e.PayloadKnown = true
	return e
}

// packetsPerSecond derives the endpoint service rate. Full-speed devices
// (bcdUSB below 2.00) get one frame per millisecond; high-speed devices get
// 8000 microframes per second divided down by bInterval.
func packetsPerSecond(usb descriptors.BCD, interval uint8) int {
	if usb != descriptors.VersionUnknown && usb < 0x0200 {
		return 1000
	}
	if interval == 0 {
		interval = 1
	}
	if interval > 16 {
		return 0
	}
	return 8000 >> (interval - 1)
}
