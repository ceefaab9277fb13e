package descriptors

import "fmt"

// Audio data format tags relevant to Type I streams.
const (
	FormatTagPCM       = 0x0001
	FormatTagPCM8      = 0x0002
	FormatTagIEEEFloat = 0x0003
	FormatTagALaw      = 0x0004
	FormatTagMuLaw     = 0x0005
)

var formatTagNames = map[uint16]string{
	FormatTagPCM:       "PCM",
	FormatTagPCM8:      "PCM8",
	FormatTagIEEEFloat: "IEEE Float",
	FormatTagALaw:      "A-Law",
	FormatTagMuLaw:     "Mu-Law",
}

// FormatTagName returns the data format name for a wFormatTag value.
func FormatTagName(tag uint16) string {
	if name, ok := formatTagNames[tag]; ok {
		return name
	}
	return fmt.Sprintf("Format 0x%04X", tag)
}

// SampleRates holds the rates a format supports. UAC 1.0 Type I descriptors
// embed either a discrete table or a continuous min/max pair; UAC 2.0 moves
// rates behind clock source requests, so a 2.0 format typically has neither
// and Known reports false.
type SampleRates struct {
	Discrete   []uint32
	Continuous bool
	MinHz      uint32
	MaxHz      uint32
}

// Known reports whether any rate information was present in the descriptor.
func (r SampleRates) Known() bool {
	return len(r.Discrete) > 0 || r.Continuous
}

// Max returns the highest supported rate and whether one is known.
func (r SampleRates) Max() (uint32, bool) {
	if r.Continuous {
		return r.MaxHz, true
	}
	var max uint32
	for _, hz := range r.Discrete {
		if hz > max {
			max = hz
		}
	}
	return max, max != 0
}

// Contains reports whether the given rate is supported.
func (r SampleRates) Contains(hz uint32) bool {
	if r.Continuous {
		return hz >= r.MinHz && hz <= r.MaxHz
	}
	for _, d := range r.Discrete {
		if d == hz {
			return true
		}
	}
	return false
}

// FormatType is a class-specific Format Type I descriptor.
type FormatType struct {
	FormatType    uint8
	Channels      uint8
	SubframeSize  uint8 // bytes per sample per channel, 0 when not declared
	BitResolution uint8
	Rates         SampleRates
}

// BytesPerSample returns the octets one sample of one channel occupies on the
// wire: the declared subframe size, or the bit resolution rounded up.
func (f *FormatType) BytesPerSample() int {
	if f.SubframeSize > 0 {
		return int(f.SubframeSize)
	}
	return (int(f.BitResolution) + 7) / 8
}

// ASGeneral is the class-specific AS_GENERAL descriptor of one streaming
// alternate setting.
type ASGeneral struct {
	TerminalLink uint8
	Delay        uint8
	FormatTag    uint16 // UAC 1.0 wFormatTag

	// UAC 2.0.
	Controls    uint8
	FormatTypes uint8
	Formats     uint32
	NrChannels  uint8
	ChannelCfg  uint32
}

// AlternateSetting pairs one streaming interface alternate with its
// class-specific descriptors and its data endpoint.
type AlternateSetting struct {
	InterfaceNumber uint8
	Setting         uint8
	General         *ASGeneral
	Format          *FormatType
	Endpoint        *Endpoint
	Interface       *Interface
}

// ZeroBandwidth reports whether selecting this alternate reserves no
// isochronous bandwidth. Alternate 0 is the idle setting by convention, and
// an alternate without a data endpoint cannot move audio either.
func (a *AlternateSetting) ZeroBandwidth() bool {
	return a.Setting == 0 || a.Endpoint == nil || a.Endpoint.MaxPacketSize == 0
}

// Channels returns the stream channel count, preferring the format
// descriptor over the 2.0 AS general field.
func (a *AlternateSetting) Channels() int {
	if a.Format != nil && a.Format.Channels > 0 {
		return int(a.Format.Channels)
	}
	if a.General != nil && a.General.NrChannels > 0 {
		return int(a.General.NrChannels)
	}
	return 0
}

// StreamingInterface collects every alternate setting of one AudioStreaming
// interface number, in dump order.
type StreamingInterface struct {
	Number     uint8
	Alternates []*AlternateSetting
}

// Alternate returns the alternate with the given setting value, or nil.
func (s *StreamingInterface) Alternate(setting uint8) *AlternateSetting {
	for _, alt := range s.Alternates {
		if alt.Setting == setting {
			return alt
		}
	}
	return nil
}

// OperationalAlternates returns the alternates that can actually move audio.
func (s *StreamingInterface) OperationalAlternates() []*AlternateSetting {
	var ops []*AlternateSetting
	for _, alt := range s.Alternates {
		if !alt.ZeroBandwidth() {
			ops = append(ops, alt)
		}
	}
	return ops
}

// Direction returns the data direction of the first operational alternate's
// endpoint. The second result is false for an interface with only idle
// alternates.
func (s *StreamingInterface) Direction() (Direction, bool) {
	for _, alt := range s.Alternates {
		if alt.Endpoint != nil {
			return alt.Endpoint.Direction(), true
		}
	}
	return DirectionOut, false
}
