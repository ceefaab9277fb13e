package descriptors

import "fmt"

// AudioControlSubtype discriminates class-specific AudioControl interface
// descriptors, as printed in the bDescriptorSubtype column of the dump.
type AudioControlSubtype byte

const (
	AudioControlSubtypeUndefined           AudioControlSubtype = 0x00
	AudioControlSubtypeHeader              AudioControlSubtype = 0x01
	AudioControlSubtypeInputTerminal       AudioControlSubtype = 0x02
	AudioControlSubtypeOutputTerminal      AudioControlSubtype = 0x03
	AudioControlSubtypeMixerUnit           AudioControlSubtype = 0x04
	AudioControlSubtypeSelectorUnit        AudioControlSubtype = 0x05
	AudioControlSubtypeFeatureUnit         AudioControlSubtype = 0x06
	AudioControlSubtypeProcessingUnit      AudioControlSubtype = 0x07
	AudioControlSubtypeExtensionUnit       AudioControlSubtype = 0x08
	AudioControlSubtypeClockSource         AudioControlSubtype = 0x0A // UAC2
	AudioControlSubtypeClockSelector       AudioControlSubtype = 0x0B // UAC2
	AudioControlSubtypeClockMultiplier     AudioControlSubtype = 0x0C // UAC2
	AudioControlSubtypeSampleRateConverter AudioControlSubtype = 0x0D // UAC2
)

// Entity is any addressable AudioControl entity: a terminal, a unit, or a
// clock. IDs are unique within one control interface.
type Entity interface {
	EntityID() uint8
	Subtype() AudioControlSubtype
}

// Header is the class-specific AudioControl interface header. The bcdADC
// field decides how every following entity descriptor is interpreted.
type Header struct {
	BcdADC      BCD
	Version     UACVersion
	TotalLength uint16

	// UAC 1.0: the streaming interfaces belonging to this function.
	InCollection     uint8
	InterfaceNumbers []uint8

	// UAC 2.0.
	Category uint8
	Controls uint32
}

// InputTerminal is an entity where audio enters the function, either from
// the host (USB streaming) or from a physical source such as a microphone.
type InputTerminal struct {
	ID            uint8
	Type          TerminalType
	AssocTerminal uint8
	Channels      uint8
	ChannelConfig uint32
	ChannelNames  string
	Name          string

	// UAC 2.0.
	ClockSourceID uint8
	Controls      uint32
}

func (t *InputTerminal) EntityID() uint8              { return t.ID }
func (t *InputTerminal) Subtype() AudioControlSubtype { return AudioControlSubtypeInputTerminal }

// OutputTerminal is an entity where audio leaves the function.
type OutputTerminal struct {
	ID            uint8
	Type          TerminalType
	AssocTerminal uint8
	SourceID      uint8
	Name          string

	// UAC 2.0.
	ClockSourceID uint8
	Controls      uint32
}

func (t *OutputTerminal) EntityID() uint8              { return t.ID }
func (t *OutputTerminal) Subtype() AudioControlSubtype { return AudioControlSubtypeOutputTerminal }

// FeatureUnit exposes per-channel controls (mute, volume, tone, ...) on the
// stream passing through it. Controls[0] is the master channel; the bitmap
// width per control depends on the UAC generation.
type FeatureUnit struct {
	ID       uint8
	SourceID uint8
	Controls []uint32
	Name     string
}

func (u *FeatureUnit) EntityID() uint8              { return u.ID }
func (u *FeatureUnit) Subtype() AudioControlSubtype { return AudioControlSubtypeFeatureUnit }

// MixerUnit mixes several input pins down to one output.
type MixerUnit struct {
	ID            uint8
	NrInPins      uint8
	SourceIDs     []uint8
	Channels      uint8
	ChannelConfig uint32
	ChannelNames  string
	Name          string
}

func (u *MixerUnit) EntityID() uint8              { return u.ID }
func (u *MixerUnit) Subtype() AudioControlSubtype { return AudioControlSubtypeMixerUnit }

// SelectorUnit routes exactly one of its input pins to its output.
type SelectorUnit struct {
	ID        uint8
	NrInPins  uint8
	SourceIDs []uint8
	Name      string
}

func (u *SelectorUnit) EntityID() uint8              { return u.ID }
func (u *SelectorUnit) Subtype() AudioControlSubtype { return AudioControlSubtypeSelectorUnit }

// ProcessType identifies a processing unit algorithm.
type ProcessType uint16

const (
	ProcessTypeUndefined      ProcessType = 0x00
	ProcessTypeUpDownmix      ProcessType = 0x01
	ProcessTypeDolbyPrologic  ProcessType = 0x02
	ProcessTypeStereoExtender ProcessType = 0x03
)

func (p ProcessType) String() string {
	switch p {
	case ProcessTypeUpDownmix:
		return "Up/Downmix"
	case ProcessTypeDolbyPrologic:
		return "Dolby Prologic"
	case ProcessTypeStereoExtender:
		return "Stereo Extender"
	case ProcessTypeUndefined:
		return "Undefined"
	default:
		return fmt.Sprintf("Process 0x%02X", uint16(p))
	}
}

// ProcessingUnit applies a named algorithm to its input pins.
type ProcessingUnit struct {
	ID            uint8
	ProcessType   ProcessType
	NrInPins      uint8
	SourceIDs     []uint8
	Channels      uint8
	ChannelConfig uint32
	ChannelNames  string
	Controls      uint32
	Name          string
}

func (u *ProcessingUnit) EntityID() uint8              { return u.ID }
func (u *ProcessingUnit) Subtype() AudioControlSubtype { return AudioControlSubtypeProcessingUnit }

// ExtensionUnit is a vendor-defined processing stage.
type ExtensionUnit struct {
	ID            uint8
	ExtensionCode uint16
	NrInPins      uint8
	SourceIDs     []uint8
	Channels      uint8
	ChannelConfig uint32
	ChannelNames  string
	Controls      uint32
	Name          string
}

func (u *ExtensionUnit) EntityID() uint8              { return u.ID }
func (u *ExtensionUnit) Subtype() AudioControlSubtype { return AudioControlSubtypeExtensionUnit }

// ClockType classifies a UAC 2.0 clock source, from the low bits of its
// bmAttributes.
type ClockType int

const (
	ClockExternal ClockType = iota
	ClockInternalFixed
	ClockInternalVariable
	ClockInternalProgrammable
)

func (c ClockType) String() string {
	switch c {
	case ClockInternalFixed:
		return "Internal Fixed"
	case ClockInternalVariable:
		return "Internal Variable"
	case ClockInternalProgrammable:
		return "Internal Programmable"
	default:
		return "External"
	}
}

// ClockSource is a UAC 2.0 clock generator entity.
type ClockSource struct {
	ID            uint8
	Attributes    uint8
	Controls      uint32
	AssocTerminal uint8
	Name          string
}

func (c *ClockSource) EntityID() uint8              { return c.ID }
func (c *ClockSource) Subtype() AudioControlSubtype { return AudioControlSubtypeClockSource }

// Type returns the clock kind from the attribute bits.
func (c *ClockSource) Type() ClockType { return ClockType(c.Attributes & 0x03) }

// SyncedToSOF reports whether the clock is locked to USB start-of-frame.
func (c *ClockSource) SyncedToSOF() bool { return c.Attributes&0x04 != 0 }

// ClockSelector routes one of several clock inputs onward.
type ClockSelector struct {
	ID        uint8
	NrInPins  uint8
	SourceIDs []uint8
	Controls  uint32
	Name      string
}

func (c *ClockSelector) EntityID() uint8              { return c.ID }
func (c *ClockSelector) Subtype() AudioControlSubtype { return AudioControlSubtypeClockSelector }

// ClockMultiplier derives a new rate from a clock input.
type ClockMultiplier struct {
	ID       uint8
	SourceID uint8
	Controls uint32
	Name     string
}

func (c *ClockMultiplier) EntityID() uint8              { return c.ID }
func (c *ClockMultiplier) Subtype() AudioControlSubtype { return AudioControlSubtypeClockMultiplier }

// ControlInterface owns every entity declared by one AudioControl interface.
// Entity slices keep dump order; the topology builder references entities by
// ID and never takes ownership.
type ControlInterface struct {
	Header *Header

	InputTerminals  []*InputTerminal
	OutputTerminals []*OutputTerminal
	FeatureUnits    []*FeatureUnit
	MixerUnits      []*MixerUnit
	SelectorUnits   []*SelectorUnit
	ProcessingUnits []*ProcessingUnit
	ExtensionUnits  []*ExtensionUnit
	ClockSources    []*ClockSource
	ClockSelectors  []*ClockSelector
	ClockMultiplier []*ClockMultiplier
}

// Version returns the generation declared by the header.
func (ac *ControlInterface) Version() UACVersion {
	if ac.Header == nil {
		return UACVersionUnknown
	}
	return ac.Header.Version
}

// Entities returns every entity in dump order: terminals, then units, then
// clocks, each group in declaration order.
func (ac *ControlInterface) Entities() []Entity {
	var all []Entity
	for _, t := range ac.InputTerminals {
		all = append(all, t)
	}
	for _, t := range ac.OutputTerminals {
		all = append(all, t)
	}
	for _, u := range ac.FeatureUnits {
		all = append(all, u)
	}
	for _, u := range ac.MixerUnits {
		all = append(all, u)
	}
	for _, u := range ac.SelectorUnits {
		all = append(all, u)
	}
	for _, u := range ac.ProcessingUnits {
		all = append(all, u)
	}
	for _, u := range ac.ExtensionUnits {
		all = append(all, u)
	}
	for _, c := range ac.ClockSources {
		all = append(all, c)
	}
	for _, c := range ac.ClockSelectors {
		all = append(all, c)
	}
	for _, c := range ac.ClockMultiplier {
		all = append(all, c)
	}
	return all
}

// EntityByID looks up any terminal, unit, or clock by its ID.
func (ac *ControlInterface) EntityByID(id uint8) Entity {
	for _, e := range ac.Entities() {
		if e.EntityID() == id {
			return e
		}
	}
	return nil
}
