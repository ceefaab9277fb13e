package lsusb

import (
	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// parseAudioControl decodes one class-specific AudioControl interface
// descriptor block into the configuration's control interface. Entities are
// laid out differently per UAC generation; the header parsed first in the
// dump fixes the generation for everything after it.
func (p *parser) parseAudioControl(ac *descriptors.ControlInterface, fs *fieldSet) {
	subtype := descriptors.AudioControlSubtype(fs.uint8("bDescriptorSubtype"))
	switch subtype {
	case descriptors.AudioControlSubtypeHeader:
		p.parseACHeader(ac, fs)
	case descriptors.AudioControlSubtypeInputTerminal:
		ac.InputTerminals = append(ac.InputTerminals, p.parseInputTerminal(fs))
	case descriptors.AudioControlSubtypeOutputTerminal:
		ac.OutputTerminals = append(ac.OutputTerminals, p.parseOutputTerminal(fs))
	case descriptors.AudioControlSubtypeFeatureUnit:
		ac.FeatureUnits = append(ac.FeatureUnits, p.parseFeatureUnit(fs))
	case descriptors.AudioControlSubtypeMixerUnit:
		ac.MixerUnits = append(ac.MixerUnits, &descriptors.MixerUnit{
			ID:            fs.uint8("bUnitID"),
			NrInPins:      fs.uint8("bNrInPins"),
			SourceIDs:     fs.array8("baSourceID"),
			Channels:      fs.uint8("bNrChannels"),
			ChannelConfig: p.channelConfig(fs),
			ChannelNames:  fs.str("iChannelNames"),
			Name:          fs.str("iMixer"),
		})
	case descriptors.AudioControlSubtypeSelectorUnit:
		ac.SelectorUnits = append(ac.SelectorUnits, &descriptors.SelectorUnit{
			ID:        fs.uint8("bUnitID"),
			NrInPins:  fs.uint8("bNrInPins"),
			SourceIDs: fs.array8("baSourceID"),
			Name:      fs.str("iSelector"),
		})
	case descriptors.AudioControlSubtypeProcessingUnit:
		ac.ProcessingUnits = append(ac.ProcessingUnits, &descriptors.ProcessingUnit{
			ID:            fs.uint8("bUnitID"),
			ProcessType:   descriptors.ProcessType(fs.uint16("wProcessType")),
			NrInPins:      fs.uint8("bNrInPins"),
			SourceIDs:     fs.array8("baSourceID"),
			Channels:      fs.uint8("bNrChannels"),
			ChannelConfig: p.channelConfig(fs),
			ChannelNames:  fs.str("iChannelNames"),
			Controls:      fs.uint32("bmControls"),
			Name:          fs.str("iProcessing"),
		})
	case descriptors.AudioControlSubtypeExtensionUnit:
		ac.ExtensionUnits = append(ac.ExtensionUnits, &descriptors.ExtensionUnit{
			ID:            fs.uint8("bUnitID"),
			ExtensionCode: fs.uint16("wExtensionCode"),
			NrInPins:      fs.uint8("bNrInPins"),
			SourceIDs:     fs.array8("baSourceID"),
			Channels:      fs.uint8("bNrChannels"),
			ChannelConfig: p.channelConfig(fs),
			ChannelNames:  fs.str("iChannelNames"),
			Controls:      fs.uint32("bmControls"),
			Name:          fs.str("iExtension"),
		})
	case descriptors.AudioControlSubtypeClockSource:
		ac.ClockSources = append(ac.ClockSources, &descriptors.ClockSource{
			ID:            fs.uint8("bClockID"),
			Attributes:    fs.uint8("bmAttributes"),
			Controls:      fs.uint32("bmControls"),
			AssocTerminal: fs.uint8("bAssocTerminal"),
			Name:          fs.str("iClockSource"),
		})
	case descriptors.AudioControlSubtypeClockSelector:
		ac.ClockSelectors = append(ac.ClockSelectors, &descriptors.ClockSelector{
			ID:        fs.uint8("bClockID"),
			NrInPins:  fs.uint8("bNrInPins"),
			SourceIDs: fs.array8("baCSourceID"),
			Controls:  fs.uint32("bmControls"),
			Name:      fs.str("iClockSelector"),
		})
	case descriptors.AudioControlSubtypeClockMultiplier:
		ac.ClockMultiplier = append(ac.ClockMultiplier, &descriptors.ClockMultiplier{
			ID:       fs.uint8("bClockID"),
			SourceID: fs.uint8("bCSourceID"),
			Controls: fs.uint32("bmControls"),
			Name:     fs.str("iClockMultiplier"),
		})
	}
}

func (p *parser) parseACHeader(ac *descriptors.ControlInterface, fs *fieldSet) {
	h := &descriptors.Header{
		BcdADC:      fs.bcd("bcdADC"),
		TotalLength: fs.uint16("wTotalLength"),
	}
	h.Version = descriptors.UACVersionFromBCD(h.BcdADC)
	if p.opts.ForceVersion != descriptors.UACVersionUnknown {
		h.Version = p.opts.ForceVersion
	}
	p.version = h.Version

	if h.Version >= descriptors.UACVersion2 {
		h.Category = fs.uint8("bCategory")
		h.Controls = fs.uint32("bmControls")
	} else {
		h.InCollection = fs.uint8("bInCollection")
		h.InterfaceNumbers = fs.array8("baInterfaceNr")
	}
	ac.Header = h
}

func (p *parser) parseInputTerminal(fs *fieldSet) *descriptors.InputTerminal {
	t := &descriptors.InputTerminal{
		ID:            fs.uint8("bTerminalID"),
		Type:          descriptors.TerminalType(fs.uint16("wTerminalType")),
		AssocTerminal: fs.uint8("bAssocTerminal"),
		Channels:      fs.uint8("bNrChannels"),
		ChannelConfig: p.channelConfig(fs),
		ChannelNames:  fs.str("iChannelNames"),
		Name:          fs.str("iTerminal"),
	}
	if p.version >= descriptors.UACVersion2 {
		t.ClockSourceID = fs.uint8("bCSourceID")
		t.Controls = fs.uint32("bmControls")
	}
	return t
}

func (p *parser) parseOutputTerminal(fs *fieldSet) *descriptors.OutputTerminal {
	t := &descriptors.OutputTerminal{
		ID:            fs.uint8("bTerminalID"),
		Type:          descriptors.TerminalType(fs.uint16("wTerminalType")),
		AssocTerminal: fs.uint8("bAssocTerminal"),
		SourceID:      fs.uint8("bSourceID"),
		Name:          fs.str("iTerminal"),
	}
	if p.version >= descriptors.UACVersion2 {
		t.ClockSourceID = fs.uint8("bCSourceID")
		t.Controls = fs.uint32("bmControls")
	}
	return t
}

func (p *parser) parseFeatureUnit(fs *fieldSet) *descriptors.FeatureUnit {
	return &descriptors.FeatureUnit{
		ID:       fs.uint8("bUnitID"),
		SourceID: fs.uint8("bSourceID"),
		Controls: fs.array32("bmaControls"),
		Name:     fs.str("iFeature"),
	}
}

// channelConfig reads the spatial location bitmap, which lsusb names
// wChannelConfig in 1.0 dumps and bmChannelConfig in 2.0 dumps.
func (p *parser) channelConfig(fs *fieldSet) uint32 {
	if fs.has("bmChannelConfig") {
		return fs.uint32("bmChannelConfig")
	}
	return fs.uint32("wChannelConfig")
}

// parseAudioStreaming decodes one class-specific AudioStreaming interface
// descriptor block onto the alternate being parsed.
func (p *parser) parseAudioStreaming(pi *parsedInterface, fs *fieldSet) {
	switch fs.uint8("bDescriptorSubtype") {
	case 1: // AS_GENERAL
		g := &descriptors.ASGeneral{
			TerminalLink: fs.uint8("bTerminalLink"),
			Delay:        fs.uint8("bDelay"),
		}
		if p.version >= descriptors.UACVersion2 {
			g.Controls = fs.uint8("bmControls")
			g.FormatTypes = fs.uint8("bFormatType")
			g.Formats = fs.uint32("bmFormats")
			g.NrChannels = fs.uint8("bNrChannels")
			g.ChannelCfg = fs.uint32("bmChannelConfig")
		} else {
			g.FormatTag = fs.uint16("wFormatTag")
		}
		pi.general = g
	case 2: // FORMAT_TYPE
		f := &descriptors.FormatType{
			FormatType:    fs.uint8("bFormatType"),
			BitResolution: fs.uint8("bBitResolution"),
		}
		if p.version >= descriptors.UACVersion2 {
			f.SubframeSize = fs.uint8("bSubslotSize")
		} else {
			f.Channels = fs.uint8("bNrChannels")
			f.SubframeSize = fs.uint8("bSubframeSize")
			f.Rates = p.sampleRates(fs)
		}
		pi.format = f
	}
}

// sampleRates reads the 1.0 Type I rate table: bSamFreqType 0 declares a
// continuous range, anything else a discrete list.
func (p *parser) sampleRates(fs *fieldSet) descriptors.SampleRates {
	if fs.uint8("bSamFreqType") == 0 && fs.has("tLowerSamFreq") {
		return descriptors.SampleRates{
			Continuous: true,
			MinHz:      fs.uint32("tLowerSamFreq"),
			MaxHz:      fs.uint32("tUpperSamFreq"),
		}
	}
	return descriptors.SampleRates{Discrete: fs.sampleRateTable()}
}

func (fs *fieldSet) sampleRateTable() []uint32 {
	return fs.array32("tSamFreq")
}
