package descriptors

import "fmt"

// TerminalType is a USB Audio terminal type code as defined in the USB Audio
// Terminal Types annex. The upper byte selects the category.
type TerminalType uint16

const (
	TerminalTypeUSBUndefined      TerminalType = 0x0100
	TerminalTypeUSBStreaming      TerminalType = 0x0101
	TerminalTypeUSBVendorSpecific TerminalType = 0x01FF

	TerminalTypeInputUndefined TerminalType = 0x0200
	TerminalTypeMicrophone     TerminalType = 0x0201

	TerminalTypeOutputUndefined TerminalType = 0x0300
	TerminalTypeSpeaker         TerminalType = 0x0301
	TerminalTypeHeadphones      TerminalType = 0x0302

	TerminalTypeBidirUndefined TerminalType = 0x0400
	TerminalTypeHandset        TerminalType = 0x0401
	TerminalTypeHeadset        TerminalType = 0x0402
)

var terminalTypeNames = map[TerminalType]string{
	0x0100: "USB Undefined",
	0x0101: "USB Streaming",
	0x01FF: "USB Vendor Specific",
	0x0200: "Input Undefined",
	0x0201: "Microphone",
	0x0202: "Desktop Microphone",
	0x0203: "Personal Microphone",
	0x0204: "Omni-directional Microphone",
	0x0205: "Microphone Array",
	0x0206: "Processing Microphone Array",
	0x0300: "Output Undefined",
	0x0301: "Speaker",
	0x0302: "Headphones",
	0x0303: "Head Mounted Display Audio",
	0x0304: "Desktop Speaker",
	0x0305: "Room Speaker",
	0x0306: "Communication Speaker",
	0x0307: "Low Frequency Effects Speaker",
	0x0400: "Bi-directional Undefined",
	0x0401: "Handset",
	0x0402: "Headset",
	0x0403: "Speakerphone (no echo reduction)",
	0x0404: "Echo-suppressing Speakerphone",
	0x0405: "Echo-canceling Speakerphone",
	0x0500: "Telephony Undefined",
	0x0501: "Phone Line",
	0x0502: "Telephone",
	0x0503: "Down Line Phone",
	0x0600: "External Undefined",
	0x0601: "Analog Connector",
	0x0602: "Digital Audio Interface",
	0x0603: "Line Connector",
	0x0604: "Legacy Audio Connector",
	0x0605: "S/PDIF Interface",
	0x0606: "1394 DA Stream",
	0x0607: "1394 DV Stream",
	0x0700: "Embedded Undefined",
	0x0701: "Level Calibration Noise Source",
	0x0702: "Equalization Noise",
	0x0703: "CD Player",
	0x0704: "DAT",
	0x0705: "DCC",
	0x0706: "MiniDisk",
	0x0707: "Analog Tape",
	0x0708: "Phonograph",
	0x0709: "VCR Audio",
	0x070A: "Video Disc Audio",
	0x070B: "DVD Audio",
	0x070C: "TV Tuner Audio",
	0x070D: "Satellite Receiver Audio",
	0x070E: "Cable Tuner Audio",
	0x070F: "DSS Audio",
	0x0710: "Radio Receiver",
	0x0711: "Radio Transmitter",
	0x0712: "Multi-track Recorder",
	0x0713: "Synthesizer",
	0x0714: "Piano",
	0x0715: "Guitar",
	0x0716: "Drums/Rhythm",
	0x0717: "Other Musical Instrument",
}

var terminalCategories = map[byte]string{
	0x01: "USB",
	0x02: "Input",
	0x03: "Output",
	0x04: "Bi-directional",
	0x05: "Telephony",
	0x06: "External",
	0x07: "Embedded",
}

// Name returns the human-readable name for the type code. Codes missing from
// the catalogue fall back to their category and hex value.
func (t TerminalType) Name() string {
	if name, ok := terminalTypeNames[t]; ok {
		return name
	}
	category := "Unknown"
	if c, ok := terminalCategories[byte(t>>8)]; ok {
		category = c
	}
	return fmt.Sprintf("%s (0x%04X)", category, uint16(t))
}

// IsUSBStreaming reports whether the terminal carries the USB data stream
// itself rather than a physical transducer or connector.
func (t TerminalType) IsUSBStreaming() bool { return t == TerminalTypeUSBStreaming }
