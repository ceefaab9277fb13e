package descriptors

// UACVersion identifies the Audio Device Class specification generation a
// control interface was written against, derived from the header's bcdADC.
type UACVersion int

const (
	UACVersionUnknown UACVersion = iota
	UACVersion1                  // bcdADC 1.00
	UACVersion2                  // bcdADC 2.00
	UACVersion3                  // bcdADC 3.00, parsed with 2.0 layouts
)

// UACVersionFromBCD maps a parsed bcdADC value to its generation.
func UACVersionFromBCD(bcd BCD) UACVersion {
	switch {
	case bcd == VersionUnknown:
		return UACVersionUnknown
	case bcd >= 0x0300:
		return UACVersion3
	case bcd >= 0x0200:
		return UACVersion2
	default:
		return UACVersion1
	}
}

func (v UACVersion) String() string {
	switch v {
	case UACVersion1:
		return "1.0"
	case UACVersion2:
		return "2.0"
	case UACVersion3:
		return "3.0"
	default:
		return "unknown"
	}
}

// Incomplete reports whether descriptor support for this generation is
// partial. UAC 3.0 headers are recognized but their entities are interpreted
// with the 2.0 field layouts.
func (v UACVersion) Incomplete() bool { return v == UACVersion3 }
