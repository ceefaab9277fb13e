package descriptors

import "fmt"

// Interface class and subclass codes relevant to audio functions.
const (
	ClassAudio             = 0x01
	SubclassAudioControl   = 0x01
	SubclassAudioStreaming = 0x02
	SubclassMIDIStreaming  = 0x03
)

// Direction of an endpoint, derived from the address direction bit.
type Direction int

const (
	DirectionOut Direction = iota // host to device
	DirectionIn                   // device to host
)

func (d Direction) String() string {
	if d == DirectionIn {
		return "IN"
	}
	return "OUT"
}

// TransferType from endpoint bmAttributes bits 0-1.
type TransferType int

const (
	TransferControl TransferType = iota
	TransferIsochronous
	TransferBulk
	TransferInterrupt
)

func (t TransferType) String() string {
	switch t {
	case TransferIsochronous:
		return "Isochronous"
	case TransferBulk:
		return "Bulk"
	case TransferInterrupt:
		return "Interrupt"
	default:
		return "Control"
	}
}

// SyncType from isochronous endpoint bmAttributes bits 2-3.
type SyncType int

const (
	SyncNone SyncType = iota
	SyncAsync
	SyncAdaptive
	SyncSynchronous
)

func (s SyncType) String() string {
	switch s {
	case SyncAsync:
		return "Asynchronous"
	case SyncAdaptive:
		return "Adaptive"
	case SyncSynchronous:
		return "Synchronous"
	default:
		return "None"
	}
}

// UsageType from isochronous endpoint bmAttributes bits 4-5.
type UsageType int

const (
	UsageData UsageType = iota
	UsageFeedback
	UsageImplicitFeedback
)

func (u UsageType) String() string {
	switch u {
	case UsageFeedback:
		return "Feedback"
	case UsageImplicitFeedback:
		return "Implicit Feedback"
	default:
		return "Data"
	}
}

// Endpoint is a standard endpoint descriptor with the class-specific audio
// extensions folded in.
type Endpoint struct {
	Address       uint8
	TransferType  TransferType
	SyncType      SyncType
	UsageType     UsageType
	MaxPacketSize uint16 // lower 11 bits of wMaxPacketSize
	Interval      uint8
	Refresh       uint8
	SynchAddress  uint8

	// From the class-specific audio endpoint descriptor.
	LockDelayUnits uint8
	LockDelay      uint16
	MaxPacketsOnly bool
}

// Number returns the endpoint number without the direction bit.
func (e *Endpoint) Number() int { return int(e.Address & 0x0F) }

// Direction returns the transfer direction encoded in the address.
func (e *Endpoint) Direction() Direction {
	if e.Address&0x80 != 0 {
		return DirectionIn
	}
	return DirectionOut
}

// Interface is a standard interface descriptor for one alternate setting.
type Interface struct {
	Number           uint8
	AlternateSetting uint8
	NumEndpoints     uint8
	Class            uint8
	Subclass         uint8
	Protocol         uint8
	Name             string
	Endpoints        []*Endpoint
}

// IsAudioControl reports whether this is the audio function's control interface.
func (i *Interface) IsAudioControl() bool {
	return i.Class == ClassAudio && i.Subclass == SubclassAudioControl
}

// IsAudioStreaming reports whether this interface carries isochronous audio data.
func (i *Interface) IsAudioStreaming() bool {
	return i.Class == ClassAudio && i.Subclass == SubclassAudioStreaming
}

// Configuration is one configuration descriptor together with the audio
// entities declared inside it. Devices that advertise several UAC
// generations do so with one configuration per generation.
type Configuration struct {
	Value         uint8
	NumInterfaces uint8
	Name          string
	Attributes    uint8
	MaxPowerMA    int
	Interfaces    []*Interface

	AudioControl *ControlInterface
	Streaming    []*StreamingInterface
	Alternates   []*AlternateSetting
}

// UACVersion returns the generation of this configuration's audio function,
// or UACVersionUnknown when it has no audio control header.
func (c *Configuration) UACVersion() UACVersion {
	if c.AudioControl == nil || c.AudioControl.Header == nil {
		return UACVersionUnknown
	}
	return c.AudioControl.Header.Version
}

// Device is the complete parsed model of one lsusb -v device dump. All
// fields are populated during the parse pass and read-only afterwards.
type Device struct {
	VendorID          uint16
	ProductID         uint16
	Manufacturer      string
	Product           string
	SerialNumber      string
	USBVersion        BCD
	DeviceVersion     BCD
	DeviceClass       uint8
	DeviceSubclass    uint8
	DeviceProtocol    uint8
	MaxPacketSize0    uint8
	NumConfigurations uint8

	Configurations []*Configuration

	active int // index into Configurations
}

// Name returns the product string, falling back to the vendor:product IDs.
func (d *Device) Name() string {
	if d.Product != "" {
		return d.Product
	}
	return fmt.Sprintf("USB Audio Device %04X:%04X", d.VendorID, d.ProductID)
}

// ManufacturerName returns the manufacturer string or "Unknown".
func (d *Device) ManufacturerName() string {
	if d.Manufacturer != "" {
		return d.Manufacturer
	}
	return "Unknown"
}

// ActiveConfiguration returns the configuration selected for analysis, or
// nil for a device with no configurations.
func (d *Device) ActiveConfiguration() *Configuration {
	if d.active < 0 || d.active >= len(d.Configurations) {
		return nil
	}
	return d.Configurations[d.active]
}

// UACVersion returns the generation of the active configuration's audio function.
func (d *Device) UACVersion() UACVersion {
	if cfg := d.ActiveConfiguration(); cfg != nil {
		return cfg.UACVersion()
	}
	return UACVersionUnknown
}

// AvailableUACVersions lists the distinct generations advertised across all
// configurations, in ascending order.
func (d *Device) AvailableUACVersions() []UACVersion {
	seen := make(map[UACVersion]bool)
	var versions []UACVersion
	for _, v := range []UACVersion{UACVersion1, UACVersion2, UACVersion3} {
		for _, cfg := range d.Configurations {
			if cfg.UACVersion() == v && !seen[v] {
				seen[v] = true
				versions = append(versions, v)
			}
		}
	}
	return versions
}

// SelectConfiguration switches analysis to the first configuration of the
// given generation. It reports whether such a configuration exists; the
// current selection is kept when it does not.
func (d *Device) SelectConfiguration(v UACVersion) bool {
	for i, cfg := range d.Configurations {
		if cfg.UACVersion() == v {
			d.active = i
			return true
		}
	}
	return false
}

// SelectDefaultConfiguration picks the highest advertised UAC generation,
// falling back to the first configuration.
func (d *Device) SelectDefaultConfiguration() {
	d.active = 0
	best := UACVersionUnknown
	for i, cfg := range d.Configurations {
		if v := cfg.UACVersion(); v > best {
			best = v
			d.active = i
		}
	}
}
