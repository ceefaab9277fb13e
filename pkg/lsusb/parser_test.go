package lsusb

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

func parseFixture(t *testing.T, name string, opts Options) *Result {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	res, err := Parse(f, opts)
	if err != nil {
		t.Fatalf("Parse(%s) returned error: %v", name, err)
	}
	return res
}

func TestParseUAC1Device(t *testing.T) {
	res := parseFixture(t, "uac1_stereo_headset.txt", Options{})
	dev := res.Device

	if dev.VendorID != 0x0d8c || dev.ProductID != 0x0014 {
		t.Errorf("IDs = %04x:%04x, want 0d8c:0014", dev.VendorID, dev.ProductID)
	}
	if dev.Manufacturer != "C-Media Electronics Inc." {
		t.Errorf("manufacturer = %q", dev.Manufacturer)
	}
	if dev.Product != "USB Audio Device" {
		t.Errorf("product = %q", dev.Product)
	}
	if got := dev.USBVersion.String(); got != "1.10" {
		t.Errorf("USB version = %q, want \"1.10\"", got)
	}
	if dev.UACVersion() != descriptors.UACVersion1 {
		t.Fatalf("UAC version = %v, want 1.0", dev.UACVersion())
	}

	ac := dev.ActiveConfiguration().AudioControl
	if ac.Header.BcdADC != 0x0100 {
		t.Errorf("bcdADC = 0x%04X, want 0x0100", ac.Header.BcdADC)
	}
	if ac.Header.InCollection != 2 || !reflect.DeepEqual(ac.Header.InterfaceNumbers, []uint8{1, 2}) {
		t.Errorf("collection = %d %v, want 2 [1 2]", ac.Header.InCollection, ac.Header.InterfaceNumbers)
	}

	if len(ac.InputTerminals) != 2 {
		t.Fatalf("input terminals = %d, want 2", len(ac.InputTerminals))
	}
	usb, mic := ac.InputTerminals[0], ac.InputTerminals[1]
	if usb.ID != 1 || !usb.Type.IsUSBStreaming() || usb.Channels != 2 {
		t.Errorf("terminal 1 = id %d type 0x%04X ch %d", usb.ID, uint16(usb.Type), usb.Channels)
	}
	if mic.ID != 2 || mic.Type != descriptors.TerminalTypeMicrophone || mic.Channels != 1 {
		t.Errorf("terminal 2 = id %d type 0x%04X ch %d", mic.ID, uint16(mic.Type), mic.Channels)
	}

	if len(ac.OutputTerminals) != 2 {
		t.Fatalf("output terminals = %d, want 2", len(ac.OutputTerminals))
	}
	spk, usbOut := ac.OutputTerminals[0], ac.OutputTerminals[1]
	if spk.ID != 6 || spk.Type != descriptors.TerminalTypeSpeaker || spk.SourceID != 5 {
		t.Errorf("terminal 6 = id %d type 0x%04X src %d", spk.ID, uint16(spk.Type), spk.SourceID)
	}
	if usbOut.ID != 7 || !usbOut.Type.IsUSBStreaming() || usbOut.SourceID != 4 {
		t.Errorf("terminal 7 = id %d type 0x%04X src %d", usbOut.ID, uint16(usbOut.Type), usbOut.SourceID)
	}

	if len(ac.FeatureUnits) != 2 {
		t.Fatalf("feature units = %d, want 2", len(ac.FeatureUnits))
	}
	for _, fu := range ac.FeatureUnits {
		got := fu.MasterControls(descriptors.UACVersion1)
		if want := []string{"Mute", "Volume"}; !reflect.DeepEqual(got, want) {
			t.Errorf("unit %d master controls = %v, want %v", fu.ID, got, want)
		}
	}
	if ac.FeatureUnits[0].SourceID != 1 || ac.FeatureUnits[1].SourceID != 2 {
		t.Errorf("feature unit sources = %d, %d, want 1, 2",
			ac.FeatureUnits[0].SourceID, ac.FeatureUnits[1].SourceID)
	}

	cfg := dev.ActiveConfiguration()
	if len(cfg.Streaming) != 2 {
		t.Fatalf("streaming interfaces = %d, want 2", len(cfg.Streaming))
	}

	playback := cfg.Streaming[0]
	if playback.Number != 1 || len(playback.Alternates) != 2 {
		t.Fatalf("interface 1 = number %d with %d alternates", playback.Number, len(playback.Alternates))
	}
	alt := playback.Alternate(1)
	if alt == nil {
		t.Fatal("interface 1 has no alternate 1")
	}
	if alt.General.TerminalLink != 1 || alt.General.FormatTag != descriptors.FormatTagPCM {
		t.Errorf("AS general = link %d tag 0x%04X", alt.General.TerminalLink, alt.General.FormatTag)
	}
	if alt.Format.Channels != 2 || alt.Format.BitResolution != 16 {
		t.Errorf("format = %d ch %d bit", alt.Format.Channels, alt.Format.BitResolution)
	}
	if !alt.Format.Rates.Contains(44100) || !alt.Format.Rates.Contains(48000) {
		t.Errorf("rates = %v, want 44100 and 48000", alt.Format.Rates.Discrete)
	}
	ep := alt.Endpoint
	if ep == nil {
		t.Fatal("alternate 1 has no endpoint")
	}
	if ep.Direction() != descriptors.DirectionOut || ep.SyncType != descriptors.SyncAdaptive {
		t.Errorf("playback endpoint = %v %v", ep.Direction(), ep.SyncType)
	}
	if ep.MaxPacketSize != 192 {
		t.Errorf("playback wMaxPacketSize = %d, want 192", ep.MaxPacketSize)
	}

	capture := cfg.Streaming[1]
	calt := capture.Alternate(1)
	if calt == nil {
		t.Fatal("interface 2 has no alternate 1")
	}
	if calt.General.TerminalLink != 7 {
		t.Errorf("capture terminal link = %d, want 7", calt.General.TerminalLink)
	}
	if calt.Format.Channels != 1 {
		t.Errorf("capture channels = %d, want 1", calt.Format.Channels)
	}
	cep := calt.Endpoint
	if cep.Direction() != descriptors.DirectionIn || cep.SyncType != descriptors.SyncAsync {
		t.Errorf("capture endpoint = %v %v", cep.Direction(), cep.SyncType)
	}
	if cep.MaxPacketSize != 96 {
		t.Errorf("capture wMaxPacketSize = %d, want 96", cep.MaxPacketSize)
	}
}

func TestParseUAC2Device(t *testing.T) {
	res := parseFixture(t, "uac2_audio_interface.txt", Options{})
	dev := res.Device

	if dev.Product != "Scarlett 2i2 USB" || dev.SerialNumber != "ABC123XYZ" {
		t.Errorf("device = %q serial %q", dev.Product, dev.SerialNumber)
	}
	if dev.UACVersion() != descriptors.UACVersion2 {
		t.Fatalf("UAC version = %v, want 2.0", dev.UACVersion())
	}

	ac := dev.ActiveConfiguration().AudioControl
	if len(ac.ClockSources) != 1 {
		t.Fatalf("clock sources = %d, want 1", len(ac.ClockSources))
	}
	clk := ac.ClockSources[0]
	if clk.ID != 41 || clk.Name != "Internal Clock" {
		t.Errorf("clock = id %d %q", clk.ID, clk.Name)
	}
	if clk.Type() != descriptors.ClockInternalProgrammable {
		t.Errorf("clock type = %v, want Internal Programmable", clk.Type())
	}

	it := ac.InputTerminals[0]
	if it.ID != 1 || it.ClockSourceID != 41 || it.Channels != 2 {
		t.Errorf("input terminal = id %d clock %d ch %d", it.ID, it.ClockSourceID, it.Channels)
	}
	fu := ac.FeatureUnits[0]
	got := fu.MasterControls(descriptors.UACVersion2)
	if want := []string{"Mute", "Volume"}; !reflect.DeepEqual(got, want) {
		t.Errorf("unit %d master controls = %v, want %v", fu.ID, got, want)
	}

	alt := dev.ActiveConfiguration().Streaming[0].Alternate(1)
	if alt.Format.SubframeSize != 4 || alt.Format.BitResolution != 24 {
		t.Errorf("format = subslot %d bits %d, want 4/24", alt.Format.SubframeSize, alt.Format.BitResolution)
	}
	if alt.Format.Rates.Known() {
		t.Error("2.0 format should carry no inline rate table")
	}
	if alt.Endpoint.SyncType != descriptors.SyncAsync || alt.Endpoint.MaxPacketSize != 392 {
		t.Errorf("endpoint = %v %d bytes", alt.Endpoint.SyncType, alt.Endpoint.MaxPacketSize)
	}

	// bcdDevice in this dump is the hex-tinged "6.0b" lsusb sometimes
	// prints; it must degrade to a warning, not an error.
	var warned bool
	for _, w := range res.Warnings {
		if w.Field == "bcdDevice" {
			warned = true
			if w.Line != 12 {
				t.Errorf("bcdDevice warning on line %d, want 12", w.Line)
			}
		}
	}
	if !warned {
		t.Error("no warning for malformed bcdDevice")
	}
	if dev.DeviceVersion != descriptors.VersionUnknown {
		t.Errorf("device version = 0x%04X, want unknown sentinel", dev.DeviceVersion)
	}
}

func TestParseMultiConfigDevice(t *testing.T) {
	res := parseFixture(t, "multi_config_dongle.txt", Options{})
	dev := res.Device

	if len(dev.Configurations) != 2 {
		t.Fatalf("configurations = %d, want 2", len(dev.Configurations))
	}
	versions := dev.AvailableUACVersions()
	want := []descriptors.UACVersion{descriptors.UACVersion2, descriptors.UACVersion3}
	if !reflect.DeepEqual(versions, want) {
		t.Fatalf("available versions = %v, want %v", versions, want)
	}

	// The highest generation wins by default.
	if dev.UACVersion() != descriptors.UACVersion3 {
		t.Errorf("default version = %v, want 3.0", dev.UACVersion())
	}
	if !dev.UACVersion().Incomplete() {
		t.Error("3.0 support should be flagged incomplete")
	}

	if !dev.SelectConfiguration(descriptors.UACVersion2) {
		t.Fatal("SelectConfiguration(2.0) = false")
	}
	cfg := dev.ActiveConfiguration()
	if cfg.Value != 1 {
		t.Errorf("selected configuration value = %d, want 1", cfg.Value)
	}
	alt := cfg.Streaming[0].Alternate(1)
	if alt.Format.SubframeSize != 3 || alt.Endpoint.MaxPacketSize != 294 {
		t.Errorf("2.0 alternate = subslot %d, %d bytes", alt.Format.SubframeSize, alt.Endpoint.MaxPacketSize)
	}
}

func TestForceVersion(t *testing.T) {
	res := parseFixture(t, "multi_config_dongle.txt", Options{ForceVersion: descriptors.UACVersion2})
	dev := res.Device
	// With detection overridden every configuration reads as 2.0 and the
	// first one is selected.
	if dev.UACVersion() != descriptors.UACVersion2 {
		t.Errorf("forced version = %v, want 2.0", dev.UACVersion())
	}
	if cfg := dev.ActiveConfiguration(); cfg.Value != 1 {
		t.Errorf("active configuration = %d, want 1", cfg.Value)
	}
}

func TestParseNoDeviceDescriptor(t *testing.T) {
	_, err := Parse(strings.NewReader("hello\nworld\n"), Options{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("error line = %d, want 2", pe.Line)
	}
}

func TestMalformedFieldWarnsWithLine(t *testing.T) {
	input := "Device Descriptor:\n" +
		"  bcdUSB               banana\n" +
		"  bNumConfigurations      1\n"
	res, err := Parse(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if res.Device.USBVersion != descriptors.VersionUnknown {
		t.Errorf("USB version = 0x%04X, want unknown sentinel", res.Device.USBVersion)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
	w := res.Warnings[0]
	if w.Line != 2 || w.Field != "bcdUSB" {
		t.Errorf("warning = line %d field %q, want line 2 bcdUSB", w.Line, w.Field)
	}
	if w.Text != "bcdUSB               banana" {
		t.Errorf("warning text = %q, want the offending line", w.Text)
	}
}

func TestCursorTabsAndBlanks(t *testing.T) {
	c, err := newCursor(strings.NewReader("top\n\n\tindented\n"))
	if err != nil {
		t.Fatal(err)
	}
	first := c.advance()
	if first.depth != 0 || first.text != "top" || first.num != 1 {
		t.Errorf("first line = %+v", first)
	}
	second := c.advance()
	if second.depth != 1 || second.text != "indented" || second.num != 3 {
		t.Errorf("second line = %+v", second)
	}
	if !c.atEnd() {
		t.Error("cursor should be at end")
	}
}

func TestSplitField(t *testing.T) {
	cases := []struct {
		in   string
		name string
		rest string
	}{
		{"bcdUSB               1.10", "bcdUSB", "1.10"},
		{"iProduct                2 USB Audio Device", "iProduct", "2 USB Audio Device"},
		{"bmaControls( 0)      0x03", "bmaControls( 0)", "0x03"},
		{"tSamFreq[ 1]        48000", "tSamFreq[ 1]", "48000"},
		{"Remote Wakeup", "Remote", "Wakeup"},
	}
	for _, c := range cases {
		name, rest := splitField(c.in)
		if name != c.name || rest != c.rest {
			t.Errorf("splitField(%q) = %q, %q, want %q, %q", c.in, name, rest, c.name, c.rest)
		}
	}
}

func TestArrayIndex(t *testing.T) {
	cases := []struct {
		in   string
		base string
		idx  int
	}{
		{"baSourceID(1)", "baSourceID", 1},
		{"bmaControls( 0)", "bmaControls", 0},
		{"tSamFreq[ 2]", "tSamFreq", 2},
		{"bNrChannels", "bNrChannels", -1},
	}
	for _, c := range cases {
		base, idx := arrayIndex(c.in)
		if base != c.base || idx != c.idx {
			t.Errorf("arrayIndex(%q) = %q, %d, want %q, %d", c.in, base, idx, c.base, c.idx)
		}
	}
}
