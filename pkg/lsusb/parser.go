// Package lsusb parses the text produced by `lsusb -v` into the typed
// descriptor model. It never talks to hardware; the input is a captured dump
// read from a file or a pipe.
package lsusb

import (
	"io"
	"strconv"
	"strings"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// Options tune a parse run.
type Options struct {
	// ForceVersion overrides bcdADC-based generation detection for every
	// configuration in the dump. Leave as UACVersionUnknown to autodetect.
	ForceVersion descriptors.UACVersion
}

// Result is a parsed device together with the non-fatal warnings collected
// along the way.
type Result struct {
	Device   *descriptors.Device
	Warnings []Warning
}

// Parse reads one device dump. Dumps holding several devices are parsed up
// to the end of the first one. The returned error is a *ParseError when the
// input has no usable structure; decoding problems inside an otherwise valid
// dump come back as warnings instead.
func Parse(r io.Reader, opts Options) (*Result, error) {
	cur, err := newCursor(r)
	if err != nil {
		return nil, err
	}
	p := &parser{cur: cur, opts: opts}
	dev, err := p.parseDevice()
	if err != nil {
		return nil, err
	}
	dev.SelectDefaultConfiguration()
	if opts.ForceVersion != descriptors.UACVersionUnknown {
		dev.SelectConfiguration(opts.ForceVersion)
	}
	return &Result{Device: dev, Warnings: p.warnings}, nil
}

type parser struct {
	cur      *cursor
	opts     Options
	warnings []Warning

	// UAC generation of the configuration being parsed, from its audio
	// control header or the ForceVersion override.
	version descriptors.UACVersion
}

// Section headers that open an indented descriptor block.
const (
	secDevice      = "Device Descriptor:"
	secConfig      = "Configuration Descriptor:"
	secAssociation = "Interface Association:"
	secInterface   = "Interface Descriptor:"
	secAudioCtrl   = "AudioControl Interface Descriptor:"
	secAudioStream = "AudioStreaming Interface Descriptor:"
	secEndpoint    = "Endpoint Descriptor:"
	secCSEndpoint  = "AudioStreaming Endpoint Descriptor:"
	secCCEndpoint  = "AudioControl Endpoint Descriptor:"
)

func isSectionHeader(text string) bool {
	switch text {
	case secDevice, secConfig, secAssociation, secInterface,
		secAudioCtrl, secAudioStream, secEndpoint, secCSEndpoint, secCCEndpoint:
		return true
	}
	return strings.HasSuffix(text, "Descriptor:")
}

// parseDevice locates the first Device Descriptor block and consumes it along
// with the ID banner line that lsusb prints above it.
func (p *parser) parseDevice() (*descriptors.Device, error) {
	dev := &descriptors.Device{}
	lastLine := 0
	for !p.cur.atEnd() {
		ln := p.cur.peek()
		lastLine = ln.num
		if ln.text == secDevice {
			break
		}
		if strings.HasPrefix(ln.text, "Bus ") {
			p.parseBanner(dev, ln)
		}
		p.cur.advance()
	}
	if p.cur.atEnd() {
		return nil, &ParseError{Line: lastLine, Reason: "no device descriptor found"}
	}

	header := p.cur.advance()
	fs := p.collectBlock(header.depth)
	dev.USBVersion = fs.bcd("bcdUSB")
	dev.DeviceVersion = fs.bcd("bcdDevice")
	dev.DeviceClass = fs.uint8("bDeviceClass")
	dev.DeviceSubclass = fs.uint8("bDeviceSubClass")
	dev.DeviceProtocol = fs.uint8("bDeviceProtocol")
	dev.MaxPacketSize0 = fs.uint8("bMaxPacketSize0")
	dev.NumConfigurations = fs.uint8("bNumConfigurations")
	if fs.has("idVendor") {
		dev.VendorID = fs.uint16("idVendor")
	}
	if fs.has("idProduct") {
		dev.ProductID = fs.uint16("idProduct")
	}
	if s := fs.str("iManufacturer"); s != "" {
		dev.Manufacturer = s
	}
	if s := fs.str("iProduct"); s != "" {
		dev.Product = s
	}
	if s := fs.str("iSerial"); s != "" {
		dev.SerialNumber = s
	}

	// Configuration blocks are nested inside the device block.
	for !p.cur.atEnd() {
		ln := p.cur.peek()
		if ln.depth <= header.depth && ln.text != secConfig {
			break
		}
		start := p.cur.mark()
		switch ln.text {
		case secConfig:
			cfg, err := p.parseConfiguration()
			if err != nil {
				return nil, err
			}
			dev.Configurations = append(dev.Configurations, cfg)
		case secDevice:
			// Next device in a multi-device dump.
			return dev, nil
		default:
			p.cur.advance()
		}
		if p.cur.mark() == start {
			return nil, &ParseError{Line: ln.num, Text: ln.text, Reason: "parser made no progress"}
		}
	}
	return dev, nil
}

// parseBanner extracts the vendor:product pair and device name from the
// "Bus 001 Device 004: ID 0d8c:0014 ..." line. Descriptor fields parsed
// later take precedence; the banner only seeds defaults.
func (p *parser) parseBanner(dev *descriptors.Device, ln line) {
	_, after, ok := strings.Cut(ln.text, " ID ")
	if !ok {
		return
	}
	ids, name, _ := strings.Cut(after, " ")
	vendor, product, ok := strings.Cut(ids, ":")
	if !ok {
		p.warnf(ln, "ID", "unreadable vendor:product pair %q", ids)
		return
	}
	v, err1 := strconv.ParseUint(vendor, 16, 16)
	pr, err2 := strconv.ParseUint(product, 16, 16)
	if err1 != nil || err2 != nil {
		p.warnf(ln, "ID", "unreadable vendor:product pair %q", ids)
		return
	}
	dev.VendorID = uint16(v)
	dev.ProductID = uint16(pr)
	if dev.Product == "" {
		dev.Product = strings.TrimSpace(name)
	}
}

// parsedInterface carries the class-specific streaming descriptors found
// inside one interface alternate, pending assembly.
type parsedInterface struct {
	iface   *descriptors.Interface
	general *descriptors.ASGeneral
	format  *descriptors.FormatType
}

func (p *parser) parseConfiguration() (*descriptors.Configuration, error) {
	header := p.cur.advance()
	fs := p.collectBlock(header.depth)

	cfg := &descriptors.Configuration{
		Value:         fs.uint8("bConfigurationValue"),
		NumInterfaces: fs.uint8("bNumInterfaces"),
		Name:          fs.str("iConfiguration"),
		Attributes:    fs.uint8("bmAttributes"),
	}
	if it, ok := fs.find("MaxPower"); ok {
		cfg.MaxPowerMA = parseMaxPower(it.rest)
	}

	// Generation context resets per configuration; multi-configuration
	// devices advertise a different generation in each one.
	p.version = p.opts.ForceVersion
	ac := &descriptors.ControlInterface{}
	var parsed []parsedInterface

	for !p.cur.atEnd() {
		ln := p.cur.peek()
		if ln.depth <= header.depth {
			break
		}
		start := p.cur.mark()
		switch ln.text {
		case secInterface:
			pi, err := p.parseInterface(ac)
			if err != nil {
				return nil, err
			}
			cfg.Interfaces = append(cfg.Interfaces, pi.iface)
			parsed = append(parsed, pi)
		case secAssociation:
			p.cur.advance()
			p.collectBlock(ln.depth)
		default:
			p.cur.advance()
		}
		if p.cur.mark() == start {
			return nil, &ParseError{Line: ln.num, Text: ln.text, Reason: "parser made no progress"}
		}
	}

	if ac.Header != nil {
		cfg.AudioControl = ac
	}
	p.assembleStreaming(cfg, parsed)
	return cfg, nil
}

// parseMaxPower reads the "100mA" value column.
func parseMaxPower(rest string) int {
	tok, _ := firstToken(rest)
	tok = strings.TrimSuffix(tok, "mA")
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0
	}
	return n
}

func (p *parser) parseInterface(ac *descriptors.ControlInterface) (parsedInterface, error) {
	header := p.cur.advance()
	fs := p.collectBlock(header.depth)

	pi := parsedInterface{iface: &descriptors.Interface{
		Number:           fs.uint8("bInterfaceNumber"),
		AlternateSetting: fs.uint8("bAlternateSetting"),
		NumEndpoints:     fs.uint8("bNumEndpoints"),
		Class:            fs.uint8("bInterfaceClass"),
		Subclass:         fs.uint8("bInterfaceSubClass"),
		Protocol:         fs.uint8("bInterfaceProtocol"),
		Name:             fs.str("iInterface"),
	}}

	for !p.cur.atEnd() {
		ln := p.cur.peek()
		if ln.depth <= header.depth {
			break
		}
		start := p.cur.mark()
		switch ln.text {
		case secAudioCtrl:
			p.cur.advance()
			p.parseAudioControl(ac, p.collectBlock(ln.depth))
		case secAudioStream:
			p.cur.advance()
			p.parseAudioStreaming(&pi, p.collectBlock(ln.depth))
		case secEndpoint:
			ep, err := p.parseEndpoint()
			if err != nil {
				return pi, err
			}
			pi.iface.Endpoints = append(pi.iface.Endpoints, ep)
		default:
			p.cur.advance()
		}
		if p.cur.mark() == start {
			return pi, &ParseError{Line: ln.num, Text: ln.text, Reason: "parser made no progress"}
		}
	}
	return pi, nil
}

func (p *parser) parseEndpoint() (*descriptors.Endpoint, error) {
	header := p.cur.advance()
	fs := p.collectBlock(header.depth)

	attrs := fs.uint8("bmAttributes")
	ep := &descriptors.Endpoint{
		Address:       fs.uint8("bEndpointAddress"),
		TransferType:  descriptors.TransferType(attrs & 0x03),
		MaxPacketSize: fs.uint16("wMaxPacketSize") & 0x07FF,
		Interval:      fs.uint8("bInterval"),
		Refresh:       fs.uint8("bRefresh"),
		SynchAddress:  fs.uint8("bSynchAddress"),
	}
	if ep.TransferType == descriptors.TransferIsochronous {
		ep.SyncType = descriptors.SyncType(attrs >> 2 & 0x03)
		ep.UsageType = descriptors.UsageType(attrs >> 4 & 0x03)
	}

	// The class-specific audio endpoint descriptor nests inside the block.
	for !p.cur.atEnd() {
		ln := p.cur.peek()
		if ln.depth <= header.depth {
			break
		}
		if ln.text != secCSEndpoint && ln.text != secCCEndpoint {
			p.cur.advance()
			continue
		}
		p.cur.advance()
		cs := p.collectBlock(ln.depth)
		csAttrs := cs.uint8("bmAttributes")
		ep.MaxPacketsOnly = csAttrs&0x80 != 0
		ep.LockDelayUnits = cs.uint8("bLockDelayUnits")
		ep.LockDelay = cs.uint16("wLockDelay")
	}
	return ep, nil
}

// assembleStreaming groups the configuration's AudioStreaming alternates by
// interface number and pairs each with its data endpoint.
func (p *parser) assembleStreaming(cfg *descriptors.Configuration, parsed []parsedInterface) {
	byNumber := make(map[uint8]*descriptors.StreamingInterface)
	for _, pi := range parsed {
		if !pi.iface.IsAudioStreaming() {
			continue
		}
		si := byNumber[pi.iface.Number]
		if si == nil {
			si = &descriptors.StreamingInterface{Number: pi.iface.Number}
			byNumber[pi.iface.Number] = si
			cfg.Streaming = append(cfg.Streaming, si)
		}
		alt := &descriptors.AlternateSetting{
			InterfaceNumber: pi.iface.Number,
			Setting:         pi.iface.AlternateSetting,
			General:         pi.general,
			Format:          pi.format,
			Endpoint:        dataEndpoint(pi.iface.Endpoints),
			Interface:       pi.iface,
		}
		si.Alternates = append(si.Alternates, alt)
		cfg.Alternates = append(cfg.Alternates, alt)
	}
}

// dataEndpoint picks the endpoint that carries the audio samples: the first
// isochronous endpoint with Data usage, then any isochronous endpoint, then
// whatever is left. Feedback endpoints never win over a data endpoint.
func dataEndpoint(eps []*descriptors.Endpoint) *descriptors.Endpoint {
	for _, ep := range eps {
		if ep.TransferType == descriptors.TransferIsochronous && ep.UsageType == descriptors.UsageData {
			return ep
		}
	}
	for _, ep := range eps {
		if ep.TransferType == descriptors.TransferIsochronous {
			return ep
		}
	}
	if len(eps) > 0 {
		return eps[0]
	}
	return nil
}
