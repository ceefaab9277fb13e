package descriptors

import (
	"fmt"
	"strconv"
	"strings"
)

// BCD is a binary-coded-decimal version number as printed by lsusb:
// the major part in the upper byte, the minor part in the lower byte.
// "2.01" packs to 0x0201.
type BCD uint16

// VersionUnknown is the sentinel for version fields that failed to parse.
const VersionUnknown BCD = 0xFFFF

// ParseBCD converts a dotted version string such as "1.10" or "2.00" to its
// packed form. Each part must be a 1-2 digit decimal number.
func ParseBCD(s string) (BCD, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return VersionUnknown, fmt.Errorf("malformed version %q: missing dot", s)
	}
	hi, err := parseVersionPart(major)
	if err != nil {
		return VersionUnknown, fmt.Errorf("malformed version %q: %w", s, err)
	}
	lo, err := parseVersionPart(minor)
	if err != nil {
		return VersionUnknown, fmt.Errorf("malformed version %q: %w", s, err)
	}
	return BCD(hi<<8 | lo), nil
}

func parseVersionPart(part string) (uint16, error) {
	if len(part) == 0 || len(part) > 2 {
		return 0, fmt.Errorf("part %q is not a 1-2 digit number", part)
	}
	n, err := strconv.ParseUint(part, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("part %q is not a 1-2 digit number", part)
	}
	return uint16(n), nil
}

// Major returns the upper byte of the packed version.
func (b BCD) Major() int { return int(b >> 8) }

// Minor returns the lower byte of the packed version.
func (b BCD) Minor() int { return int(b & 0xFF) }

func (b BCD) String() string {
	if b == VersionUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d.%02d", b.Major(), b.Minor())
}
