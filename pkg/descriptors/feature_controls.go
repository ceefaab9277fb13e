package descriptors

import "fmt"

// Feature unit control names, indexed by bit position (UAC 1.0) or control
// pair position (UAC 2.0).
var featureControlNames = []string{
	"Mute",
	"Volume",
	"Bass",
	"Mid",
	"Treble",
	"Graphic Equalizer",
	"Automatic Gain",
	"Delay",
	"Bass Boost",
	"Loudness",
	"Input Gain",
	"Input Gain Pad",
	"Phase Inverter",
	"Underflow",
	"Overflow",
}

func featureControlName(pos int) string {
	if pos < len(featureControlNames) {
		return featureControlNames[pos]
	}
	return fmt.Sprintf("Unknown Control %d", pos)
}

// DecodeControls lists the controls present in the bitmap for the given
// channel index. UAC 1.0 bitmaps carry one bit per control; UAC 2.0 bitmaps
// carry two (read/write state), and a control is present when either bit of
// its pair is set. Bits beyond the named catalogue are reported as
// "Unknown Control N" rather than dropped.
func (u *FeatureUnit) DecodeControls(channel int, version UACVersion) []string {
	if channel < 0 || channel >= len(u.Controls) {
		return nil
	}
	bitmap := u.Controls[channel]
	var names []string
	if version >= UACVersion2 {
		for pos := 0; pos < 16; pos++ {
			if bitmap>>(2*pos)&0x03 != 0 {
				names = append(names, featureControlName(pos))
			}
		}
		return names
	}
	for pos := 0; pos < 32; pos++ {
		if bitmap>>pos&1 != 0 {
			names = append(names, featureControlName(pos))
		}
	}
	return names
}

// MasterControls lists the controls on the master channel.
func (u *FeatureUnit) MasterControls(version UACVersion) []string {
	return u.DecodeControls(0, version)
}
