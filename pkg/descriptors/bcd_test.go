package descriptors

import "testing"

func TestParseBCD(t *testing.T) {
	cases := []struct {
		in   string
		want BCD
	}{
		{"1.10", 0x010A},
		{"2.00", 0x0200},
		{"1.00", 0x0100},
		{"3.20", 0x0314},
		{"2.01", 0x0201},
		{" 1.10 ", 0x010A},
	}
	for _, c := range cases {
		got, err := ParseBCD(c.in)
		if err != nil {
			t.Errorf("ParseBCD(%q) returned error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseBCD(%q) = 0x%04X, want 0x%04X", c.in, got, c.want)
		}
	}
}

func TestParseBCDMalformed(t *testing.T) {
	for _, in := range []string{"", "2", "2.", ".10", "2.0.0", "a.b", "123.00", "2.001"} {
		got, err := ParseBCD(in)
		if err == nil {
			t.Errorf("ParseBCD(%q) = 0x%04X, want error", in, got)
		}
		if got != VersionUnknown {
			t.Errorf("ParseBCD(%q) = 0x%04X on error, want VersionUnknown", in, got)
		}
	}
}

func TestBCDRoundTrip(t *testing.T) {
	for major := 0; major <= 99; major++ {
		for minor := 0; minor <= 99; minor += 7 {
			bcd := BCD(major<<8 | minor)
			back, err := ParseBCD(bcd.String())
			if err != nil {
				t.Fatalf("ParseBCD(%q) returned error: %v", bcd.String(), err)
			}
			if back != bcd {
				t.Fatalf("round trip of 0x%04X via %q = 0x%04X", bcd, bcd.String(), back)
			}
		}
	}
}

func TestBCDString(t *testing.T) {
	if s := BCD(0x010A).String(); s != "1.10" {
		t.Errorf("BCD(0x010A).String() = %q, want \"1.10\"", s)
	}
	if s := BCD(0x0200).String(); s != "2.00" {
		t.Errorf("BCD(0x0200).String() = %q, want \"2.00\"", s)
	}
	if s := VersionUnknown.String(); s != "unknown" {
		t.Errorf("VersionUnknown.String() = %q, want \"unknown\"", s)
	}
}

func TestUACVersionFromBCD(t *testing.T) {
	cases := []struct {
		bcd  BCD
		want UACVersion
	}{
		{0x0100, UACVersion1},
		{0x010A, UACVersion1},
		{0x0200, UACVersion2},
		{0x0220, UACVersion2},
		{0x0300, UACVersion3},
		{VersionUnknown, UACVersionUnknown},
	}
	for _, c := range cases {
		if got := UACVersionFromBCD(c.bcd); got != c.want {
			t.Errorf("UACVersionFromBCD(0x%04X) = %v, want %v", c.bcd, got, c.want)
		}
	}
	if !UACVersion3.Incomplete() {
		t.Error("UACVersion3.Incomplete() = false, want true")
	}
	if UACVersion2.Incomplete() {
		t.Error("UACVersion2.Incomplete() = true, want false")
	}
}
