package uac

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
	"github.com/ford-prefect/uac-analyzer/pkg/topology"
)

func analyzeFixture(t *testing.T, name string, opts Options) *Analysis {
	t.Helper()
	f, err := os.Open(filepath.Join("pkg", "lsusb", "testdata", name))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	a, err := Analyze(f, opts)
	if err != nil {
		t.Fatalf("Analyze(%s) returned error: %v", name, err)
	}
	return a
}

func countPaths(a *Analysis, kind topology.PathKind) int {
	n := 0
	for _, p := range a.Graph.Paths() {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func TestAnalyzeUAC1EndToEnd(t *testing.T) {
	a := analyzeFixture(t, "uac1_stereo_headset.txt", Options{})

	if a.Device.UACVersion() != descriptors.UACVersion1 {
		t.Fatalf("version = %v, want 1.0", a.Device.UACVersion())
	}
	if got := countPaths(a, topology.PathPlayback); got != 1 {
		t.Errorf("playback paths = %d, want 1", got)
	}
	if got := countPaths(a, topology.PathCapture); got != 1 {
		t.Errorf("capture paths = %d, want 1", got)
	}
	if len(a.Graph.Dangling) != 0 {
		t.Errorf("dangling refs = %v, want none", a.Graph.Dangling)
	}

	// Stereo out, mono in, same rates: playback needs twice the bytes.
	bw := a.Bandwidth
	if !bw.PlaybackMaxPayloadKnown || bw.PlaybackMaxPayload != 192000 {
		t.Errorf("playback payload = %d (known %v), want 192000",
			bw.PlaybackMaxPayload, bw.PlaybackMaxPayloadKnown)
	}
	if !bw.CaptureMaxPayloadKnown || bw.CaptureMaxPayload != 96000 {
		t.Errorf("capture payload = %d (known %v), want 96000",
			bw.CaptureMaxPayload, bw.CaptureMaxPayloadKnown)
	}
	if bw.PlaybackMaxPayload < bw.CaptureMaxPayload {
		t.Error("playback max below capture max")
	}
	if !bw.TotalMaxPayloadKnown || bw.TotalMaxPayload != 288000 {
		t.Errorf("total payload = %d (known %v), want 288000",
			bw.TotalMaxPayload, bw.TotalMaxPayloadKnown)
	}
	if len(a.Warnings) != 0 {
		t.Errorf("warnings = %v, want none for a clean dump", a.Warnings)
	}
}

func TestAnalyzeUAC2EndToEnd(t *testing.T) {
	a := analyzeFixture(t, "uac2_audio_interface.txt", Options{})

	if a.Device.UACVersion() != descriptors.UACVersion2 {
		t.Fatalf("version = %v, want 2.0", a.Device.UACVersion())
	}
	if got := countPaths(a, topology.PathPlayback); got != 1 {
		t.Errorf("playback paths = %d, want 1", got)
	}
	if got := countPaths(a, topology.PathCapture); got != 1 {
		t.Errorf("capture paths = %d, want 1", got)
	}
	if n := len(a.Graph.ClockEdges()); n != 4 {
		t.Errorf("clock edges = %d, want 4", n)
	}

	// No rate tables in a 2.0 dump: payload stays unknown, but the bus
	// reservation still orders playback against capture.
	bw := a.Bandwidth
	if bw.PlaybackMaxPayloadKnown || bw.CaptureMaxPayloadKnown {
		t.Error("payload reported despite missing rate tables")
	}
	if bw.PlaybackMaxReserved == 0 {
		t.Fatal("no playback reservation computed")
	}
	if bw.PlaybackMaxReserved < bw.CaptureMaxReserved {
		t.Errorf("playback reservation %d below capture %d",
			bw.PlaybackMaxReserved, bw.CaptureMaxReserved)
	}

	kinds := map[WarningKind]int{}
	for _, w := range a.Warnings {
		kinds[w.Kind]++
	}
	if kinds[WarningField] == 0 {
		t.Error("expected a field warning for the malformed bcdDevice")
	}
	if kinds[WarningAnalysisGap] != 2 {
		t.Errorf("analysis gaps = %d, want 2 (one per direction)", kinds[WarningAnalysisGap])
	}
}

func TestAnalyzeHeadsetDongleEndToEnd(t *testing.T) {
	a := analyzeFixture(t, "uac2_headset_dongle.txt", Options{})

	if a.Device.UACVersion() != descriptors.UACVersion2 {
		t.Fatalf("version = %v, want 2.0", a.Device.UACVersion())
	}
	if n := len(a.Graph.Nodes); n != 9 {
		t.Fatalf("nodes = %d, want 9", n)
	}

	playback := a.Graph.PathsOfKind(topology.PathPlayback)
	if len(playback) != 1 {
		t.Fatalf("playback paths = %d, want 1", len(playback))
	}
	wantPlayback := []uint8{1, 8, 10, 20}
	if got := playback[0].IDs; len(got) != len(wantPlayback) {
		t.Errorf("playback path = %v, want %v", got, wantPlayback)
	} else {
		for i := range got {
			if got[i] != wantPlayback[i] {
				t.Errorf("playback path = %v, want %v", got, wantPlayback)
				break
			}
		}
	}

	capture := a.Graph.PathsOfKind(topology.PathCapture)
	if len(capture) != 1 {
		t.Fatalf("capture paths = %d, want 1", len(capture))
	}
	wantCapture := []uint8{2, 11, 22}
	if got := capture[0].IDs; len(got) != len(wantCapture) {
		t.Errorf("capture path = %v, want %v", got, wantCapture)
	} else {
		for i := range got {
			if got[i] != wantCapture[i] {
				t.Errorf("capture path = %v, want %v", got, wantCapture)
				break
			}
		}
	}

	if n := len(a.Graph.ClockEdges()); n != 4 {
		t.Errorf("clock edges = %d, want 4", n)
	}

	bw := a.Bandwidth
	if len(bw.Interfaces) != 2 {
		t.Fatalf("bandwidth interfaces = %d, want 2", len(bw.Interfaces))
	}
	for _, si := range bw.Interfaces {
		if len(si.Entries) != 2 {
			t.Errorf("interface %d alternates = %d, want 2", si.Number, len(si.Entries))
		}
	}

	// bInterval 4 at high speed packs to 1000 packets per second, so the
	// reservation is just the max packet size scaled by 1000.
	if bw.PlaybackMaxReserved != 288000 {
		t.Errorf("playback reservation = %d, want 288000", bw.PlaybackMaxReserved)
	}
	if bw.CaptureMaxReserved != 144000 {
		t.Errorf("capture reservation = %d, want 144000", bw.CaptureMaxReserved)
	}
	if bw.TotalMaxReserved != 432000 {
		t.Errorf("total reservation = %d, want 432000", bw.TotalMaxReserved)
	}
	if bw.PlaybackMaxPayloadKnown || bw.CaptureMaxPayloadKnown {
		t.Error("payload reported despite missing rate tables")
	}
	if n := len(bw.Gaps); n != 4 {
		t.Errorf("analysis gaps = %d, want 4 (one per operational alternate)", n)
	}
}

func TestAnalyzeSelectVersion(t *testing.T) {
	a := analyzeFixture(t, "multi_config_dongle.txt", Options{})
	if a.Device.UACVersion() != descriptors.UACVersion3 {
		t.Fatalf("default version = %v, want 3.0", a.Device.UACVersion())
	}
	// The 3.0 configuration has no operational alternates.
	if len(a.Bandwidth.Interfaces) != 0 {
		t.Errorf("3.0 bandwidth entries = %v, want none", a.Bandwidth.Interfaces)
	}

	if !a.SelectVersion(descriptors.UACVersion2) {
		t.Fatal("SelectVersion(2.0) = false")
	}
	if len(a.Bandwidth.Interfaces) != 1 {
		t.Fatalf("2.0 bandwidth interfaces = %d, want 1", len(a.Bandwidth.Interfaces))
	}
	if a.SelectVersion(descriptors.UACVersion1) {
		t.Error("SelectVersion(1.0) = true for a 2.0/3.0 device")
	}
}
