package tools

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/ctagard/adb-mcp/internal/adb/adbtest"
	"github.com/ctagard/adb-mcp/internal/output"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestTakeScreenshot(t *testing.T) {
	dev := adbtest.NewDevice("A").Produce("screencap -p", pngBytes)
	f := newFixture(t, dev)

	got := f.ts.TakeScreenshot(context.Background(), "")
	mime, data, err := output.DecodeDataURI(got)
	if err != nil {
		t.Fatalf("expected data URI, got %q: %v", got, err)
	}
	if mime != "image/png" || string(data) != string(pngBytes) {
		t.Errorf("unexpected payload %s %v", mime, data)
	}
	f.assertNoLocalTemp(t)
	assertNoRemoteArtifacts(t, dev)
}

func TestTakeScreenshot_PullFailure(t *testing.T) {
	dev := adbtest.NewDevice("A").Produce("screencap -p", pngBytes)
	dev.ReadErr = stderrors.New("sync: connection reset")
	f := newFixture(t, dev)

	got := f.ts.TakeScreenshot(context.Background(), "")
	if !strings.HasPrefix(got, "Screenshot failed: ") {
		t.Fatalf("expected failure label, got %q", got)
	}
	if !strings.Contains(got, "connection reset") {
		t.Errorf("expected cause in message, got %q", got)
	}
	f.assertNoLocalTemp(t)
	assertNoRemoteArtifacts(t, dev)
}

func TestTakeScreenshot_UniqueRemotePaths(t *testing.T) {
	dev := adbtest.NewDevice("A").Produce("screencap -p", pngBytes)
	f := newFixture(t, dev)

	f.ts.TakeScreenshot(context.Background(), "")
	f.ts.TakeScreenshot(context.Background(), "")

	var paths []string
	for _, c := range dev.Commands() {
		if strings.HasPrefix(c, "screencap -p ") {
			paths = append(paths, strings.TrimPrefix(c, "screencap -p "))
		}
	}
	if len(paths) != 2 || paths[0] == paths[1] {
		t.Errorf("expected two distinct staging paths, got %v", paths)
	}
}

func TestRecordScreen_WaitsFullDuration(t *testing.T) {
	dev := adbtest.NewDevice("A").Produce("screenrecord", []byte("mp4data"))
	f := newFixture(t, dev)

	got := f.ts.RecordScreen(context.Background(), "", 5)
	mime, data, err := output.DecodeDataURI(got)
	if err != nil {
		t.Fatalf("expected data URI, got %q: %v", got, err)
	}
	if mime != "video/mp4" || string(data) != "mp4data" {
		t.Errorf("unexpected payload %s %q", mime, data)
	}
	if !dev.Ran("screenrecord --time-limit 5 ") {
		t.Errorf("expected time limit 5, got %v", dev.Commands())
	}
	if w := f.sleeps.total(); w < 5*time.Second || w > 6*time.Second {
		t.Errorf("expected a wait of up to 6s after an instant recording, got %v", w)
	}
	f.assertNoLocalTemp(t)
	assertNoRemoteArtifacts(t, dev)
}

func TestTakeScreenRecording_InvalidDuration(t *testing.T) {
	dev := adbtest.NewDevice("A")
	f := newFixture(t, dev)

	for _, d := range []int{0, -1, 181} {
		got := f.ts.TakeScreenRecording(context.Background(), "", d)
		if !strings.HasPrefix(got, "Screen video recording failed: ") {
			t.Errorf("duration %d: expected failure, got %q", d, got)
		}
	}
	if dev.Ran("screenrecord") {
		t.Error("invalid durations must not start a recording")
	}
}
