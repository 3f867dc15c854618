package tools

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/adb/adbtest"
	"github.com/ctagard/adb-mcp/internal/config"
)

func pixel(serial string) *adbtest.FakeDevice {
	return adbtest.NewDevice(serial).
		On("getprop ro.product.model", "Pixel 7\n").
		On("getprop ro.build.version.release", "14\n")
}

func TestListDevices(t *testing.T) {
	broken := adbtest.NewDevice("B").Fail("getprop", stderrors.New("device offline"))
	f := newFixture(t, pixel("A"), broken)

	got := f.ts.ListDevices(context.Background())
	entries := strings.Split(got, "\n\n")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %q", got)
	}
	if entries[0] != "Device ID: A\nModel: Pixel 7\nAndroid version: 14" {
		t.Errorf("unexpected entry %q", entries[0])
	}
	if !strings.HasPrefix(entries[1], "Device ID: B\nError reading details:") {
		t.Errorf("expected inline error for B, got %q", entries[1])
	}
}

func TestListDevices_Empty(t *testing.T) {
	f := newFixture(t)
	if got := f.ts.ListDevices(context.Background()); got != NoDevicesMessage {
		t.Errorf("expected %q, got %q", NoDevicesMessage, got)
	}
}

type panickingBridge struct{}

func (panickingBridge) ListDevices(context.Context) ([]adb.Device, error) {
	panic("bridge exploded")
}

func TestListDevices_PanicRendered(t *testing.T) {
	ts := New(adb.NewResolver(panickingBridge{}), config.DefaultConfig(), zerolog.Nop())

	var got string
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped: %v", r)
			}
		}()
		got = ts.ListDevices(context.Background())
	}()

	if got != "Failed to list devices: internal error: bridge exploded" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestListDevices_BridgeError(t *testing.T) {
	f := newFixture(t)
	f.bridge.SetError(stderrors.New("connection refused"))

	if got := f.ts.ListDevices(context.Background()); got != "Failed to list devices: connection refused" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestGetDeviceInfo(t *testing.T) {
	dev := pixel("A").
		On("getprop ro.product.brand", "google\n").
		Fail("getprop ro.kernel.version", stderrors.New("closed")).
		On("wm size", "Physical size: 1080x2400\n").
		On("dumpsys battery | grep level", "  level: 87\n")
	f := newFixture(t, dev)

	got := f.ts.GetDeviceInfo(context.Background(), "")
	for _, want := range []string{
		"Model: Pixel 7",
		"Brand: google",
		"Android version: 14",
		"Kernel version: unavailable",
		"Screen size: Physical size: 1080x2400",
		"Battery: level: 87",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if n := len(strings.Split(got, "\n")); n != len(deviceProps)+2 {
		t.Errorf("expected %d lines, got %d", len(deviceProps)+2, n)
	}
}

func TestGetScreenResolution(t *testing.T) {
	f := newFixture(t, adbtest.NewDevice("A").On("wm size", "Physical size: 1080x2400\n"))
	if got := f.ts.GetScreenResolution(context.Background(), ""); got != "Screen resolution: Physical size: 1080x2400" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestListInstalledPackages(t *testing.T) {
	f := newFixture(t, adbtest.NewDevice("A").On("pm list packages", "package:com.android.settings\npackage:com.example.app\n\n"))

	got := f.ts.ListInstalledPackages(context.Background(), "")
	if got != "com.android.settings\ncom.example.app" {
		t.Errorf("unexpected packages %q", got)
	}
}

func TestGetCurrentActivity(t *testing.T) {
	dev := adbtest.NewDevice("A").On("dumpsys window windows", "  mCurrentFocus=Window{abc u0 com.example/.Main}\n")
	f := newFixture(t, dev)

	got := f.ts.GetCurrentActivity(context.Background(), "")
	if got != "mCurrentFocus=Window{abc u0 com.example/.Main}" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestRebootDevice(t *testing.T) {
	dev := adbtest.NewDevice("A")
	f := newFixture(t, dev)

	if got := f.ts.RebootDevice(context.Background(), ""); got != "Device is rebooting..." {
		t.Errorf("unexpected result %q", got)
	}
	if !dev.Ran("reboot") {
		t.Error("expected reboot command")
	}
}
