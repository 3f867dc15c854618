package adb_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/adb/adbtest"
	"github.com/ctagard/adb-mcp/internal/errors"
)

func newExecutor(t *testing.T, dev *adbtest.FakeDevice) (*adb.Executor, string) {
	t.Helper()
	tmp := t.TempDir()
	return adb.NewExecutor(dev, adb.ExecutorOptions{
		LocalTempDir: tmp,
		Logger:       zerolog.Nop(),
	}), tmp
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected %s to be empty, found %d entries (first: %s)", dir, len(entries), entries[0].Name())
	}
}

// TestExecutor_Shell verifies stdout is returned and the command recorded.
func TestExecutor_Shell(t *testing.T) {
	dev := adbtest.NewDevice("A").On("wm size", "Physical size: 1080x2400\n")
	ex, _ := newExecutor(t, dev)

	out, err := ex.Shell(context.Background(), "wm size")
	if err != nil {
		t.Fatalf("Shell failed: %v", err)
	}
	if out != "Physical size: 1080x2400\n" {
		t.Errorf("unexpected output %q", out)
	}
	if !dev.Ran("wm size") {
		t.Error("expected command to be recorded")
	}
}

// TestExecutor_ShellTransportFailure verifies transport errors become DEVICE_COMMAND_FAILED.
func TestExecutor_ShellTransportFailure(t *testing.T) {
	dev := adbtest.NewDevice("A").Fail("reboot", stderrors.New("device offline"))
	ex, _ := newExecutor(t, dev)

	_, err := ex.Shell(context.Background(), "reboot")
	if !errors.Is(err, errors.CodeDeviceCommandFailed) {
		t.Fatalf("expected DEVICE_COMMAND_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "device offline") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

// TestExecutor_ShellCanceled verifies a done context is reported as canceled.
func TestExecutor_ShellCanceled(t *testing.T) {
	ex, _ := newExecutor(t, adbtest.NewDevice("A"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ex.Shell(ctx, "input tap 1 1")
	if !errors.Is(err, errors.CodeCanceled) {
		t.Errorf("expected CANCELED, got %v", err)
	}
}

// TestExecutor_ShellTimeout verifies the per-command timeout bounds slow commands.
func TestExecutor_ShellTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	slow := &blockingDevice{FakeDevice: adbtest.NewDevice("A"), release: release}
	ex := adb.NewExecutor(slow, adb.ExecutorOptions{Timeout: 20 * time.Millisecond, Logger: zerolog.Nop()})

	start := time.Now()
	_, err := ex.Shell(context.Background(), "bugreport")
	if !errors.Is(err, errors.CodeDeviceCommandFailed) {
		t.Fatalf("expected DEVICE_COMMAND_FAILED on timeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout did not bound the call")
	}
}

type blockingDevice struct {
	*adbtest.FakeDevice
	release chan struct{}
}

func (d *blockingDevice) RunCommand(cmd string) (string, error) {
	<-d.release
	return "", nil
}

// TestExecutor_PullBytesCleansUp verifies the staged local file is removed after success.
func TestExecutor_PullBytesCleansUp(t *testing.T) {
	dev := adbtest.NewDevice("A")
	dev.SetFile("/sdcard/shot.png", []byte{0x89, 'P', 'N', 'G'})
	ex, tmp := newExecutor(t, dev)

	data, err := ex.PullBytes(context.Background(), "/sdcard/shot.png", ".png")
	if err != nil {
		t.Fatalf("PullBytes failed: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Errorf("unexpected data %q", data)
	}
	assertDirEmpty(t, tmp)
}

// TestExecutor_PullBytesFailureCleansUp verifies the staged local file is removed after a failed pull.
func TestExecutor_PullBytesFailureCleansUp(t *testing.T) {
	dev := adbtest.NewDevice("A")
	ex, tmp := newExecutor(t, dev)

	_, err := ex.PullBytes(context.Background(), "/sdcard/missing.png", ".png")
	if !errors.Is(err, errors.CodeTransferFailed) {
		t.Fatalf("expected TRANSFER_FAILED, got %v", err)
	}
	assertDirEmpty(t, tmp)
}

// TestExecutor_PullToLocalPath verifies a pull writes the requested local file.
func TestExecutor_PullToLocalPath(t *testing.T) {
	dev := adbtest.NewDevice("A")
	dev.SetFile("/sdcard/notes.txt", []byte("hello"))
	ex, _ := newExecutor(t, dev)

	local := filepath.Join(t.TempDir(), "notes.txt")
	if err := ex.Pull(context.Background(), "/sdcard/notes.txt", local); err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}
}

// TestExecutor_PullFailureRemovesPartialFile verifies no partial local file is left behind.
func TestExecutor_PullFailureRemovesPartialFile(t *testing.T) {
	dev := adbtest.NewDevice("A")
	dev.ReadErr = stderrors.New("sync read failed")
	ex, _ := newExecutor(t, dev)

	local := filepath.Join(t.TempDir(), "out.bin")
	if err := ex.Pull(context.Background(), "/sdcard/x", local); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Errorf("expected partial file to be removed, stat err = %v", err)
	}
}

// TestExecutor_PushBytes verifies content arrives on the device and the local stage is removed.
func TestExecutor_PushBytes(t *testing.T) {
	dev := adbtest.NewDevice("A")
	ex, tmp := newExecutor(t, dev)

	if err := ex.PushBytes(context.Background(), []byte("content"), "/sdcard/a.txt"); err != nil {
		t.Fatalf("PushBytes failed: %v", err)
	}
	data, ok := dev.File("/sdcard/a.txt")
	if !ok || string(data) != "content" {
		t.Errorf("expected pushed content, got %q (exists=%v)", data, ok)
	}
	assertDirEmpty(t, tmp)
}

// TestExecutor_PushMissingLocal verifies a missing source is a TRANSFER_FAILED.
func TestExecutor_PushMissingLocal(t *testing.T) {
	ex, _ := newExecutor(t, adbtest.NewDevice("A"))

	err := ex.Push(context.Background(), filepath.Join(t.TempDir(), "nope.apk"), "/sdcard/nope.apk")
	if !errors.Is(err, errors.CodeTransferFailed) {
		t.Errorf("expected TRANSFER_FAILED, got %v", err)
	}
}

// TestExecutor_RemoteTempPathUnique verifies staging paths do not collide.
func TestExecutor_RemoteTempPathUnique(t *testing.T) {
	ex, _ := newExecutor(t, adbtest.NewDevice("A"))

	a := ex.RemoteTempPath(".png")
	b := ex.RemoteTempPath(".png")
	if a == b {
		t.Errorf("expected unique paths, got %s twice", a)
	}
	if !strings.HasPrefix(a, "/sdcard/adb-mcp-") || !strings.HasSuffix(a, ".png") {
		t.Errorf("unexpected staging path %s", a)
	}
}

// TestExecutor_Install verifies the APK is staged, installed and the staged copy removed.
func TestExecutor_Install(t *testing.T) {
	dev := adbtest.NewDevice("A").On("pm install", "Performing Streamed Install\nSuccess\n")
	ex, _ := newExecutor(t, dev)

	apk := filepath.Join(t.TempDir(), "app.apk")
	if err := os.WriteFile(apk, []byte("PK"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ex.Install(context.Background(), apk); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if !dev.Ran("pm install -r /data/local/tmp/adb-mcp-") {
		t.Errorf("expected pm install of staged apk, commands: %v", dev.Commands())
	}
	if paths := dev.FilePaths(); len(paths) != 0 {
		t.Errorf("expected staged apk to be removed, found %v", paths)
	}
}

// TestExecutor_InstallFailure verifies pm output without Success is an error.
func TestExecutor_InstallFailure(t *testing.T) {
	dev := adbtest.NewDevice("A").On("pm install", "Failure [INSTALL_FAILED_INVALID_APK]\n")
	ex, _ := newExecutor(t, dev)

	apk := filepath.Join(t.TempDir(), "bad.apk")
	if err := os.WriteFile(apk, []byte("??"), 0644); err != nil {
		t.Fatal(err)
	}

	err := ex.Install(context.Background(), apk)
	if !errors.Is(err, errors.CodeDeviceCommandFailed) {
		t.Fatalf("expected DEVICE_COMMAND_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "INSTALL_FAILED_INVALID_APK") {
		t.Errorf("expected pm output in error, got %q", err.Error())
	}
	if paths := dev.FilePaths(); len(paths) != 0 {
		t.Errorf("expected staged apk to be removed, found %v", paths)
	}
}

// TestExecutor_Uninstall verifies success detection for pm uninstall.
func TestExecutor_Uninstall(t *testing.T) {
	dev := adbtest.NewDevice("A").On("pm uninstall com.example.ok", "Success\n").
		On("pm uninstall com.example.missing", "Failure [DELETE_FAILED_INTERNAL_ERROR]\n")
	ex, _ := newExecutor(t, dev)

	if err := ex.Uninstall(context.Background(), "com.example.ok"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if err := ex.Uninstall(context.Background(), "com.example.missing"); err == nil {
		t.Error("expected failure for missing package")
	}
}
