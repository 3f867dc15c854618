// Package adbtest provides in-memory fakes of the adb Bridge and Device
// for tests. A FakeDevice records every shell command and keeps its files
// in a map, so tests can assert on both the command stream and the
// artifacts left behind.
package adbtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctagard/adb-mcp/internal/adb"
)

type handler struct {
	prefix string
	fn     func(d *FakeDevice, cmd string) (string, error)
}

// FakeDevice is an in-memory Device
type FakeDevice struct {
	mu       sync.Mutex
	serial   string
	files    map[string][]byte
	commands []string
	handlers []handler

	// ReadErr and WriteErr, when set, fail every OpenRead/OpenWrite.
	ReadErr  error
	WriteErr error
}

// NewDevice creates a fake device with the given serial
func NewDevice(serial string) *FakeDevice {
	return &FakeDevice{
		serial: serial,
		files:  make(map[string][]byte),
	}
}

// On makes commands starting with prefix print output
func (d *FakeDevice) On(prefix, output string) *FakeDevice {
	return d.OnFunc(prefix, func(*FakeDevice, string) (string, error) {
		return output, nil
	})
}

// Fail makes commands starting with prefix fail at the transport level
func (d *FakeDevice) Fail(prefix string, err error) *FakeDevice {
	return d.OnFunc(prefix, func(*FakeDevice, string) (string, error) {
		return "", err
	})
}

// Produce makes commands starting with prefix write data to the path given
// as the command's last word, like screencap or uiautomator dump do.
func (d *FakeDevice) Produce(prefix string, data []byte) *FakeDevice {
	return d.OnFunc(prefix, func(dev *FakeDevice, cmd string) (string, error) {
		fields := strings.Fields(cmd)
		dev.files[fields[len(fields)-1]] = append([]byte(nil), data...)
		return "", nil
	})
}

// OnFunc registers a custom command handler. Later registrations win.
// The handler runs with the device lock held, so it must not call
// SetFile or File on the device it receives.
func (d *FakeDevice) OnFunc(prefix string, fn func(d *FakeDevice, cmd string) (string, error)) *FakeDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler{prefix: prefix, fn: fn})
	return d
}

// SetFile stores a device file
func (d *FakeDevice) SetFile(path string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = append([]byte(nil), data...)
}

// File returns a device file and whether it exists
func (d *FakeDevice) File(path string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[path]
	return data, ok
}

// FilePaths returns the paths of all device files, sorted
func (d *FakeDevice) FilePaths() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	paths := make([]string, 0, len(d.files))
	for p := range d.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Commands returns every shell command run so far
func (d *FakeDevice) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

// Ran reports whether a command starting with prefix was run
func (d *FakeDevice) Ran(prefix string) bool {
	for _, c := range d.Commands() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// Serial implements adb.Device
func (d *FakeDevice) Serial() string {
	return d.serial
}

// RunCommand implements adb.Device
func (d *FakeDevice) RunCommand(cmd string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, cmd)

	for i := len(d.handlers) - 1; i >= 0; i-- {
		if strings.HasPrefix(cmd, d.handlers[i].prefix) {
			return d.handlers[i].fn(d, cmd)
		}
	}

	fields := strings.Fields(cmd)
	switch {
	case len(fields) == 3 && fields[0] == "rm" && fields[1] == "-f":
		delete(d.files, fields[2])
	case len(fields) == 2 && fields[0] == "rm":
		if _, ok := d.files[fields[1]]; !ok {
			return fmt.Sprintf("rm: %s: No such file or directory\n", fields[1]), nil
		}
		delete(d.files, fields[1])
	case len(fields) == 2 && fields[0] == "cat":
		data, ok := d.files[fields[1]]
		if !ok {
			return fmt.Sprintf("cat: %s: No such file or directory\n", fields[1]), nil
		}
		return string(data), nil
	}
	return "", nil
}

// OpenRead implements adb.Device
func (d *FakeDevice) OpenRead(path string) (io.ReadCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ReadErr != nil {
		return nil, d.ReadErr
	}
	data, ok := d.files[path]
	if !ok {
		return nil, fmt.Errorf("remote object '%s' does not exist", path)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), data...))), nil
}

// OpenWrite implements adb.Device
func (d *FakeDevice) OpenWrite(path string, _ os.FileMode, _ time.Time) (io.WriteCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.WriteErr != nil {
		return nil, d.WriteErr
	}
	return &fileWriter{dev: d, path: path}, nil
}

type fileWriter struct {
	dev  *FakeDevice
	path string
	buf  bytes.Buffer
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *fileWriter) Close() error {
	w.dev.SetFile(w.path, w.buf.Bytes())
	return nil
}

// FakeBridge is an in-memory Bridge
type FakeBridge struct {
	mu      sync.Mutex
	devices []adb.Device
	err     error
	calls   int
}

// NewBridge creates a bridge listing devices in the given order
func NewBridge(devices ...*FakeDevice) *FakeBridge {
	b := &FakeBridge{}
	for _, d := range devices {
		b.devices = append(b.devices, d)
	}
	return b
}

// SetError makes ListDevices fail
func (b *FakeBridge) SetError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Calls returns how many times ListDevices ran
func (b *FakeBridge) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// ListDevices implements adb.Bridge
func (b *FakeBridge) ListDevices(ctx context.Context) ([]adb.Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return append([]adb.Device(nil), b.devices...), nil
}
