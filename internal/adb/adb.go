// Package adb is the device side of the server: it talks to the local adb
// server, picks the device a tool call targets and runs commands on it.
//
// The package provides:
//   - Bridge: lists the devices currently attached to the adb server
//   - Client: the Bridge backed by a live adb server connection
//   - Resolver: maps an optional serial onto exactly one Device
//   - Executor: shell, file transfer and package primitives for one Device
//
// Nothing here caches device state. Every resolution fetches a fresh
// device list, and every attribute is read live from the device.
package adb

import (
	"context"
	"io"
	"os"
	"time"
)

// Device is an opaque handle to one attached device, keyed by serial.
type Device interface {
	Serial() string

	// RunCommand runs cmd in the device shell and returns its stdout.
	RunCommand(cmd string) (string, error)

	// OpenRead opens a device file for reading over the sync service.
	OpenRead(path string) (io.ReadCloser, error)

	// OpenWrite creates or truncates a device file. The file is committed
	// when the returned writer is closed.
	OpenWrite(path string, perms os.FileMode, mtime time.Time) (io.WriteCloser, error)
}

// Bridge lists the devices attached to the adb server. Order is whatever
// the server reports and is not guaranteed stable across calls.
type Bridge interface {
	ListDevices(ctx context.Context) ([]Device, error)
}
