package adb

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	goadb "github.com/zach-klippenstein/goadb"

	"github.com/ctagard/adb-mcp/internal/config"
	"github.com/ctagard/adb-mcp/internal/errors"
)

// Client is the Bridge backed by the adb server. The underlying server
// handle is created on first use and kept for the life of the process.
// A failed connection attempt is not remembered, so the next call retries.
type Client struct {
	cfg    config.ADBConfig
	logger zerolog.Logger

	mu     sync.Mutex
	server *goadb.Adb
}

// NewClient creates a client for the adb server at cfg. No connection is
// made until the first ListDevices call.
func NewClient(cfg config.ADBConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) conn() (*goadb.Adb, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.server != nil {
		return c.server, nil
	}

	server, err := goadb.NewWithConfig(goadb.ServerConfig{
		Host: c.cfg.Host,
		Port: c.cfg.Port,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("address", c.cfg.Address()).Msg("adb server handle created")
	c.server = server
	return server, nil
}

// ListDevices returns the devices the adb server currently reports
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	server, err := c.conn()
	if err != nil {
		return nil, errors.BridgeUnavailable(c.cfg.Address(), err)
	}

	var infos []*goadb.DeviceInfo
	err = callWithContext(ctx, func() error {
		var lerr error
		infos, lerr = server.ListDevices()
		return lerr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Canceled("list devices", err)
		}
		return nil, errors.BridgeUnavailable(c.cfg.Address(), err)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, &serverDevice{
			serial: info.Serial,
			dev:    server.Device(goadb.DeviceWithSerial(info.Serial)),
		})
	}
	return devices, nil
}

// serverDevice adapts a goadb device to the Device interface
type serverDevice struct {
	serial string
	dev    *goadb.Device
}

func (d *serverDevice) Serial() string {
	return d.serial
}

func (d *serverDevice) RunCommand(cmd string) (string, error) {
	return d.dev.RunCommand(cmd)
}

func (d *serverDevice) OpenRead(path string) (io.ReadCloser, error) {
	return d.dev.OpenRead(path)
}

func (d *serverDevice) OpenWrite(path string, perms os.FileMode, mtime time.Time) (io.WriteCloser, error) {
	return d.dev.OpenWrite(path, perms, mtime)
}

// callWithContext runs fn and returns early with ctx.Err() if ctx ends
// first. The adb client has no cancellation of its own, so fn keeps
// running in the background until the server answers. A panic in fn is
// returned as an error since it happens off the caller's goroutine.
func callWithContext(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
