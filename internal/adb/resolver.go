package adb

import (
	"context"

	"github.com/samber/lo"

	"github.com/ctagard/adb-mcp/internal/errors"
)

// Resolver picks the device a tool call targets
type Resolver struct {
	bridge Bridge
}

// NewResolver creates a resolver over bridge
func NewResolver(bridge Bridge) *Resolver {
	return &Resolver{bridge: bridge}
}

// Devices returns the live device list
func (r *Resolver) Devices(ctx context.Context) ([]Device, error) {
	return r.bridge.ListDevices(ctx)
}

// Resolve returns the device whose serial equals id, or the first listed
// device when id is empty.
func (r *Resolver) Resolve(ctx context.Context, id string) (Device, error) {
	devices, err := r.bridge.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, errors.NoDevicesConnected()
	}

	if id == "" {
		return devices[0], nil
	}

	device, ok := lo.Find(devices, func(d Device) bool {
		return d.Serial() == id
	})
	if !ok {
		return nil, errors.DeviceNotFound(id, Serials(devices))
	}
	return device, nil
}

// Serials returns the serial of each device in order
func Serials(devices []Device) []string {
	return lo.Map(devices, func(d Device, _ int) string {
		return d.Serial()
	})
}
