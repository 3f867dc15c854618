package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/pkg/types"
)

// NoDevicesMessage is returned by ListDevices when nothing is attached
const NoDevicesMessage = "No connected devices found"

const unavailable = "unavailable"

var deviceProps = []types.DeviceProp{
	{Label: "Model", Property: "ro.product.model"},
	{Label: "Brand", Property: "ro.product.brand"},
	{Label: "Manufacturer", Property: "ro.product.manufacturer"},
	{Label: "Android version", Property: "ro.build.version.release"},
	{Label: "API level", Property: "ro.build.version.sdk"},
	{Label: "Serial", Property: "ro.serialno"},
	{Label: "CPU ABI", Property: "ro.product.cpu.abi"},
	{Label: "Kernel version", Property: "ro.kernel.version"},
}

func getprop(ctx context.Context, ex *adb.Executor, prop string) (string, error) {
	out, err := ex.Shell(ctx, adb.Command(adb.CmdGetProp, adb.Args{"prop": prop}))
	return strings.TrimSpace(out), err
}

// ListDevices reports serial, model and Android version of every attached
// device. A device whose properties cannot be read is reported inline.
func (t *Toolset) ListDevices(ctx context.Context) (result string) {
	const op = "list_devices"
	defer t.recoverFailure(op, t.logger.With().Str("op", op).Logger(), &result)

	devices, err := t.resolver.Devices(ctx)
	if err != nil {
		return t.failure(op, err)
	}
	if len(devices) == 0 {
		return NoDevicesMessage
	}

	entries := lo.Map(devices, func(dev adb.Device, _ int) string {
		ex := t.executor(dev)
		model, err := getprop(ctx, ex, "ro.product.model")
		if err != nil {
			return fmt.Sprintf("Device ID: %s\nError reading details: %v", dev.Serial(), err)
		}
		version, err := getprop(ctx, ex, "ro.build.version.release")
		if err != nil {
			return fmt.Sprintf("Device ID: %s\nError reading details: %v", dev.Serial(), err)
		}
		return fmt.Sprintf("Device ID: %s\nModel: %s\nAndroid version: %s", dev.Serial(), model, version)
	})
	return strings.Join(entries, "\n\n")
}

// GetDeviceInfo reports identity properties, screen size and battery level
func (t *Toolset) GetDeviceInfo(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "get_device_info", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		lines := make([]string, 0, len(deviceProps)+2)
		for _, p := range deviceProps {
			value, err := getprop(ctx, ex, p.Property)
			if err != nil {
				if ctx.Err() != nil {
					return "", err
				}
				value = unavailable
			}
			lines = append(lines, p.Label+": "+value)
		}

		lines = append(lines, "Screen size: "+t.shellOr(ctx, ex, adb.CmdScreenSize))
		lines = append(lines, "Battery: "+t.shellOr(ctx, ex, adb.CmdBatteryLvl))
		return strings.Join(lines, "\n"), nil
	})
}

// shellOr runs cmd and returns its trimmed output, or "unavailable"
func (t *Toolset) shellOr(ctx context.Context, ex *adb.Executor, cmd string) string {
	out, err := ex.Shell(ctx, cmd)
	if err != nil {
		return unavailable
	}
	return strings.TrimSpace(out)
}

// GetScreenResolution reports the output of wm size
func (t *Toolset) GetScreenResolution(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "get_screen_resolution", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		out, err := ex.Shell(ctx, adb.CmdScreenSize)
		if err != nil {
			return "", err
		}
		return "Screen resolution: " + strings.TrimSpace(out), nil
	})
}

// GetBatteryInfo reports dumpsys battery
func (t *Toolset) GetBatteryInfo(ctx context.Context, deviceID string) string {
	return t.shellTool(ctx, "get_battery_info", deviceID, adb.CmdBattery)
}

// GetCurrentActivity reports the focused window and app
func (t *Toolset) GetCurrentActivity(ctx context.Context, deviceID string) string {
	return t.shellTool(ctx, "get_current_activity", deviceID, adb.CmdFocus)
}

// ListInstalledPackages returns one package name per line
func (t *Toolset) ListInstalledPackages(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "list_installed_packages", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		out, err := ex.Shell(ctx, adb.CmdPackages)
		if err != nil {
			return "", err
		}
		var packages []string
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "package:"))
			if line != "" {
				packages = append(packages, line)
			}
		}
		return strings.Join(packages, "\n"), nil
	})
}

// RebootDevice reboots the device
func (t *Toolset) RebootDevice(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "reboot_device", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.CmdReboot); err != nil {
			return "", err
		}
		return "Device is rebooting...", nil
	})
}

// shellTool runs a fixed command and returns its trimmed output
func (t *Toolset) shellTool(ctx context.Context, op, deviceID, cmd string) string {
	return t.dispatch(ctx, op, deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		out, err := ex.Shell(ctx, cmd)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(out), nil
	})
}
