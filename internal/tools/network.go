package tools

import (
	"context"
	"strings"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/errors"
)

// DefaultPingCount is used when ping gets no count
const DefaultPingCount = 4

func svcState(enable bool) string {
	if enable {
		return "enable"
	}
	return "disable"
}

func onOff(enable bool) string {
	if enable {
		return "enabled"
	}
	return "disabled"
}

// ToggleWifi turns WiFi on or off
func (t *Toolset) ToggleWifi(ctx context.Context, deviceID string, enable bool) string {
	return t.dispatch(ctx, "toggle_wifi", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdWifi, adb.Args{"state": svcState(enable)})); err != nil {
			return "", err
		}
		return "WiFi " + onOff(enable), nil
	})
}

// ToggleMobileData turns mobile data on or off
func (t *Toolset) ToggleMobileData(ctx context.Context, deviceID string, enable bool) string {
	return t.dispatch(ctx, "toggle_mobile_data", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdData, adb.Args{"state": svcState(enable)})); err != nil {
			return "", err
		}
		return "Mobile data " + onOff(enable), nil
	})
}

// ToggleAirplaneMode writes the airplane mode setting and broadcasts the
// change with the requested state
func (t *Toolset) ToggleAirplaneMode(ctx context.Context, deviceID string, enable bool) string {
	return t.dispatch(ctx, "toggle_airplane_mode", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		value := 0
		if enable {
			value = 1
		}
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdAirplaneSet, adb.Args{"value": value})); err != nil {
			return "", err
		}
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdAirplaneCast, adb.Args{"state": enable})); err != nil {
			return "", err
		}
		return "Airplane mode " + onOff(enable), nil
	})
}

// GetWifiInfo reports WiFi network info lines
func (t *Toolset) GetWifiInfo(ctx context.Context, deviceID string) string {
	return t.shellTool(ctx, "get_wifi_info", deviceID, adb.CmdWifiInfo)
}

// Ping pings host from the device count times
func (t *Toolset) Ping(ctx context.Context, deviceID, host string, count int) string {
	return t.dispatch(ctx, "ping", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if count <= 0 {
			return "", errors.InvalidParameter("count", count, "a positive number of packets")
		}
		out, err := ex.Shell(ctx, adb.Command(adb.CmdPing, adb.Args{"count": count, "host": host}))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(out), nil
	})
}

// GetIPAddress reports the wlan0 IPv4 address
func (t *Toolset) GetIPAddress(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "get_ip_address", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		out, err := ex.Shell(ctx, adb.CmdIPAddress)
		if err != nil {
			return "", err
		}
		return "Device IP address: " + strings.TrimSpace(out), nil
	})
}
