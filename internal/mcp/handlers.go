package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctagard/adb-mcp/internal/errors"
	"github.com/ctagard/adb-mcp/internal/tools"
)

// Parameter defaults
const (
	defaultRecordSeconds      = 5
	defaultRecordingSeconds   = 10
	defaultSwipeDuration      = 300
	defaultLogSeconds         = 10
	defaultPerformanceSeconds = 10
)

type toggleFunc func(ctx context.Context, deviceID string, enable bool) string

func deviceID(request mcp.CallToolRequest) string {
	return request.GetString("device_id", "")
}

func textResult(text string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(text), nil
}

func missing(param, hint string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(errors.MissingParameter(param, hint).Error()), nil
}

func (s *Server) denied(operation string) (*mcp.CallToolResult, error) {
	s.logger.Warn().Str("operation", operation).Msg("operation disabled by configuration")
	return mcp.NewToolResultError(errors.PermissionDenied(operation, string(s.config.Mode)).Error()), nil
}

// Device Handlers

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.ListDevices(ctx))
}

func (s *Server) handleGetDeviceInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.GetDeviceInfo(ctx, deviceID(request)))
}

func (s *Server) handleGetScreenResolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.GetScreenResolution(ctx, deviceID(request)))
}

func (s *Server) handleGetBatteryInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.GetBatteryInfo(ctx, deviceID(request)))
}

func (s *Server) handleGetCurrentActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.GetCurrentActivity(ctx, deviceID(request)))
}

func (s *Server) handleListInstalledPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.ListInstalledPackages(ctx, deviceID(request)))
}

func (s *Server) handleRebootDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanReboot() {
		return s.denied("reboot")
	}
	return textResult(s.tools.RebootDevice(ctx, deviceID(request)))
}

// Capture Handlers

func (s *Server) handleTakeScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.TakeScreenshot(ctx, deviceID(request)))
}

func (s *Server) handleRecordScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	duration := request.GetInt("duration", defaultRecordSeconds)
	return textResult(s.tools.RecordScreen(ctx, deviceID(request), duration))
}

func (s *Server) handleTakeScreenRecording(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	duration := request.GetInt("duration", defaultRecordingSeconds)
	return textResult(s.tools.TakeScreenRecording(ctx, deviceID(request), duration))
}

// Diagnostic Handlers

func (s *Server) handleTakeBugreport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.TakeBugreport(ctx, deviceID(request)))
}

func (s *Server) handleCollectDeviceLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	duration := request.GetInt("duration", defaultLogSeconds)
	return textResult(s.tools.CollectDeviceLogs(ctx, deviceID(request), duration))
}

func (s *Server) handleAnalyzePerformance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg, err := request.RequireString("package_name")
	if err != nil {
		return missing("package_name", "Specify the package to launch and sample, e.g. 'com.example.app'.")
	}
	duration := request.GetInt("duration", defaultPerformanceSeconds)
	return textResult(s.tools.AnalyzePerformance(ctx, deviceID(request), pkg, duration))
}

// UI Handlers

func (s *Server) handleDumpUIHierarchy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.DumpUIHierarchy(ctx, deviceID(request)))
}

func (s *Server) handleCheckElementExists(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return missing("text", "Specify the text to search for in the UI hierarchy.")
	}
	return textResult(s.tools.CheckElementExists(ctx, deviceID(request), text))
}

func (s *Server) handleTapElementByText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return missing("text", "Specify the visible text or content description of the element to tap.")
	}
	return textResult(s.tools.TapElementByText(ctx, deviceID(request), text))
}

func (s *Server) handleRunUITest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	steps, err := request.RequireString("test_steps")
	if err != nil {
		return missing("test_steps", "Provide one instruction per line, e.g. \"tap 100 200\\nwait 1\\nback\".")
	}
	return textResult(s.tools.RunUITest(ctx, deviceID(request), steps))
}

// Input Handlers

func (s *Server) handleTapScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := request.RequireInt("x")
	if err != nil {
		return missing("x", "Specify the X coordinate in pixels.")
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return missing("y", "Specify the Y coordinate in pixels.")
	}
	return textResult(s.tools.TapScreen(ctx, deviceID(request), x, y))
}

func (s *Server) handleMultiTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taps, err := request.RequireString("taps")
	if err != nil {
		return missing("taps", `Provide a JSON array of points, e.g. [{"x": 100, "y": 200}].`)
	}
	return textResult(s.tools.MultiTap(ctx, deviceID(request), taps))
}

func (s *Server) handleSwipeVertical(direction string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startX, err := request.RequireInt("start_x")
		if err != nil {
			return missing("start_x", "Specify the X coordinate of the swipe line.")
		}
		startY, err := request.RequireInt("start_y")
		if err != nil {
			return missing("start_y", "Specify the starting Y coordinate.")
		}
		endY, err := request.RequireInt("end_y")
		if err != nil {
			return missing("end_y", "Specify the ending Y coordinate.")
		}
		duration := request.GetInt("duration", defaultSwipeDuration)
		return textResult(s.tools.SwipeVertical(ctx, deviceID(request), direction, startX, startY, endY, duration))
	}
}

func (s *Server) handleSwipeHorizontal(direction string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startX, err := request.RequireInt("start_x")
		if err != nil {
			return missing("start_x", "Specify the starting X coordinate.")
		}
		startY, err := request.RequireInt("start_y")
		if err != nil {
			return missing("start_y", "Specify the Y coordinate of the swipe line.")
		}
		endX, err := request.RequireInt("end_x")
		if err != nil {
			return missing("end_x", "Specify the ending X coordinate.")
		}
		duration := request.GetInt("duration", defaultSwipeDuration)
		return textResult(s.tools.SwipeHorizontal(ctx, deviceID(request), direction, startX, startY, endX, duration))
	}
}

func (s *Server) handleInputText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return missing("text", "Specify the text to type.")
	}
	return textResult(s.tools.InputText(ctx, deviceID(request), text))
}

func (s *Server) handlePressKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keycode, err := request.RequireInt("keycode")
	if err != nil {
		return missing("keycode", "Specify an Android keycode, e.g. 66 for ENTER.")
	}
	return textResult(s.tools.PressKey(ctx, deviceID(request), keycode))
}

func (s *Server) handlePressBack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.PressBack(ctx, deviceID(request)))
}

func (s *Server) handlePressHome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.PressHome(ctx, deviceID(request)))
}

func (s *Server) handlePressAppSwitch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.PressAppSwitch(ctx, deviceID(request)))
}

// App Handlers

func (s *Server) requirePackage(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	pkg, err := request.RequireString("package_name")
	if err != nil {
		result, _ := missing("package_name", "Specify the Android package name, e.g. 'com.android.settings'. Use list_installed_packages to find it.")
		return "", result
	}
	return pkg, nil
}

func (s *Server) handleStartApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg, errResult := s.requirePackage(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.StartApp(ctx, deviceID(request), pkg))
}

func (s *Server) handleEnhancedStartApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg, errResult := s.requirePackage(request)
	if errResult != nil {
		return errResult, nil
	}
	activity := request.GetString("activity_name", "")
	return textResult(s.tools.EnhancedStartApp(ctx, deviceID(request), pkg, activity))
}

func (s *Server) handleKillApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg, errResult := s.requirePackage(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.KillApp(ctx, deviceID(request), pkg))
}

func (s *Server) handleClearAppData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg, errResult := s.requirePackage(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.ClearAppData(ctx, deviceID(request), pkg))
}

func (s *Server) handleInstallAPK(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanInstall() {
		return s.denied("install")
	}
	apkPath, err := request.RequireString("apk_path")
	if err != nil {
		return missing("apk_path", "Specify the path of the APK file on the host machine.")
	}
	return textResult(s.tools.InstallAPK(ctx, deviceID(request), apkPath))
}

func (s *Server) handleUninstallApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanInstall() {
		return s.denied("install")
	}
	pkg, errResult := s.requirePackage(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.UninstallApp(ctx, deviceID(request), pkg))
}

// File Handlers

func requireDevicePath(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	p, err := request.RequireString("device_path")
	if err != nil {
		result, _ := missing("device_path", "Specify an absolute path on the device, e.g. '/sdcard/Download/file.txt'.")
		return "", result
	}
	return p, nil
}

func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := request.GetString("dir_path", tools.DefaultListDir)
	return textResult(s.tools.ListFiles(ctx, deviceID(request), dir))
}

func (s *Server) handleReadTextFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.ReadTextFile(ctx, deviceID(request), remote))
}

func (s *Server) handleDownloadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.DownloadFile(ctx, deviceID(request), remote))
}

func (s *Server) handlePullFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	local, err := request.RequireString("local_path")
	if err != nil {
		return missing("local_path", "Specify the destination path on the host machine.")
	}
	return textResult(s.tools.PullFile(ctx, deviceID(request), remote, local))
}

func (s *Server) handlePushFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanWriteFiles() {
		return s.denied("file_write")
	}
	local, err := request.RequireString("local_path")
	if err != nil {
		return missing("local_path", "Specify the source path on the host machine.")
	}
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.PushFile(ctx, deviceID(request), local, remote))
}

func (s *Server) handleWriteTextFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanWriteFiles() {
		return s.denied("file_write")
	}
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return missing("content", "Specify the text to write. An empty string truncates the file.")
	}
	return textResult(s.tools.WriteTextFile(ctx, deviceID(request), remote, content))
}

func (s *Server) handleDeleteFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanWriteFiles() {
		return s.denied("file_write")
	}
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.DeleteFile(ctx, deviceID(request), remote))
}

func (s *Server) handleMakeDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.config.CanWriteFiles() {
		return s.denied("file_write")
	}
	remote, errResult := requireDevicePath(request)
	if errResult != nil {
		return errResult, nil
	}
	return textResult(s.tools.MakeDirectory(ctx, deviceID(request), remote))
}

// Network Handlers

func (s *Server) handleToggle(fn toggleFunc) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		enable, err := request.RequireBool("enable")
		if err != nil {
			return missing("enable", "Specify true to enable or false to disable.")
		}
		return textResult(fn(ctx, deviceID(request), enable))
	}
}

func (s *Server) handleGetWifiInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.GetWifiInfo(ctx, deviceID(request)))
}

func (s *Server) handleGetIPAddress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.tools.GetIPAddress(ctx, deviceID(request)))
}

func (s *Server) handlePing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, err := request.RequireString("host")
	if err != nil {
		return missing("host", "Specify a host name or IP address, e.g. '8.8.8.8'.")
	}
	count := request.GetInt("count", tools.DefaultPingCount)
	return textResult(s.tools.Ping(ctx, deviceID(request), host, count))
}
