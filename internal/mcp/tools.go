package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the device tool surface for the configured mode
func (s *Server) registerTools() {
	// Inspection (both modes)
	s.registerDeviceTools()
	s.registerCaptureTools()
	s.registerDiagnosticTools()
	s.registerUIInspectionTools()
	s.registerFileInspectionTools()
	s.registerNetworkInspectionTools()

	// Control (full mode only)
	if s.config.CanUseControlTools() {
		s.registerInputTools()
		s.registerAppTools()
		s.registerUIAutomationTools()
		s.registerFileControlTools()
		s.registerNetworkControlTools()
		s.registerRebootTool()
	}
}

func withDeviceID() mcp.ToolOption {
	return mcp.WithString("device_id",
		mcp.Description("Serial of the target device (see list_devices). Defaults to the first connected device."),
	)
}

func withPackageName() mcp.ToolOption {
	return mcp.WithString("package_name",
		mcp.Required(),
		mcp.Description("Android package name, e.g. 'com.android.settings'"),
	)
}

func withDevicePath(desc string) mcp.ToolOption {
	return mcp.WithString("device_path",
		mcp.Required(),
		mcp.Description(desc),
	)
}

// Device Tools

func (s *Server) registerDeviceTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_devices",
		mcp.WithDescription("List connected Android devices with serial, model and Android version."),
	), s.handleListDevices)

	s.mcpServer.AddTool(mcp.NewTool("get_device_info",
		mcp.WithDescription("Get device details: model, brand, manufacturer, Android version, API level, serial, CPU ABI, kernel, screen size and battery level."),
		withDeviceID(),
	), s.handleGetDeviceInfo)

	s.mcpServer.AddTool(mcp.NewTool("get_screen_resolution",
		mcp.WithDescription("Get the physical screen resolution (wm size)."),
		withDeviceID(),
	), s.handleGetScreenResolution)

	s.mcpServer.AddTool(mcp.NewTool("get_battery_info",
		mcp.WithDescription("Get the full battery status (dumpsys battery)."),
		withDeviceID(),
	), s.handleGetBatteryInfo)

	s.mcpServer.AddTool(mcp.NewTool("get_current_activity",
		mcp.WithDescription("Get the activity currently in the foreground."),
		withDeviceID(),
	), s.handleGetCurrentActivity)

	s.mcpServer.AddTool(mcp.NewTool("list_installed_packages",
		mcp.WithDescription("List installed package names, one per line."),
		withDeviceID(),
	), s.handleListInstalledPackages)
}

// Capture Tools

func (s *Server) registerCaptureTools() {
	s.mcpServer.AddTool(mcp.NewTool("take_screenshot",
		mcp.WithDescription("Capture the screen. Returns a data:image/png;base64 URI."),
		withDeviceID(),
	), s.handleTakeScreenshot)

	s.mcpServer.AddTool(mcp.NewTool("record_screen",
		mcp.WithDescription("Record the screen for a number of seconds. Returns a data:video/mp4;base64 URI."),
		withDeviceID(),
		mcp.WithNumber("duration",
			mcp.Description("Recording length in seconds, 1-180 (default: 5)"),
		),
	), s.handleRecordScreen)

	s.mcpServer.AddTool(mcp.NewTool("take_screen_recording",
		mcp.WithDescription("Record the screen for a number of seconds. Returns a data:video/mp4;base64 URI."),
		withDeviceID(),
		mcp.WithNumber("duration",
			mcp.Description("Recording length in seconds, 1-180 (default: 10)"),
		),
	), s.handleTakeScreenRecording)
}

// Diagnostic Tools

func (s *Server) registerDiagnosticTools() {
	s.mcpServer.AddTool(mcp.NewTool("take_bugreport",
		mcp.WithDescription("Capture a bug report. Long reports keep only the beginning."),
		withDeviceID(),
	), s.handleTakeBugreport)

	s.mcpServer.AddTool(mcp.NewTool("collect_device_logs",
		mcp.WithDescription("Clear logcat, wait for the given number of seconds, then return the collected log. Long logs keep only the end."),
		withDeviceID(),
		mcp.WithNumber("duration",
			mcp.Description("Collection window in seconds (default: 10)"),
		),
	), s.handleCollectDeviceLogs)
}

// UI Inspection Tools

func (s *Server) registerUIInspectionTools() {
	s.mcpServer.AddTool(mcp.NewTool("dump_ui_hierarchy",
		mcp.WithDescription("Dump the current UI hierarchy as uiautomator XML."),
		withDeviceID(),
	), s.handleDumpUIHierarchy)

	s.mcpServer.AddTool(mcp.NewTool("check_element_exists",
		mcp.WithDescription("Check whether any element on screen contains the given text."),
		withDeviceID(),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to search for in the UI dump"),
		),
	), s.handleCheckElementExists)
}

// File Inspection Tools

func (s *Server) registerFileInspectionTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List a device directory (ls -la)."),
		withDeviceID(),
		mcp.WithString("dir_path",
			mcp.Description("Directory on the device (default: /sdcard)"),
		),
	), s.handleListFiles)

	s.mcpServer.AddTool(mcp.NewTool("read_text_file",
		mcp.WithDescription("Read a text file from the device. Long files keep only the beginning."),
		withDeviceID(),
		withDevicePath("File on the device"),
	), s.handleReadTextFile)

	s.mcpServer.AddTool(mcp.NewTool("download_file",
		mcp.WithDescription("Fetch a device file as a base64 data URI typed by its extension."),
		withDeviceID(),
		withDevicePath("File on the device"),
	), s.handleDownloadFile)
}

// Network Inspection Tools

func (s *Server) registerNetworkInspectionTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_wifi_info",
		mcp.WithDescription("Get the current WiFi connection (SSID line from dumpsys wifi)."),
		withDeviceID(),
	), s.handleGetWifiInfo)

	s.mcpServer.AddTool(mcp.NewTool("get_ip_address",
		mcp.WithDescription("Get the wlan0 IPv4 address."),
		withDeviceID(),
	), s.handleGetIPAddress)

	s.mcpServer.AddTool(mcp.NewTool("ping",
		mcp.WithDescription("Ping a host from the device."),
		withDeviceID(),
		mcp.WithString("host",
			mcp.Required(),
			mcp.Description("Host name or IP address"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of echo requests (default: 4)"),
		),
	), s.handlePing)
}

// Input Tools

func (s *Server) registerInputTools() {
	s.mcpServer.AddTool(mcp.NewTool("tap_screen",
		mcp.WithDescription("Tap the screen at (x, y)."),
		withDeviceID(),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate in pixels")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate in pixels")),
	), s.handleTapScreen)

	s.mcpServer.AddTool(mcp.NewTool("multi_tap",
		mcp.WithDescription("Tap several points in order, pausing between taps."),
		withDeviceID(),
		mcp.WithString("taps",
			mcp.Required(),
			mcp.Description(`JSON array of points. Example: [{"x": 100, "y": 200}, {"x": 300, "y": 400}]`),
		),
	), s.handleMultiTap)

	for _, dir := range []string{"up", "down"} {
		s.mcpServer.AddTool(mcp.NewTool("swipe_"+dir,
			mcp.WithDescription("Swipe "+dir+" along a vertical line."),
			withDeviceID(),
			mcp.WithNumber("start_x", mcp.Required(), mcp.Description("X coordinate of the swipe line")),
			mcp.WithNumber("start_y", mcp.Required(), mcp.Description("Starting Y coordinate")),
			mcp.WithNumber("end_y", mcp.Required(), mcp.Description("Ending Y coordinate")),
			mcp.WithNumber("duration", mcp.Description("Swipe duration in milliseconds (default: 300)")),
		), s.handleSwipeVertical(dir))
	}

	for _, dir := range []string{"left", "right"} {
		s.mcpServer.AddTool(mcp.NewTool("swipe_"+dir,
			mcp.WithDescription("Swipe "+dir+" along a horizontal line."),
			withDeviceID(),
			mcp.WithNumber("start_x", mcp.Required(), mcp.Description("Starting X coordinate")),
			mcp.WithNumber("start_y", mcp.Required(), mcp.Description("Y coordinate of the swipe line")),
			mcp.WithNumber("end_x", mcp.Required(), mcp.Description("Ending X coordinate")),
			mcp.WithNumber("duration", mcp.Description("Swipe duration in milliseconds (default: 300)")),
		), s.handleSwipeHorizontal(dir))
	}

	s.mcpServer.AddTool(mcp.NewTool("input_text",
		mcp.WithDescription("Type text into the focused field. Spaces and quotes are escaped."),
		withDeviceID(),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
	), s.handleInputText)

	s.mcpServer.AddTool(mcp.NewTool("press_key",
		mcp.WithDescription("Send an Android keycode, e.g. 3 (HOME), 4 (BACK), 66 (ENTER)."),
		withDeviceID(),
		mcp.WithNumber("keycode", mcp.Required(), mcp.Description("Android KeyEvent code")),
	), s.handlePressKey)

	s.mcpServer.AddTool(mcp.NewTool("press_back",
		mcp.WithDescription("Press the BACK key."),
		withDeviceID(),
	), s.handlePressBack)

	s.mcpServer.AddTool(mcp.NewTool("press_home",
		mcp.WithDescription("Press the HOME key."),
		withDeviceID(),
	), s.handlePressHome)

	s.mcpServer.AddTool(mcp.NewTool("press_app_switch",
		mcp.WithDescription("Open the recent apps switcher."),
		withDeviceID(),
	), s.handlePressAppSwitch)
}

// App Tools

func (s *Server) registerAppTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_app",
		mcp.WithDescription("Launch an app's main activity via monkey."),
		withDeviceID(),
		withPackageName(),
	), s.handleStartApp)

	s.mcpServer.AddTool(mcp.NewTool("enhanced_start_app",
		mcp.WithDescription("Launch an app trying several methods in order (monkey, explicit activity, common activity names, ACTION_MAIN). Returns a transcript of every attempt."),
		withDeviceID(),
		withPackageName(),
		mcp.WithString("activity_name",
			mcp.Description("Activity to try first, e.g. '.MainActivity' or 'com.example.app.MainActivity'"),
		),
	), s.handleEnhancedStartApp)

	s.mcpServer.AddTool(mcp.NewTool("kill_app",
		mcp.WithDescription("Force-stop an app."),
		withDeviceID(),
		withPackageName(),
	), s.handleKillApp)

	s.mcpServer.AddTool(mcp.NewTool("clear_app_data",
		mcp.WithDescription("Clear an app's data and cache."),
		withDeviceID(),
		withPackageName(),
	), s.handleClearAppData)

	s.mcpServer.AddTool(mcp.NewTool("install_apk",
		mcp.WithDescription("Install (or reinstall) an APK from the host machine. Requires allowInstall."),
		withDeviceID(),
		mcp.WithString("apk_path", mcp.Required(), mcp.Description("Path of the APK on the host")),
	), s.handleInstallAPK)

	s.mcpServer.AddTool(mcp.NewTool("uninstall_app",
		mcp.WithDescription("Uninstall a package. Requires allowInstall."),
		withDeviceID(),
		withPackageName(),
	), s.handleUninstallApp)

	s.mcpServer.AddTool(mcp.NewTool("analyze_performance",
		mcp.WithDescription("Launch an app and sample CPU, battery and memory about once per second."),
		withDeviceID(),
		withPackageName(),
		mcp.WithNumber("duration", mcp.Description("Sampling window in seconds (default: 10)")),
	), s.handleAnalyzePerformance)
}

// UI Automation Tools

func (s *Server) registerUIAutomationTools() {
	s.mcpServer.AddTool(mcp.NewTool("tap_element_by_text",
		mcp.WithDescription("Find the first UI element whose text or content description contains the given text and tap its center."),
		withDeviceID(),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to look for")),
	), s.handleTapElementByText)

	s.mcpServer.AddTool(mcp.NewTool("run_ui_test",
		mcp.WithDescription("Run a line-based UI script. Instructions: tap x y, swipe x1 y1 x2 y2 [duration], text \"...\", wait seconds, press keycode, home, back. Lines starting with # are comments."),
		withDeviceID(),
		mcp.WithString("test_steps", mcp.Required(), mcp.Description("Script, one instruction per line")),
	), s.handleRunUITest)
}

// File Control Tools

func (s *Server) registerFileControlTools() {
	s.mcpServer.AddTool(mcp.NewTool("pull_file",
		mcp.WithDescription("Copy a device file to the host."),
		withDeviceID(),
		withDevicePath("Source file on the device"),
		mcp.WithString("local_path", mcp.Required(), mcp.Description("Destination path on the host")),
	), s.handlePullFile)

	s.mcpServer.AddTool(mcp.NewTool("push_file",
		mcp.WithDescription("Copy a host file to the device. Requires allowFileWrite."),
		withDeviceID(),
		mcp.WithString("local_path", mcp.Required(), mcp.Description("Source path on the host")),
		withDevicePath("Destination path on the device"),
	), s.handlePushFile)

	s.mcpServer.AddTool(mcp.NewTool("write_text_file",
		mcp.WithDescription("Write text content to a device file. Requires allowFileWrite."),
		withDeviceID(),
		withDevicePath("Destination file on the device"),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to write")),
	), s.handleWriteTextFile)

	s.mcpServer.AddTool(mcp.NewTool("delete_file",
		mcp.WithDescription("Delete a device file. Requires allowFileWrite."),
		withDeviceID(),
		withDevicePath("File to delete"),
	), s.handleDeleteFile)

	s.mcpServer.AddTool(mcp.NewTool("make_directory",
		mcp.WithDescription("Create a device directory, including parents. Requires allowFileWrite."),
		withDeviceID(),
		withDevicePath("Directory to create"),
	), s.handleMakeDirectory)
}

// Network Control Tools

func (s *Server) registerNetworkControlTools() {
	toggles := []struct {
		name, desc string
		fn         toggleFunc
	}{
		{"toggle_wifi", "Enable or disable WiFi.", s.tools.ToggleWifi},
		{"toggle_mobile_data", "Enable or disable mobile data.", s.tools.ToggleMobileData},
		{"toggle_airplane_mode", "Enable or disable airplane mode.", s.tools.ToggleAirplaneMode},
	}
	for _, tg := range toggles {
		s.mcpServer.AddTool(mcp.NewTool(tg.name,
			mcp.WithDescription(tg.desc),
			withDeviceID(),
			mcp.WithBoolean("enable", mcp.Required(), mcp.Description("true to enable, false to disable")),
		), s.handleToggle(tg.fn))
	}
}

func (s *Server) registerRebootTool() {
	s.mcpServer.AddTool(mcp.NewTool("reboot_device",
		mcp.WithDescription("Reboot the device. Requires allowReboot."),
		withDeviceID(),
	), s.handleRebootDevice)
}
