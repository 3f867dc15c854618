package tools

// Labels maps an operation name to the prefix of its failure message
type Labels map[string]string

var catalogs = map[string]Labels{
	"en": {
		"list_devices":            "Failed to list devices",
		"get_device_info":         "Failed to get device info",
		"get_screen_resolution":   "Failed to get screen resolution",
		"get_battery_info":        "Failed to get battery info",
		"get_current_activity":    "Failed to get current activity",
		"list_installed_packages": "Failed to list packages",
		"reboot_device":           "Failed to reboot device",
		"take_screenshot":         "Screenshot failed",
		"record_screen":           "Screen recording failed",
		"take_screen_recording":   "Screen video recording failed",
		"tap_screen":              "Tap failed",
		"multi_tap":               "Multi-tap failed",
		"swipe":                   "Swipe failed",
		"input_text":              "Text input failed",
		"press_key":               "Key press failed",
		"start_app":               "Failed to start app",
		"kill_app":                "Failed to stop app",
		"clear_app_data":          "Failed to clear app data",
		"install_apk":             "Failed to install APK",
		"uninstall_app":           "Failed to uninstall app",
		"take_bugreport":          "Failed to get bug report",
		"collect_device_logs":     "Failed to collect device logs",
		"analyze_performance":     "Failed to analyze app performance",
		"dump_ui_hierarchy":       "Failed to dump UI hierarchy",
		"check_element_exists":    "Failed to check element",
		"tap_element_by_text":     "Failed to tap element",
		"run_ui_test":             "Failed to run UI test",
		"list_files":              "Failed to list files",
		"push_file":               "Failed to push file",
		"pull_file":               "Failed to pull file",
		"read_text_file":          "Failed to read file",
		"write_text_file":         "Failed to write file",
		"delete_file":             "Failed to delete file",
		"make_directory":          "Failed to create directory",
		"download_file":           "Failed to download file",
		"toggle_wifi":             "Failed to toggle WiFi",
		"toggle_mobile_data":      "Failed to toggle mobile data",
		"toggle_airplane_mode":    "Failed to toggle airplane mode",
		"get_wifi_info":           "Failed to get WiFi info",
		"ping":                    "Ping failed",
		"get_ip_address":          "Failed to get IP address",
	},
	"zh": {
		"list_devices":            "获取设备列表失败",
		"get_device_info":         "获取设备信息失败",
		"get_screen_resolution":   "获取屏幕分辨率失败",
		"get_battery_info":        "获取电池信息失败",
		"get_current_activity":    "获取当前Activity失败",
		"list_installed_packages": "获取应用列表失败",
		"reboot_device":           "重启设备失败",
		"take_screenshot":         "截图失败",
		"record_screen":           "录屏失败",
		"take_screen_recording":   "录制屏幕视频失败",
		"tap_screen":              "点击失败",
		"multi_tap":               "多点点击失败",
		"swipe":                   "滑动失败",
		"input_text":              "输入文本失败",
		"press_key":               "按键失败",
		"start_app":               "启动应用失败",
		"kill_app":                "停止应用失败",
		"clear_app_data":          "清除应用数据失败",
		"install_apk":             "安装APK失败",
		"uninstall_app":           "卸载应用失败",
		"take_bugreport":          "获取Bug报告失败",
		"collect_device_logs":     "收集设备日志失败",
		"analyze_performance":     "分析应用性能失败",
		"dump_ui_hierarchy":       "获取UI层次结构失败",
		"check_element_exists":    "检查元素失败",
		"tap_element_by_text":     "点击文本元素失败",
		"run_ui_test":             "执行UI测试失败",
		"list_files":              "列出文件失败",
		"push_file":               "推送文件失败",
		"pull_file":               "拉取文件失败",
		"read_text_file":          "读取文件失败",
		"write_text_file":         "写入文件失败",
		"delete_file":             "删除文件失败",
		"make_directory":          "创建目录失败",
		"download_file":           "下载文件失败",
		"toggle_wifi":             "操作WiFi失败",
		"toggle_mobile_data":      "操作移动数据失败",
		"toggle_airplane_mode":    "操作飞行模式失败",
		"get_wifi_info":           "获取WiFi信息失败",
		"ping":                    "Ping失败",
		"get_ip_address":          "获取IP地址失败",
	},
}

// LabelsFor returns the catalog for lang, falling back to English
func LabelsFor(lang string) Labels {
	if l, ok := catalogs[lang]; ok {
		return l
	}
	return catalogs["en"]
}

// Failure returns the failure prefix for op
func (l Labels) Failure(op string) string {
	if s, ok := l[op]; ok {
		return s
	}
	return "Operation " + op + " failed"
}
