package adb

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Shell command templates. Placeholders are {name}; braces that do not
// name a supplied argument are left untouched, so awk programs survive.
const (
	CmdGetProp    = "getprop {prop}"
	CmdScreenSize = "wm size"
	CmdBattery    = "dumpsys battery"
	CmdBatteryLvl = "dumpsys battery | grep level"
	CmdFocus      = "dumpsys window windows | grep -E 'mCurrentFocus|mFocusedApp'"
	CmdPackages   = "pm list packages"
	CmdReboot     = "reboot"
	CmdRemove     = "rm -f {path}"

	CmdScreencap    = "screencap -p {path}"
	CmdScreenrecord = "screenrecord --time-limit {seconds} {path}"

	CmdTap      = "input tap {x} {y}"
	CmdSwipe    = "input swipe {x1} {y1} {x2} {y2} {duration}"
	CmdText     = "input text {text}"
	CmdKeyEvent = "input keyevent {keycode}"

	CmdMonkeyLaunch  = "monkey -p {package} -c android.intent.category.LAUNCHER 1"
	CmdStartActivity = "am start -n {package}/{activity}"
	CmdStartMain     = "am start -a android.intent.action.MAIN -c android.intent.category.LAUNCHER -n {package}/.MainActivity"
	CmdResolverTable = "dumpsys package {package} | grep -A 20 'Activity Resolver Table'"
	CmdForceStop     = "am force-stop {package}"
	CmdClearData     = "pm clear {package}"
	CmdPMInstall     = "pm install -r {path}"
	CmdPMUninstall   = "pm uninstall {package}"

	CmdBugreport = "bugreport > {path}"
	CmdLogClear  = "logcat -c"
	CmdLogDump   = "logcat -d -v threadtime"
	CmdMeminfo   = "dumpsys meminfo {package}"
	CmdTopGrep   = "top -n 1 | grep {package}"

	CmdUIDump = "uiautomator dump {path}"
	CmdCat    = "cat {path}"
	CmdLs     = "ls -la {path}"
	CmdRm     = "rm {path}"
	CmdMkdir  = "mkdir -p {path}"

	CmdWifi         = "svc wifi {state}"
	CmdData         = "svc data {state}"
	CmdAirplaneSet  = "settings put global airplane_mode_on {value}"
	CmdAirplaneCast = "am broadcast -a android.intent.action.AIRPLANE_MODE --ez state {state}"
	CmdWifiInfo     = "dumpsys wifi | grep 'mNetworkInfo\\|SSID'"
	CmdPing         = "ping -c {count} {host}"
	CmdIPAddress    = "ip addr show wlan0 | grep 'inet ' | awk '{print $2}'"
)

// Args holds template arguments. Values are rendered with fmt.Sprint.
type Args map[string]interface{}

// Command renders a shell command template
func Command(tmpl string, args Args) string {
	return fasttemplate.ExecuteFuncString(tmpl, "{", "}", func(w io.Writer, tag string) (int, error) {
		v, ok := args[tag]
		if !ok {
			return io.WriteString(w, "{"+tag+"}")
		}
		return io.WriteString(w, fmt.Sprint(v))
	})
}

// EscapeInputText turns text into a single shell word for `input text`.
//
// Spaces become %s, which `input text` types as a space. The result is
// wrapped in single quotes, and a single quote inside the text is written
// as '\'' so it closes, escapes and reopens the quoting. Double quotes and
// every other character are literal inside single quotes.
func EscapeInputText(text string) string {
	escaped := strings.ReplaceAll(text, " ", "%s")
	escaped = strings.ReplaceAll(escaped, "'", `'\''`)
	return "'" + escaped + "'"
}

// QuoteArg single-quotes s for the device shell
func QuoteArg(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
