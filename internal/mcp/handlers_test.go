package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/adb/adbtest"
	"github.com/ctagard/adb-mcp/internal/config"
	"github.com/ctagard/adb-mcp/internal/tools"
)

func makeToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func getTextContent(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func newTestServer(t *testing.T, cfg *config.Config, devices ...*adbtest.FakeDevice) *Server {
	t.Helper()
	cfg.ScriptStepDelay = 0
	resolver := adb.NewResolver(adbtest.NewBridge(devices...))
	return NewServer(cfg, tools.New(resolver, cfg, zerolog.Nop()), zerolog.Nop())
}

// listToolNames asks the server for its tool list over JSON-RPC
func listToolNames(t *testing.T, s *Server) []string {
	t.Helper()
	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	resp := s.MCPServer().HandleMessage(context.Background(), msg)

	raw, err := sonic.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var names []string
	for _, n := range gjson.GetBytes(raw, "result.tools.#.name").Array() {
		names = append(names, n.String())
	}
	sort.Strings(names)
	return names
}

func TestRegisterTools_ReadOnlyMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeReadOnly
	names := listToolNames(t, newTestServer(t, cfg))

	if len(names) != 19 {
		t.Fatalf("expected 19 inspection tools, got %d: %v", len(names), names)
	}
	for _, name := range names {
		switch name {
		case "tap_screen", "install_apk", "push_file", "reboot_device", "run_ui_test", "toggle_wifi":
			t.Errorf("control tool %s registered in readonly mode", name)
		}
	}
}

func TestRegisterTools_FullMode(t *testing.T) {
	names := listToolNames(t, newTestServer(t, config.DefaultConfig()))

	if len(names) != 48 {
		t.Fatalf("expected 48 tools, got %d: %v", len(names), names)
	}
	for _, want := range []string{"swipe_up", "swipe_down", "swipe_left", "swipe_right", "enhanced_start_app", "toggle_airplane_mode"} {
		if i := sort.SearchStrings(names, want); i >= len(names) || names[i] != want {
			t.Errorf("tool %s not registered", want)
		}
	}
}

func TestHandleListDevices(t *testing.T) {
	dev := adbtest.NewDevice("emulator-5554").
		On("getprop ro.product.model", "Pixel 7\n").
		On("getprop ro.build.version.release", "14\n")
	s := newTestServer(t, config.DefaultConfig(), dev)

	result, err := s.handleListDevices(context.Background(), makeToolRequest(nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "Device ID: emulator-5554\nModel: Pixel 7\nAndroid version: 14"
	if text := getTextContent(result); text != want {
		t.Errorf("result = %q, want %q", text, want)
	}
}

func TestHandleTapScreen(t *testing.T) {
	a := adbtest.NewDevice("A")
	b := adbtest.NewDevice("B")
	s := newTestServer(t, config.DefaultConfig(), a, b)

	result, err := s.handleTapScreen(context.Background(), makeToolRequest(map[string]interface{}{
		"device_id": "B",
		"x":         float64(100),
		"y":         float64(250),
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text := getTextContent(result); text != "Tapped at (100, 250)" {
		t.Errorf("unexpected result %q", text)
	}
	if !b.Ran("input tap 100 250") || len(a.Commands()) != 0 {
		t.Errorf("tap routed to the wrong device: A=%v B=%v", a.Commands(), b.Commands())
	}
}

func TestHandleTapScreen_MissingParameter(t *testing.T) {
	s := newTestServer(t, config.DefaultConfig(), adbtest.NewDevice("A"))

	result, err := s.handleTapScreen(context.Background(), makeToolRequest(map[string]interface{}{"x": float64(1)}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result")
	}
	if text := getTextContent(result); !strings.Contains(text, "'y'") {
		t.Errorf("expected missing y, got %q", text)
	}
}

func TestHandleSwipe_DefaultDuration(t *testing.T) {
	dev := adbtest.NewDevice("A")
	s := newTestServer(t, config.DefaultConfig(), dev)

	result, _ := s.handleSwipeVertical(tools.SwipeUp)(context.Background(), makeToolRequest(map[string]interface{}{
		"start_x": float64(500),
		"start_y": float64(1500),
		"end_y":   float64(500),
	}))
	if text := getTextContent(result); text != "Swiped up from (500, 1500) to (500, 500)" {
		t.Errorf("unexpected result %q", text)
	}
	if !dev.Ran("input swipe 500 1500 500 500 300") {
		t.Errorf("expected default duration, got %v", dev.Commands())
	}
}

func TestHandleListFiles_DefaultDirectory(t *testing.T) {
	dev := adbtest.NewDevice("A")
	s := newTestServer(t, config.DefaultConfig(), dev)

	if _, err := s.handleListFiles(context.Background(), makeToolRequest(nil)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !dev.Ran("ls -la /sdcard") {
		t.Errorf("unexpected commands %v", dev.Commands())
	}
}

func TestHandlePing_DefaultCount(t *testing.T) {
	dev := adbtest.NewDevice("A")
	s := newTestServer(t, config.DefaultConfig(), dev)

	if _, err := s.handlePing(context.Background(), makeToolRequest(map[string]interface{}{"host": "example.com"})); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !dev.Ran("ping -c 4 example.com") {
		t.Errorf("unexpected commands %v", dev.Commands())
	}
}

func TestHandleToggle(t *testing.T) {
	dev := adbtest.NewDevice("A")
	s := newTestServer(t, config.DefaultConfig(), dev)

	result, _ := s.handleToggle(s.tools.ToggleWifi)(context.Background(), makeToolRequest(map[string]interface{}{"enable": false}))
	if text := getTextContent(result); text != "WiFi disabled" {
		t.Errorf("unexpected result %q", text)
	}
	if !dev.Ran("svc wifi disable") {
		t.Errorf("unexpected commands %v", dev.Commands())
	}
}

func TestPermissionGates(t *testing.T) {
	tests := []struct {
		name    string
		disable func(cfg *config.Config)
		call    func(s *Server) (*mcp.CallToolResult, error)
	}{
		{
			name:    "install",
			disable: func(cfg *config.Config) { cfg.AllowInstall = false },
			call: func(s *Server) (*mcp.CallToolResult, error) {
				return s.handleInstallAPK(context.Background(), makeToolRequest(map[string]interface{}{"apk_path": "/tmp/app.apk"}))
			},
		},
		{
			name:    "uninstall",
			disable: func(cfg *config.Config) { cfg.AllowInstall = false },
			call: func(s *Server) (*mcp.CallToolResult, error) {
				return s.handleUninstallApp(context.Background(), makeToolRequest(map[string]interface{}{"package_name": "com.example"}))
			},
		},
		{
			name:    "write",
			disable: func(cfg *config.Config) { cfg.AllowFileWrite = false },
			call: func(s *Server) (*mcp.CallToolResult, error) {
				return s.handleWriteTextFile(context.Background(), makeToolRequest(map[string]interface{}{"device_path": "/sdcard/a.txt", "content": "x"}))
			},
		},
		{
			name:    "delete",
			disable: func(cfg *config.Config) { cfg.AllowFileWrite = false },
			call: func(s *Server) (*mcp.CallToolResult, error) {
				return s.handleDeleteFile(context.Background(), makeToolRequest(map[string]interface{}{"device_path": "/sdcard/a.txt"}))
			},
		},
		{
			name:    "reboot",
			disable: func(cfg *config.Config) { cfg.AllowReboot = false },
			call: func(s *Server) (*mcp.CallToolResult, error) {
				return s.handleRebootDevice(context.Background(), makeToolRequest(nil))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.disable(cfg)
			dev := adbtest.NewDevice("A")
			s := newTestServer(t, cfg, dev)

			result, err := tt.call(s)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !result.IsError || !strings.Contains(getTextContent(result), "is not allowed") {
				t.Errorf("expected permission error, got %q", getTextContent(result))
			}
			if len(dev.Commands()) != 0 {
				t.Errorf("device touched despite gate: %v", dev.Commands())
			}
		})
	}
}

func TestHandlePushFile(t *testing.T) {
	dev := adbtest.NewDevice("A")
	s := newTestServer(t, config.DefaultConfig(), dev)

	local := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(local, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	result, _ := s.handlePushFile(context.Background(), makeToolRequest(map[string]interface{}{
		"local_path":  local,
		"device_path": "/sdcard/data.bin",
	}))
	if text := getTextContent(result); text != "Pushed "+local+" to device /sdcard/data.bin" {
		t.Errorf("unexpected result %q", text)
	}
	if data, ok := dev.File("/sdcard/data.bin"); !ok || string(data) != "abc" {
		t.Errorf("unexpected device content %q", data)
	}
}

func TestHandleRunUITest(t *testing.T) {
	dev := adbtest.NewDevice("A")
	s := newTestServer(t, config.DefaultConfig(), dev)

	result, _ := s.handleRunUITest(context.Background(), makeToolRequest(map[string]interface{}{
		"test_steps": "home\nback",
	}))
	if text := getTextContent(result); text != "Execution results:\npress home\npress back" {
		t.Errorf("unexpected result %q", text)
	}
}

func TestHandleFailureIsText(t *testing.T) {
	s := newTestServer(t, config.DefaultConfig())

	result, err := s.handleGetBatteryInfo(context.Background(), makeToolRequest(nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text := getTextContent(result); !strings.HasPrefix(text, "Failed to get battery info: ") {
		t.Errorf("unexpected result %q", text)
	}
}
