// Package mcp provides the Model Context Protocol (MCP) server implementation.
//
// This package exposes Android device control through MCP tools. Tools are
// grouped as follows:
//
// Inspection (always available):
//   - Device: list_devices, get_device_info, get_screen_resolution,
//     get_battery_info, get_current_activity, list_installed_packages
//   - Capture: take_screenshot, record_screen, take_screen_recording
//   - Diagnostics: take_bugreport, collect_device_logs
//   - UI: dump_ui_hierarchy, check_element_exists
//   - Files: list_files, read_text_file, download_file
//   - Network: get_wifi_info, get_ip_address, ping
//
// Control (full mode only):
//   - Input: tap_screen, multi_tap, swipe_*, input_text, press_*
//   - Apps: start_app, enhanced_start_app, kill_app, clear_app_data,
//     install_apk, uninstall_app, analyze_performance
//   - UI automation: tap_element_by_text, run_ui_test
//   - Files: pull_file, push_file, write_text_file, delete_file, make_directory
//   - Network: toggle_wifi, toggle_mobile_data, toggle_airplane_mode
//   - reboot_device
//
// install_apk and uninstall_app additionally need allowInstall, the device
// file writers need allowFileWrite and reboot_device needs allowReboot.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ctagard/adb-mcp/internal/config"
	"github.com/ctagard/adb-mcp/internal/tools"
	"github.com/ctagard/adb-mcp/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the MCP server with Android device tools
type Server struct {
	mcpServer *server.MCPServer
	tools     *tools.Toolset
	config    *config.Config
	logger    zerolog.Logger
}

// NewServer creates a new adb-mcp server
func NewServer(cfg *config.Config, ts *tools.Toolset, logger zerolog.Logger) *Server {
	mcpServer := server.NewMCPServer(
		"adb-mcp",
		version.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer: mcpServer,
		tools:     ts,
		config:    cfg,
		logger:    logger.With().Str("component", "mcp").Logger(),
	}

	s.registerTools()

	return s
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	s.logger.Info().Str("mode", string(s.config.Mode)).Msg("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP serves streamable HTTP on addr until ctx is done
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("mode", string(s.config.Mode)).Msg("serving MCP over streamable HTTP")
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// GetConfig returns the server configuration
func (s *Server) GetConfig() *config.Config {
	return s.config
}
