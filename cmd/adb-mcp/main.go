package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/config"
	"github.com/ctagard/adb-mcp/internal/logging"
	"github.com/ctagard/adb-mcp/internal/mcp"
	"github.com/ctagard/adb-mcp/internal/tools"
	"github.com/ctagard/adb-mcp/internal/version"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

// options holds command line values. Flags the user did not set leave the
// configuration file untouched.
type options struct {
	configPath string
	mode       string
	adbHost    string
	adbPort    int
	language   string
	transport  string
	addr       string
	debug      bool
	logFile    string
}

func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adb-mcp",
		Short: "MCP server for Android device control over adb",
		Long: `adb-mcp is a Model Context Protocol (MCP) server that lets LLM agents
inspect and drive Android devices through the local adb server: screenshots,
input, apps, files, logs, UI automation and network toggles.`,
		Example: `  # Serve over stdio with every tool enabled
  adb-mcp

  # Inspection tools only
  adb-mcp --mode readonly

  # Streamable HTTP on port 8080
  adb-mcp --transport http --addr :8080

  # Use a remote adb server and Chinese failure labels
  adb-mcp --adb-host 192.168.1.50 --language zh`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file (JSON)")
	flags.StringVar(&opts.mode, "mode", string(config.ModeFull), "Capability mode: 'readonly' or 'full'")
	flags.StringVar(&opts.adbHost, "adb-host", config.DefaultADBHost, "adb server host")
	flags.IntVar(&opts.adbPort, "adb-port", config.DefaultADBPort, "adb server port")
	flags.StringVar(&opts.language, "language", "en", "Failure label language: 'en' or 'zh'")
	flags.StringVar(&opts.transport, "transport", transportStdio, "MCP transport: 'stdio' or 'http'")
	flags.StringVar(&opts.addr, "addr", ":8080", "Listen address for the http transport")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the adb-mcp version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "adb-mcp version %s\n", version.GetVersion())
			if !check {
				return nil
			}
			info := version.NewChecker().CheckForUpdates(cmd.Context())
			switch {
			case info.Error != "":
				return fmt.Errorf("update check failed: %s", info.Error)
			case info.UpdateAvailable:
				fmt.Fprintln(cmd.OutOrStdout(), info.UpdateMessage())
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "adb-mcp is up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}

// loadConfig reads the configuration file and applies explicitly set flags
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = config.CapabilityMode(opts.mode)
	}
	if flags.Changed("adb-host") {
		cfg.ADB.Host = opts.adbHost
	}
	if flags.Changed("adb-port") {
		cfg.ADB.Port = opts.adbPort
	}
	if flags.Changed("language") {
		cfg.Language = opts.language
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch opts.transport {
	case transportStdio, transportHTTP:
	default:
		return nil, fmt.Errorf("invalid transport %q: expected 'stdio' or 'http'", opts.transport)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	checker := version.NewChecker()
	checker.CheckForUpdatesAsync()

	resolver := adb.NewResolver(adb.NewClient(cfg.ADB, logger))
	server := mcp.NewServer(cfg, tools.New(resolver, cfg, logger), logger)

	logger.Info().
		Str("version", version.GetVersion()).
		Str("mode", string(cfg.Mode)).
		Str("adb", cfg.ADB.Address()).
		Str("transport", opts.transport).
		Msg("adb-mcp server starting")

	if opts.transport == transportHTTP {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		err = server.ServeHTTP(ctx, opts.addr)
	} else {
		err = server.ServeStdio()
	}

	if info := checker.GetUpdateInfo(); info != nil && info.UpdateMessage() != "" {
		logger.Info().Msg(info.UpdateMessage())
	}
	if err != nil {
		logger.Error().Err(err).Msg("server error")
		return err
	}
	logger.Info().Msg("adb-mcp server stopped")
	return nil
}
