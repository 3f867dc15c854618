// Package tools implements the device operations exposed over MCP.
//
// Every operation resolves a device, runs one or more commands through an
// adb.Executor and returns a single string. Operations never return an
// error: a failure at any step, including a panic, is rendered as
// "<label>: <message>" where the label comes from the configured language
// catalog.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/config"
	"github.com/ctagard/adb-mcp/internal/errors"
	"github.com/ctagard/adb-mcp/internal/script"
)

// Toolset runs device operations
type Toolset struct {
	resolver *adb.Resolver
	cfg      *config.Config
	logger   zerolog.Logger
	labels   Labels

	// localTempDir overrides os.TempDir for staged artifacts
	localTempDir string

	sleep          func(ctx context.Context, d time.Duration) error
	sampleInterval time.Duration
}

// New creates a toolset backed by resolver
func New(resolver *adb.Resolver, cfg *config.Config, logger zerolog.Logger) *Toolset {
	return &Toolset{
		resolver:       resolver,
		cfg:            cfg,
		logger:         logger.With().Str("component", "tools").Logger(),
		labels:         LabelsFor(cfg.Language),
		sleep:          script.Sleep,
		sampleInterval: time.Second,
	}
}

// Labels returns the failure label catalog in use
func (t *Toolset) Labels() Labels {
	return t.labels
}

type handlerFunc func(ctx context.Context, ex *adb.Executor) (string, error)

// dispatch resolves deviceID and runs fn against it. Any error or panic
// is rendered as the failure string for op.
func (t *Toolset) dispatch(ctx context.Context, op, deviceID string, fn handlerFunc) (result string) {
	log := t.logger.With().Str("op", op).Str("device_id", deviceID).Logger()
	defer t.recoverFailure(op, log, &result)

	dev, err := t.resolver.Resolve(ctx, deviceID)
	if err != nil {
		return t.failure(op, err)
	}

	start := time.Now()
	out, err := fn(ctx, t.executor(dev))
	if err != nil {
		return t.failure(op, err)
	}

	log.Debug().Str("serial", dev.Serial()).Dur("elapsed", time.Since(start)).Msg("operation completed")
	return out
}

// recoverFailure turns a panic into the failure string for op. It must be
// deferred directly.
func (t *Toolset) recoverFailure(op string, log zerolog.Logger, result *string) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Msg("operation panicked")
		*result = t.failure(op, fmt.Errorf("internal error: %v", r))
	}
}

func (t *Toolset) executor(dev adb.Device) *adb.Executor {
	return adb.NewExecutor(dev, adb.ExecutorOptions{
		Timeout:       t.cfg.CommandTimeout.Std(),
		RemoteTempDir: t.cfg.RemoteTempDir,
		LocalTempDir:  t.localTempDir,
		Logger:        t.logger,
	})
}

func (t *Toolset) failure(op string, err error) string {
	t.logger.Debug().
		Err(err).
		Str("op", op).
		Str("code", string(errors.CodeOf(err))).
		Fields(errors.DetailsOf(err)).
		Msg("operation failed")
	return t.labels.Failure(op) + ": " + err.Error()
}

func (t *Toolset) truncateLimit() int {
	return t.cfg.TruncateLimit
}

// capture stages a device artifact produced by cmd at a unique remote
// path, pulls it and removes the remote copy on every path.
func capture(ctx context.Context, ex *adb.Executor, tmpl, ext string, args adb.Args) ([]byte, error) {
	remote := ex.RemoteTempPath(ext)
	defer ex.Remove(ctx, remote)

	if args == nil {
		args = adb.Args{}
	}
	args["path"] = remote
	if _, err := ex.Shell(ctx, adb.Command(tmpl, args)); err != nil {
		return nil, err
	}
	return ex.PullBytes(ctx, remote, ext)
}
