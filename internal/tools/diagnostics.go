package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/errors"
	"github.com/ctagard/adb-mcp/internal/output"
	"github.com/ctagard/adb-mcp/pkg/types"
)

// LaunchSettleTime is how long AnalyzePerformance waits after launching the app
const LaunchSettleTime = 2 * time.Second

// memSummaryFields is how many whitespace separated fields of dumpsys
// meminfo are kept per sample
const memSummaryFields = 20

// TakeBugreport captures a bug report and returns its head
func (t *Toolset) TakeBugreport(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "take_bugreport", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		data, err := capture(ctx, ex, adb.CmdBugreport, ".txt", nil)
		if err != nil {
			return "", err
		}
		return output.TruncateHead(strings.ToValidUTF8(string(data), ""), t.truncateLimit()), nil
	})
}

// CollectDeviceLogs clears logcat, waits duration seconds and returns the
// tail of the log collected in that window
func (t *Toolset) CollectDeviceLogs(ctx context.Context, deviceID string, duration int) string {
	return t.dispatch(ctx, "collect_device_logs", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if duration < 0 {
			return "", errors.InvalidParameter("duration", duration, "a non-negative number of seconds")
		}
		if _, err := ex.Shell(ctx, adb.CmdLogClear); err != nil {
			return "", err
		}

		t.logger.Info().Str("serial", ex.Serial()).Int("seconds", duration).Msg("collecting device logs")
		if err := t.sleep(ctx, time.Duration(duration)*time.Second); err != nil {
			return "", errors.Canceled("log collection", err)
		}

		logs, err := ex.Shell(ctx, adb.CmdLogDump)
		if err != nil {
			return "", err
		}
		return output.TruncateTail(logs, t.truncateLimit()), nil
	})
}

// AnalyzePerformance launches pkg and samples CPU, memory and battery
// about once per sample interval until duration seconds have elapsed
func (t *Toolset) AnalyzePerformance(ctx context.Context, deviceID, pkg string, duration int) string {
	return t.dispatch(ctx, "analyze_performance", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if duration < 0 {
			return "", errors.InvalidParameter("duration", duration, "a non-negative number of seconds")
		}
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdMonkeyLaunch, adb.Args{"package": pkg})); err != nil {
			return "", err
		}
		if err := t.sleep(ctx, LaunchSettleTime); err != nil {
			return "", errors.Canceled("performance analysis", err)
		}

		t.logger.Info().Str("serial", ex.Serial()).Str("package", pkg).Int("seconds", duration).Msg("sampling performance")

		limiter := rate.NewLimiter(rate.Every(t.sampleInterval), 1)
		window := time.Duration(duration) * time.Second
		start := time.Now()

		var samples []types.PerfSample
		for {
			if err := limiter.Wait(ctx); err != nil {
				return "", errors.Canceled("performance analysis", err)
			}
			if window == 0 || (len(samples) > 0 && time.Since(start) >= window) {
				break
			}

			sample, err := samplePerformance(ctx, ex, pkg)
			if err != nil {
				return "", err
			}
			sample.Elapsed = time.Since(start).Seconds()
			samples = append(samples, sample)
		}

		return formatPerformance(samples), nil
	})
}

func samplePerformance(ctx context.Context, ex *adb.Executor, pkg string) (types.PerfSample, error) {
	mem, err := ex.Shell(ctx, adb.Command(adb.CmdMeminfo, adb.Args{"package": pkg}))
	if err != nil {
		return types.PerfSample{}, err
	}
	cpu, err := ex.Shell(ctx, adb.Command(adb.CmdTopGrep, adb.Args{"package": pkg}))
	if err != nil {
		return types.PerfSample{}, err
	}
	battery, err := ex.Shell(ctx, adb.CmdBatteryLvl)
	if err != nil {
		return types.PerfSample{}, err
	}

	memory := unavailable
	if fields := strings.Fields(mem); len(fields) > 0 {
		if len(fields) > memSummaryFields {
			fields = fields[:memSummaryFields]
		}
		memory = strings.Join(fields, " ")
	}

	return types.PerfSample{
		CPU:     strings.TrimSpace(cpu),
		Battery: strings.TrimSpace(battery),
		Memory:  memory,
	}, nil
}

func formatPerformance(samples []types.PerfSample) string {
	entries := make([]string, 0, len(samples))
	for _, s := range samples {
		entries = append(entries, fmt.Sprintf("Time: %.2fs\nCPU: %s\nBattery: %s\nMemory summary: %s",
			s.Elapsed, s.CPU, s.Battery, s.Memory))
	}
	return "Performance analysis results:\n\n" + strings.Join(entries, "\n\n")
}
