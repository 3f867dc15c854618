package tools

import (
	"context"
	"time"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/errors"
	"github.com/ctagard/adb-mcp/internal/output"
)

// Recording duration limits in seconds; screenrecord refuses more than 180
const (
	MinRecordSeconds = 1
	MaxRecordSeconds = 180
)

// TakeScreenshot captures the screen as a PNG data URI
func (t *Toolset) TakeScreenshot(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "take_screenshot", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		data, err := capture(ctx, ex, adb.CmdScreencap, ".png", nil)
		if err != nil {
			return "", err
		}
		return output.DataURI("image/png", data), nil
	})
}

// RecordScreen records the screen for duration seconds and returns an
// MP4 data URI
func (t *Toolset) RecordScreen(ctx context.Context, deviceID string, duration int) string {
	return t.dispatch(ctx, "record_screen", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		return t.record(ctx, ex, duration)
	})
}

// TakeScreenRecording is RecordScreen with a longer default duration
func (t *Toolset) TakeScreenRecording(ctx context.Context, deviceID string, duration int) string {
	return t.dispatch(ctx, "take_screen_recording", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		return t.record(ctx, ex, duration)
	})
}

// record does not return before duration+1s of wall clock has passed
// since the recording started, so the device has finalized the file.
func (t *Toolset) record(ctx context.Context, ex *adb.Executor, duration int) (string, error) {
	if duration < MinRecordSeconds || duration > MaxRecordSeconds {
		return "", errors.InvalidParameter("duration", duration, "seconds between 1 and 180")
	}

	remote := ex.RemoteTempPath(".mp4")
	defer ex.Remove(ctx, remote)

	start := time.Now()
	cmd := adb.Command(adb.CmdScreenrecord, adb.Args{"seconds": duration, "path": remote})
	if _, err := ex.Shell(ctx, cmd); err != nil {
		return "", err
	}

	wait := time.Duration(duration+1)*time.Second - time.Since(start)
	if err := t.sleep(ctx, wait); err != nil {
		return "", errors.Canceled("screen recording", err)
	}

	data, err := ex.PullBytes(ctx, remote, ".mp4")
	if err != nil {
		return "", err
	}
	return output.DataURI("video/mp4", data), nil
}
