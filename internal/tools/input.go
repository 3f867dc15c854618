package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/errors"
	"github.com/ctagard/adb-mcp/pkg/types"
)

// Android keycodes for the named key shortcuts
const (
	KeycodeHome      = 3
	KeycodeBack      = 4
	KeycodeAppSwitch = 187
)

const multiTapExample = `[{"x": 100, "y": 200}, {"x": 300, "y": 400}]`

// TapScreen taps at (x, y)
func (t *Toolset) TapScreen(ctx context.Context, deviceID string, x, y int) string {
	return t.dispatch(ctx, "tap_screen", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdTap, adb.Args{"x": x, "y": y})); err != nil {
			return "", err
		}
		return fmt.Sprintf("Tapped at (%d, %d)", x, y), nil
	})
}

// ParseTapPoints reads a JSON array of {"x":..,"y":..} objects. Entries
// missing either coordinate are skipped.
func ParseTapPoints(taps string) ([]types.TapPoint, error) {
	if !gjson.Valid(taps) {
		return nil, errors.InvalidJSON("taps", fmt.Errorf("malformed JSON"), multiTapExample)
	}
	parsed := gjson.Parse(taps)
	if !parsed.IsArray() {
		return nil, errors.InvalidJSON("taps", fmt.Errorf("expected a JSON array"), multiTapExample)
	}

	var points []types.TapPoint
	parsed.ForEach(func(_, v gjson.Result) bool {
		x, y := v.Get("x"), v.Get("y")
		if x.Exists() && y.Exists() && x.Type != gjson.Null && y.Type != gjson.Null {
			points = append(points, types.TapPoint{X: int(x.Int()), Y: int(y.Int())})
		}
		return true
	})
	return points, nil
}

// MultiTap taps each point in order, pausing the step delay between taps
func (t *Toolset) MultiTap(ctx context.Context, deviceID, taps string) string {
	return t.dispatch(ctx, "multi_tap", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		points, err := ParseTapPoints(taps)
		if err != nil {
			return "", err
		}

		done := make([]string, 0, len(points))
		for _, p := range points {
			if _, err := ex.Shell(ctx, adb.Command(adb.CmdTap, adb.Args{"x": p.X, "y": p.Y})); err != nil {
				return "", err
			}
			done = append(done, "tap "+p.String())
			if err := t.sleep(ctx, t.cfg.ScriptStepDelay.Std()); err != nil {
				return "", errors.Canceled("multi_tap", err)
			}
		}
		return "Multi-tap completed: " + strings.Join(done, ", "), nil
	})
}

// Swipe directions
const (
	SwipeUp    = "up"
	SwipeDown  = "down"
	SwipeLeft  = "left"
	SwipeRight = "right"
)

// SwipeVertical swipes along x=startX from startY to endY
func (t *Toolset) SwipeVertical(ctx context.Context, deviceID, direction string, startX, startY, endY, duration int) string {
	return t.swipe(ctx, deviceID, direction, startX, startY, startX, endY, duration)
}

// SwipeHorizontal swipes along y=startY from startX to endX
func (t *Toolset) SwipeHorizontal(ctx context.Context, deviceID, direction string, startX, startY, endX, duration int) string {
	return t.swipe(ctx, deviceID, direction, startX, startY, endX, startY, duration)
}

func (t *Toolset) swipe(ctx context.Context, deviceID, direction string, x1, y1, x2, y2, duration int) string {
	return t.dispatch(ctx, "swipe", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		cmd := adb.Command(adb.CmdSwipe, adb.Args{"x1": x1, "y1": y1, "x2": x2, "y2": y2, "duration": duration})
		if _, err := ex.Shell(ctx, cmd); err != nil {
			return "", err
		}
		return fmt.Sprintf("Swiped %s from (%d, %d) to (%d, %d)", direction, x1, y1, x2, y2), nil
	})
}

// InputText types text into the focused field
func (t *Toolset) InputText(ctx context.Context, deviceID, text string) string {
	return t.dispatch(ctx, "input_text", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdText, adb.Args{"text": adb.EscapeInputText(text)})); err != nil {
			return "", err
		}
		return "Entered text: " + text, nil
	})
}

// PressKey sends a key event
func (t *Toolset) PressKey(ctx context.Context, deviceID string, keycode int) string {
	return t.keyevent(ctx, deviceID, keycode, fmt.Sprintf("Pressed key: %d", keycode))
}

// PressBack presses the back key
func (t *Toolset) PressBack(ctx context.Context, deviceID string) string {
	return t.keyevent(ctx, deviceID, KeycodeBack, "Pressed back key")
}

// PressHome presses the home key
func (t *Toolset) PressHome(ctx context.Context, deviceID string) string {
	return t.keyevent(ctx, deviceID, KeycodeHome, "Pressed home key")
}

// PressAppSwitch opens the recent apps view
func (t *Toolset) PressAppSwitch(ctx context.Context, deviceID string) string {
	return t.keyevent(ctx, deviceID, KeycodeAppSwitch, "Pressed app switch key")
}

func (t *Toolset) keyevent(ctx context.Context, deviceID string, keycode int, msg string) string {
	return t.dispatch(ctx, "press_key", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdKeyEvent, adb.Args{"keycode": keycode})); err != nil {
			return "", err
		}
		return msg, nil
	})
}
