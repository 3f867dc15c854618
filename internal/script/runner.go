package script

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctagard/adb-mcp/internal/adb"
)

// Android keycodes used by the home and back instructions
const (
	KeycodeHome = 3
	KeycodeBack = 4
)

// ResultHeader starts every run report
const ResultHeader = "Execution results:"

// Shell runs a shell command on a device
type Shell interface {
	Shell(ctx context.Context, cmd string) (string, error)
}

// Runner executes steps against a device
type Runner struct {
	shell     Shell
	stepDelay time.Duration
	logger    zerolog.Logger
}

// NewRunner creates a runner that pauses stepDelay after every instruction
func NewRunner(shell Shell, stepDelay time.Duration, logger zerolog.Logger) *Runner {
	return &Runner{
		shell:     shell,
		stepDelay: stepDelay,
		logger:    logger,
	}
}

// Run parses and executes src, returning the report. Steps that fail on
// the device are reported inline and do not stop the run. A done ctx
// stops the run and returns its error.
func (r *Runner) Run(ctx context.Context, src string) (string, error) {
	steps := Parse(src)
	lines := make([]string, 0, len(steps))

	for i, step := range steps {
		line, err := r.exec(ctx, step)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			r.logger.Debug().Err(err).Int("step", i+1).Str("line", step.Line).Msg("script step failed")
			line = fmt.Sprintf("failed: %s: %v", step.Line, err)
		}
		lines = append(lines, line)

		if err := Sleep(ctx, r.stepDelay); err != nil {
			return "", err
		}
	}

	return ResultHeader + "\n" + strings.Join(lines, "\n"), nil
}

func (r *Runner) exec(ctx context.Context, step Step) (string, error) {
	switch step.Op {
	case OpTap:
		_, err := r.shell.Shell(ctx, adb.Command(adb.CmdTap, adb.Args{"x": step.X1, "y": step.Y1}))
		return fmt.Sprintf("tap (%d, %d)", step.X1, step.Y1), err

	case OpSwipe:
		_, err := r.shell.Shell(ctx, adb.Command(adb.CmdSwipe, adb.Args{
			"x1": step.X1, "y1": step.Y1, "x2": step.X2, "y2": step.Y2, "duration": step.Duration,
		}))
		return fmt.Sprintf("swipe (%d, %d) to (%d, %d)", step.X1, step.Y1, step.X2, step.Y2), err

	case OpText:
		_, err := r.shell.Shell(ctx, adb.Command(adb.CmdText, adb.Args{"text": adb.EscapeInputText(step.Text)}))
		return "input text: " + step.Text, err

	case OpWait:
		err := Sleep(ctx, time.Duration(step.Seconds*float64(time.Second)))
		return "wait " + strconv.FormatFloat(step.Seconds, 'f', -1, 64) + " seconds", err

	case OpPress:
		_, err := r.shell.Shell(ctx, adb.Command(adb.CmdKeyEvent, adb.Args{"keycode": step.Keycode}))
		return "press key " + step.Keycode, err

	case OpHome:
		_, err := r.shell.Shell(ctx, adb.Command(adb.CmdKeyEvent, adb.Args{"keycode": KeycodeHome}))
		return "press home", err

	case OpBack:
		_, err := r.shell.Shell(ctx, adb.Command(adb.CmdKeyEvent, adb.Args{"keycode": KeycodeBack}))
		return "press back", err
	}
	return "unrecognized command: " + step.Line, nil
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
