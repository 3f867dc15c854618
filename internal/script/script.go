// Package script runs the line-oriented UI test language used by the
// run_ui_test tool.
//
// One instruction per line:
//
//	tap x y
//	swipe x1 y1 x2 y2 [duration]
//	text "content"
//	wait seconds
//	press keycode
//	home
//	back
//
// Blank lines and lines starting with # are ignored. A line that does not
// parse is reported as unrecognized and the run continues.
package script

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Op identifies an instruction
type Op string

const (
	OpTap     Op = "tap"
	OpSwipe   Op = "swipe"
	OpText    Op = "text"
	OpWait    Op = "wait"
	OpPress   Op = "press"
	OpHome    Op = "home"
	OpBack    Op = "back"
	OpUnknown Op = "unknown"
)

// DefaultSwipeDuration is used when a swipe omits its duration, in milliseconds
const DefaultSwipeDuration = 300

// MaxWaitSeconds bounds a wait from above; longer waits overflow time.Duration
const MaxWaitSeconds = float64(math.MaxInt64) / float64(time.Second)

// Step is one parsed instruction
type Step struct {
	Op   Op
	Line string

	X1, Y1, X2, Y2 int
	Duration       int
	Text           string
	Seconds        float64
	Keycode        string
}

// Parse splits src into steps, skipping blank and comment lines
func Parse(src string) []Step {
	var steps []Step
	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		steps = append(steps, parseLine(line))
	}
	return steps
}

func parseLine(line string) Step {
	parts := strings.Fields(line)
	unknown := Step{Op: OpUnknown, Line: line}

	switch strings.ToLower(parts[0]) {
	case "tap":
		if len(parts) < 3 {
			return unknown
		}
		nums, ok := atois(parts[1:3])
		if !ok {
			return unknown
		}
		return Step{Op: OpTap, Line: line, X1: nums[0], Y1: nums[1]}

	case "swipe":
		if len(parts) < 5 {
			return unknown
		}
		nums, ok := atois(parts[1:5])
		if !ok {
			return unknown
		}
		duration := DefaultSwipeDuration
		if len(parts) >= 6 {
			d, err := strconv.Atoi(parts[5])
			if err != nil {
				return unknown
			}
			duration = d
		}
		return Step{Op: OpSwipe, Line: line, X1: nums[0], Y1: nums[1], X2: nums[2], Y2: nums[3], Duration: duration}

	case "text":
		if len(parts) < 2 {
			return unknown
		}
		text := strings.Join(parts[1:], " ")
		if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
			text = text[1 : len(text)-1]
		}
		return Step{Op: OpText, Line: line, Text: text}

	case "wait":
		if len(parts) < 2 {
			return unknown
		}
		secs, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || math.IsNaN(secs) || secs < 0 || secs >= MaxWaitSeconds {
			return unknown
		}
		return Step{Op: OpWait, Line: line, Seconds: secs}

	case "press":
		if len(parts) < 2 {
			return unknown
		}
		return Step{Op: OpPress, Line: line, Keycode: parts[1]}

	case "home":
		return Step{Op: OpHome, Line: line}

	case "back":
		return Step{Op: OpBack, Line: line}
	}
	return unknown
}

func atois(parts []string) ([]int, bool) {
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}
