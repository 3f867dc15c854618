package tools

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ctagard/adb-mcp/internal/adb"
	"github.com/ctagard/adb-mcp/internal/errors"
	"github.com/ctagard/adb-mcp/internal/output"
	"github.com/ctagard/adb-mcp/internal/script"
	"github.com/ctagard/adb-mcp/pkg/types"
)

type uiHierarchy struct {
	Nodes []uiNode `xml:"node"`
}

type uiNode struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Nodes []uiNode   `xml:"node"`
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

var boundsPattern = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// ParseBounds parses a uiautomator bounds attribute such as [0,0][1080,200]
func ParseBounds(s string) (types.Bounds, bool) {
	m := boundsPattern.FindStringSubmatch(s)
	if len(m) != 5 {
		return types.Bounds{}, false
	}
	var n [4]int
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return types.Bounds{}, false
		}
		n[i] = v
	}
	return types.Bounds{Left: n[0], Top: n[1], Right: n[2], Bottom: n[3]}, true
}

// ParseUIHierarchy flattens a uiautomator dump into document order.
// Nodes without parseable bounds are dropped.
func ParseUIHierarchy(data []byte) ([]types.UINode, error) {
	var root uiHierarchy
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse UI hierarchy: %w", err)
	}

	var nodes []types.UINode
	var walk func(n uiNode)
	walk = func(n uiNode) {
		if b, ok := ParseBounds(attrValue(n.Attrs, "bounds")); ok {
			nodes = append(nodes, types.UINode{
				Text:        attrValue(n.Attrs, "text"),
				ContentDesc: attrValue(n.Attrs, "content-desc"),
				ResourceID:  attrValue(n.Attrs, "resource-id"),
				Class:       attrValue(n.Attrs, "class"),
				Clickable:   attrValue(n.Attrs, "clickable") == "true",
				Bounds:      b,
			})
		}
		for _, child := range n.Nodes {
			walk(child)
		}
	}
	for _, n := range root.Nodes {
		walk(n)
	}
	return nodes, nil
}

// FindNodeByText returns the first node whose text or content-desc equals text
func FindNodeByText(nodes []types.UINode, text string) (types.UINode, bool) {
	return lo.Find(nodes, func(n types.UINode) bool {
		return n.Text == text || n.ContentDesc == text
	})
}

func dumpUI(ctx context.Context, ex *adb.Executor) ([]byte, error) {
	return capture(ctx, ex, adb.CmdUIDump, ".xml", nil)
}

// DumpUIHierarchy returns the head of the uiautomator XML dump
func (t *Toolset) DumpUIHierarchy(ctx context.Context, deviceID string) string {
	return t.dispatch(ctx, "dump_ui_hierarchy", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		data, err := dumpUI(ctx, ex)
		if err != nil {
			return "", err
		}
		return output.TruncateHead(strings.ToValidUTF8(string(data), ""), t.truncateLimit()), nil
	})
}

// CheckElementExists reports whether text appears anywhere in the UI dump
func (t *Toolset) CheckElementExists(ctx context.Context, deviceID, text string) string {
	return t.dispatch(ctx, "check_element_exists", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		remote := ex.RemoteTempPath(".xml")
		defer ex.Remove(ctx, remote)

		if _, err := ex.Shell(ctx, adb.Command(adb.CmdUIDump, adb.Args{"path": remote})); err != nil {
			return "", err
		}
		dump, err := ex.Shell(ctx, adb.Command(adb.CmdCat, adb.Args{"path": remote}))
		if err != nil {
			return "", err
		}

		if strings.Contains(dump, text) {
			return fmt.Sprintf("Found element containing text '%s'", text), nil
		}
		return fmt.Sprintf("No element containing text '%s' found", text), nil
	})
}

// TapElementByText taps the centre of the first element whose text or
// content description equals text
func (t *Toolset) TapElementByText(ctx context.Context, deviceID, text string) string {
	return t.dispatch(ctx, "tap_element_by_text", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		data, err := dumpUI(ctx, ex)
		if err != nil {
			return "", err
		}
		nodes, err := ParseUIHierarchy(data)
		if err != nil {
			return "", errors.Wrap(errors.CodeDeviceCommandFailed, "UI hierarchy dump is not valid XML",
				"Retry once the screen is idle; uiautomator cannot dump while animations run", err)
		}

		node, ok := FindNodeByText(nodes, text)
		if !ok {
			return fmt.Sprintf("No element with text '%s' found", text), nil
		}

		c := node.Bounds.Center()
		if _, err := ex.Shell(ctx, adb.Command(adb.CmdTap, adb.Args{"x": c.X, "y": c.Y})); err != nil {
			return "", err
		}
		return fmt.Sprintf("Tapped element with text '%s' at %s", text, c), nil
	})
}

// RunUITest executes a UI test script against the device
func (t *Toolset) RunUITest(ctx context.Context, deviceID, steps string) string {
	return t.dispatch(ctx, "run_ui_test", deviceID, func(ctx context.Context, ex *adb.Executor) (string, error) {
		runner := script.NewRunner(ex, t.cfg.ScriptStepDelay.Std(), t.logger)
		out, err := runner.Run(ctx, steps)
		if err != nil {
			return "", errors.Canceled("UI test", err)
		}
		return out, nil
	})
}
