// Package types defines shared data types used across the adb-mcp server.
//
// This package provides type definitions for:
//   - TapPoint: a screen coordinate supplied to multi_tap
//   - Bounds and UINode: elements of a uiautomator hierarchy dump
//   - DeviceProp: a named system property reported by device info tools
//   - PerfSample: one sample taken by the performance analyzer
package types

import "fmt"

// TapPoint is a screen coordinate
type TapPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p TapPoint) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Bounds is an element rectangle in screen pixels, as written by
// uiautomator: [left,top][right,bottom]
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Center returns the midpoint of the rectangle
func (b Bounds) Center() TapPoint {
	return TapPoint{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

// UINode is one element of a UI hierarchy dump
type UINode struct {
	Text        string `json:"text,omitempty"`
	ContentDesc string `json:"contentDesc,omitempty"`
	ResourceID  string `json:"resourceId,omitempty"`
	Class       string `json:"class,omitempty"`
	Clickable   bool   `json:"clickable"`
	Bounds      Bounds `json:"bounds"`
}

// DeviceProp pairs a report label with the system property it reads
type DeviceProp struct {
	Label    string `json:"label"`
	Property string `json:"property"`
}

// PerfSample is one performance measurement of an app
type PerfSample struct {
	Elapsed float64 `json:"elapsed"`
	CPU     string  `json:"cpu"`
	Battery string  `json:"battery"`
	Memory  string  `json:"memory"`
}
