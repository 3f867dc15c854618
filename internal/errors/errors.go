// Package errors provides structured error types for the adb-mcp server.
// Every failure that can reach a tool call is one of these, so the
// dispatch layer can render it as a readable sentence with a hint the
// LLM can act on.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for programmatic handling
type ErrorCode string

const (
	// Device resolution errors
	CodeNoDevicesConnected ErrorCode = "NO_DEVICES_CONNECTED"
	CodeDeviceNotFound     ErrorCode = "DEVICE_NOT_FOUND"
	CodeBridgeUnavailable  ErrorCode = "BRIDGE_UNAVAILABLE"

	// Command errors
	CodeDeviceCommandFailed ErrorCode = "DEVICE_COMMAND_FAILED"
	CodeTransferFailed      ErrorCode = "TRANSFER_FAILED"
	CodeLocalIOFailed       ErrorCode = "LOCAL_IO_FAILED"
	CodeCanceled            ErrorCode = "CANCELED"

	// Parameter errors
	CodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
	CodeInvalidJSON      ErrorCode = "INVALID_JSON"

	// Permission errors
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	CodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

// ToolError is a structured error carrying a code, a readable message and
// an optional hint on how to recover.
type ToolError struct {
	// Code is a machine-readable error category
	Code ErrorCode `json:"code"`

	// Message is a human/LLM-readable description of what went wrong
	Message string `json:"message"`

	// Hint provides actionable guidance on how to fix the error
	Hint string `json:"hint,omitempty"`

	// Details contains additional context (serial, path, command)
	Details map[string]interface{} `json:"details,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *ToolError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Hint != "" {
		sb.WriteString(" | Hint: ")
		sb.WriteString(e.Hint)
	}

	return sb.String()
}

// Unwrap returns the underlying error for error chaining
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// --- Device Resolution Errors ---

// NoDevicesConnected creates an error for an empty device list
func NoDevicesConnected() *ToolError {
	return &ToolError{
		Code:    CodeNoDevicesConnected,
		Message: "no connected devices found",
		Hint:    "Connect a device over USB or run 'adb connect <ip:port>', then check it appears in list_devices.",
	}
}

// DeviceNotFound creates an error for a serial that is not in the live list
func DeviceNotFound(serial string, available []string) *ToolError {
	hint := "Use list_devices to see the serials of attached devices, or omit device_id to use the first one."
	if len(available) > 0 {
		hint = fmt.Sprintf("Attached devices: %s. Omit device_id to use the first one.", strings.Join(available, ", "))
	}
	return &ToolError{
		Code:    CodeDeviceNotFound,
		Message: fmt.Sprintf("device not found: %s", serial),
		Hint:    hint,
		Details: map[string]interface{}{
			"deviceId":  serial,
			"available": available,
		},
	}
}

// BridgeUnavailable creates an error when the adb server cannot be reached
func BridgeUnavailable(address string, err error) *ToolError {
	return &ToolError{
		Code:    CodeBridgeUnavailable,
		Message: fmt.Sprintf("cannot reach adb server at %s: %v", address, err),
		Hint:    "Start the adb server with 'adb start-server' and make sure the adb binary is on PATH.",
		Cause:   err,
		Details: map[string]interface{}{
			"address": address,
		},
	}
}

// --- Command Errors ---

// DeviceCommandFailed creates an error for a failed shell or package command
func DeviceCommandFailed(serial, command string, err error) *ToolError {
	return &ToolError{
		Code:    CodeDeviceCommandFailed,
		Message: fmt.Sprintf("command %q failed on %s: %v", command, serial, err),
		Cause:   err,
		Details: map[string]interface{}{
			"deviceId": serial,
			"command":  command,
		},
	}
}

// TransferFailed creates an error for a failed push or pull
func TransferFailed(serial, direction, src, dst string, err error) *ToolError {
	return &ToolError{
		Code:    CodeTransferFailed,
		Message: fmt.Sprintf("%s %s -> %s failed on %s: %v", direction, src, dst, serial, err),
		Hint:    "Check that the source exists and the destination directory is writable.",
		Cause:   err,
		Details: map[string]interface{}{
			"deviceId":  serial,
			"direction": direction,
			"source":    src,
			"dest":      dst,
		},
	}
}

// LocalIOFailed creates an error for host-side temp file or file access failures
func LocalIOFailed(op, path string, err error) *ToolError {
	return &ToolError{
		Code:    CodeLocalIOFailed,
		Message: fmt.Sprintf("local %s of %s failed: %v", op, path, err),
		Cause:   err,
		Details: map[string]interface{}{
			"operation": op,
			"path":      path,
		},
	}
}

// Canceled creates an error for an operation abandoned because its context ended
func Canceled(operation string, err error) *ToolError {
	return &ToolError{
		Code:    CodeCanceled,
		Message: fmt.Sprintf("%s canceled: %v", operation, err),
		Cause:   err,
	}
}

// --- Parameter Errors ---

// MissingParameter creates an error for missing required parameters
func MissingParameter(paramName, description string) *ToolError {
	return &ToolError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("required parameter '%s' is missing", paramName),
		Hint:    description,
		Details: map[string]interface{}{
			"parameter": paramName,
		},
	}
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(paramName string, value interface{}, expected string) *ToolError {
	return &ToolError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid value for parameter '%s': %v", paramName, value),
		Hint:    fmt.Sprintf("Expected: %s", expected),
		Details: map[string]interface{}{
			"parameter": paramName,
			"value":     value,
			"expected":  expected,
		},
	}
}

// InvalidJSON creates an error for JSON parsing failures
func InvalidJSON(paramName string, err error, example string) *ToolError {
	return &ToolError{
		Code:    CodeInvalidJSON,
		Message: fmt.Sprintf("invalid JSON in parameter '%s': %v", paramName, err),
		Hint:    fmt.Sprintf("Provide valid JSON. Example: %s", example),
		Cause:   err,
		Details: map[string]interface{}{
			"parameter": paramName,
			"example":   example,
		},
	}
}

// --- Permission Errors ---

// PermissionDenied creates an error for an operation disabled by configuration
func PermissionDenied(operation, mode string) *ToolError {
	var hint string
	switch operation {
	case "install":
		hint = "Package installation is disabled. Ask the administrator to enable 'allowInstall' in the configuration."
	case "file_write":
		hint = "Writing to the device is disabled. Ask the administrator to enable 'allowFileWrite' in the configuration."
	case "reboot":
		hint = "Rebooting devices is disabled. Ask the administrator to enable 'allowReboot' in the configuration."
	default:
		hint = fmt.Sprintf("This operation is not allowed in '%s' mode.", mode)
	}

	return &ToolError{
		Code:    CodePermissionDenied,
		Message: fmt.Sprintf("%s is not allowed in current server mode", operation),
		Hint:    hint,
		Details: map[string]interface{}{
			"operation": operation,
			"mode":      mode,
		},
	}
}

// --- Helper for wrapping generic errors ---

// Wrap wraps a generic error with context
func Wrap(code ErrorCode, message string, hint string, err error) *ToolError {
	return &ToolError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   err,
	}
}

// FromError creates a ToolError from a generic error, attempting to preserve any existing structure
func FromError(err error) *ToolError {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te
	}
	return &ToolError{
		Code:    CodeUnknown,
		Message: err.Error(),
		Cause:   err,
	}
}

// CodeOf returns the code of the first ToolError in err's chain, or
// CodeUnknown.
func CodeOf(err error) ErrorCode {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return CodeUnknown
}

// DetailsOf returns the details of the first ToolError in err's chain,
// or nil.
func DetailsOf(err error) map[string]interface{} {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.Details
	}
	return nil
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
