// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

const (
	// Playback
	OpPlaybackStart Op = "start playback"
	OpDeviceOpen    Op = "open audio device"
	OpCommand       Op = "send command"

	// Startup
	OpConfigLoad  Op = "load config"
	OpLibraryScan Op = "scan music directory"
	OpLogOpen     Op = "open log file"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
