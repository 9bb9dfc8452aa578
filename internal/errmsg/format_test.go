//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			err:      nil,
			expected: "",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("decode error: bad frame"),
			expected: "Failed to start playback: decode error: bad frame",
		},
		{
			name:     "device operation",
			op:       OpDeviceOpen,
			err:      errors.New("no audio device"),
			expected: "Failed to open audio device: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpLibraryScan,
			context:  "/home/user/music",
			err:      nil,
			expected: "",
		},
		{
			name:     "scan with path context",
			op:       OpLibraryScan,
			context:  "/home/user/music",
			err:      errors.New("permission denied"),
			expected: "Failed to scan music directory '/home/user/music': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpConfigLoad,
			context:  "",
			err:      errors.New("toml: expected value"),
			expected: "Failed to load config: toml: expected value",
		},
		{
			name:     "log file with path context",
			op:       OpLogOpen,
			context:  "/var/log/ripple.log",
			err:      errors.New("read-only file system"),
			expected: "Failed to open log file '/var/log/ripple.log': read-only file system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpPlaybackStart, OpDeviceOpen, OpCommand,
		OpConfigLoad, OpLibraryScan, OpLogOpen,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}
			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
