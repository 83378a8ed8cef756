// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackPrepare Op = "prepare track"
	OpPlaybackStart   Op = "start playback"
	OpPlaybackSeek    Op = "seek"

	// Focus operations
	OpFocusRequest Op = "request audio focus"
	OpFocusRelease Op = "release audio focus"

	// Route operations
	OpRouteWatch Op = "watch output routes"

	// Status surface operations
	OpNotifyPublish Op = "publish status notification"
	OpMprisServe    Op = "serve media controls"

	// Track metadata
	OpTagsRead Op = "read track metadata"

	// Session persistence
	OpStateLoad Op = "restore saved session"
	OpStateSave Op = "save session"

	// Initialization
	OpInitialize Op = "initialize coordinator"
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
