package logger

import (
	"github.com/fatih/color" // Colored console output with terminal capability detection
)

// Colorized printing functions for the different log levels. These are
// package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level. When the terminal
// cannot render color, fatih/color degrades to plain text on its own.

// Info logs informational messages in green color.
// Green is typically used for success or normal info to catch user attention pleasantly.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Magenta is bright and stands out, signaling caution without being too alarming.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
// Red is commonly associated with errors or critical problems to draw immediate attention.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It is assigned dynamically during Init based on the debug flag.
var Debug func(format string, a ...any)

// Init initializes the logger package.
// Parameters:
//   - debug: turn debug messages on or off.
//   - noColour: force plain output regardless of terminal capabilities.
func Init(debug, noColour bool) {
	if noColour {
		color.NoColor = true
	}
	if debug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		// No-op function that silently ignores debug logs.
		Debug = func(format string, a ...any) {}
	}
}

func init() {
	// Keep Debug callable even when Init is never reached (usage errors exit early).
	Debug = func(format string, a ...any) {}
}
