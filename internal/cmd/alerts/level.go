package alerts

import (
	"fmt"

	"github.com/fatih/color"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates something a reviewer should look at.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "i"
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol for the alert level.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return SymbolError
	case LevelWarning:
		return SymbolWarning
	case LevelSuccess:
		return SymbolSuccess
	default:
		return SymbolInfo
	}
}

// Color returns the terminal color for the alert level.
func (l Level) Color() *color.Color {
	switch l {
	case LevelError:
		return color.New(color.FgRed, color.Bold)
	case LevelWarning:
		return color.New(color.FgYellow)
	case LevelSuccess:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}
