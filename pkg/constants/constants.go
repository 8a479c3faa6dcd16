// Package constants provides shared constants used throughout the rollcall codebase.
// This includes matching thresholds, note keywords, file permissions, and other
// values that should be consistent across the resolution pipeline and the CLI.
package constants

// Matching constants
const (
	// DefaultSimilarityThreshold is the minimum name similarity for ID-anchored matches
	DefaultSimilarityThreshold = 0.85

	// ConservationTolerance is the absolute tolerance when comparing metric totals
	ConservationTolerance = 1e-6
)

// Note keywords. Matching is literal substring matching against names and notes.
var (
	// ResignKeywords mark a resignation
	ResignKeywords = []string{"ลาออก", "resign"}

	// RestartKeywords mark a rehire or restart
	RestartKeywords = []string{"เริ่มใหม่", "restart"}

	// TransferKeywords mark a transfer in or out
	TransferKeywords = []string{"ย้าย", "transfer"}
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxConcurrentLoads is the maximum number of period files parsed concurrently
	MaxConcurrentLoads = 4

	// MaxSuffixes is the number of letter suffixes available for duplicate output IDs
	MaxSuffixes = 26
)

// Default values
const (
	// DefaultPeriodGlob is the glob used to discover period files
	DefaultPeriodGlob = "data/periods/*"

	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".rollcall"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
