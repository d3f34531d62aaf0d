// Package limits provides validation, sanitization, and hard limits for
// pool configuration.
package limits

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dverbeek/reportpool/pkg/core"
)

const (
	// MaxWorkers is the hard limit for pool concurrency.
	MaxWorkers = 1000

	// MaxErrorMessageLength is the maximum length for stored failure messages.
	MaxErrorMessageLength = 4096
)

// ValidateWorkers rejects negative worker counts. Zero is the sentinel for
// "use the runtime default".
func ValidateWorkers(n int) error {
	if n < 0 {
		return core.ErrInvalidWorkerCount
	}
	return nil
}

// ClampWorkers ensures an effective worker count is within [1, MaxWorkers].
func ClampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// ValidateReportRate rejects rates that are not positive finite numbers.
func ValidateReportRate(perSecond float64) error {
	if perSecond <= 0 || math.IsNaN(perSecond) || math.IsInf(perSecond, 0) {
		return core.ErrInvalidReportRate
	}
	return nil
}

// SanitizeErrorMessage strips control characters from a failure message and
// truncates it for storage.
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}

	return result
}
