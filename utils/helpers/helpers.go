package helpers

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-^=]{0,19}$`)

// Helper function to normalize strings
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSymbol upper-cases a ticker and strips surrounding space.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidSymbol reports whether s looks like a ticker, e.g. AAPL, BRK.B,
// RELIANCE.NS or ^GSPC.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// ToFloat parses numbers as they appear on data pages ("1,234.56",
// "4.5%"). Percentages are returned as fractions. ok is false for empty or
// non-numeric input.
func ToFloat(value string) (float64, bool) {
	cleanStr := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if cleanStr == "" {
		return 0, false
	}

	percent := strings.HasSuffix(cleanStr, "%")
	if percent {
		cleanStr = strings.TrimSpace(strings.TrimSuffix(cleanStr, "%"))
	}

	f, err := strconv.ParseFloat(cleanStr, 64)
	if err != nil {
		zap.L().Debug("Error converting to float64", zap.String("value", value), zap.Error(err))
		return 0, false
	}
	if percent {
		return f / 100.0, true
	}
	return f, true
}
