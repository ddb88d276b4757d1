package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")
	// ErrInvalidDuration is returned for durations not in [[HH:]MM:]SS form.
	ErrInvalidDuration = errors.New("invalid duration, use HH:MM:SS")
)

// ParseHMS converts "H:M:S", "M:S" or "S" to seconds. Empty input is zero.
func ParseHMS(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidDuration)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidDuration)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatHMS renders seconds as zero-padded HH:MM:SS.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// FormatUploadDate turns a stored YYYYMMDD date into YYYY-MM-DD. Anything
// else is returned unchanged.
func FormatUploadDate(d string) string {
	if len(d) != 8 || strings.Contains(d, "-") {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

// FormatCount abbreviates large counts with a K, M or B suffix.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}
