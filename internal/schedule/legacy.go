package schedule

import (
	"strconv"
	"strings"
	"time"

	"tripboard/internal/model"
)

// LegacyToInstant converts the older day + "HHMM" leg fields to a UTC
// instant. "2300", "23:00" and "930" are accepted; anything that is not a
// valid date and clock time reports ok=false.
func LegacyToInstant(day model.Date, hhmm string) (time.Time, bool) {
	base, err := model.Date(strings.TrimSpace(string(day))).Time()
	if err != nil {
		return time.Time{}, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(hhmm), ":", "")
	if len(s) < 3 || len(s) > 4 {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return time.Time{}, false
	}
	h, m := n/100, n%100
	if h > 23 || m > 59 {
		return time.Time{}, false
	}
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}
