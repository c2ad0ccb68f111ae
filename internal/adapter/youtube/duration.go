package youtube

import (
	"regexp"
	"strconv"
)

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDurationMinutes converts an ISO-8601 duration such as PT1H2M3S into
// whole minutes, rounding leftover seconds up: PT1H2M3S is 63, PT45S is 1
// and PT0S is 0. ok is false for input that is not such a duration.
func ParseDurationMinutes(s string) (minutes int, ok bool) {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, false
	}
	days, hours, mins, secs := atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4])
	return days*24*60 + hours*60 + mins + (secs+59)/60, true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
