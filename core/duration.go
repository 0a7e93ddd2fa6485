package core

import (
	"regexp"
	"strconv"
)

var (
	durationHours   = regexp.MustCompile(`(\d+)H`)
	durationMinutes = regexp.MustCompile(`(\d+)M`)
)

// ParseDurationMinutes converts an ISO-8601 time duration such as "PT12H30M"
// into whole minutes. Unrecognized tokens yield 0.
func ParseDurationMinutes(token string) int {
	return captureInt(durationHours, token)*60 + captureInt(durationMinutes, token)
}

func captureInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
