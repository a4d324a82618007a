package period

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDuration matches the date-free PT form at the start of the string
// all components optional, mirroring how the upstream video API emits them
var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// DurationToMinutes converts an ISO 8601 duration like PT1H30M to whole
// minutes. A nonzero seconds component rounds the total up by exactly one
// minute: PT45M10S is 46, PT59S is 1, PT0S stays 0. A string that does not
// conform to the pattern at all returns ErrMalformedDuration naming the
// input; callers treat that as a warning and continue with zero rather
// than failing the batch
func DurationToMinutes(iso string) (int, error) {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, iso)
	}

	hours := groupInt(m[1])
	minutes := groupInt(m[2])
	seconds := groupInt(m[3])

	total := hours*60 + minutes
	if seconds > 0 {
		total++
	}
	return total, nil
}

// groupInt parses an optional digits-only capture group, empty meaning zero
func groupInt(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
