package metadata

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 duration as the Data API reports it
// (PT#H#M#S) into seconds. Date components never appear for videos.
func ParseISODuration(s string) (float64, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, fmt.Errorf("unrecognized duration: %q", s)
	}

	var seconds int
	for i, mult := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("unrecognized duration: %q", s)
		}
		seconds += n * mult
	}
	return float64(seconds), nil
}
