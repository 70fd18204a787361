package retrieval

import (
	"regexp"
	"strconv"
)

// DefaultWindow is the symmetric lookup window around a resolved timestamp, in seconds
const DefaultWindow = 45

// Timestamp patterns in priority order; the first matching pattern wins.
// Only minutes:seconds granularity is supported.
var timestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`at\s+(\d{1,2}):(\d{2})`),
	regexp.MustCompile(`on\s+(\d{1,2}):(\d{2})`),
	regexp.MustCompile(`@\s*(\d{1,2}):(\d{2})`),
	regexp.MustCompile(`(\d{1,2}):(\d{2})`),
}

// ResolveTimestamp scans a free-text query for an explicit time reference like
// "at 2:01", "on 3:11", "@ 2:01" or a bare "2:01". It returns the reference in
// seconds, or false when the query carries none. Unrecognized timestamp-like
// syntax is treated as "no timestamp", never as an error.
func ResolveTimestamp(query string) (int, bool) {
	for _, pattern := range timestampPatterns {
		match := pattern.FindStringSubmatch(query)
		if match == nil {
			continue
		}
		minutes, _ := strconv.Atoi(match[1])
		seconds, _ := strconv.Atoi(match[2])
		return minutes*60 + seconds, true
	}
	return 0, false
}
