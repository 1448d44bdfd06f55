package cache

import (
	"strings"
	"time"
)

// MinTTL is the shortest TTL handed to Redis.
const MinTTL = 5 * time.Second

// TimeUntilNextMinute returns the time left until the next minute boundary after now,
// never less than MinTTL. Closed minutes do not change, so data fetched for a window
// stays valid until a new minute closes.
func TimeUntilNextMinute(now time.Time) time.Duration {
	next := now.Truncate(time.Minute).Add(time.Minute)
	d := next.Sub(now)
	if d < MinTTL {
		return MinTTL
	}
	return d
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
