// Package appletime converts message store timestamps, which are relative to
// the Apple reference epoch, to absolute time.
package appletime

import "time"

// EpochOffset is the Apple reference epoch (2001-01-01T00:00:00Z) expressed
// as seconds since the Unix epoch.
const EpochOffset int64 = 978307200

// nanosecondThreshold disambiguates the store's two timestamp encodings.
// Second-resolution values for any date after 2001 are far below it and
// nanosecond-resolution values are far above it. This is a magnitude
// heuristic, not a tagged encoding; values for dates near the epoch itself
// would be ambiguous, but none occur in practice.
const nanosecondThreshold int64 = 1_000_000_000_000

// ToTime converts a store timestamp to UTC time. The value is interpreted as
// nanoseconds since the Apple epoch when its magnitude exceeds the threshold,
// and as whole seconds otherwise.
func ToTime(ts int64) time.Time {
	if ts > nanosecondThreshold {
		ts /= 1_000_000_000
	}
	return time.Unix(ts+EpochOffset, 0).UTC()
}
