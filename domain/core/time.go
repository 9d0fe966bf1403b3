package core

import "time"

// Timestamp represents a domain timestamp in UTC
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// String returns RFC3339 formatting
func (t Timestamp) String() string {
	return time.Time(t).Format(time.RFC3339)
}
