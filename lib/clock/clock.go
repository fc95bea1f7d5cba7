package clock

import "time"

const layout = "2006-01-02T15:04:05Z"

// Now returns the current UTC time in the wire format used across the API.
func Now() string {
	return time.Now().UTC().Format(layout)
}

// Parse reads a timestamp in the wire format back into a time.Time.
func Parse(s string) (time.Time, error) {
	return time.Parse(layout, s)
}
