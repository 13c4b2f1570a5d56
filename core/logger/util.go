package logger

import "time"

// Status collapses an error into the ok/fail status vocabulary.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "fail"
}

// Took reports time since start rounded for logging.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS clamps negatives and rounds to whole milliseconds.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}
