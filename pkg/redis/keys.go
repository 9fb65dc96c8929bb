package redis

import "fmt"

// Key construction helpers for circadian state

// CurrentTargetKey returns the key holding the latest computed target (string)
// Pattern: circadian:target:{location}
func CurrentTargetKey(location string) string {
	return fmt.Sprintf("circadian:target:%s", location)
}

// TargetTimelineKey returns the key for the target timeline (sorted set
// scored by unix milliseconds)
// Pattern: circadian:timeline:{location}
func TargetTimelineKey(location string) string {
	return fmt.Sprintf("circadian:timeline:%s", location)
}

// ScheduleKey returns the key caching a generated schedule for a date
// Pattern: circadian:schedule:{location}:{date}
func ScheduleKey(location, date string) string {
	return fmt.Sprintf("circadian:schedule:%s:%s", location, date)
}
