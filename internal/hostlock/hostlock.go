// Package hostlock is the host-wide advisory lock that serializes server
// spawning. At most one client on the machine holds the lock for a given
// server image at a time. The lock is advisory: callers must tolerate
// racing clients that timed out on it and proceeded anyway.
package hostlock

import "strings"

var nameReplacer = strings.NewReplacer(`\`, `/`, "/", "-")

// NameFor derives the lock name from the expected server image path by
// canonicalizing path separators into characters legal in lock names.
func NameFor(imagePath string) string {
	return nameReplacer.Replace(imagePath)
}
