package daemon

import "time"

// nowUnix is the real wall clock used by Daemon.now when no override has
// been installed for tests.
func nowUnix() int64 {
	return time.Now().Unix()
}
