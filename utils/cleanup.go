package utils

// CleanupErr runs a release function unless it has been disarmed. It is meant
// to be deferred right after a resource is acquired and disarmed once the
// resource is handed over to the caller.
type CleanupErr struct {
	fn   func() error
	done bool
}

func NewCleanupErr(fn func() error) *CleanupErr {
	return &CleanupErr{fn: fn}
}

// Disarm prevents the release function from running.
func (c *CleanupErr) Disarm() {
	c.done = true
}

// Cleanup runs the release function at most once and returns its error.
func (c *CleanupErr) Cleanup() error {
	if c.done {
		return nil
	}
	c.done = true
	return c.fn()
}
