package utils

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCleanupRunsOnce(t *testing.T) {
	calls := 0
	cl := NewCleanupErr(func() error {
		calls++
		return fmt.Errorf("close failed")
	})

	assert.EqualError(t, cl.Cleanup(), "close failed")
	assert.NoError(t, cl.Cleanup())
	assert.Equal(t, 1, calls)
}

func TestCleanupDisarmed(t *testing.T) {
	calls := 0
	cl := NewCleanupErr(func() error {
		calls++
		return nil
	})
	cl.Disarm()

	assert.NoError(t, cl.Cleanup())
	assert.Equal(t, 0, calls)
}
