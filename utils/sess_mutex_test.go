package utils

import (
	"github.com/stretchr/testify/assert"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSessMutex(t *testing.T) {
	mtx := SessionedMutex{}

	sess := mtx.Lock()
	assert.True(t, sess.Exclusive())
	sess.Unlock()
	sess.Unlock() // Check unlock idempotency
	assert.False(t, sess.Exclusive())

	// Read locks (non-exclusive)
	sess2 := mtx.ReadLock()
	sess3 := mtx.ReadLock()
	assert.False(t, sess2.Exclusive())
	sess2.Unlock()
	sess3.Unlock()

	assert.Panics(t, sess3.Upgrade)
}

func TestSessMutexUpgrade(t *testing.T) {
	mtx := SessionedMutex{}

	sess := mtx.ReadLock()
	sess.Upgrade()
	assert.True(t, sess.Exclusive())
	sess.Upgrade() // Already exclusive
	sess.Unlock()
	sess.Unlock()

	// Upgraded sessions exclude each other
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := mtx.ReadLock()
			defer s.Unlock()
			s.Upgrade()

			cur := atomic.AddInt32(&inside, 1)
			if cur > atomic.LoadInt32(&maxInside) {
				atomic.StoreInt32(&maxInside, cur)
			}
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)

	// The mutex is free again
	mtx.Lock().Unlock()
}
