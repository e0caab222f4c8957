package utils

import "sync"

// SessionedMutex is an RWMutex handing out lock sessions. A session can be
// unlocked any number of times, so it is safe to defer Unlock and still
// release or upgrade early.
type SessionedMutex struct {
	mtx sync.RWMutex
}

func (s *SessionedMutex) ReadLock() *LockSession {
	s.mtx.RLock()
	return &LockSession{mtx: &s.mtx, readLock: true}
}

func (s *SessionedMutex) Lock() *LockSession {
	s.mtx.Lock()
	return &LockSession{mtx: &s.mtx, readLock: false}
}

type LockSession struct {
	mtx      *sync.RWMutex
	readLock bool
}

// Upgrade turns a read session into an exclusive one. The lock is released
// in between, so anything observed under the read lock must be checked again.
func (l *LockSession) Upgrade() {
	PanicIfF(l.mtx == nil, "upgrading a released lock session")
	if !l.readLock {
		return
	}
	l.mtx.RUnlock()
	l.mtx.Lock()
	l.readLock = false
}

// Exclusive reports whether the session holds the write lock.
func (l *LockSession) Exclusive() bool {
	return l.mtx != nil && !l.readLock
}

// Unlock is idempotent.
func (l *LockSession) Unlock() {
	if l.mtx == nil {
		return
	}

	if l.readLock {
		l.mtx.RUnlock()
	} else {
		l.mtx.Unlock()
	}
	l.mtx = nil
}
