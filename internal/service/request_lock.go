package service

import (
	"sync"

	"github.com/google/uuid"
)

// RequestLocker serializes confirm-upload calls per request id. The
// idempotency check and the PROCESSING claim are not atomic on their own;
// holding the per-request lock keeps two concurrent confirms from both
// passing the check and launching two generations.
type RequestLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewRequestLocker() *RequestLocker {
	return &RequestLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for a request id, creating it on first use, and
// returns the unlock function.
func (l *RequestLocker) Lock(requestID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[requestID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[requestID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
