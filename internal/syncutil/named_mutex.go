// Package syncutil provides small synchronization helpers shared by the
// storage layer.
package syncutil

import (
	"hash/fnv"
	"sync"
)

// NamedMutex is a struct allowing to lock/unlock using a key.
// It is expected that 2 keys may collide.
type NamedMutex struct {
	locks []sync.RWMutex
	size  uint32
}

// NewNamedMutex creates a new NamedMutex with the given capacity.
// If the max number is below 2, 2 will be used.
func NewNamedMutex(maxMutexes uint32) *NamedMutex {
	if maxMutexes < 2 {
		maxMutexes = 2
	}

	return &NamedMutex{
		size:  maxMutexes,
		locks: make([]sync.RWMutex, maxMutexes),
	}
}

func (mu *NamedMutex) bucket(key []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(key)
	return h.Sum32() % mu.size
}

// Lock locks the provided key. If the lock is already in use, the
// calling goroutine blocks until the mutex is available.
func (mu *NamedMutex) Lock(key []byte) {
	mu.locks[mu.bucket(key)].Lock()
}

// Unlock unlocks the provided key. It is a run-time error if the key
// is not locked on entry to Unlock.
func (mu *NamedMutex) Unlock(key []byte) {
	mu.locks[mu.bucket(key)].Unlock()
}

// RLock locks the provided key for reading.
func (mu *NamedMutex) RLock(key []byte) {
	mu.locks[mu.bucket(key)].RLock()
}

// RUnlock undoes a single RLock call.
func (mu *NamedMutex) RUnlock(key []byte) {
	mu.locks[mu.bucket(key)].RUnlock()
}
