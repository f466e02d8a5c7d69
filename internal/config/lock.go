package config

import "sync"

// withRLock runs fn under a read lock and returns its result.
func withRLock[T any](mu *sync.RWMutex, fn func() T) T {
	mu.RLock()
	defer mu.RUnlock()
	return fn()
}

// doWithLock runs fn under the write lock.
func doWithLock(mu *sync.RWMutex, fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
