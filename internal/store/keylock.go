package store

import "sync"

// KeyLock provides per-session mutual exclusion. The insertion
// algorithm is not idempotent, so concurrent calls against the same
// session must be serialized; calls against different sessions proceed
// independently.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for a key and returns the unlock func.
func (k *KeyLock) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Forget drops the lock entry for a key once its session is gone.
func (k *KeyLock) Forget(key string) {
	k.mu.Lock()
	delete(k.locks, key)
	k.mu.Unlock()
}
