package helper

import "sync"

// KeyedMutex serializes work per key (typically a user id). The zero value
// is ready to use.
type KeyedMutex struct {
	locks sync.Map
}

// Lock acquires the mutex for key and returns the unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
