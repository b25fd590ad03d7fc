package helper

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	var km KeyedMutex
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("user-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	var km KeyedMutex

	unlockA := km.Lock("user-a")
	defer unlockA()

	// A held lock on another key must not block this one.
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("user-b")
		unlockB()
		close(done)
	}()
	<-done
}
