package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_URILocks_SameURI_Serializes(t *testing.T) {
	assert := assert.New(t)

	locks := newURILocks()
	var order []int
	var active, maxActive int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := locks.lock("file:///a.dp")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			order = append(order, i)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(order, 3)
	assert.Equal(1, maxActive)
}

func Test_URILocks_DifferentURIs_DoNotBlockEachOther(t *testing.T) {
	assert := assert.New(t)

	locks := newURILocks()

	unlockA := locks.lock("file:///a.dp")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("file:///b.dp")
		defer unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for a distinct URI was blocked by an unrelated URI's lock")
	}
	assert.NotNil(locks.locks["file:///a.dp"])
	assert.NotNil(locks.locks["file:///b.dp"])
}
