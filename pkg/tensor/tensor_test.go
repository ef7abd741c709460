package tensor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazytensor/lazyrt/pkg/device"
)

func TestNewDataIDsMonotonic(t *testing.T) {
	dev := device.New("cpu", 0)
	first := NewData(dev)
	second := NewData(dev)
	assert.Greater(t, second.ID, first.ID)
}

func TestNewDataIDsUniqueConcurrently(t *testing.T) {
	dev := device.New("cpu", 0)

	const goroutines = 8
	const perGoroutine = 1000

	ids := make(chan int64, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				ids <- NewData(dev).ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, goroutines*perGoroutine)
	for id := range ids {
		require.False(t, seen[id], "duplicate tensor id %d", id)
		seen[id] = true
	}
}

func TestCreate(t *testing.T) {
	dev := device.New("gpu", 2)
	data := NewData(dev)

	tens := Create(data)
	assert.Same(t, data, tens.Data())
	assert.Equal(t, data.ID, tens.ID())
	assert.Equal(t, dev, tens.Device())
}
