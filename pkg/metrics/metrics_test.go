package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterIdentity(t *testing.T) {
	r := NewRegistry()
	require.Same(t, r.Counter("CreateTensor"), r.Counter("CreateTensor"))
	require.NotSame(t, r.Counter("CreateTensor"), r.Counter("DestroyTensor"))
}

func TestCounterConcurrentAdd(t *testing.T) {
	r := NewRegistry()

	const goroutines = 8
	const adds = 1000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < adds; i++ {
				r.Counter("events").Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines*adds), r.Counter("events").Value())
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Counter("zulu")
	r.Counter("alpha")
	r.Counter("mike")

	assert.Equal(t, []string{"alpha", "mike", "zulu"}, r.Names())
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Counter("created").Add(3)
	r.Counter("destroyed").Add(1)

	assert.Equal(t, map[string]int64{"created": 3, "destroyed": 1}, r.Snapshot())
}

func TestDefaultRegistry(t *testing.T) {
	require.Same(t, Default(), Default())
}
