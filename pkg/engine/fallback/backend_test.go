package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lazytensor/lazyrt/pkg/device"
	"github.com/lazytensor/lazyrt/pkg/engine"
)

func TestFromScalar(t *testing.T) {
	backend := New()
	dev := device.New("cpu", 0)

	handle, err := backend.FromScalar(101, engine.Int64, dev)
	require.NoError(t, err)
	assert.Equal(t, dev, handle.Device())
	assert.Equal(t, engine.Int64, handle.Kind())
	assert.Equal(t, uint64(101), handle.(*Handle).Value())
	assert.Equal(t, 1, backend.Resident(dev))
}

func TestCapacity(t *testing.T) {
	backend := NewWithCapacity(2)
	dev := device.New("gpu", 0)
	other := device.New("gpu", 1)

	for i := 0; i < 2; i++ {
		_, err := backend.FromScalar(uint64(i), engine.Int64, dev)
		require.NoError(t, err)
	}

	_, err := backend.FromScalar(3, engine.Int64, dev)
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	// Capacity is per device.
	_, err = backend.FromScalar(3, engine.Int64, other)
	require.NoError(t, err)
}
