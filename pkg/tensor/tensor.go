package tensor

import (
	"sync/atomic"

	"github.com/lazytensor/lazyrt/pkg/device"
	"github.com/lazytensor/lazyrt/pkg/engine"
	"github.com/lazytensor/lazyrt/pkg/ir"
)

var nextID atomic.Int64

// Data is the backing state of a lazy tensor: a unique id, the owning
// device, and either device-resident data or a pending symbolic value.
// Ownership of Data stays with whoever created it; the runtime registry
// only ever observes it weakly.
type Data struct {
	ID     int64
	Device device.Device

	// Handle is set once the tensor is device-resident.
	Handle engine.DataHandle
	// Value is the pending symbolic computation, if any.
	Value ir.Value
}

// NewData allocates backing state with a fresh unique id. Ids are
// monotonically increasing across all devices, so ascending id order
// within a device is creation order.
func NewData(dev device.Device) *Data {
	return &Data{
		ID:     nextID.Add(1),
		Device: dev,
	}
}

// Tensor is a strong handle over Data.
type Tensor struct {
	data *Data
}

// Create wraps a strong reference to backing data in a handle.
func Create(data *Data) Tensor {
	return Tensor{data: data}
}

func (t Tensor) Data() *Data { return t.data }

func (t Tensor) ID() int64 { return t.data.ID }

func (t Tensor) Device() device.Device { return t.data.Device }
