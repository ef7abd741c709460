package fallback

import (
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lazytensor/lazyrt/pkg/device"
	"github.com/lazytensor/lazyrt/pkg/engine"
)

// Backend is an in-memory reference implementation of engine.Backend.
// Materialized scalars are held in host memory, one handle per call.
type Backend struct {
	mu       sync.Mutex
	capacity int // max resident handles per device; 0 means unlimited
	resident map[device.Device]int
}

var _ engine.Backend = (*Backend)(nil)

func New() *Backend {
	return NewWithCapacity(0)
}

// NewWithCapacity limits the number of resident handles per device.
// FromScalar fails with codes.ResourceExhausted once a device is full.
func NewWithCapacity(capacity int) *Backend {
	return &Backend{
		capacity: capacity,
		resident: make(map[device.Device]int),
	}
}

func (b *Backend) FromScalar(value uint64, kind engine.Kind, dev device.Device) (engine.DataHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capacity > 0 && b.resident[dev] >= b.capacity {
		return nil, status.Errorf(codes.ResourceExhausted, "device %s has %d resident handles (capacity %d)", dev, b.resident[dev], b.capacity)
	}
	b.resident[dev]++

	return &Handle{
		device: dev,
		kind:   kind,
		value:  value,
	}, nil
}

// Resident returns the number of handles materialized on dev.
func (b *Backend) Resident(dev device.Device) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resident[dev]
}

// Handle is a device-resident scalar held in host memory.
type Handle struct {
	device device.Device
	kind   engine.Kind
	value  uint64
}

var _ engine.DataHandle = (*Handle)(nil)

func (h *Handle) Device() device.Device { return h.device }

func (h *Handle) Kind() engine.Kind { return h.kind }

// Value returns the raw scalar the handle was materialized from.
func (h *Handle) Value() uint64 { return h.value }
