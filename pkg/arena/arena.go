// Package arena tracks per-device runtime state for the lazy tensor
// engine: which tensors are currently alive on each device, and the
// deterministic per-device RNG seed state used when building graphs.
package arena

import (
	"fmt"
	"slices"
	"sync"
	"weak"

	"k8s.io/klog/v2"

	"github.com/lazytensor/lazyrt/pkg/device"
	"github.com/lazytensor/lazyrt/pkg/engine"
	"github.com/lazytensor/lazyrt/pkg/ir"
	"github.com/lazytensor/lazyrt/pkg/metrics"
	"github.com/lazytensor/lazyrt/pkg/tensor"
)

const (
	// Every device starts from the same root seed; determinism across
	// runs comes from the recurrences below, not from entropy.
	defaultSeed = 101

	// Per-observation recurrence applied by SeedValue.
	seedMul = 214013
	seedAdd = 2531011

	// Per-step recurrence applied by MarkStep.
	stepSeedMul = 7012063
	stepSeedAdd = 1012031

	seedKind = engine.Int64
)

// Counter names reported to the metrics registry.
const (
	CounterCreateTensor  = "CreateTensor"
	CounterDestroyTensor = "DestroyTensor"
)

// deviceContext holds all mutable per-device state. The mutex guards
// every other field; contexts for different devices are never locked
// together.
type deviceContext struct {
	mu sync.Mutex

	// tensors maps a tensor's unique id to a weak reference to its
	// backing data. Entries whose referent has been collected stay in
	// the map until an explicit UnregisterTensor call; enumeration just
	// skips them.
	tensors map[int64]weak.Pointer[tensor.Data]

	seed        uint64
	runningSeed uint64
	seedValue   ir.Value
}

func newDeviceContext() *deviceContext {
	return &deviceContext{
		tensors:     make(map[int64]weak.Pointer[tensor.Data]),
		seed:        defaultSeed,
		runningSeed: defaultSeed,
	}
}

// Arena is the per-device runtime registry. One Arena serves the whole
// process; contexts are created on first touch of a device and are never
// destroyed (device count is small and bounded).
type Arena struct {
	backend  engine.Backend
	counters *metrics.Registry

	mu       sync.Mutex
	contexts map[device.Device]*deviceContext
}

// New builds an Arena that materializes seed constants through backend.
func New(backend engine.Backend) *Arena {
	return &Arena{
		backend:  backend,
		counters: metrics.Default(),
		contexts: make(map[device.Device]*deviceContext),
	}
}

var (
	defaultOnce  sync.Once
	defaultArena *Arena
)

// InitDefault installs the process-wide arena. Only the first call has
// any effect; it returns the installed arena either way.
func InitDefault(backend engine.Backend) *Arena {
	defaultOnce.Do(func() {
		defaultArena = New(backend)
	})
	return defaultArena
}

// Default returns the process-wide arena, or nil if InitDefault has not
// been called.
func Default() *Arena { return defaultArena }

// context returns the device's context, creating it on first use.
// Repeated calls for the same device return the same instance. The arena
// lock covers only the map access, never the returned context's state.
func (a *Arena) context(dev device.Device) *deviceContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	devctx, ok := a.contexts[dev]
	if !ok {
		devctx = newDeviceContext()
		a.contexts[dev] = devctx
	}
	return devctx
}

func (a *Arena) allContexts() []*deviceContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	all := make([]*deviceContext, 0, len(a.contexts))
	for _, devctx := range a.contexts {
		all = append(all, devctx)
	}
	return all
}

// forEach applies fn to dev's context, or to every registered context
// when dev is nil. fn is responsible for taking the context lock.
func (a *Arena) forEach(fn func(*deviceContext), dev *device.Device) {
	if dev == nil {
		for _, devctx := range a.allContexts() {
			fn(devctx)
		}
	} else {
		fn(a.context(*dev))
	}
}

// RegisterTensor makes data discoverable by device-wide enumeration. The
// arena holds only a weak reference; registration does not extend the
// data's lifetime.
func (a *Arena) RegisterTensor(data *tensor.Data) {
	devctx := a.context(data.Device)
	devctx.mu.Lock()
	devctx.tensors[data.ID] = weak.Make(data)
	devctx.mu.Unlock()
	a.counters.Counter(CounterCreateTensor).Add(1)
}

// UnregisterTensor drops the registry entry for data, if present. Calling
// it for an id that was never registered, or was already removed, is a
// no-op.
func (a *Arena) UnregisterTensor(data *tensor.Data) {
	devctx := a.context(data.Device)
	devctx.mu.Lock()
	delete(devctx.tensors, data.ID)
	devctx.mu.Unlock()
	a.counters.Counter(CounterDestroyTensor).Add(1)
}

// LiveTensors returns a handle for every registered tensor whose backing
// data is still alive, on dev or on all devices when dev is nil. Entries
// whose referent has been collected are skipped but not removed; cleanup
// happens on the owner's UnregisterTensor call, so a registration that is
// never unregistered leaves a permanent stale entry. Within one device,
// results come back in creation order; across devices no order is
// guaranteed, and each device is snapshotted independently.
func (a *Arena) LiveTensors(dev *device.Device) []tensor.Tensor {
	var tensors []tensor.Tensor
	a.forEach(func(devctx *deviceContext) {
		devctx.mu.Lock()
		defer devctx.mu.Unlock()
		ids := make([]int64, 0, len(devctx.tensors))
		for id := range devctx.tensors {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			if data := devctx.tensors[id].Value(); data != nil {
				tensors = append(tensors, tensor.Create(data))
			}
		}
	}, dev)
	return tensors
}

// SeedValue returns the device's seed as a graph node and advances the
// seed state. Every call advances the running seed and wraps the cached
// expression in one more multiply-add, so two consecutive calls return
// different nodes; use RunningSeed for a read without side effects.
func (a *Arena) SeedValue(dev device.Device) (ir.Value, error) {
	devctx := a.context(dev)
	devctx.mu.Lock()
	defer devctx.mu.Unlock()

	if !devctx.seedValue.Valid() {
		handle, err := a.backend.FromScalar(devctx.seed, seedKind, dev)
		if err != nil {
			return ir.Value{}, fmt.Errorf("materializing seed on %s: %w", dev, err)
		}
		devctx.seedValue = ir.DeviceData(handle)
	}
	// Keep the running seed as a scalar as well, so it can be read back
	// without executing graphs.
	devctx.runningSeed = seedAdd + seedMul*devctx.runningSeed
	// Compose new seeds from the root seed, rather than materializing a
	// fresh device constant per call, which would accumulate computation
	// parameters and could overflow the device capacity.
	k := ir.Scalar(seedMul, seedKind)
	b := ir.Scalar(seedAdd, seedKind)
	devctx.seedValue = ir.Add(b, ir.Mul(k, devctx.seedValue))
	return devctx.seedValue, nil
}

// RunningSeed returns the most recently derived scalar seed for dev
// without mutating any state.
func (a *Arena) RunningSeed(dev device.Device) uint64 {
	devctx := a.context(dev)
	devctx.mu.Lock()
	defer devctx.mu.Unlock()
	return devctx.runningSeed
}

// SetRNGSeed resets the device's root seed. The cached seed expression is
// invalidated, so the next SeedValue call materializes a fresh device
// constant.
func (a *Arena) SetRNGSeed(dev device.Device, seed uint64) {
	devctx := a.context(dev)
	devctx.mu.Lock()
	defer devctx.mu.Unlock()
	devctx.seed = seed
	devctx.runningSeed = seed
	devctx.seedValue = ir.Value{}
	klog.V(2).InfoS("rng seed set", "device", dev, "seed", seed)
}

// MarkStep is the step barrier: it advances the root seed through the
// coarse recurrence and discards the accumulated seed expression. The
// execution engine calls it at a synchronization point, after pending
// graphs have been flushed, which bounds the graph growth SeedValue
// causes and decorrelates seeds deterministically across steps.
func (a *Arena) MarkStep(dev device.Device) {
	devctx := a.context(dev)
	devctx.mu.Lock()
	defer devctx.mu.Unlock()
	devctx.seed = stepSeedAdd + stepSeedMul*devctx.seed
	devctx.runningSeed = devctx.seed
	devctx.seedValue = ir.Value{}
	klog.V(2).InfoS("step barrier", "device", dev, "seed", devctx.seed)
}
