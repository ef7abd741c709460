package engine

import (
	"fmt"

	"github.com/lazytensor/lazyrt/pkg/device"
)

// Kind is the scalar element kind of device-resident data.
type Kind int

const (
	Int64 Kind = iota
	Float32
	Float64
)

func (k Kind) String() string {
	switch k {
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DataHandle is an opaque reference to data resident on a device. It does
// not expose the data itself; backends decide the representation.
type DataHandle interface {
	Device() device.Device
	Kind() Kind
}

// Backend is the device-data transfer layer: it moves host values into
// device-resident form.
type Backend interface {
	// FromScalar materializes a single scalar on the given device and
	// returns a handle to the resident value. For integer kinds the value
	// is used directly; for floating kinds it is converted.
	FromScalar(value uint64, kind Kind, dev device.Device) (DataHandle, error)
}
