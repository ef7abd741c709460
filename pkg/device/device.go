package device

import (
	"fmt"
	"strconv"
	"strings"
)

// Device identifies a compute device by hardware kind and ordinal, for
// example "cpu:0" or "gpu:1". It is comparable and usable as a map key.
type Device struct {
	Kind    string
	Ordinal int
}

func New(kind string, ordinal int) Device {
	return Device{Kind: kind, Ordinal: ordinal}
}

// Parse parses a device string of the form "kind:ordinal". A bare kind
// without an ordinal ("cpu") means ordinal 0.
func Parse(s string) (Device, error) {
	if s == "" {
		return Device{}, fmt.Errorf("empty device string")
	}
	kind, ordinalString, found := strings.Cut(s, ":")
	if kind == "" {
		return Device{}, fmt.Errorf("device %q has no kind", s)
	}
	if !found {
		return Device{Kind: kind}, nil
	}
	ordinal, err := strconv.Atoi(ordinalString)
	if err != nil || ordinal < 0 {
		return Device{}, fmt.Errorf("device %q has invalid ordinal %q", s, ordinalString)
	}
	return Device{Kind: kind, Ordinal: ordinal}, nil
}

func (d Device) String() string {
	return d.Kind + ":" + strconv.Itoa(d.Ordinal)
}

// Compare orders devices by kind, then ordinal.
func (d Device) Compare(other Device) int {
	if d.Kind != other.Kind {
		return strings.Compare(d.Kind, other.Kind)
	}
	switch {
	case d.Ordinal < other.Ordinal:
		return -1
	case d.Ordinal > other.Ordinal:
		return 1
	default:
		return 0
	}
}
