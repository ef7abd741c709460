// Package ir holds the symbolic graph nodes the lazy runtime composes.
// Nodes are immutable once built; composing two values always allocates a
// fresh node, so node identity distinguishes one expression from another.
package ir

import (
	"fmt"

	"github.com/lazytensor/lazyrt/pkg/engine"
)

type Op string

const (
	OpDeviceData Op = "device_data"
	OpScalar     Op = "scalar"
	OpAdd        Op = "add"
	OpMul        Op = "mul"
)

// Node is one vertex of the symbolic computation graph.
type Node struct {
	op       Op
	operands []Value

	// payload for OpDeviceData
	handle engine.DataHandle

	// payload for OpScalar
	scalar uint64
	kind   engine.Kind
}

func (n *Node) Op() Op { return n.op }

func (n *Node) Operands() []Value { return n.operands }

// Handle returns the device data backing an OpDeviceData node, or nil.
func (n *Node) Handle() engine.DataHandle { return n.handle }

// Scalar returns the constant carried by an OpScalar node.
func (n *Node) Scalar() (uint64, engine.Kind) { return n.scalar, n.kind }

func (n *Node) String() string {
	switch n.op {
	case OpDeviceData:
		return fmt.Sprintf("device_data(%s)", n.handle.Device())
	case OpScalar:
		return fmt.Sprintf("scalar(%d, %s)", n.scalar, n.kind)
	default:
		return string(n.op)
	}
}

// Value is a presence-testable reference to a Node. The zero Value means
// "no node".
type Value struct {
	node *Node
}

func (v Value) Valid() bool { return v.node != nil }

func (v Value) Node() *Node { return v.node }

// DeviceData wraps a device-resident constant as a graph node.
func DeviceData(handle engine.DataHandle) Value {
	return Value{node: &Node{op: OpDeviceData, handle: handle}}
}

// Scalar builds a constant node carried inline in the graph, in the given
// numeric kind.
func Scalar(value uint64, kind engine.Kind) Value {
	return Value{node: &Node{op: OpScalar, scalar: value, kind: kind}}
}

func Add(a, b Value) Value {
	return compose(OpAdd, a, b)
}

func Mul(a, b Value) Value {
	return compose(OpMul, a, b)
}

func compose(op Op, a, b Value) Value {
	if !a.Valid() || !b.Valid() {
		panic(fmt.Sprintf("ir: composing %s with absent operand", op))
	}
	return Value{node: &Node{op: op, operands: []Value{a, b}}}
}
