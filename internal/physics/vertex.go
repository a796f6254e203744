// Package physics is the rigid-body layer the force models plug into: a
// body integrates the wrenches produced by its vertices every tick.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Wrench is a force/torque pair expressed in body axes
// (X forward, Y right, Z down).
type Wrench struct {
	Force  mgl64.Vec3
	Torque mgl64.Vec3
}

// Add returns the component-wise sum of two wrenches.
func (w Wrench) Add(o Wrench) Wrench {
	return Wrench{Force: w.Force.Add(o.Force), Torque: w.Torque.Add(o.Torque)}
}

// WrenchSource fills in the wrench a vertex applies this tick.
type WrenchSource interface {
	SetWrench(w *Wrench)
}

// VertexUpdater is what a Body drives each tick. Force models implement
// it by embedding Vertex and overriding Reset/Update as needed.
type VertexUpdater interface {
	Reset()
	Update()
	Wrench() Wrench
	Position() mgl64.Vec3
}

// Vertex is a point on a rigid body where a wrench is applied.
type Vertex struct {
	position mgl64.Vec3
	normal   mgl64.Vec3
	wrench   Wrench
	source   WrenchSource
}

// Initialize places the vertex in body coordinates and binds the source
// that will be asked for the wrench on every Update.
func (v *Vertex) Initialize(position, normal mgl64.Vec3, source WrenchSource) {
	v.position = position
	v.normal = normal
	v.source = source
	v.wrench = Wrench{}
}

// Reset clears the current wrench.
func (v *Vertex) Reset() {
	v.wrench = Wrench{}
}

// Update asks the source for a freshly composed wrench.
func (v *Vertex) Update() {
	v.wrench = Wrench{}
	if v.source != nil {
		v.source.SetWrench(&v.wrench)
	}
}

// Wrench returns the wrench computed by the last Update.
func (v *Vertex) Wrench() Wrench { return v.wrench }

// Position returns the vertex position in body coordinates.
func (v *Vertex) Position() mgl64.Vec3 { return v.position }

// Normal returns the vertex normal in body coordinates.
func (v *Vertex) Normal() mgl64.Vec3 { return v.normal }
