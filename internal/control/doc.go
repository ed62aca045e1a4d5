// Package control provides the Oersted field drivers applied to a junction.
//
// Drivers implement the [dynamo.Driver] interface and return the Oersted
// field for each step of a simulation:
//
//   - [None]: zero field
//   - [Pulse]: a short out-of-plane kick that starts free precession (PIMM)
//   - [Sine]: the field of an oscillating current, used for spin-diode runs
//   - [Constant]: a fixed field that can be changed between runs
//
// # Usage
//
//	drive := control.NewSine(20000, 6.5e9)
//	s := sim.New(stack, integrators.NewRK4(), drive)
//	// Driver.Compute is called once per step, before any layer moves
package control
