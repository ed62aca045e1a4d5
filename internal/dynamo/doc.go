// Package dynamo provides the core types shared by the junction simulator.
//
// The package defines:
//
//   - [Vector3]: 3-component vector with the arithmetic the LLG model needs
//   - [Tensor]: 3x3 tensor given as three rows (demagnetization)
//   - [Stack]: per-layer parameter arrays of a multilayer junction
//   - [System]: magnetization ODE dm/dt = f(m, t)
//   - [Integrator]: fixed-step magnetization integrator
//   - [Driver]: Oersted field source
//   - [Physical]: table of physical constants
//
// # Example
//
//	layer := physics.NewLayer(mTop, mBottom, hext, hoe, 0, stack)
//	m = integrators.NewRK4().Step(layer, m, t, dt)
//
// # Thread Safety
//
// All values are plain data; the numerical functions built on them keep no
// shared state and may be called from independent goroutines as long as each
// trajectory owns its Stack.
package dynamo
