// Package physics provides the magnetization model of a multilayer junction.
//
// The model is split the way the integrator consumes it:
//
//   - [EffectiveField]: external, Oersted, anisotropy, demagnetization and
//     interlayer exchange contributions for one layer
//   - [LLG]: Landau-Lifshitz-Gilbert torque dm/dt for one layer
//   - [Layer]: one layer with frozen neighbours, implementing [dynamo.System]
//
// All functions are pure; they allocate nothing and keep no state, since they
// run four times per layer per step.
//
//	layer := physics.NewLayer(mTop, mBottom, hext, hoe, 0, stack)
//	dmdt := layer.Derive(m, t)
package physics
