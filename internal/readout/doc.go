// Package readout turns layer magnetizations into measurable quantities:
// angle diagnostics, the spin-diode resistance of a two-layer stack, the
// in-plane and perpendicular resistances of a full stack and the rectified
// spin-diode voltage.
package readout
