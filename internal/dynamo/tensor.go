package dynamo

// Tensor is a 3x3 tensor stored as three row vectors.
type Tensor [3]Vector3

// DiagonalTensor builds a tensor with nx, ny, nz on the diagonal, which is
// how demagnetization factors of a thin-film layer are usually given.
func DiagonalTensor(nx, ny, nz float64) Tensor {
	return Tensor{
		{X: nx},
		{Y: ny},
		{Z: nz},
	}
}

// Apply returns T·m.
func (t Tensor) Apply(m Vector3) Vector3 {
	return Vector3{t[0].Dot(m), t[1].Dot(m), t[2].Dot(m)}
}

// Interaction returns -scale * (T·m). The scripting binding calls this with
// scale = -1 for the demagnetizing field; internal code uses Apply with a
// single signed factor instead.
func (t Tensor) Interaction(m Vector3, scale float64) Vector3 {
	return t.Apply(m).Scale(-scale)
}
