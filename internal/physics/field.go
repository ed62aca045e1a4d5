package physics

import "github.com/san-kum/mtjsim/internal/dynamo"

// EffectiveField returns the net field acting on layer's magnetization mag:
// external and Oersted fields, uniaxial anisotropy, demagnetization and
// interlayer exchange with the neighbouring layer.
//
// layer and the Stack arrays are not bounds-checked beyond what slice
// indexing does; run Stack.Validate once before integrating.
func EffectiveField(mag, mTop, mBottom, hext, hoe dynamo.Vector3, layer int, s *dynamo.Stack) dynamo.Vector3 {
	ms := s.Ms[layer]
	kdir := s.Kdir[layer]

	heff := hext.Add(hoe)
	heff = heff.Add(kdir.Scale((2 * s.Ku[layer] / ms) * mag.Dot(kdir)))
	heff = heff.Add(s.Demag[layer].Apply(mag).Scale(demagScale(ms)))

	// Both interfaces share Ju[0]; layers past index 1 are uncoupled.
	switch layer {
	case 0:
		heff = heff.Add(mBottom.Sub(mag).Scale(s.Ju[0] / (ms * s.Th[layer])))
	case 1:
		heff = heff.Add(mTop.Sub(mag).Scale(s.Ju[0] / (ms * s.Th[layer])))
	}
	return heff
}

// demagScale is the factor applied to N·m to obtain the demagnetizing field:
// H_demag = -(N·m) * Ms/mu0.
func demagScale(ms float64) float64 {
	return -ms / dynamo.Physical.Mu0
}
