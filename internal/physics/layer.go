package physics

import (
	"fmt"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// Layer is the LLG system of one layer with its neighbours and fields frozen
// for the duration of a step. Only the layer's own magnetization varies
// between integrator stages.
type Layer struct {
	Index  int
	Top    dynamo.Vector3
	Bottom dynamo.Vector3
	Hext   dynamo.Vector3
	Hoe    dynamo.Vector3
	Stack  *dynamo.Stack
}

func NewLayer(mTop, mBottom, hext, hoe dynamo.Vector3, index int, s *dynamo.Stack) *Layer {
	return &Layer{
		Index:  index,
		Top:    mTop,
		Bottom: mBottom,
		Hext:   hext,
		Hoe:    hoe,
		Stack:  s,
	}
}

func (l *Layer) Derive(m dynamo.Vector3, _ float64) dynamo.Vector3 {
	return LLG(m, l.Top, l.Bottom, l.Hext, l.Hoe, l.Index, l.Stack)
}

func (l *Layer) GetParams() map[string]float64 {
	i := l.Index
	return map[string]float64{
		"Ms": l.Stack.Ms[i], "Ku": l.Stack.Ku[i], "Ju": l.Stack.Ju[0],
		"th": l.Stack.Th[i], "alpha": l.Stack.Alpha[i],
	}
}

func (l *Layer) SetParam(n string, v float64) error {
	i := l.Index
	switch n {
	case "Ms":
		l.Stack.Ms[i] = v
	case "Ku":
		l.Stack.Ku[i] = v
	case "Ju":
		l.Stack.Ju[0] = v
	case "th":
		l.Stack.Th[i] = v
	case "alpha":
		l.Stack.Alpha[i] = v
	default:
		return fmt.Errorf("%w: unknown layer parameter %q", dynamo.ErrParameterBounds, n)
	}
	return nil
}
