package control

import "github.com/san-kum/mtjsim/internal/dynamo"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(step int, t float64) dynamo.Vector3 {
	return dynamo.Vector3{}
}
