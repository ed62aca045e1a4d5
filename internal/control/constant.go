package control

import "github.com/san-kum/mtjsim/internal/dynamo"

// Constant returns a fixed field that can be replaced between runs.
type Constant struct {
	Field dynamo.Vector3
}

func NewConstant(field dynamo.Vector3) *Constant {
	return &Constant{Field: field}
}

// SetField updates the returned field.
func (c *Constant) SetField(field dynamo.Vector3) {
	c.Field = field
}

func (c *Constant) Compute(step int, t float64) dynamo.Vector3 {
	return c.Field
}
