package metrics

import (
	"github.com/san-kum/mtjsim/internal/dynamo"
)

// DriveEffort is the mean magnitude of the Oersted field over a run.
type DriveEffort struct {
	name    string
	sum     float64
	samples int
}

func NewDriveEffort() *DriveEffort {
	return &DriveEffort{
		name: "drive_effort",
	}
}

func (d *DriveEffort) Name() string {
	return d.name
}

func (d *DriveEffort) Observe(m []dynamo.Vector3, hoe dynamo.Vector3, t float64) {
	d.sum += hoe.Norm()
	d.samples++
}

func (d *DriveEffort) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *DriveEffort) Reset() {
	d.sum = 0
	d.samples = 0
}
