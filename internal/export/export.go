// Package export writes simulation results as CSV or JSON to any writer.
package export

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/mtjsim/internal/experiment"
	"github.com/san-kum/mtjsim/internal/sim"
)

// Meta describes how a result was produced.
type Meta struct {
	RunID      string     `json:"run_id,omitempty"`
	Integrator string     `json:"integrator"`
	Drive      string     `json:"drive"`
	Dt         float64    `json:"dt"`
	Layers     int        `json:"layers"`
	Hext       [3]float64 `json:"hext"`
}

// Float encodes like float64 but writes NaN and Inf as null, so a diverged
// run still produces a readable document.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

type ExportData struct {
	Meta
	Steps      int              `json:"steps"`
	Times      []Float          `json:"times"`
	States     [][][3]Float     `json:"states"`
	Resistance []Float          `json:"resistance"`
	PIMM       []Float          `json:"pimm"`
	Current    []Float          `json:"current,omitempty"`
	Final      [][3]Float       `json:"final"`
	Metrics    map[string]Float `json:"metrics"`
}

func newExportData(meta Meta, result *sim.Result) ExportData {
	data := ExportData{
		Meta:       meta,
		Steps:      result.StepsTaken,
		Times:      series(result.Times),
		States:     make([][][3]Float, len(result.States)),
		Resistance: series(result.Resistance),
		PIMM:       series(result.PIMM),
		Current:    series(result.Current),
		Final:      arrays(result.Final),
		Metrics:    make(map[string]Float, len(result.Metrics)),
	}
	for i, s := range result.States {
		data.States[i] = arrays(s)
	}
	for k, v := range result.Metrics {
		data.Metrics[k] = Float(v)
	}
	return data
}

func WriteJSON(w io.Writer, meta Meta, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

// WriteSweepJSON writes the points of a sweep as one indented array.
func WriteSweepJSON(w io.Writer, points []experiment.SweepPoint) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(points)
}

func series(xs []float64) []Float {
	if xs == nil {
		return nil
	}
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

func arrays(s sim.State) [][3]Float {
	out := make([][3]Float, len(s))
	for i, v := range s {
		out[i] = [3]Float{Float(v.X), Float(v.Y), Float(v.Z)}
	}
	return out
}
