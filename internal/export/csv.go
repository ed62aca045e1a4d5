package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/mtjsim/internal/experiment"
	"github.com/san-kum/mtjsim/internal/sim"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per step: time, the components of every layer,
// the spin-diode resistance, the PIMM signal and, for current drives, the
// current.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	if len(result.States) == 0 {
		cw.Flush()
		return cw.Error()
	}

	layers := len(result.States[0])
	withCurrent := len(result.Current) == len(result.States)

	header := []string{"time"}
	for l := 0; l < layers; l++ {
		header = append(header, fmt.Sprintf("m%d_x", l), fmt.Sprintf("m%d_y", l), fmt.Sprintf("m%d_z", l))
	}
	header = append(header, "R", "pimm")
	if withCurrent {
		header = append(header, "current")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, s := range result.States {
		row = append(row[:0], formatFloat(result.Times[i]))
		for _, v := range s {
			row = append(row, formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
		}
		row = append(row, formatFloat(result.Resistance[i]), formatFloat(result.PIMM[i]))
		if withCurrent {
			row = append(row, formatFloat(result.Current[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSweepCSV writes the scalar readouts of each sweep point followed by
// one column per spin-diode frequency.
func WriteSweepCSV(w io.Writer, points []experiment.SweepPoint) error {
	cw := csv.NewWriter(w)

	if len(points) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"index", "swept", "hx", "hy", "hz", "mx", "my", "mz", "rx", "ry", "rz", "pimm_peak"}
	for _, f := range points[0].SDFrequencies {
		header = append(header, "sd_"+formatFloat(f))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		row := []string{
			strconv.Itoa(p.Index), formatFloat(p.Swept),
			formatFloat(p.Field.X), formatFloat(p.Field.Y), formatFloat(p.Field.Z),
			formatFloat(p.MAvg.X), formatFloat(p.MAvg.Y), formatFloat(p.MAvg.Z),
			formatFloat(p.Rx), formatFloat(p.Ry), formatFloat(p.Rz), formatFloat(p.Peak),
		}
		for _, v := range p.SD {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
