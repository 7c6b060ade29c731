package domain

import (
	"fmt"
	"time"
)

// Series holds index-aligned sample sequences for one site: sample i of every
// slice was taken at Times[i]. A Series is produced per decoded source and the
// pipeline folds per-source series into one accumulated Series.
type Series struct {
	Times    []time.Time
	U        []float64 // eastward wind at 50 m, m/s
	V        []float64 // northward wind at 50 m, m/s
	Temp     []float64 // air temperature at 2 m, K
	Pressure []float64 // surface pressure, Pa
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Times)
}

// Validate checks that all five sequences are index-aligned.
func (s *Series) Validate() error {
	n := len(s.Times)
	for name, l := range map[string]int{
		"u_50":             len(s.U),
		"v_50":             len(s.V),
		"temp_2m":          len(s.Temp),
		"surface_pressure": len(s.Pressure),
	} {
		if l != n {
			return fmt.Errorf("series misaligned: %s has %d samples, time axis has %d", name, l, n)
		}
	}
	return nil
}

// Extend appends all samples of r. The append is atomic across the five
// sequences: a misaligned r leaves s unchanged and returns an error, so a
// partially decoded source can never contribute a partial row.
func (s *Series) Extend(r Series) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.Times = append(s.Times, r.Times...)
	s.U = append(s.U, r.U...)
	s.V = append(s.V, r.V...)
	s.Temp = append(s.Temp, r.Temp...)
	s.Pressure = append(s.Pressure, r.Pressure...)
	return nil
}
