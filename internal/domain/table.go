package domain

import (
	"fmt"
	"time"
)

// TimeFormat renders timestamps without sub-second precision or zone suffix.
const TimeFormat = "2006-01-02 15:04:05"

// Columns is the fixed output column order of the assembled table.
var Columns = []string{"datetime", "surface_pressure", "u_50", "v_50", "temp_2m", "dens_50m", "ws_50m"}

// Row is one assembled output sample.
type Row struct {
	Datetime        string  `json:"datetime"`
	SurfacePressure float64 `json:"surface_pressure"`
	U50             float64 `json:"u_50"`
	V50             float64 `json:"v_50"`
	Temp2M          float64 `json:"temp_2m"`
	Density50M      float64 `json:"dens_50m"`
	WindSpeed50M    float64 `json:"ws_50m"`
}

// Table is the assembled output, one row per accumulated sample in
// accumulation order.
type Table struct {
	Rows        []Row
	GeneratedAt time.Time
}

// BuildTable derives density (default humidity) and wind speed over the
// accumulated series and renders the rows. A negative temperature, pressure,
// or humidity sample anywhere in the series surfaces as *InvalidInputError;
// at this stage the check spans all accumulated samples, so it is fatal to
// the run rather than isolated to one source.
func BuildTable(s Series) (Table, error) {
	if err := s.Validate(); err != nil {
		return Table{}, fmt.Errorf("build table: %w", err)
	}

	dens, err := AirDensity(s.Temp, s.Pressure, nil)
	if err != nil {
		return Table{}, fmt.Errorf("build table: %w", err)
	}
	ws := WindSpeed(s.U, s.V)

	rows := make([]Row, s.Len())
	for i := range rows {
		rows[i] = Row{
			Datetime:        s.Times[i].UTC().Format(TimeFormat),
			SurfacePressure: s.Pressure[i],
			U50:             s.U[i],
			V50:             s.V[i],
			Temp2M:          s.Temp[i],
			Density50M:      dens[i],
			WindSpeed50M:    ws[i],
		}
	}
	return Table{Rows: rows, GeneratedAt: clock.Now()}, nil
}
