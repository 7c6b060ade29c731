// Package merra2 decodes single-site MERRA-2 NetCDF artifacts into aligned
// sample series.
package merra2

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"merra2-wind-etl/internal/domain"
)

// Variable names in the M2T1NXSLV single-site subsets.
const (
	varU    = "U50M"
	varV    = "V50M"
	varTemp = "T2M"
	varPres = "PS"
	varTime = "time"
)

// DecodeError reports a failed decode of one artifact. The pipeline treats it
// as a per-source failure.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// dataset is the slice of the NetCDF reader API the decoder touches, narrowed
// so tests can fake a dataset without real NetCDF bytes.
type dataset interface {
	GetVariable(name string) (*api.Variable, error)
	Close()
}

// Decoder extracts the four site variables and the time axis from a NetCDF
// artifact on disk.
type Decoder struct {
	open   func(path string) (dataset, error)
	logger *slog.Logger
}

// NewDecoder creates a Decoder backed by the native NetCDF reader.
func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{
		open: func(path string) (dataset, error) {
			return netcdf.Open(path)
		},
		logger: logger,
	}
}

// Decode opens the artifact at path and extracts one aligned Series. The
// dataset handle is closed before returning regardless of outcome; removing
// the artifact itself is the caller's job.
func (d *Decoder) Decode(path string) (domain.Series, error) {
	ds, err := d.open(path)
	if err != nil {
		return domain.Series{}, &DecodeError{Path: path, Err: fmt.Errorf("open dataset: %w", err)}
	}
	defer ds.Close()

	s := domain.Series{}
	for name, target := range map[string]*[]float64{
		varU:    &s.U,
		varV:    &s.V,
		varTemp: &s.Temp,
		varPres: &s.Pressure,
	} {
		values, err := siteSeries(ds, name)
		if err != nil {
			return domain.Series{}, &DecodeError{Path: path, Err: err}
		}
		*target = values
	}

	s.Times, err = timeAxis(ds)
	if err != nil {
		return domain.Series{}, &DecodeError{Path: path, Err: err}
	}

	if err := s.Validate(); err != nil {
		return domain.Series{}, &DecodeError{Path: path, Err: err}
	}

	d.logger.Debug("decoded artifact", "path", path, "samples", s.Len())
	return s, nil
}

// siteSeries reads one data variable and keeps the [i][0][0] cell per
// timestep: the archive nests a single site's series in leading singleton
// lat/lon dimensions.
func siteSeries(ds dataset, name string) ([]float64, error) {
	v, err := ds.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	return firstCell(name, v.Values)
}

func firstCell(name string, values any) ([]float64, error) {
	switch grid := values.(type) {
	case [][][]float64:
		out := make([]float64, len(grid))
		for i, plane := range grid {
			if len(plane) == 0 || len(plane[0]) == 0 {
				return nil, fmt.Errorf("variable %s: empty spatial grid at timestep %d", name, i)
			}
			out[i] = plane[0][0]
		}
		return out, nil
	case [][][]float32:
		out := make([]float64, len(grid))
		for i, plane := range grid {
			if len(plane) == 0 || len(plane[0]) == 0 {
				return nil, fmt.Errorf("variable %s: empty spatial grid at timestep %d", name, i)
			}
			out[i] = float64(plane[0][0])
		}
		return out, nil
	case []float64:
		// Already flat: the subset service squeezed the singleton dims.
		out := make([]float64, len(grid))
		copy(out, grid)
		return out, nil
	case []float32:
		out := make([]float64, len(grid))
		for i, v := range grid {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s: unexpected shape %T", name, values)
	}
}

// timeAxis reads the time variable and decodes it through its CF unit string.
func timeAxis(ds dataset) ([]time.Time, error) {
	v, err := ds.GetVariable(varTime)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", varTime, err)
	}

	raw, has := v.Attributes.Get("units")
	if !has {
		return nil, fmt.Errorf("variable %s: missing units attribute", varTime)
	}
	units, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("variable %s: units attribute is %T, want string", varTime, raw)
	}

	offsets, err := axisValues(v.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", varTime, err)
	}

	times, err := decodeTimes(offsets, units)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", varTime, err)
	}
	return times, nil
}

func axisValues(values any) ([]float64, error) {
	switch axis := values.(type) {
	case []float64:
		return axis, nil
	case []float32:
		out := make([]float64, len(axis))
		for i, v := range axis {
			out[i] = float64(v)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(axis))
		for i, v := range axis {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(axis))
		for i, v := range axis {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(axis))
		for i, v := range axis {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected axis type %T", values)
	}
}
