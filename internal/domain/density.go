package domain

import (
	"fmt"
	"math"
)

// Specific gas constants, J/(kg·K).
const (
	gasConstantDryAir = 287.05
	gasConstantVapor  = 461.5
)

// defaultRelHumidity is assumed when no humidity series is available.
const defaultRelHumidity = 0.5

// InvalidInputError reports a physically impossible sample in one of the
// density model inputs.
type InvalidInputError struct {
	Field string
	Index int
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s at sample %d: negative value %g", e.Field, e.Index, e.Value)
}

// AirDensity computes air density (kg/m³) element-wise from temperature (K)
// and pressure (Pa). A nil humidity slice assumes a relative humidity of 0.5
// for every sample; a non-nil slice must hold fractions in [0, 1] and match
// the temperature length.
//
// Returns *InvalidInputError if any temperature, pressure, or humidity sample
// is negative. The defaulted humidity is validated the same as supplied input.
func AirDensity(temp, pressure, humidity []float64) ([]float64, error) {
	if len(pressure) != len(temp) {
		return nil, fmt.Errorf("air density: pressure has %d samples, temperature has %d", len(pressure), len(temp))
	}
	if humidity == nil {
		humidity = make([]float64, len(temp))
		for i := range humidity {
			humidity[i] = defaultRelHumidity
		}
	} else if len(humidity) != len(temp) {
		return nil, fmt.Errorf("air density: humidity has %d samples, temperature has %d", len(humidity), len(temp))
	}

	if err := nonNegative("temperature", temp); err != nil {
		return nil, err
	}
	if err := nonNegative("pressure", pressure); err != nil {
		return nil, err
	}
	if err := nonNegative("humidity", humidity); err != nil {
		return nil, err
	}

	rho := make([]float64, len(temp))
	for i := range temp {
		vapor := humidity[i] * (2.05e-5 * math.Exp(0.0631846*temp[i]))
		rho[i] = (1 / temp[i]) * (pressure[i]/gasConstantDryAir - vapor*(1/gasConstantDryAir-1/gasConstantVapor))
	}
	return rho, nil
}

func nonNegative(field string, values []float64) error {
	for i, v := range values {
		if v < 0 {
			return &InvalidInputError{Field: field, Index: i, Value: v}
		}
	}
	return nil
}

// WindSpeed computes the horizontal wind speed sqrt(u²+v²) element-wise.
// Slices must be the same length.
func WindSpeed(u, v []float64) []float64 {
	ws := make([]float64, len(u))
	for i := range u {
		ws[i] = math.Hypot(u[i], v[i])
	}
	return ws
}
