// Package domain models MERRA-2 single-site wind resource data.
//
// # Data Source
//
// Samples come from NASA's MERRA-2 reanalysis (Modern-Era Retrospective
// analysis for Research and Applications, version 2), served by the GES DISC
// archive as NetCDF-4 subsets of the M2T1NXSLV hourly single-level collection.
// Each archive file covers one day of one grid cell and carries four
// variables:
//
//	U50M  eastward wind component at 50 m, m/s
//	V50M  northward wind component at 50 m, m/s
//	T2M   air temperature at 2 m, K
//	PS    surface pressure, Pa
//
// plus a time axis encoded with a CF unit string such as
// "minutes since 2014-01-01 00:30:00".
//
// # Derived quantities
//
// Air density at 50 m follows the moist-air form of the ideal gas law with a
// vapor-pressure correction:
//
//	rho = (1/T) * (P/Rd - RH * (2.05e-5 * exp(0.0631846*T)) * (1/Rd - 1/Rw))
//
// with Rd = 287.05 J/(kg·K) for dry air and Rw = 461.5 J/(kg·K) for water
// vapor. When no humidity series is available a fixed relative humidity of
// 0.5 is assumed; the assumption is a concrete value, not a missing-data
// marker, so it is validated like caller-supplied input. See [AirDensity].
//
// Wind speed at 50 m is the magnitude of the horizontal wind vector,
// sqrt(U50M² + V50M²). See [WindSpeed].
//
// # Output table
//
// One row per accumulated sample, columns in fixed order:
//
//	datetime, surface_pressure, u_50, v_50, temp_2m, dens_50m, ws_50m
//
// Timestamps are rendered as "YYYY-MM-DD HH:MM:SS" in UTC with no sub-second
// part and no zone suffix. Row order is source-processing order, which for a
// chronologically sorted manifest is also time order; the table is not
// re-sorted.
package domain
