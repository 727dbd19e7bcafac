// Package domain models the environmental intelligence engine's core values:
// synthetic grid samples, satellite granule descriptors, elevation tiles, and
// intervention simulation inputs and outputs.
//
// # Synthetic fields
//
// Grid cells are synthesized, not measured. Each cell derives its fields from
// a deterministic trigonometric hash of its position, mapped into physically
// plausible ranges:
//
//	LST           25-37 °C      (urban land surface temperature)
//	NDVI          0.2-0.8       (vegetation index)
//	Precipitation 2-6 mm/hr
//	Elevation     10-40 m       (deltaic floodplain)
//	NO2           15-35, O3 20-50 (pollutant concentration proxies)
//
// Risk fractions are closed-form combinations of those fields, clamped to
// [0,1]: heat = (LST-24)/15, flood = 1 - precip/6 + noise, air = 1 - NO2/50,
// greenness = NDVI.
//
// # NASA data conventions
//
// Granule discovery follows the LAADS DAAC archive layout: a per-day JSON
// index at <base>/<collection>/<product>/<year>/<DDD>.json where DDD is the
// zero-padded 1-based day of year, and granule files alongside it. Products
// are MODIS identifiers such as MOD11A1 (daily land surface temperature);
// collections are archive set numbers such as 61.
//
// Elevation tiles follow the LP DAAC SRTMGL1 layout: one zip per 1°x1° cell,
// named by the hemisphere-prefixed integer degrees of its south-west corner,
// e.g. N23E090.SRTMGL1.hgt.zip for the tile covering Dhaka.
//
// # Error taxonomy
//
// Remote and pipeline failures are categorized so callers can branch without
// string matching: sentinels (ErrCredentialsMissing, ErrCredentialsRejected,
// ErrRemoteNotFound) for detail-free categories, and typed errors
// (RemoteError, StageError, UnknownInterventionError, ValidationError) where
// the category carries structure.
package domain
