package entity

// Units selects the unit system of the forecast
type Units string

const (
	UnitsCA Units = "ca"
	UnitsUK Units = "uk"
	UnitsUS Units = "us"
	UnitsSI Units = "si"
)

// IsValid reports whether u is a known unit system; the empty value is accepted and forwarded as is
func (u Units) IsValid() bool {
	switch u {
	case "", UnitsCA, UnitsUK, UnitsUS, UnitsSI:
		return true
	default:
		return false
	}
}
