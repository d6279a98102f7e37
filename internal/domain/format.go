package domain

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "25 min" below an hour and "1h 5m" above.
func FormatDuration(seconds float64) string {
	mins := int(math.Round(seconds / 60))
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

// FormatDistance renders meters as "850 m" below a kilometre and "42.0 km" above.
// Tenths of a kilometre round half up, so 1250 m is "1.3 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", math.Floor(meters/100+0.5)/10)
}
