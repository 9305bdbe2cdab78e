// Package climate implements §4.7: temperature and precipitation.
package climate

import "math"

// temperatureAt computes §4.7's temperature formula for a cell at row
// fraction y/H, height h (0-255), and sea level.
func temperatureAt(yFrac float64, height, seaLevel uint8, maxAltitudeKM float64) int8 {
	base := 30 - 60*math.Abs(yFrac-0.5)*2
	altitudeKM := 0.0
	if int(height) > int(seaLevel) {
		altitudeKM = float64(int(height)-int(seaLevel)) / 235 * maxAltitudeKM
	}
	t := base - 6.5*altitudeKM
	if t < -128 {
		t = -128
	}
	if t > 127 {
		t = 127
	}
	return int8(math.Round(t))
}
