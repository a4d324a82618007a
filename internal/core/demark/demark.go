// Package demark computes TD Setup and TD Countdown marks over daily bars
// Positive counts track a falling tape (buy side), negative counts a rising
// one. The counting rules mirror the screener this replaces: setup compares
// close against the close four bars earlier, countdown compares close against
// the low or high two bars earlier while a setup of the same sign is active
package demark

// Bar is the minimal OHLC view the indicator needs, oldest first
type Bar struct {
	High  float64
	Low   float64
	Close float64
}

// Point carries the running counts for one bar
type Point struct {
	Setup     int
	Countdown int
}

// Completion thresholds traders watch for
const (
	SetupComplete     = 9
	CountdownComplete = 13
)

// Compute returns one Point per input bar
// bars must be in ascending day order; fewer than five bars yield all zeros
func Compute(bars []Bar) []Point {
	out := make([]Point, len(bars))

	for i := 4; i < len(bars); i++ {
		switch {
		case bars[i].Close < bars[i-4].Close:
			if prev := out[i-1].Setup; prev > 0 {
				out[i].Setup = prev + 1
			} else {
				out[i].Setup = 1
			}
		case bars[i].Close > bars[i-4].Close:
			if prev := out[i-1].Setup; prev < 0 {
				out[i].Setup = prev - 1
			} else {
				out[i].Setup = -1
			}
		}
	}

	for i := 2; i < len(bars); i++ {
		switch {
		case out[i].Setup > 0 && bars[i].Close <= bars[i-2].Low:
			if prev := out[i-1].Countdown; prev > 0 {
				out[i].Countdown = prev + 1
			} else {
				out[i].Countdown = 1
			}
		case out[i].Setup < 0 && bars[i].Close >= bars[i-2].High:
			if prev := out[i-1].Countdown; prev < 0 {
				out[i].Countdown = prev - 1
			} else {
				out[i].Countdown = -1
			}
		}
	}

	return out
}
