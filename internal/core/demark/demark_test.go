package demark

import "testing"

// flat makes bars whose high and low sit on the close
func flat(closes ...float64) []Bar {
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{High: c, Low: c, Close: c}
	}
	return bars
}

func setups(pts []Point) []int {
	out := make([]int, len(pts))
	for i, p := range pts {
		out[i] = p.Setup
	}
	return out
}

func countdowns(pts []Point) []int {
	out := make([]int, len(pts))
	for i, p := range pts {
		out[i] = p.Countdown
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompute_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		bars      []Bar
		setup     []int
		countdown []int
	}{
		{
			name:      "falling tape completes a nine count",
			bars:      flat(100, 99, 98, 97, 96, 95, 94, 93, 92, 91, 90, 89, 88),
			setup:     []int{0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			countdown: []int{0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			name:      "rising tape counts negative",
			bars:      flat(88, 89, 90, 91, 92, 93, 94, 95, 96, 97, 98, 99, 100),
			setup:     []int{0, 0, 0, 0, -1, -2, -3, -4, -5, -6, -7, -8, -9},
			countdown: []int{0, 0, 0, 0, -1, -2, -3, -4, -5, -6, -7, -8, -9},
		},
		{
			name:      "flat tape stays at zero",
			bars:      flat(50, 50, 50, 50, 50, 50, 50),
			setup:     []int{0, 0, 0, 0, 0, 0, 0},
			countdown: []int{0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:      "reversal flips the sign and resets the count",
			bars:      flat(10, 10, 10, 10, 9, 8, 7, 11, 12),
			setup:     []int{0, 0, 0, 0, 1, 2, 3, -1, -2},
			countdown: []int{0, 0, 0, 0, 1, 2, 3, -1, -2},
		},
		{
			name:      "too few bars",
			bars:      flat(1, 2, 3, 4),
			setup:     []int{0, 0, 0, 0},
			countdown: []int{0, 0, 0, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pts := Compute(tc.bars)
			if got := setups(pts); !equalInts(got, tc.setup) {
				t.Fatalf("setup = %v, want %v", got, tc.setup)
			}
			if got := countdowns(pts); !equalInts(got, tc.countdown) {
				t.Fatalf("countdown = %v, want %v", got, tc.countdown)
			}
		})
	}
}

func TestCompute_CountdownNeedsLowTouch(t *testing.T) {
	t.Parallel()

	// Closes fall steadily but every low sits well under the close, so the
	// close never reaches the low from two bars back and countdown never arms
	bars := make([]Bar, 10)
	for i := range bars {
		c := 100 - float64(i)
		bars[i] = Bar{High: c, Low: c - 10, Close: c}
	}

	pts := Compute(bars)
	if pts[9].Setup != 6 {
		t.Fatalf("Setup[9] = %d, want 6", pts[9].Setup)
	}
	for i, p := range pts {
		if p.Countdown != 0 {
			t.Fatalf("Countdown[%d] = %d, want 0", i, p.Countdown)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	if pts := Compute(nil); len(pts) != 0 {
		t.Fatalf("Compute(nil) = %v, want empty", pts)
	}
}
