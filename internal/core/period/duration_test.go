package period

import (
	"errors"
	"strings"
	"testing"
)

func TestDurationToMinutes_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{in: "PT1H30M", want: 90},
		{in: "PT45M10S", want: 46},
		{in: "PT2H", want: 120},
		{in: "PT1M30S", want: 2},
		{in: "PT59S", want: 1},
		{in: "PT0S", want: 0},
		{in: "PT0M", want: 0},
		{in: "PT", want: 0},
		{in: "PT1H", want: 60},
		{in: "PT1H0M59S", want: 61},
		{in: "PT10H5M", want: 605},
		// the match is anchored at the start only, so trailing noise
		// after a valid prefix does not invalidate the parse
		{in: "PT5M0SX", want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := DurationToMinutes(tc.in)
			if err != nil {
				t.Fatalf("DurationToMinutes(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("DurationToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestDurationToMinutes_Malformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"garbage", "", "1H30M", "P1D", "pt1h"} {
		got, err := DurationToMinutes(in)
		if !errors.Is(err, ErrMalformedDuration) {
			t.Fatalf("DurationToMinutes(%q) error = %v, want %v", in, err, ErrMalformedDuration)
		}
		if got != 0 {
			t.Fatalf("DurationToMinutes(%q) = %d, want 0", in, got)
		}
		if in != "" && !strings.Contains(err.Error(), in) {
			t.Fatalf("DurationToMinutes(%q) error %q does not name the input", in, err)
		}
	}
}
