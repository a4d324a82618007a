package transcripttext

import (
	"testing"
)

func TestClean_Table(t *testing.T) {
	t.Parallel()

	c := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "markets closed higher today",
			out:  "markets closed higher today",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'f', 'e', 'd', 0x80, ' ', 'c', 'u', 't'}),
			out:  "fed cut",
		},
		{
			name: "remove zero-widths",
			in:   "rate​ cut‍ ahead",
			out:  "rate cut ahead",
		},
		{
			name: "collapse runs keep newline",
			in:   "first line \t  \n\n  second line",
			out:  "first line\nsecond line",
		},
		{
			name: "trim leading and trailing space",
			in:   "  padded  ",
			out:  "padded",
		},
		{
			name: "shouting line gets sentence case",
			in:   "THE FED HELD RATES. MARKETS RALLIED!",
			out:  "The fed held rates. Markets rallied!",
		},
		{
			name: "mixed case line untouched",
			in:   "The Fed held RATES steady",
			out:  "The Fed held RATES steady",
		},
		{
			name: "shouting applies per line",
			in:   "BREAKING NEWS TODAY\nnormal commentary follows",
			out:  "Breaking news today\nnormal commentary follows",
		},
		{
			name: "accents survive",
			in:   "café earnings",
			out:  "café earnings",
		},
		{
			name: "empty",
			in:   "",
			out:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Clean(tc.in); got != tc.out {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestClean_ConcurrentUse(t *testing.T) {
	t.Parallel()

	c := New()
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 200 {
				if got := c.Clean("SHOUTY  LINE"); got != "Shouty line" {
					t.Errorf("Clean concurrent = %q, want %q", got, "Shouty line")
					return
				}
			}
		}()
	}
	for range 8 {
		<-done
	}
}
