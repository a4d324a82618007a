package http

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/sliu810/razorback-investing/internal/core/period"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	pdom "github.com/sliu810/razorback-investing/internal/services/prices/domain"
)

// fakeQuotes records which path the handlers resolve a window through
type fakeQuotes struct {
	windowKeys []string
	windowRng  period.Range
}

func (f *fakeQuotes) Window(periodKey string) (period.Range, error) {
	f.windowKeys = append(f.windowKeys, periodKey)
	return f.windowRng, nil
}

func (f *fakeQuotes) Performance(context.Context, string, string) (pdom.Performance, error) {
	return pdom.Performance{}, nil
}

func (f *fakeQuotes) Series(context.Context, string, period.Range) ([]pdom.Bar, error) {
	return nil, nil
}

func (f *fakeQuotes) Demark(context.Context, string, period.Range) ([]pdom.Signal, error) {
	return nil, nil
}

func TestWindow_TraderKeyUsesQuotePort(t *testing.T) {
	t.Parallel()

	want := period.Range{
		Start: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	fq := &fakeQuotes{windowRng: want}
	h := &handlers{quotes: fq}

	q := url.Values{}
	q.Set("period", "1y")

	rng, err := h.window(q)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !rng.Start.Equal(want.Start) || !rng.End.Equal(want.End) {
		t.Fatalf("range = %v, want %v", rng, want)
	}
	if len(fq.windowKeys) != 1 || fq.windowKeys[0] != "1y" {
		t.Fatalf("Window calls = %v, want [1y]", fq.windowKeys)
	}
}

func TestWindow_EmptyKeyMeansYTD(t *testing.T) {
	t.Parallel()

	fq := &fakeQuotes{}
	h := &handlers{quotes: fq}

	if _, err := h.window(url.Values{}); err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(fq.windowKeys) != 1 || fq.windowKeys[0] != "" {
		t.Fatalf("Window calls = %v, want one empty key", fq.windowKeys)
	}
}

func TestWindow_CalendarTypeSkipsQuotePort(t *testing.T) {
	t.Parallel()

	fq := &fakeQuotes{}
	h := &handlers{quotes: fq}

	q := url.Values{}
	q.Set("period", "weeks")
	q.Set("number", "2")
	q.Set("tz", "UTC")

	rng, err := h.window(q)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(fq.windowKeys) != 0 {
		t.Fatalf("Window calls = %v, want none for calendar types", fq.windowKeys)
	}
	if got := rng.End.Sub(rng.Start); got < 13*24*time.Hour {
		t.Fatalf("window span = %v, want at least 13 days", got)
	}
}

func TestWindow_NumberForcesCalendarResolution(t *testing.T) {
	t.Parallel()

	fq := &fakeQuotes{}
	h := &handlers{quotes: fq}

	// number without a period type falls back to days
	q := url.Values{}
	q.Set("number", "3")

	if _, err := h.window(q); err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(fq.windowKeys) != 0 {
		t.Fatalf("Window calls = %v, want none when number is set", fq.windowKeys)
	}
}

func TestWindow_BadNumberIs400(t *testing.T) {
	t.Parallel()

	h := &handlers{quotes: &fakeQuotes{}}

	q := url.Values{}
	q.Set("period", "days")
	q.Set("number", "first")

	_, err := h.window(q)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("error = %v, want invalid argument code", err)
	}
}
