// Package http provides http transport for the prices API
package http

import (
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sliu810/razorback-investing/internal/core/period"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/services/api/prices/domain"
	pdom "github.com/sliu810/razorback-investing/internal/services/prices/domain"
)

// Register mounts price endpoints on the given router
func Register(r httpkit.Router, quotes pdom.QuotePort) {
	h := &handlers{quotes: quotes}

	httpkit.Get(r, "/{symbol}/performance", h.performance)
	httpkit.Get(r, "/{symbol}/bars", h.bars)
	httpkit.Get(r, "/{symbol}/demark", h.demark)
}

type handlers struct{ quotes pdom.QuotePort }

// @Summary Period performance for a symbol
// @Tags Prices
// @Produce json
// @Param symbol path  string true  "ticker symbol"
// @Param period query string false "1d | 5d | 1m | 3m | 6m | 1y | 2y | 3y | 5y | 10y | 20y | ytd" default(ytd)
// @Success 200 {object} domain.PerformanceRow "ok"
// @Failure 400 {object} httpkit.Envelope "unknown period"
// @Failure 409 {object} httpkit.Envelope "not enough stored bars"
// @Router /prices/{symbol}/performance [get]
func (h *handlers) performance(r *stdhttp.Request) (any, error) {
	p, err := h.quotes.Performance(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("period"))
	if err != nil {
		return nil, err
	}
	return domain.FromPerformance(p), nil
}

// @Summary Stored daily bars for a symbol inside a window
// @Tags Prices
// @Produce json
// @Param symbol path  string true  "ticker symbol"
// @Param period query string false "trader key (1y, ytd, ...) or calendar type (today, days, weeks, months)" default(ytd)
// @Param number query int    false "count for calendar types" default(1)
// @Param tz     query string false "IANA timezone for calendar types" default(America/Chicago)
// @Success 200 {object} domain.SeriesResponse "ok"
// @Failure 400 {object} httpkit.Envelope "bad period, number, or timezone"
// @Router /prices/{symbol}/bars [get]
func (h *handlers) bars(r *stdhttp.Request) (any, error) {
	rng, err := h.window(r.URL.Query())
	if err != nil {
		return nil, err
	}
	sym := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))

	bars, err := h.quotes.Series(r.Context(), sym, rng)
	if err != nil {
		return nil, err
	}

	out := domain.SeriesResponse{
		Symbol: sym,
		Start:  rng.Start.Format("2006-01-02"),
		End:    rng.End.Format("2006-01-02"),
		Items:  make([]domain.BarRow, 0, len(bars)),
	}
	for _, b := range bars {
		out.Items = append(out.Items, domain.FromBar(b))
	}
	return out, nil
}

// @Summary TD Setup and Countdown marks for a symbol inside a window
// @Tags Prices
// @Produce json
// @Param symbol path  string true  "ticker symbol"
// @Param period query string false "trader key (6m, ytd, ...) or calendar type (today, days, weeks, months)" default(ytd)
// @Param number query int    false "count for calendar types" default(1)
// @Param tz     query string false "IANA timezone for calendar types" default(America/Chicago)
// @Success 200 {object} domain.DemarkResponse "ok"
// @Failure 400 {object} httpkit.Envelope "bad period, number, or timezone"
// @Router /prices/{symbol}/demark [get]
func (h *handlers) demark(r *stdhttp.Request) (any, error) {
	rng, err := h.window(r.URL.Query())
	if err != nil {
		return nil, err
	}
	sym := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))

	marks, err := h.quotes.Demark(r.Context(), sym, rng)
	if err != nil {
		return nil, err
	}

	out := domain.DemarkResponse{
		Symbol: sym,
		Start:  rng.Start.Format("2006-01-02"),
		End:    rng.End.Format("2006-01-02"),
		Items:  make([]domain.SignalRow, 0, len(marks)),
	}
	for _, m := range marks {
		out.Items = append(out.Items, domain.FromSignal(m))
	}
	return out, nil
}

// window resolves the period params into a concrete bar window
// calendar types (and any number/tz override) go through the core
// resolver; everything else is a trader key handled by the quote port,
// with the empty key meaning ytd
func (h *handlers) window(q url.Values) (period.Range, error) {
	key := q.Get("period")
	calendar := key == period.TypeToday || key == period.TypeDays ||
		key == period.TypeWeeks || key == period.TypeMonths
	if !calendar && q.Get("number") == "" && q.Get("tz") == "" {
		return h.quotes.Window(key)
	}

	pt := key
	if pt == "" {
		pt = period.TypeDays
	}
	number := 0
	if v := q.Get("number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return period.Range{}, perr.InvalidArgf("number must be an integer")
		}
		number = n
	}
	rng, err := period.Resolve(pt, number, q.Get("tz"), time.Now().UTC())
	if err != nil {
		return period.Range{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve window")
	}
	return rng, nil
}
