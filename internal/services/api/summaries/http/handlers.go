// Package http provides http transport for the summaries API
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sliu810/razorback-investing/internal/core/period"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/services/api/summaries/domain"
	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
)

// Register mounts the summaries listing on the given router
func Register(r httpkit.Router, reader sdom.ReaderPort) {
	h := &handlers{reader: reader}
	httpkit.Get(r, "/", h.list)
}

// RegisterDigests mounts the digest endpoints on the given router
func RegisterDigests(r httpkit.Router, reader sdom.ReaderPort) {
	h := &handlers{reader: reader}
	httpkit.Get(r, "/{channel}/latest", h.latestDigest)
}

type handlers struct{ reader sdom.ReaderPort }

// swagger:route GET /summaries Summaries summariesList
// @Summary List stored summaries for a channel and period window
// @Tags Summaries
// @Produce json
// @Param channel query string false "channel id, stored name, or built-in name"
// @Param period  query string false "today | days | weeks | months" default(days)
// @Param number  query int    false "period count" default(1)
// @Param tz      query string false "IANA timezone" default(America/Chicago)
// @Param role    query string false "summary role filter"
// @Param task    query string false "summary task filter"
// @Param limit   query int    false "page size"
// @Success 200 {array} domain.ItemRow "ok"
// @Failure 400 {object} httpkit.Envelope "bad period or timezone"
// @Router /summaries [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()

	in := sdom.ListInput{
		ChannelRef: q.Get("channel"),
		Role:       q.Get("role"),
		Task:       q.Get("task"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, perr.InvalidArgf("limit must be a positive integer")
		}
		in.Limit = n
	}

	if q.Get("period") != "" || q.Get("number") != "" {
		pt := q.Get("period")
		if pt == "" {
			pt = period.TypeDays
		}
		number := 0
		if v := q.Get("number"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, perr.InvalidArgf("number must be an integer")
			}
			number = n
		}
		rng, err := period.Resolve(pt, number, q.Get("tz"), time.Now().UTC())
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve window")
		}
		in.Since, in.Until = rng.Start, rng.End
	}

	items, err := h.reader.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.ItemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, domain.FromItem(it))
	}
	return rows, nil
}

// swagger:route GET /digests/{channel}/latest Summaries digestsLatest
// @Summary Latest stored digest for a channel
// @Tags Summaries
// @Produce json
// @Param channel path string true "channel id, stored name, or built-in name"
// @Success 200 {object} domain.DigestRow "ok"
// @Failure 404 {object} httpkit.Envelope "no digest stored"
// @Router /digests/{channel}/latest [get]
func (h *handlers) latestDigest(r *stdhttp.Request) (any, error) {
	d, err := h.reader.LatestDigest(r.Context(), chi.URLParam(r, "channel"))
	if err != nil {
		return nil, err
	}
	return domain.FromDigest(d), nil
}
