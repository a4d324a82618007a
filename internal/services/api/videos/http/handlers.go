// Package http provides http transport for the videos API
package http

import (
	stdhttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sliu810/razorback-investing/internal/core/period"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/services/api/videos/domain"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// Register mounts video endpoints on the given router
func Register(r httpkit.Router, lib vdom.ReaderPort) {
	h := &handlers{lib: lib}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ lib vdom.ReaderPort }

// swagger:route GET /videos Videos videosList
// @Summary List stored videos for a channel and period window
// @Tags Videos
// @Produce json
// @Param channel  query string false "channel id, stored name, or built-in name"
// @Param period   query string false "today | days | weeks | months" default(days)
// @Param number   query int    false "period count" default(1)
// @Param tz       query string false "IANA timezone" default(America/Chicago)
// @Param after_at query string false "keyset anchor published_at (RFC3339)"
// @Param after_id query string false "keyset anchor video id"
// @Param limit    query int    false "page size"
// @Success 200 {object} domain.ListResponse "ok"
// @Failure 400 {object} httpkit.Envelope "bad period or timezone"
// @Router /videos [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()

	in := vdom.ListInput{ChannelRef: q.Get("channel")}

	// an absent period means the whole stored history
	if q.Get("period") != "" || q.Get("number") != "" {
		rng, err := windowFromQuery(q, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		in.Since, in.Until = rng.Start, rng.End
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, perr.InvalidArgf("limit must be a positive integer")
		}
		in.Limit = n
	}
	if v := q.Get("after_id"); v != "" {
		at, err := time.Parse(time.RFC3339, q.Get("after_at"))
		if err != nil {
			return nil, perr.InvalidArgf("after_at must be RFC3339 when after_id is set")
		}
		in.After = vdom.AfterKey{PublishedAt: at, ID: v}
	}

	rows, next, err := h.lib.List(r.Context(), in)
	if err != nil {
		return nil, err
	}

	out := domain.ListResponse{Items: make([]domain.VideoRow, 0, len(rows))}
	for _, v := range rows {
		out.Items = append(out.Items, domain.FromVideo(v))
	}
	if next.ID != "" {
		out.Next = &domain.PageKey{
			PublishedAt: next.PublishedAt.UTC().Format(time.RFC3339),
			ID:          next.ID,
		}
	}
	return out, nil
}

// swagger:route GET /videos/{id} Videos videosGet
// @Summary Get one stored video, optionally with its transcript
// @Tags Videos
// @Produce json
// @Param id         path  string true  "video id"
// @Param transcript query int    false "1 to include the stored transcript"
// @Success 200 {object} domain.VideoDetail "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /videos/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")

	v, err := h.lib.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	out := domain.VideoDetail{VideoRow: domain.FromVideo(v)}

	if r.URL.Query().Get("transcript") == "1" {
		t, err := h.lib.GetTranscript(r.Context(), id)
		if err != nil {
			return nil, err
		}
		tr := domain.FromTranscript(t)
		out.Transcript = &tr
	}
	return out, nil
}

// windowFromQuery resolves the period params into a concrete range
// absent params mean the resolver defaults; core sentinels surface as
// invalid-argument so callers get a 400 rather than a silent full scan
func windowFromQuery(q url.Values, now time.Time) (period.Range, error) {
	pt := q.Get("period")
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
	rng, err := period.Resolve(pt, number, q.Get("tz"), now)
	if err != nil {
		return period.Range{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve window")
	}
	return rng, nil
}
