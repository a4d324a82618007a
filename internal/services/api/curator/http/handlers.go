// Package http provides http transport for the curator API
package http

import (
	stdhttp "net/http"

	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/platform/net/http/bind"
	"github.com/sliu810/razorback-investing/internal/services/api/curator/domain"
	cdom "github.com/sliu810/razorback-investing/internal/services/curator/domain"
)

// Register mounts curator endpoints on the given router
func Register(r httpkit.Router, enq cdom.EnqueuePort) {
	h := &handlers{enq: enq}

	httpkit.Post(r, "/jobs", h.enqueue)
}

type handlers struct{ enq cdom.EnqueuePort }

// @Summary Queue a channel refresh job
// @Tags Curator
// @Accept json
// @Produce json
// @Param payload body domain.JobInput true "Job"
// @Success 201 {object} domain.JobRow "accepted"
// @Failure 400 {object} httpkit.Envelope "bad payload, period, or timezone"
// @Router /curator/jobs [post]
func (h *handlers) enqueue(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[domain.JobInput](r)
	if err != nil {
		return nil, err
	}
	job, err := h.enq.Enqueue(r.Context(), in.ToEnqueue())
	if err != nil {
		return nil, err
	}
	return httpkit.Created(domain.FromJob(job)), nil
}
