// Package http provides http transport for the channels API
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/services/api/channels/domain"
	chandom "github.com/sliu810/razorback-investing/internal/services/channels/domain"
)

// Register mounts channel endpoints on the given router
func Register(r httpkit.Router, reg chandom.RegistryPort) {
	h := &handlers{reg: reg}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{ref}", h.get)
}

type handlers struct{ reg chandom.RegistryPort }

// swagger:route GET /channels Channels channelsList
// @Summary List registered channels
// @Tags Channels
// @Produce json
// @Success 200 {array} domain.ChannelRow "ok"
// @Router /channels [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	chans, err := h.reg.List(r.Context())
	if err != nil {
		return nil, err
	}
	rows := make([]domain.ChannelRow, 0, len(chans))
	for _, ch := range chans {
		rows = append(rows, domain.FromChannel(ch))
	}
	return rows, nil
}

// swagger:route GET /channels/{ref} Channels channelsGet
// @Summary Resolve one channel by id, stored name, or built-in name
// @Tags Channels
// @Produce json
// @Param ref path string true "channel reference"
// @Success 200 {object} domain.ChannelRow "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /channels/{ref} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	ch, err := h.reg.Resolve(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		return nil, err
	}
	return domain.FromChannel(ch), nil
}
