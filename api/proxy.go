package api

import (
	"net/http"
	"time"

	"github.com/eventangle/edge/pkg/log"
	"github.com/eventangle/edge/util"
	"github.com/go-chi/render"
)

// ForwardToUpstream relays the request to the application server and
// replays its answer verbatim. The edge never fabricates upstream
// bodies; a transport failure maps to a bad gateway envelope.
func (a *ApplicationHandler) ForwardToUpstream(w http.ResponseWriter, r *http.Request) {
	if a.A.Forwarder == nil {
		_ = render.Render(w, r, util.NewErrorResponse("UPSTREAM_NOT_CONFIGURED", "upstream is not configured", http.StatusServiceUnavailable))
		return
	}

	start := time.Now()

	res, err := a.A.Forwarder.Forward(r)
	if err != nil {
		a.A.Metrics.IncrementUpstreamErrors("network")
		log.FromContext(r.Context()).WithError(err).Errorf("failed to forward %s %s upstream", r.Method, r.URL.Path)
		_ = render.Render(w, r, util.NewErrorResponse("BAD_GATEWAY", "upstream request failed", http.StatusBadGateway))
		return
	}

	a.A.Metrics.ObserveUpstreamLatency(res.StatusCode, time.Since(start))
	res.WriteTo(w)
}
