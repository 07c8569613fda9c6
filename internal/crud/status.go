package crud

import (
	"context"
	"time"

	"crudd/pkg/types"
)

// Ready reports whether the database answers; the HTTP readiness probe
// returns 503 until it does.
func (s *Service) Ready() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.store.Ping(ctx) == nil
}

// Status snapshots the service for GET /status: dialect, uptime, and active
// row counts per resource. A counting failure degrades the state instead of
// failing the endpoint.
func (s *Service) Status() types.StatusResponse {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp := types.StatusResponse{
		State:          "ready",
		Dialect:        s.store.Dialect(),
		Resources:      make([]types.ResourceStatus, 0, len(s.resources)),
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	for _, r := range s.resources {
		rs := types.ResourceStatus{
			Name:   r.Name,
			Table:  r.Table(),
			Route:  r.Route(),
			Fields: len(r.Fields),
		}
		n, err := s.store.CountActive(ctx, r)
		if err != nil {
			resp.State = "degraded"
			resp.Error = err.Error()
		} else {
			rs.Rows = n
		}
		resp.Resources = append(resp.Resources, rs)
	}
	return resp
}
