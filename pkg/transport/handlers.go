package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/sequencer/internal/cli/health"
	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/pkg/sequencer"
)

var validate = validator.New()

// tokenHandler serves POST /v1/tokens.
type tokenHandler struct {
	allocator *sequencer.Allocator
}

func (h *tokenHandler) handle(w http.ResponseWriter, r *http.Request) {
	var dto tokenRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.Struct(dto); err != nil {
		badRequest(w, err.Error())
		return
	}
	if dto.Overwrite && dto.ReplexOverwrite {
		badRequest(w, "overwrite and replex_overwrite are mutually exclusive")
		return
	}

	req, err := dto.toDomainRequest()
	if err != nil {
		badRequest(w, "invalid stream identifier: "+err.Error())
		return
	}

	resp, err := h.allocator.Handle(r.Context(), req)
	if err != nil {
		logger.ErrorCtx(r.Context(), "allocator rejected request", logger.Err(err))
		writeSequencerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fromDomainResponse(resp))
}

// healthHandler serves the unauthenticated liveness/readiness probes.
type healthHandler struct {
	leaseStoreHealthy func(ctx context.Context) error
	startedAt         time.Time
}

func (h *healthHandler) response(status string, errMsg string) health.Response {
	uptime := time.Since(h.startedAt)
	resp := health.Response{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Error:     errMsg,
	}
	resp.Data.Service = "sequencer"
	resp.Data.StartedAt = h.startedAt.UTC().Format(time.RFC3339)
	resp.Data.Uptime = uptime.String()
	resp.Data.UptimeSec = int64(uptime.Seconds())
	return resp
}

func (h *healthHandler) liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.response("healthy", ""))
}

func (h *healthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.leaseStoreHealthy != nil {
		if err := h.leaseStoreHealthy(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, h.response("unhealthy", "lease store unreachable: "+err.Error()))
			return
		}
	}
	writeJSON(w, http.StatusOK, h.response("ready", ""))
}

// adminStateHandler serves GET /v1/admin/state.
type adminStateHandler struct {
	allocator         *sequencer.Allocator
	leaseStoreHealthy func(ctx context.Context) error
}

type adminStateResponse struct {
	GlobalTail        int64  `json:"global_tail"`
	LeaseBoundary     int64  `json:"lease_boundary"`
	ConflictCacheSize int    `json:"conflict_cache_size"`
	StreamCount       int    `json:"stream_count"`
	LeaseStoreHealthy bool   `json:"lease_store_healthy"`
	LeaseStoreError   string `json:"lease_store_error,omitempty"`
}

func (h *adminStateHandler) handle(w http.ResponseWriter, r *http.Request) {
	snap := h.allocator.Snapshot()

	resp := adminStateResponse{
		GlobalTail:        snap.GlobalTail,
		LeaseBoundary:     snap.LeaseBoundary,
		ConflictCacheSize: snap.ConflictCacheSize,
		StreamCount:       snap.StreamCount,
		LeaseStoreHealthy: true,
	}

	if h.leaseStoreHealthy != nil {
		if err := h.leaseStoreHealthy(r.Context()); err != nil {
			resp.LeaseStoreHealthy = false
			resp.LeaseStoreError = err.Error()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// leaseResetHandler serves POST /v1/admin/lease/reset.
type leaseResetHandler struct {
	reset func(ctx context.Context, token int64) error
}

type leaseResetRequest struct {
	Token int64 `json:"token" validate:"required"`
}

func (h *leaseResetHandler) handle(w http.ResponseWriter, r *http.Request) {
	var req leaseResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.reset(ctx, req.Token); err != nil {
		writeSequencerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"token": req.Token})
}
