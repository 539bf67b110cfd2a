// Package admin exposes the operator-facing HTTP surface: health/readiness
// probes, Prometheus metrics, and the blocklist introspection API,
// grounded on the example stack's health/metrics route shape.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aryorithm/blackbox/internal/model"
)

// Blocklist is the C5 collaborator the admin API reads and writes.
type Blocklist interface {
	Snapshot() []model.BlockEntry
	Block(ctx context.Context, source string, duration time.Duration)
	Unblock(ctx context.Context, source string)
}

// Handler bundles the admin route implementations.
type Handler struct {
	blocklist Blocklist
	ready     func() bool
}

// NewHandler constructs a Handler. ready reports whether the pipeline has
// finished starting and may be nil, in which case readyz always succeeds.
func NewHandler(blocklist Blocklist, ready func() bool) *Handler {
	return &Handler{blocklist: blocklist, ready: ready}
}

// Health responds 200 unconditionally once the process is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready responds 200 once the pipeline is fully started, 503 otherwise.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

type blockEntryDTO struct {
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListBlocked returns the currently active blocks as JSON.
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	snapshot := h.blocklist.Snapshot()
	out := make([]blockEntryDTO, 0, len(snapshot))
	for _, e := range snapshot {
		out = append(out, blockEntryDTO{
			Source:    e.Source,
			StartedAt: e.StartedAt,
			ExpiresAt: e.StartedAt.Add(e.Duration),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

type blockRequest struct {
	Source          string `json:"source"`
	DurationSeconds int    `json:"duration_seconds"`
}

// BlockSource installs a manual block from a POST body {"source", "duration_seconds"}.
func (h *Handler) BlockSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Source == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid request body"))
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	if duration <= 0 {
		duration = 600 * time.Second
	}

	h.blocklist.Block(r.Context(), req.Source, duration)
	w.WriteHeader(http.StatusAccepted)
}

// UnblockSource removes a manual block given a "source" query parameter.
func (h *Handler) UnblockSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing source query parameter"))
		return
	}

	h.blocklist.Unblock(r.Context(), source)
	w.WriteHeader(http.StatusAccepted)
}

// Blocklist routes GET (list) and delegates POST/DELETE to block/unblock.
func (h *Handler) Blocklist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListBlocked(w, r)
	case http.MethodPost:
		h.BlockSource(w, r)
	case http.MethodDelete:
		h.UnblockSource(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
