package booths

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the booth data HTTP surface.
type Handler struct {
	reports *ReportService
	booths  *BoothService
	cache   *ReportCache
	log     *zap.Logger
}

func NewHandler(repo Repository, rc *ReportCache, log *zap.Logger) *Handler {
	return &Handler{
		reports: NewReportService(repo),
		booths:  NewBoothService(repo),
		cache:   rc,
		log:     log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// report renders a read-only report, going through the report cache.
func (h *Handler) report(name string, compute func(ctx context.Context) (interface{}, error)) http.HandlerFunc {
	h.cache.track(name)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if body, ok := h.cache.lookup(ctx, name); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}

		v, err := compute(ctx)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		body, err := json.Marshal(v)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.cache.store(ctx, name, body)
		writeRaw(w, http.StatusOK, body)
	}
}

func (h *Handler) CreateBooth(w http.ResponseWriter, r *http.Request) {
	var in BoothInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	b, err := h.booths.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) ListBooths(w http.ResponseWriter, r *http.Request) {
	booths, err := h.booths.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booths)
}

func (h *Handler) GetBooth(w http.ResponseWriter, r *http.Request) {
	b, err := h.booths.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) BoothsByName(w http.ResponseWriter, r *http.Request) {
	booths, err := h.booths.FindByBoothName(r.Context(), chi.URLParam(r, "boothName"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booths)
}

func (h *Handler) BoothsByConstituency(w http.ResponseWriter, r *http.Request) {
	booths, err := h.booths.FindByConstituency(r.Context(), chi.URLParam(r, "constituencyName"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booths)
}

func (h *Handler) BoothNamesByConstituency(w http.ResponseWriter, r *http.Request) {
	names, err := h.booths.BoothNamesByConstituency(r.Context(), chi.URLParam(r, "constituencyName"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) UpdateBooth(w http.ResponseWriter, r *http.Request) {
	var in BoothInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	b, err := h.booths.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBooth(w http.ResponseWriter, r *http.Request) {
	if err := h.booths.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Booth deleted successfully"})
}

// writeError maps service errors to statuses. Backend failures are logged and
// answered with a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *NotFoundError
	var ve *ValidationError
	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: nf.Message})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error()})
	default:
		h.log.Error("booth data request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
