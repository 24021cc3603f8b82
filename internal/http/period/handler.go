package period

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

type Handler struct {
	defaultLocale locale.Locale
}

func NewHandler(defaultLocale locale.Locale) *Handler {
	return &Handler{defaultLocale: defaultLocale}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/validate", h.validate)
}

type validateRequest struct {
	PreStart  string `json:"pre_start"`
	PreEnd    string `json:"pre_end"`
	PostStart string `json:"post_start"`
	PostEnd   string `json:"post_end"`
	Locale    string `json:"locale,omitempty"`
}

type validateResponse struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message,omitempty"`
	PreDays  *int   `json:"pre_days"`
	PostDays *int   `json:"post_days"`
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	loc := h.defaultLocale
	if req.Locale != "" {
		loc = locale.Parse(req.Locale)
	}

	var dates [4]*time.Time

	for i, s := range []string{req.PreStart, req.PreEnd, req.PostStart, req.PostEnd} {
		d, err := period.ParseOptional(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		dates[i] = d
	}

	ok, msg := period.Validate(dates[1], dates[2], loc)
	resp := validateResponse{OK: ok, Message: msg}

	if pre, post, ok := period.Days(dates[0], dates[1], dates[2], dates[3]); ok {
		resp.PreDays, resp.PostDays = &pre, &post
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
