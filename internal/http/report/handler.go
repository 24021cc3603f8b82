package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/chart"
	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	"github.com/MrJamesThe3rd/impactreport/internal/export"
	"github.com/MrJamesThe3rd/impactreport/internal/inference"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
	"github.com/MrJamesThe3rd/impactreport/internal/summary"
)

// Handler encodes reports from model output the caller already has: a summary
// text and an inference table.
type Handler struct {
	defaultLocale locale.Locale
	maxUpload     int64
}

func NewHandler(defaultLocale locale.Locale, maxUpload int64) *Handler {
	return &Handler{defaultLocale: defaultLocale, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/summary", h.summary)
	r.Post("/summary/download", h.summaryDownload)
	r.Post("/detail/download", h.detailDownload)
	r.Post("/chart/download", h.chartDownload)
}

type summaryRequest struct {
	Summary           string `json:"summary"`
	ConfidencePercent int    `json:"confidence_percent"`
	Locale            string `json:"locale,omitempty"`
	Subject           string `json:"subject,omitempty"`
	PreStart          string `json:"pre_start,omitempty"`
	PreEnd            string `json:"pre_end,omitempty"`
	PostStart         string `json:"post_start,omitempty"`
	PostEnd           string `json:"post_end,omitempty"`
}

type rowResponse struct {
	Label      string `json:"label"`
	Average    string `json:"average"`
	Cumulative string `json:"cumulative"`
}

type summaryResponse struct {
	Rows []rowResponse `json:"rows"`
}

func (h *Handler) locale(s string) locale.Locale {
	if s == "" {
		return h.defaultLocale
	}

	return locale.Parse(s)
}

func (h *Handler) decodeSummary(w http.ResponseWriter, r *http.Request) (summaryRequest, []summary.Row, bool) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, nil, false
	}

	if req.ConfidencePercent <= 0 || req.ConfidencePercent >= 100 {
		http.Error(w, "confidence_percent must be between 1 and 99", http.StatusBadRequest)
		return req, nil, false
	}

	rows := summary.NewBuilder(slog.Default(), h.locale(req.Locale)).Build(req.Summary, req.ConfidencePercent)

	return req, rows, true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := h.decodeSummary(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{Rows: toRowResponses(rows)})
}

func (h *Handler) summaryDownload(w http.ResponseWriter, r *http.Request) {
	req, rows, ok := h.decodeSummary(w, r)
	if !ok {
		return
	}

	loc := h.locale(req.Locale)

	p, ok := resolvePeriod(w, loc, req.PreStart, req.PreEnd, req.PostStart, req.PostEnd)
	if !ok {
		return
	}

	a, err := export.SummaryCSV(rows, export.Metadata{
		Subject:           req.Subject,
		Period:            p,
		ConfidencePercent: req.ConfidencePercent,
	}, loc)
	if err != nil {
		slog.Error("failed to encode summary", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeArtifact(w, a)
}

func (h *Handler) readInferences(w http.ResponseWriter, r *http.Request) (*inference.Table, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	t, err := inference.ReadCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return t, true
}

func (h *Handler) detailDownload(w http.ResponseWriter, r *http.Request) {
	t, ok := h.readInferences(w, r)
	if !ok {
		return
	}

	loc := h.locale(r.FormValue("locale"))

	postStart, err := period.ParseDate(r.FormValue("post_start"))
	if err != nil {
		http.Error(w, "post_start: "+err.Error(), http.StatusBadRequest)
		return
	}

	postEnd, err := period.ParseDate(r.FormValue("post_end"))
	if err != nil {
		http.Error(w, "post_end: "+err.Error(), http.StatusBadRequest)
		return
	}

	if postEnd.Before(postStart) {
		http.Error(w, "post_end is before post_start", http.StatusUnprocessableEntity)
		return
	}

	p := period.Period{PostStart: period.Day(postStart), PostEnd: period.Day(postEnd)}
	rows := detail.Assemble(t, p)
	subject := r.FormValue("subject")

	var a export.Artifact

	switch format := r.FormValue("format"); format {
	case "", "csv":
		a, err = export.DetailCSV(rows, subject, p, loc)
	case "xlsx":
		a, err = export.DetailXLSX(rows, subject, p, loc)
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		return
	}

	if err != nil {
		slog.Error("failed to encode detail", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeArtifact(w, a)
}

func (h *Handler) chartDownload(w http.ResponseWriter, r *http.Request) {
	t, ok := h.readInferences(w, r)
	if !ok {
		return
	}

	loc := h.locale(r.FormValue("locale"))

	p, ok := resolvePeriod(w, loc,
		r.FormValue("pre_start"), r.FormValue("pre_end"), r.FormValue("post_start"), r.FormValue("post_end"))
	if !ok {
		return
	}

	plot, err := chart.FromInferences(t, p, chart.Options{Locale: loc})
	if err != nil {
		if errors.Is(err, chart.ErrNoData) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		slog.Error("failed to render chart", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	a, err := export.ChartPDF(plot, r.FormValue("subject"), p)
	if err != nil {
		slog.Error("failed to encode chart", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeArtifact(w, a)
}

// resolvePeriod parses the four boundaries and runs them through the period
// gate. It writes the error response itself and reports whether to continue.
func resolvePeriod(w http.ResponseWriter, loc locale.Locale, preStart, preEnd, postStart, postEnd string) (period.Period, bool) {
	var o [4]*time.Time

	for i, s := range []string{preStart, preEnd, postStart, postEnd} {
		d, err := period.ParseOptional(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return period.Period{}, false
		}

		o[i] = d
	}

	p, err := analysis.ResolvePeriod(analysis.Input{
		Overrides: period.Overrides{PreStart: o[0], PreEnd: o[1], PostStart: o[2], PostEnd: o[3]},
		Locale:    loc,
	})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "message": err.Error()})
		return period.Period{}, false
	}

	return p, true
}

func toRowResponses(rows []summary.Row) []rowResponse {
	out := make([]rowResponse, len(rows))
	for i, r := range rows {
		out[i] = rowResponse{Label: r.Label, Average: r.Average, Cumulative: r.Cumulative}
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))

	if _, err := w.Write(a.Payload); err != nil {
		slog.Error("failed to write artifact", "error", err, "filename", a.Filename)
	}
}
