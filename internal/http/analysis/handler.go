package analysis

//go:generate mockgen -source=handler.go -destination=loader_mock.go -package=analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/chart"
	"github.com/MrJamesThe3rd/impactreport/internal/dataset"
	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	"github.com/MrJamesThe3rd/impactreport/internal/export"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/model"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// SeriesLoader supplies stored datasets by subject.
type SeriesLoader interface {
	Subjects(ctx context.Context) ([]string, error)
	Load(ctx context.Context, subject string) (*dataset.Series, error)
}

type Handler struct {
	svc           *analysis.Service
	loader        SeriesLoader
	defaultLocale locale.Locale
	defaultAlpha  float64
	maxUpload     int64
}

// NewHandler creates a Handler. loader may be nil, in which case every request
// must upload its dataset.
func NewHandler(svc *analysis.Service, loader SeriesLoader, defaultLocale locale.Locale, defaultAlpha float64, maxUpload int64) *Handler {
	return &Handler{
		svc:           svc,
		loader:        loader,
		defaultLocale: defaultLocale,
		defaultAlpha:  defaultAlpha,
		maxUpload:     maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/subjects", h.subjects)
	r.Post("/", h.run)
	r.Post("/download", h.download)
}

type periodResponse struct {
	PreStart  string `json:"pre_start"`
	PreEnd    string `json:"pre_end"`
	PostStart string `json:"post_start"`
	PostEnd   string `json:"post_end"`
}

type rowResponse struct {
	Label      string `json:"label"`
	Average    string `json:"average"`
	Cumulative string `json:"cumulative"`
}

type detailResponse struct {
	Date   string             `json:"date"`
	Values map[string]*string `json:"values"`
}

type reportResponse struct {
	ID                uuid.UUID        `json:"id"`
	Subject           string           `json:"subject"`
	Locale            locale.Locale    `json:"locale"`
	Period            periodResponse   `json:"period"`
	ConfidencePercent int              `json:"confidence_percent"`
	Summary           []rowResponse    `json:"summary"`
	Narrative         []string         `json:"narrative"`
	Detail            []detailResponse `json:"detail"`
	Chart             bool             `json:"chart"`
	Notes             []string         `json:"notes,omitempty"`
}

func (h *Handler) subjects(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	subjects, err := h.loader.Subjects(r.Context())
	if err != nil {
		slog.Error("failed to list subjects", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, subjects)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyse(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toReportResponse(report))
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyse(w, r)
	if !ok {
		return
	}

	artifacts, err := h.svc.Export(report, report.Locale)
	if err != nil {
		slog.Error("failed to export report", "error", err, "id", report.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	bundle, err := export.Bundle(export.BundleName(report.Subject, report.Period), artifacts...)
	if err != nil {
		slog.Error("failed to bundle report", "error", err, "id", report.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", bundle.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": bundle.Filename}))

	if _, err := w.Write(bundle.Payload); err != nil {
		slog.Error("failed to write bundle", "error", err)
	}
}

// analyse reads the request, runs the model and writes any error response
// itself.
func (h *Handler) analyse(w http.ResponseWriter, r *http.Request) (*analysis.Report, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	in, status, err := h.input(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return nil, false
	}

	report, err := h.svc.Run(r.Context(), in)
	if err != nil {
		var verr *analysis.ValidationError

		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "message": verr.Message})
		case errors.Is(err, model.ErrUnavailable):
			http.Error(w, "model service unavailable", http.StatusServiceUnavailable)
		default:
			slog.Error("analysis failed", "error", err, "subject", in.Subject)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return nil, false
	}

	return report, true
}

func (h *Handler) input(r *http.Request) (analysis.Input, int, error) {
	in := analysis.Input{
		Subject: r.FormValue("subject"),
		Locale:  h.defaultLocale,
	}

	if s := r.FormValue("locale"); s != "" {
		in.Locale = locale.Parse(s)
	}

	series, status, err := h.series(r, in.Subject)
	if err != nil {
		return in, status, err
	}

	in.Series = series

	var o [4]*time.Time

	for i, name := range []string{"pre_start", "pre_end", "post_start", "post_end"} {
		d, err := period.ParseOptional(r.FormValue(name))
		if err != nil {
			return in, http.StatusBadRequest, fmt.Errorf("%s: %w", name, err)
		}

		o[i] = d
	}

	in.Overrides = period.Overrides{PreStart: o[0], PreEnd: o[1], PostStart: o[2], PostEnd: o[3]}

	params, err := h.params(r)
	if err != nil {
		return in, http.StatusBadRequest, err
	}

	in.Params = params

	return in, http.StatusOK, nil
}

func (h *Handler) series(r *http.Request, subject string) (*dataset.Series, int, error) {
	file, _, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		s, err := dataset.ReadCSV(file, subject)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		return s, http.StatusOK, nil
	}

	if subject == "" || h.loader == nil {
		return nil, http.StatusBadRequest, errors.New("file field is required")
	}

	s, err := h.loader.Load(r.Context(), subject)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			return nil, http.StatusNotFound, err
		}

		return nil, http.StatusInternalServerError, fmt.Errorf("loading %s: %w", subject, err)
	}

	return s, http.StatusOK, nil
}

func (h *Handler) params(r *http.Request) (model.ParamsInput, error) {
	p := model.DefaultParamsInput()
	p.Alpha = h.defaultAlpha

	if s := r.FormValue("alpha"); s != "" {
		alpha, err := model.ParseAlpha(s)
		if err != nil {
			return p, err
		}

		p.Alpha = alpha
	}

	if s := r.FormValue("seasonality"); s != "" {
		seasonality, err := model.ParseSeasonality(s)
		if err != nil {
			return p, err
		}

		p.Seasonal = true
		p.Seasonality = seasonality
	}

	if s := r.FormValue("seasonality_period"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 2 {
			return p, fmt.Errorf("invalid seasonality_period %q", s)
		}

		p.CustomPeriod = &n
	}

	if s := r.FormValue("prior_level_sd"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return p, fmt.Errorf("invalid prior_level_sd %q", s)
		}

		p.PriorLevelSD = v
	}

	if s := r.FormValue("standardize"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return p, fmt.Errorf("invalid standardize %q", s)
		}

		p.Standardize = v
	}

	if s := r.FormValue("niter"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return p, fmt.Errorf("invalid niter %q", s)
		}

		p.NIter = n
	}

	return p, nil
}

func toReportResponse(r *analysis.Report) reportResponse {
	resp := reportResponse{
		ID:      r.ID,
		Subject: r.Subject,
		Locale:  r.Locale,
		Period: periodResponse{
			PreStart:  period.FormatDate(r.Period.PreStart),
			PreEnd:    period.FormatDate(r.Period.PreEnd),
			PostStart: period.FormatDate(r.Period.PostStart),
			PostEnd:   period.FormatDate(r.Period.PostEnd),
		},
		ConfidencePercent: r.Confidence,
		Summary:           make([]rowResponse, len(r.Summary)),
		Narrative:         r.Narrative,
		Detail:            make([]detailResponse, len(r.Detail)),
		Chart:             r.Chart != nil,
	}

	for i, row := range r.Summary {
		resp.Summary[i] = rowResponse{Label: row.Label, Average: row.Average, Cumulative: row.Cumulative}
	}

	for i, row := range r.Detail {
		values := make(map[string]*string, detail.NumFields-1)

		for _, f := range detail.Fields() {
			if f == detail.FieldDate {
				continue
			}

			var v *string

			if d := row.Get(f); d.Valid {
				s := d.Decimal.String()
				v = &s
			}

			values[f.Key()] = v
		}

		resp.Detail[i] = detailResponse{Date: period.FormatDate(row.Date), Values: values}
	}

	if r.Chart != nil {
		resp.Notes = visibleNotes(r.Chart)
	}

	return resp
}

func visibleNotes(c chart.Chart) []string {
	var notes []string

	for _, a := range c.Annotations() {
		if a.Visible() {
			notes = append(notes, a.Text())
		}
	}

	return notes
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
