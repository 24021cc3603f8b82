package report_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/export"
	"github.com/MrJamesThe3rd/impactreport/internal/http/report"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
)

const modelSummary = `Posterior Inference {Causal Impact}
                          Average            Cumulative
Actual                    125.23             3756.86
Prediction (s.d.)         120.34 (0.31)      3610.28 (9.28)
95% CI                    [119.76, 120.97]   [3592.67, 3629.06]
`

func newRouter() http.Handler {
	r := chi.NewRouter()
	report.NewHandler(locale.EN, 1<<20).Routes(r)

	return r
}

func inferencesCSV() string {
	var b strings.Builder
	b.WriteString("date,preds,preds_lower,preds_upper,point_effects,point_effects_lower,point_effects_upper,post_cum_effects,post_cum_effects_lower,post_cum_effects_upper\n")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 30 {
		eff, cum := 0, 0
		if i >= 20 {
			eff, cum = 5, 5*(i-19)
		}

		fmt.Fprintf(&b, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
			start.AddDate(0, 0, i).Format(time.DateOnly), 100+i, 95+i, 105+i, eff, eff-3, eff+3, cum, cum-4, cum+4)
	}

	return b.String()
}

func multipartRequest(t *testing.T, path, file string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if file != "" {
		fw, err := mw.CreateFormFile("file", "inferences.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func attachmentName(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)

	return params["filename"]
}

func TestHandler_Summary(t *testing.T) {
	body := fmt.Sprintf(`{"summary":%q,"confidence_percent":95}`, modelSummary)

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Rows []struct {
			Label      string `json:"label"`
			Average    string `json:"average"`
			Cumulative string `json:"cumulative"`
		} `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	require.Len(t, got.Rows, 3)
	assert.Equal(t, "125.23", got.Rows[0].Average)
	assert.Equal(t, "3756.86", got.Rows[0].Cumulative)
	assert.Equal(t, "[3592.67, 3629.06]", got.Rows[2].Cumulative)
}

func TestHandler_Summary_InvalidConfidence(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary",
		strings.NewReader(`{"summary":"x","confidence_percent":0}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SummaryDownload(t *testing.T) {
	type testCase struct {
		name       string
		dates      string
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "ValidPeriod",
			dates:      `"pre_start":"2024-01-01","pre_end":"2024-01-20","post_start":"2024-01-21","post_end":"2024-01-30"`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "OverlappingPeriod",
			dates:      `"pre_start":"2024-01-01","pre_end":"2024-01-20","post_start":"2024-01-20","post_end":"2024-01-30"`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "MissingDates",
			dates:      `"pre_start":"2024-01-01"`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"summary":%q,"confidence_percent":95,"subject":"store/a",%s}`, modelSummary, tt.dates)

			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary/download", strings.NewReader(body)))

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				var got map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, false, got["ok"])
				assert.NotEmpty(t, got["message"])

				return
			}

			assert.Equal(t, export.ContentTypeCSV, rec.Header().Get("Content-Type"))
			assert.Equal(t, "causal_impact_summary_store_a_20240101_20240130.csv", attachmentName(t, rec))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\xef\xbb\xbf")))
			assert.Contains(t, rec.Body.String(), "3756.86")
		})
	}
}

func TestHandler_DetailDownload(t *testing.T) {
	type testCase struct {
		name            string
		file            string
		format          string
		postEnd         string
		wantStatus      int
		wantContentType string
		wantFilename    string
	}

	tests := []testCase{
		{
			name:            "CSV",
			file:            inferencesCSV(),
			postEnd:         "2024-01-30",
			wantStatus:      http.StatusOK,
			wantContentType: export.ContentTypeCSV,
			wantFilename:    "causal_impact_detail_shop_20240121_20240130.csv",
		},
		{
			name:            "XLSX",
			file:            inferencesCSV(),
			format:          "xlsx",
			postEnd:         "2024-01-30",
			wantStatus:      http.StatusOK,
			wantContentType: export.ContentTypeXLSX,
			wantFilename:    "causal_impact_detail_shop_20240121_20240130.xlsx",
		},
		{
			name:       "UnknownFormat",
			file:       inferencesCSV(),
			format:     "json",
			postEnd:    "2024-01-30",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingFile",
			postEnd:    "2024-01-30",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "EndBeforeStart",
			file:       inferencesCSV(),
			postEnd:    "2024-01-10",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, "/detail/download", tt.file, map[string]string{
				"subject":    "shop",
				"post_start": "2024-01-21",
				"post_end":   tt.postEnd,
				"format":     tt.format,
			})

			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantFilename, attachmentName(t, rec))
			assert.NotEmpty(t, rec.Body.Bytes())
		})
	}
}

func TestHandler_ChartDownload(t *testing.T) {
	req := multipartRequest(t, "/chart/download", inferencesCSV(), map[string]string{
		"subject":    "shop",
		"pre_start":  "2024-01-01",
		"pre_end":    "2024-01-20",
		"post_start": "2024-01-21",
		"post_end":   "2024-01-30",
	})

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypePDF, rec.Header().Get("Content-Type"))
	assert.Equal(t, "causal_impact_graph_shop_20240101_20240130.pdf", attachmentName(t, rec))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
