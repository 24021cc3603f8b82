package period_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/http/period"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
)

type response struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	PreDays  *int   `json:"pre_days"`
	PostDays *int   `json:"post_days"`
}

func TestHandler_Validate(t *testing.T) {
	type testCase struct {
		name         string
		body         string
		wantStatus   int
		wantOK       bool
		wantMessage  string
		wantPreDays  int
		wantPostDays int
		missingDate  bool
	}

	tests := []testCase{
		{
			name:         "ValidPeriod",
			body:         `{"pre_start":"2024-01-01","pre_end":"2024-01-31","post_start":"2024-02-01","post_end":"2024-02-10"}`,
			wantStatus:   http.StatusOK,
			wantOK:       true,
			wantPreDays:  31,
			wantPostDays: 10,
		},
		{
			name:         "PostStartOnPreEnd",
			body:         `{"pre_start":"2024-01-01","pre_end":"2024-01-31","post_start":"2024-01-31","post_end":"2024-02-10","locale":"en"}`,
			wantStatus:   http.StatusOK,
			wantOK:       false,
			wantMessage:  "Invalid analysis period: the intervention start date (2024-01-31) must be after the pre-period end date (2024-01-31).",
			wantPreDays:  31,
			wantPostDays: 11,
		},
		{
			name:        "PartialDatesAreNotAnError",
			body:        `{"pre_end":"2024-01-31"}`,
			wantStatus:  http.StatusOK,
			wantOK:      true,
			missingDate: true,
		},
		{
			name:       "BadDate",
			body:       `{"pre_end":"31/01/2024"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadJSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			period.NewHandler(locale.JA).Routes(r)

			req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var got response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			assert.Equal(t, tt.wantOK, got.OK)

			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got.Message)
			}

			if tt.missingDate {
				assert.Nil(t, got.PreDays)
				assert.Nil(t, got.PostDays)

				return
			}

			require.NotNil(t, got.PreDays)
			require.NotNil(t, got.PostDays)
			assert.Equal(t, tt.wantPreDays, *got.PreDays)
			assert.Equal(t, tt.wantPostDays, *got.PostDays)
		})
	}
}
