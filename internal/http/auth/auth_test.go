package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/http/auth"
)

var secret = []byte("test-secret")

func TestMiddleware(t *testing.T) {
	valid, err := auth.GenerateToken(secret, "analyst", time.Hour)
	require.NoError(t, err)

	expired, err := auth.GenerateToken(secret, "analyst", -time.Hour)
	require.NoError(t, err)

	foreign, err := auth.GenerateToken([]byte("other"), "analyst", time.Hour)
	require.NoError(t, err)

	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + valid, wantStatus: http.StatusNoContent},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Token " + valid, wantStatus: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongSecret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string

			h := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, _ = auth.Subject(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "analyst", gotSubject)
			}
		})
	}
}

func TestGenerateToken_EmptySubject(t *testing.T) {
	_, err := auth.GenerateToken(secret, "", time.Hour)
	assert.Error(t, err)
}
