package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brightfolio/media-service/internal/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	response.OK(rec, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decode(t, rec)
	require.True(t, env.Success)
	require.Empty(t, env.Error)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		write func(w http.ResponseWriter)
		code  int
	}{
		{"bad request", func(w http.ResponseWriter) { response.BadRequest(w, "nope") }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { response.Unauthorized(w, "nope") }, http.StatusUnauthorized},
		{"not found", func(w http.ResponseWriter) { response.NotFound(w, "nope") }, http.StatusNotFound},
		{"conflict", func(w http.ResponseWriter) { response.Conflict(w, "nope") }, http.StatusConflict},
		{"bad gateway", func(w http.ResponseWriter) { response.BadGateway(w, "nope") }, http.StatusBadGateway},
		{"internal", func(w http.ResponseWriter) { response.InternalError(w) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			require.Equal(t, tt.code, rec.Code)
			env := decode(t, rec)
			require.False(t, env.Success)
			require.NotEmpty(t, env.Error)
		})
	}
}
