package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func adminContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test Admin",
		Email:       "admin@medcare.test",
		Role:        domain.RoleAdmin,
	})
}

// newRequest builds a request carrying an admin identity and optional chi URL params
func newRequest(t *testing.T, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(adminContext(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func decodeAPIError(t *testing.T, rr *httptest.ResponseRecorder) domain.APIError {
	t.Helper()
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
	return apiErr
}
