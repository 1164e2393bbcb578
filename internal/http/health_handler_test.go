package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

func checkHealth(t *testing.T, db, cache Pinger) (*httptest.ResponseRecorder, HealthResponseDTO) {
	t.Helper()
	handler := NewHealthHandler(db, cache, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)

	var dto HealthResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return rec, dto
}

func TestHealth_AllUp(t *testing.T) {
	rec, dto := checkHealth(t, mockPinger{}, mockPinger{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", dto.Status)
	assert.Equal(t, "ok", dto.API)
	assert.Equal(t, "ok", dto.Database)
	assert.Equal(t, "ok", dto.Cache)
}

// A dead cache degrades the report but not the overall status.
func TestHealth_CacheDown(t *testing.T) {
	rec, dto := checkHealth(t, mockPinger{}, mockPinger{err: fmt.Errorf("connection refused")})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", dto.Status)
	assert.Equal(t, "unavailable", dto.Cache)
}

func TestHealth_DatabaseDown(t *testing.T) {
	rec, dto := checkHealth(t, mockPinger{err: fmt.Errorf("connection refused")}, mockPinger{})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", dto.Status)
	assert.Equal(t, "unavailable", dto.Database)
	assert.Equal(t, "ok", dto.Cache)
}

func TestHealth_BothDown(t *testing.T) {
	err := fmt.Errorf("connection refused")
	rec, dto := checkHealth(t, mockPinger{err: err}, mockPinger{err: err})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", dto.Status)
	assert.Equal(t, "unavailable", dto.Database)
	assert.Equal(t, "unavailable", dto.Cache)
}
