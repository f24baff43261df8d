package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	jsonSuccess(rec, http.StatusCreated, envelope{"count": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success": true, "count": 2}`, rec.Body.String())
}

func TestJSONResponseUnencodableBody(t *testing.T) {
	rec := httptest.NewRecorder()
	jsonSuccess(rec, http.StatusOK, envelope{"total": math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal server error", body["message"])
}
