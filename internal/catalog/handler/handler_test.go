package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/catalog/models"
	"intake/internal/catalog/service"
	"intake/internal/catalog/store"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(service.New(store.NewInMemory()), logger).Register(r)
	return r
}

func TestCatalogHandler(t *testing.T) {
	router := newRouter(t)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(b)
		}
		req := httptest.NewRequest(method, path, reader)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	var created models.Service

	t.Run("creates a service definition", func(t *testing.T) {
		rec := do(http.MethodPost, "/services", map[string]any{
			"name":               "Adoption Recommendation",
			"required_documents": []string{"SKCK", "KTP", "SKCK"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.True(t, created.IsActive)
		assert.Equal(t, []string{"SKCK", "KTP"}, created.RequiredDocuments)
	})

	t.Run("blank name is 400", func(t *testing.T) {
		rec := do(http.MethodPost, "/services", map[string]any{"name": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("gets by id", func(t *testing.T) {
		rec := do(http.MethodGet, "/services/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := do(http.MethodGet, "/services/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists services", func(t *testing.T) {
		rec := do(http.MethodGet, "/services", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var services []models.Service
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
		assert.Len(t, services, 1)
	})
}
