package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	appmodels "intake/internal/application/models"
	appstore "intake/internal/application/store"
	catalogmodels "intake/internal/catalog/models"
	catalogstore "intake/internal/catalog/store"
	docmodels "intake/internal/document/models"
	documentservice "intake/internal/document/service"
	docstore "intake/internal/document/store"
	"intake/internal/transport/http/shared"
)

type DocumentHandlerSuite struct {
	suite.Suite
	router http.Handler
	apps   *appstore.InMemory
	app    *appmodels.Application
}

func (s *DocumentHandlerSuite) SetupTest() {
	ctx := context.Background()
	s.apps = appstore.NewInMemory()
	catalog := catalogstore.NewInMemory()
	docs := docstore.NewInMemory(func(ctx context.Context, applicationID uuid.UUID) (appmodels.Status, error) {
		app, err := s.apps.FindByID(ctx, applicationID)
		if err != nil {
			return "", err
		}
		return app.Status, nil
	})

	svc, err := catalogmodels.NewService(uuid.New(), "Adoption Recommendation", nil,
		[]string{"SKCK", "KTP"}, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(catalog.Create(ctx, svc))

	app, err := appmodels.NewApplication(uuid.New(), svc.ID, 42, nil, nil, time.Now().UTC())
	s.Require().NoError(err)
	s.app = app
	s.Require().NoError(s.apps.Create(ctx, app))

	guard, err := documentservice.New(docs, s.apps, catalog)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(guard, logger).Register(r)
	s.router = r
}

func TestDocumentHandlerSuite(t *testing.T) {
	suite.Run(t, new(DocumentHandlerSuite))
}

func (s *DocumentHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *DocumentHandlerSuite) uploadBody(documentType string) map[string]any {
	return map[string]any{
		"document_type": documentType,
		"file_name":     documentType + ".pdf",
		"file_path":     "uploads/" + documentType + ".pdf",
		"file_size":     1024,
		"mime_type":     "application/pdf",
	}
}

func (s *DocumentHandlerSuite) TestUpload() {
	s.Run("uploads a declared document type", func() {
		rec := s.do(http.MethodPost, "/applications/"+s.app.ID.String()+"/documents", s.uploadBody("SKCK"))
		s.Require().Equal(http.StatusCreated, rec.Code)

		var doc docmodels.Document
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &doc))
		s.Equal("SKCK", doc.DocumentType)
		s.Equal(s.app.ID, doc.ApplicationID)
	})

	s.Run("undeclared type is rejected", func() {
		rec := s.do(http.MethodPost, "/applications/"+s.app.ID.String()+"/documents", s.uploadBody("FINANCIAL_STATEMENT"))
		s.Require().Equal(http.StatusBadRequest, rec.Code)

		var resp shared.ErrorResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("unsupported_document_type", resp.Error)
	})

	s.Run("path application id wins over the body", func() {
		body := s.uploadBody("KTP")
		body["application_id"] = uuid.NewString()
		rec := s.do(http.MethodPost, "/applications/"+s.app.ID.String()+"/documents", body)
		s.Require().Equal(http.StatusCreated, rec.Code)

		var doc docmodels.Document
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &doc))
		s.Equal(s.app.ID, doc.ApplicationID)
	})

	s.Run("unknown application is 404", func() {
		rec := s.do(http.MethodPost, "/applications/"+uuid.NewString()+"/documents", s.uploadBody("SKCK"))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *DocumentHandlerSuite) TestListAndDelete() {
	rec := s.do(http.MethodPost, "/applications/"+s.app.ID.String()+"/documents", s.uploadBody("SKCK"))
	s.Require().Equal(http.StatusCreated, rec.Code)
	var doc docmodels.Document
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &doc))

	s.Run("lists documents for the application", func() {
		rec := s.do(http.MethodGet, "/applications/"+s.app.ID.String()+"/documents", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var docs []docmodels.Document
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &docs))
		s.Len(docs, 1)
	})

	s.Run("unknown application lists empty array", func() {
		rec := s.do(http.MethodGet, "/applications/"+uuid.NewString()+"/documents", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Equal("[]\n", rec.Body.String())
	})

	s.Run("deletes while draft", func() {
		rec := s.do(http.MethodDelete, "/documents/"+doc.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"deleted": true}`, rec.Body.String())
	})

	s.Run("absent document reports deleted false", func() {
		rec := s.do(http.MethodDelete, "/documents/"+uuid.NewString(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"deleted": false}`, rec.Body.String())
	})

	s.Run("refuses deletion once submitted", func() {
		rec := s.do(http.MethodPost, "/applications/"+s.app.ID.String()+"/documents", s.uploadBody("KTP"))
		s.Require().Equal(http.StatusCreated, rec.Code)
		var kept docmodels.Document
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &kept))

		app, err := s.apps.FindByID(context.Background(), s.app.ID)
		s.Require().NoError(err)
		app.Status = appmodels.StatusSubmitted
		s.Require().NoError(s.apps.Update(context.Background(), app))

		rec = s.do(http.MethodDelete, "/documents/"+kept.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"deleted": false}`, rec.Body.String())
	})
}
