//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	appmodels "intake/internal/application/models"
	appstore "intake/internal/application/store"
	catalogmodels "intake/internal/catalog/models"
	catalogstore "intake/internal/catalog/store"
	"intake/internal/document/models"
	"intake/internal/document/store"
	"intake/pkg/testutil/containers"
)

type DocumentPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	docs     *store.Postgres
	apps     *appstore.Postgres
	catalog  *catalogstore.Postgres
	app      *appmodels.Application
}

func TestDocumentPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DocumentPostgresSuite))
}

func (s *DocumentPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.docs = store.NewPostgres(s.postgres.DB)
	s.apps = appstore.NewPostgres(s.postgres.DB)
	s.catalog = catalogstore.NewPostgres(s.postgres.DB)
}

func (s *DocumentPostgresSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "application_documents", "applications", "services"))

	svc, err := catalogmodels.NewService(uuid.New(), "Adoption Recommendation", nil,
		[]string{"SKCK", "KTP"}, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.catalog.Create(ctx, svc))

	app, err := appmodels.NewApplication(uuid.New(), svc.ID, 42, nil, nil, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.apps.Create(ctx, app))
	s.app = app
}

func (s *DocumentPostgresSuite) insertDocument(documentType string, uploadedAt time.Time) *models.Document {
	doc, err := models.NewDocument(uuid.New(), models.UploadRequest{
		ApplicationID: s.app.ID,
		DocumentType:  documentType,
		FileName:      documentType + ".pdf",
		FilePath:      "uploads/" + documentType + ".pdf",
		FileSize:      1024,
		MimeType:      "application/pdf",
	}, uploadedAt.Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.docs.Insert(context.Background(), doc))
	return doc
}

func (s *DocumentPostgresSuite) setStatus(status appmodels.Status) {
	ctx := context.Background()
	app, err := s.apps.FindByID(ctx, s.app.ID)
	s.Require().NoError(err)
	app.Status = status
	s.Require().NoError(s.apps.Update(ctx, app))
}

func (s *DocumentPostgresSuite) TestInsertAndList() {
	ctx := context.Background()
	base := time.Now().UTC()
	first := s.insertDocument("SKCK", base)
	second := s.insertDocument("KTP", base.Add(time.Second))

	docs, err := s.docs.ListByApplication(ctx, s.app.ID)
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal(first.ID, docs[0].ID)
	s.Equal(second.ID, docs[1].ID)

	types, err := s.docs.ListTypesByApplication(ctx, s.app.ID)
	s.Require().NoError(err)
	s.Equal([]string{"SKCK", "KTP"}, types)

	empty, err := s.docs.ListByApplication(ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *DocumentPostgresSuite) TestDeleteIfApplicationDraft() {
	ctx := context.Background()

	s.Run("deletes while the application is draft", func() {
		doc := s.insertDocument("SKCK", time.Now().UTC())

		filePath, deleted, err := s.docs.DeleteIfApplicationDraft(ctx, doc.ID)
		s.Require().NoError(err)
		s.True(deleted)
		s.Equal(doc.FilePath, filePath)

		docs, err := s.docs.ListByApplication(ctx, s.app.ID)
		s.Require().NoError(err)
		s.Empty(docs)
	})

	s.Run("refuses once the application leaves draft", func() {
		doc := s.insertDocument("KTP", time.Now().UTC())
		s.setStatus(appmodels.StatusSubmitted)

		_, deleted, err := s.docs.DeleteIfApplicationDraft(ctx, doc.ID)
		s.Require().NoError(err)
		s.False(deleted)

		// Row survives the refused deletion.
		docs, err := s.docs.ListByApplication(ctx, s.app.ID)
		s.Require().NoError(err)
		s.Len(docs, 1)
	})

	s.Run("absent document reports false without error", func() {
		_, deleted, err := s.docs.DeleteIfApplicationDraft(ctx, uuid.New())
		s.Require().NoError(err)
		s.False(deleted)
	})
}
