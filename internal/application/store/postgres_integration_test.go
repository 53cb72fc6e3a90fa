//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"intake/internal/application/models"
	"intake/internal/application/store"
	catalogmodels "intake/internal/catalog/models"
	catalogstore "intake/internal/catalog/store"
	"intake/pkg/platform/sentinel"
	"intake/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	catalog  *catalogstore.Postgres
	svcID    uuid.UUID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.catalog = catalogstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "application_documents", "applications", "services"))

	svc, err := catalogmodels.NewService(uuid.New(), "Adoption Recommendation", nil,
		[]string{"SKCK", "KTP"}, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.catalog.Create(ctx, svc))
	s.svcID = svc.ID
}

func (s *PostgresStoreSuite) newDraft(applicantID int64) *models.Application {
	app, err := models.NewApplication(uuid.New(), s.svcID, applicantID,
		map[string]any{"reason": "adoption", "children": float64(2)}, nil, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return app
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	app := s.newDraft(42)
	s.Require().NoError(s.store.Create(ctx, app))

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.ID, found.ID)
	s.Equal(models.StatusDraft, found.Status)
	s.Equal(app.ApplicationData, found.ApplicationData)
	s.Nil(found.SubmittedAt)
	s.Nil(found.ReviewedAt)
	s.Nil(found.ReviewedBy)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	app := s.newDraft(42)
	s.Require().NoError(s.store.Create(ctx, app))

	notes := "front desk note"
	reviewer := int64(7)
	reviewedAt := time.Now().UTC().Truncate(time.Microsecond)
	app.StaffNotes = &notes
	app.Status = models.StatusUnderReview
	app.ReviewedBy = &reviewer
	app.ReviewedAt = &reviewedAt
	s.Require().NoError(s.store.Update(ctx, app))

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusUnderReview, found.Status)
	s.Require().NotNil(found.StaffNotes)
	s.Equal(notes, *found.StaffNotes)
	s.Require().NotNil(found.ReviewedBy)
	s.Equal(reviewer, *found.ReviewedBy)
	s.Require().NotNil(found.ReviewedAt)
	s.True(found.ReviewedAt.Equal(reviewedAt))

	missing := s.newDraft(43)
	s.ErrorIs(s.store.Update(ctx, missing), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSubmitIfDraft() {
	ctx := context.Background()

	s.Run("submits a draft", func() {
		app := s.newDraft(42)
		s.Require().NoError(s.store.Create(ctx, app))

		now := time.Now().UTC().Truncate(time.Microsecond)
		submitted, err := s.store.SubmitIfDraft(ctx, app.ID, now)
		s.Require().NoError(err)
		s.Equal(models.StatusSubmitted, submitted.Status)
		s.Require().NotNil(submitted.SubmittedAt)
		s.True(submitted.SubmittedAt.Equal(now))
	})

	s.Run("refuses a non-draft with ErrInvalidState", func() {
		app := s.newDraft(42)
		app.Status = models.StatusUnderReview
		s.Require().NoError(s.store.Create(ctx, app))

		_, err := s.store.SubmitIfDraft(ctx, app.ID, time.Now().UTC())
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown id is ErrNotFound", func() {
		_, err := s.store.SubmitIfDraft(ctx, uuid.New(), time.Now().UTC())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestConcurrentSubmit verifies the conditional UPDATE admits exactly one of
// many racing submitters.
func (s *PostgresStoreSuite) TestConcurrentSubmit() {
	ctx := context.Background()
	app := s.newDraft(42)
	s.Require().NoError(s.store.Create(ctx, app))

	const goroutines = 20
	var wg sync.WaitGroup
	var winners atomic.Int32
	var losers atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.SubmitIfDraft(ctx, app.ID, time.Now().UTC())
			switch {
			case err == nil:
				winners.Add(1)
			default:
				s.ErrorIs(err, sentinel.ErrInvalidState)
				losers.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), winners.Load())
	s.Equal(int32(goroutines-1), losers.Load())
}

func (s *PostgresStoreSuite) TestList() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		app := s.newDraft(int64(100 + i))
		app.CreatedAt = app.CreatedAt.Add(time.Duration(i) * time.Second)
		app.UpdatedAt = app.CreatedAt
		s.Require().NoError(s.store.Create(ctx, app))
	}

	all, err := s.store.List(ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)
	s.True(all[0].CreatedAt.Before(all[1].CreatedAt))

	applicantID := int64(101)
	filtered, err := s.store.List(ctx, models.ListFilter{ApplicantID: &applicantID})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(applicantID, filtered[0].ApplicantID)

	paged, err := s.store.List(ctx, models.ListFilter{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Equal(all[1].ID, paged[0].ID)
}
