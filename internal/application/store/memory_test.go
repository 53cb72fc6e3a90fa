package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"intake/internal/application/models"
	"intake/pkg/platform/sentinel"
)

type ApplicationStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ApplicationStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestApplicationStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicationStoreSuite))
}

func (s *ApplicationStoreSuite) newDraft(applicantID int64, createdAt time.Time) *models.Application {
	app, err := models.NewApplication(uuid.New(), uuid.New(), applicantID, map[string]any{"k": "v"}, nil, createdAt)
	s.Require().NoError(err)
	return app
}

func (s *ApplicationStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds an application", func() {
		app := s.newDraft(1, time.Now())
		s.Require().NoError(s.store.Create(s.ctx, app))

		found, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(app.ID, found.ID)
		s.Equal(models.StatusDraft, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		app := s.newDraft(1, time.Now())
		s.Require().NoError(s.store.Create(s.ctx, app))
		s.ErrorIs(s.store.Create(s.ctx, app), sentinel.ErrConflict)
	})

	s.Run("returned applications are copies", func() {
		app := s.newDraft(1, time.Now())
		s.Require().NoError(s.store.Create(s.ctx, app))

		found, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		found.Status = models.StatusApproved
		found.ApplicationData["k"] = "mutated"

		again, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusDraft, again.Status)
		s.Equal("v", again.ApplicationData["k"])
	})
}

func (s *ApplicationStoreSuite) TestUpdate() {
	s.Run("persists changes", func() {
		app := s.newDraft(1, time.Now())
		s.Require().NoError(s.store.Create(s.ctx, app))

		notes := "updated"
		app.Notes = &notes
		s.Require().NoError(s.store.Update(s.ctx, app))

		found, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found.Notes)
		s.Equal("updated", *found.Notes)
	})

	s.Run("returns ErrNotFound for unknown application", func() {
		app := s.newDraft(1, time.Now())
		s.ErrorIs(s.store.Update(s.ctx, app), sentinel.ErrNotFound)
	})
}

func (s *ApplicationStoreSuite) TestSubmitIfDraft() {
	s.Run("submits a draft and stamps submitted_at", func() {
		app := s.newDraft(1, time.Now())
		s.Require().NoError(s.store.Create(s.ctx, app))

		now := time.Now().UTC()
		submitted, err := s.store.SubmitIfDraft(s.ctx, app.ID, now)
		s.Require().NoError(err)
		s.Equal(models.StatusSubmitted, submitted.Status)
		s.Require().NotNil(submitted.SubmittedAt)
		s.Equal(now, *submitted.SubmittedAt)
	})

	s.Run("returns ErrInvalidState when not in draft", func() {
		app := s.newDraft(1, time.Now())
		app.Status = models.StatusUnderReview
		s.Require().NoError(s.store.Create(s.ctx, app))

		_, err := s.store.SubmitIfDraft(s.ctx, app.ID, time.Now())
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("returns ErrNotFound for unknown application", func() {
		_, err := s.store.SubmitIfDraft(s.ctx, uuid.New(), time.Now())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("concurrent submits resolve to exactly one winner", func() {
		app := s.newDraft(1, time.Now())
		s.Require().NoError(s.store.Create(s.ctx, app))

		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = s.store.SubmitIfDraft(s.ctx, app.ID, time.Now())
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				s.ErrorIs(err, sentinel.ErrInvalidState)
			}
		}
		s.Equal(1, winners)
	})
}

func (s *ApplicationStoreSuite) TestList() {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	apps := make([]*models.Application, 0, 5)
	for i := 0; i < 5; i++ {
		applicantID := int64(1)
		if i >= 3 {
			applicantID = 2
		}
		app := s.newDraft(applicantID, base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.store.Create(s.ctx, app))
		apps = append(apps, app)
	}
	reviewing := apps[4]
	reviewing.Status = models.StatusUnderReview
	s.Require().NoError(s.store.Update(s.ctx, reviewing))

	s.Run("returns all in creation order", func() {
		got, err := s.store.List(s.ctx, models.ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(got, 5)
		for i, app := range apps {
			s.Equal(app.ID, got[i].ID)
		}
	})

	s.Run("filters by applicant", func() {
		applicantID := int64(2)
		got, err := s.store.List(s.ctx, models.ListFilter{ApplicantID: &applicantID})
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("filters by status", func() {
		status := models.StatusUnderReview
		got, err := s.store.List(s.ctx, models.ListFilter{Status: &status})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(reviewing.ID, got[0].ID)
	})

	s.Run("applies offset and limit", func() {
		got, err := s.store.List(s.ctx, models.ListFilter{Offset: 1, Limit: 2})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(apps[1].ID, got[0].ID)
		s.Equal(apps[2].ID, got[1].ID)
	})

	s.Run("offset past the end yields empty", func() {
		got, err := s.store.List(s.ctx, models.ListFilter{Offset: 50})
		s.Require().NoError(err)
		s.Empty(got)
	})
}
