//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"intake/internal/catalog/models"
	"intake/internal/catalog/store"
	platformredis "intake/internal/platform/redis"
	"intake/pkg/platform/sentinel"
	"intake/pkg/testutil/containers"
)

type CatalogPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	store    *store.Postgres
}

func TestCatalogPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CatalogPostgresSuite))
}

func (s *CatalogPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *CatalogPostgresSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "application_documents", "applications", "services"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

func (s *CatalogPostgresSuite) newService(name string) *models.Service {
	svc, err := models.NewService(uuid.New(), name, nil, []string{"SKCK", "KTP"}, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return svc
}

func (s *CatalogPostgresSuite) TestCreateAndFind() {
	ctx := context.Background()
	svc := s.newService("Adoption Recommendation")
	s.Require().NoError(s.store.Create(ctx, svc))

	found, err := s.store.FindByID(ctx, svc.ID)
	s.Require().NoError(err)
	s.Equal(svc.Name, found.Name)
	s.Equal([]string{"SKCK", "KTP"}, found.RequiredDocuments)
	s.True(found.IsActive)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Create(ctx, svc), sentinel.ErrConflict)
}

func (s *CatalogPostgresSuite) TestList() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newService("First")))
	s.Require().NoError(s.store.Create(ctx, s.newService("Second")))

	services, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(services, 2)
}

// TestCachedReadThrough verifies the Redis wrapper serves FindByID from cache
// after the first load.
func (s *CatalogPostgresSuite) TestCachedReadThrough() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := &platformredis.Client{Client: s.redis.Client}
	cached := store.NewCached(s.store, client, time.Minute, logger)

	svc := s.newService("Adoption Recommendation")
	s.Require().NoError(cached.Create(ctx, svc))

	// First read populates the cache.
	found, err := cached.FindByID(ctx, svc.ID)
	s.Require().NoError(err)
	s.Equal(svc.Name, found.Name)

	keys, err := s.redis.Client.Keys(ctx, "intake:service:*").Result()
	s.Require().NoError(err)
	s.Len(keys, 1)

	// Second read is served from Redis even after the row is gone.
	s.Require().NoError(s.postgres.TruncateTables(ctx, "services"))
	fromCache, err := cached.FindByID(ctx, svc.ID)
	s.Require().NoError(err)
	s.Equal(svc.ID, fromCache.ID)
	s.Equal([]string{"SKCK", "KTP"}, fromCache.RequiredDocuments)
}
