// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	applicationhandler "intake/internal/application/handler"
	applicationmetrics "intake/internal/application/metrics"
	applicationmodels "intake/internal/application/models"
	applicationservice "intake/internal/application/service"
	applicationstore "intake/internal/application/store"
	cataloghandler "intake/internal/catalog/handler"
	catalogservice "intake/internal/catalog/service"
	catalogstore "intake/internal/catalog/store"
	"intake/internal/document/filestore"
	documenthandler "intake/internal/document/handler"
	documentservice "intake/internal/document/service"
	documentstore "intake/internal/document/store"
	"intake/internal/events"
	"intake/internal/platform/config"
	"intake/internal/platform/httpserver"
	"intake/internal/platform/logger"
	"intake/internal/platform/metrics"
	"intake/internal/platform/postgres"
	platformredis "intake/internal/platform/redis"
	httptransport "intake/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Stores: Postgres when configured, in-memory otherwise (local runs).
	var (
		appStore applicationservice.ApplicationStore
		docStore documentservice.Store
		svcStore catalogstore.Store
		docTypes applicationservice.DocumentTypes
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.ApplySchema(ctx, db); err != nil {
			log.Error("failed to apply schema", "error", err.Error())
			os.Exit(1)
		}
		appStore = applicationstore.NewPostgres(db)
		pgDocs := documentstore.NewPostgres(db)
		docStore, docTypes = pgDocs, pgDocs
		svcStore = catalogstore.NewPostgres(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		memApps := applicationstore.NewInMemory()
		appStore = memApps
		memDocs := documentstore.NewInMemory(func(ctx context.Context, id uuid.UUID) (applicationmodels.Status, error) {
			app, err := memApps.FindByID(ctx, id)
			if err != nil {
				return "", err
			}
			return app.Status, nil
		})
		docStore, docTypes = memDocs, memDocs
		svcStore = catalogstore.NewInMemory()
	}

	// Optional collaborators; each disables itself when unconfigured.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		svcStore = catalogstore.NewCached(svcStore, redisClient, cfg.Redis.CacheTTL, log)
	}

	publisher, err := events.NewKafkaPublisher(ctx, cfg.Kafka)
	if err != nil {
		log.Error("failed to connect to kafka", "error", err.Error())
		os.Exit(1)
	}

	files, err := filestore.NewMinio(cfg.S3)
	if err != nil {
		log.Error("failed to init object storage", "error", err.Error())
		os.Exit(1)
	}
	if files != nil {
		if err := files.EnsureBucket(ctx); err != nil {
			log.Error("failed to ensure document bucket", "error", err.Error())
			os.Exit(1)
		}
	}

	catalogSvc := catalogservice.New(svcStore)

	appOpts := []applicationservice.Option{
		applicationservice.WithLogger(log),
		applicationservice.WithMetrics(applicationmetrics.New()),
	}
	if publisher != nil {
		defer publisher.Close()
		appOpts = append(appOpts, applicationservice.WithPublisher(publisher))
	}
	appSvc, err := applicationservice.New(appStore, svcStore, docTypes, appOpts...)
	if err != nil {
		log.Error("failed to build application service", "error", err.Error())
		os.Exit(1)
	}

	docOpts := []documentservice.Option{documentservice.WithLogger(log)}
	if files != nil {
		docOpts = append(docOpts, documentservice.WithFileStore(files))
	}
	docSvc, err := documentservice.New(docStore, appStore, svcStore, docOpts...)
	if err != nil {
		log.Error("failed to build document service", "error", err.Error())
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Handlers{
		Applications: applicationhandler.New(appSvc, log),
		Documents:    documenthandler.New(docSvc, log),
		Catalog:      cataloghandler.New(catalogSvc, log),
	}, log, metrics.New())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting intake server", "addr", cfg.Addr)

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(shutdownCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
