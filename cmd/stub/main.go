package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/destination-seeder/internal/api"
	"github.com/neexbeast/destination-seeder/internal/config"
	"github.com/neexbeast/destination-seeder/internal/storage"
)

type store interface {
	api.DestinationStore
	api.Pinger
}

type objectStore interface {
	api.ObjectStore
	api.Pinger
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.LoadStub()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	destinations, objects, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	handlers := api.NewHandlers(destinations, objects, log)
	router := api.NewRouter(handlers, cfg.Token, destinations, objects, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.Port, "auth", cfg.Token != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server shut down cleanly")
	return nil
}

// openStores picks Postgres and MinIO when configured and in-memory stores
// otherwise. The returned func releases any connection pool.
func openStores(ctx context.Context, cfg *config.Stub, log *slog.Logger) (store, objectStore, func(), error) {
	closeStores := func() {}

	var destinations store = storage.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		closeStores = pool.Close

		applied, err := storage.RunMigrations(ctx, pool, cfg.MigrationsDir)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied", "count", applied)

		destinations = &pooledRepository{Repository: storage.NewRepository(pool), pool: pool}
	} else {
		log.Info("DATABASE_URL not set, keeping destinations in memory")
	}

	var objects objectStore = storage.NewMemoryObjects(cfg.PublicURL)
	if cfg.MinIO.Endpoint != "" {
		m := cfg.MinIO
		minioObjects, err := storage.NewMinIOObjects(ctx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.PublicURL, m.UseSSL, log)
		if err != nil {
			closeStores()
			return nil, nil, nil, fmt.Errorf("connecting to minio: %w", err)
		}
		objects = minioObjects
		log.Info("storing media in minio", "endpoint", m.Endpoint, "bucket", m.Bucket)
	} else {
		log.Info("MINIO_ENDPOINT not set, keeping media in memory")
	}

	return destinations, objects, closeStores, nil
}

// pooledRepository adds the pool's health check to storage.Repository.
type pooledRepository struct {
	*storage.Repository
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p *pooledRepository) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
