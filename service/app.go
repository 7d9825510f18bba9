package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contenthub/app/config"
	"contenthub/app/identity"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
	"contenthub/app/repositories/mongostore"
	"contenthub/app/routes"
)

const shutdownTimeout = 10 * time.Second

// openStore connects the repositories selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg config.Config) (repositories.Set, error) {
	if cfg.StoreDriver == config.DriverMongo {
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	store, err := repositories.NewStore(cfg.BadgerPath)
	if err != nil {
		return repositories.Set{}, fmt.Errorf("failed to open Badger DB: %w", err)
	}
	return store.Set(), nil
}

// NewServer wires the store, identity gate, uploader and routes for cfg.
// The returned func releases everything the server holds.
func NewServer(ctx context.Context, cfg config.Config) (*http.Server, func(), error) {
	repos, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	provider := identity.NewLocalProvider(repos.Users, repos.Credentials, cfg.JWTSecret, cfg.TokenTTL)
	gate := identity.NewGate(provider, nil)

	var uploader objectstore.Uploader
	if cfg.UploadEndpoint != "" {
		uploader = objectstore.NewHTTPUploader(cfg.UploadEndpoint, cfg.UploadPreset, cfg.UploadDeleteEndpoint)
	} else {
		log.Println("UPLOAD_ENDPOINT not set; posts with images will be rejected")
	}

	router, release, err := routes.SetupRoutes(routes.Deps{
		Repos:       repos,
		Gate:        gate,
		Uploader:    uploader,
		ImagePolicy: cfg.ImagePolicy,
		FeedLimit:   cfg.FeedLimit,
		ProfileTTL:  cfg.ProfileCacheTTL,
		BaseURL:     cfg.BaseURL,
	})
	if err != nil {
		repos.Close()
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	cleanup := func() {
		release()
		if err := repos.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}
	return srv, cleanup, nil
}

// RunAppServer serves the content API until ctx is cancelled or the process
// receives SIGINT/SIGTERM, then shuts down gracefully.
func RunAppServer(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting content service on %s (store: %s)", srv.Addr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down content service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
