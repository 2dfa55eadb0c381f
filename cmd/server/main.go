// Command server runs the aseara marketplace API.
//
// Wiring only lives here: store selection (postgres vs in-memory), blob
// backend selection (cloudinary vs local disk), the background blob
// cleaner and the HTTP router. Business logic lives in the internal
// services.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	carthandler "aseara/internal/cart/handler"
	cartservice "aseara/internal/cart/service"
	cartstore "aseara/internal/cart/store"
	cataloghandler "aseara/internal/catalog/handler"
	catalogservice "aseara/internal/catalog/service"
	catalogstore "aseara/internal/catalog/store"
	identityhandler "aseara/internal/identity/handler"
	identityservice "aseara/internal/identity/service"
	identitystore "aseara/internal/identity/store"
	jwttoken "aseara/internal/jwt_token"
	"aseara/internal/platform/config"
	"aseara/internal/platform/httpserver"
	"aseara/internal/platform/logger"
	"aseara/internal/platform/middleware"
	platformredis "aseara/internal/platform/redis"
	reviewhandler "aseara/internal/review/handler"
	reviewmetrics "aseara/internal/review/metrics"
	reviewservice "aseara/internal/review/service"
	reviewstore "aseara/internal/review/store"
	"aseara/internal/supplier/docstore"
	supplierhandler "aseara/internal/supplier/handler"
	suppliermetrics "aseara/internal/supplier/metrics"
	supplierservice "aseara/internal/supplier/service"
	supplierstore "aseara/internal/supplier/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Relational stores. An empty DATABASE_URL runs everything in memory,
	// which is how development and most tests run.
	var (
		users     identitystore.Store
		suppliers supplierstore.Store
		admins    reviewstore.Store
		products  catalogstore.Store
	)
	supplierOpts := []supplierservice.Option{
		supplierservice.WithLogger(log),
		supplierservice.WithMetrics(suppliermetrics.New()),
	}
	reviewOpts := []reviewservice.Option{
		reviewservice.WithLogger(log),
		reviewservice.WithMetrics(reviewmetrics.New()),
	}
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		users = identitystore.NewPostgres(db)
		suppliers = supplierstore.NewPostgres(db)
		admins = reviewstore.NewPostgres(db)
		products = catalogstore.NewPostgres(db)
		tx := newPostgresTx(db)
		supplierOpts = append(supplierOpts, supplierservice.WithStoreTx(tx))
		reviewOpts = append(reviewOpts, reviewservice.WithStoreTx(tx))
		log.Info("using postgres stores")
	} else {
		memUsers := identitystore.NewInMemory()
		users = memUsers
		suppliers = supplierstore.NewInMemory(memUsers)
		admins = reviewstore.NewInMemory()
		products = catalogstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	// Blob backend for verification documents.
	var blobs docstore.BlobStore
	if cfg.Blobs.CloudinaryURL != "" {
		cloud, err := docstore.NewCloudinary(cfg.Blobs.CloudinaryURL)
		if err != nil {
			return err
		}
		blobs = cloud
		log.Info("using cloudinary blob backend")
	} else {
		blobs = docstore.NewLocal(cfg.Blobs.LocalDir)
		log.Info("using local blob backend", "dir", cfg.Blobs.LocalDir)
	}
	cleaner := docstore.NewCleaner(blobs, log)
	supplierOpts = append(supplierOpts, supplierservice.WithCleaner(cleaner))

	// Session cart store.
	var carts cartstore.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		carts = cartstore.NewRedis(redisClient.Client)
		log.Info("using redis cart store")
	} else {
		carts = cartstore.NewInMemory()
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	// Services.
	supplierSvc := supplierservice.New(suppliers, blobs, supplierOpts...)
	catalogSvc := catalogservice.New(products, suppliers, catalogservice.WithLogger(log))
	reviewOpts = append(reviewOpts, reviewservice.WithSuspensionHook(catalogSvc.HandleSupplierSuspended))
	reviewSvc := reviewservice.New(admins, suppliers, reviewOpts...)
	identitySvc := identityservice.New(users, supplierSvc, jwtService, identityservice.WithLogger(log))
	cartSvc := cartservice.New(carts, catalogSvc, cartservice.WithLogger(log))

	// Router.
	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	identityhandler.New(identitySvc, log).Register(router)
	supplierhandler.New(supplierSvc, log, jwtService).Register(router)
	reviewhandler.New(reviewSvc, log, jwtService).Register(router)
	cataloghandler.New(catalogSvc, log, jwtService).Register(router)
	carthandler.New(cartSvc, log, jwtService).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return cleaner.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting aseara server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")
		return httpserver.Shutdown(context.Background(), srv)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
