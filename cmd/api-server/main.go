package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/punkouter26/PoSeeReview-sub001/internal/analyzer"
	"github.com/punkouter26/PoSeeReview-sub001/internal/artifact"
	"github.com/punkouter26/PoSeeReview-sub001/internal/auth"
	"github.com/punkouter26/PoSeeReview-sub001/internal/comic"
	"github.com/punkouter26/PoSeeReview-sub001/internal/comiccache"
	"github.com/punkouter26/PoSeeReview-sub001/internal/events"
	"github.com/punkouter26/PoSeeReview-sub001/internal/imagegen"
	"github.com/punkouter26/PoSeeReview-sub001/internal/leaderboard"
	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
	"github.com/punkouter26/PoSeeReview-sub001/internal/sweeper"
	"github.com/punkouter26/PoSeeReview-sub001/internal/takedown"
	"github.com/punkouter26/PoSeeReview-sub001/internal/venue"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/database"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/logging"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()

	logger := logging.Must()
	defer logger.Sync()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if cfg.GeminiAPIKey == "" {
		log.Fatal("POSEE_GEMINI_API_KEY is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	an, err := analyzer.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AnalyzerModel)
	if err != nil {
		log.Fatalf("analyzer client: %v", err)
	}
	renderer, err := imagegen.NewGemini(ctx, cfg.GeminiAPIKey, cfg.ImageModel)
	if err != nil {
		log.Fatalf("image client: %v", err)
	}

	artifacts, err := artifact.NewFileStore(cfg.ArtifactDir, cfg.ArtifactBaseURL)
	if err != nil {
		log.Fatalf("artifact store: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub, logger))

	cacheRepo := comiccache.NewRepo(db)
	board := leaderboard.NewStore(db, logger)
	lookup := venue.NewCachedLookup(venue.NewClient(cfg.DiscoveryBaseURL), db, logger)

	pipeline := comic.NewPipeline(
		lookup, cacheRepo, board,
		an, renderer, &imagegen.CaptionOverlay{},
		artifacts, retry.New(logger), hub, logger,
		comic.Options{TTL: cfg.ComicTTL, MaxReviews: cfg.MaxReviews},
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		pingCtx, pingCancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer pingCancel()

		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	// Generated panels are plain files; serve them where their URLs point.
	router.Static("/artifacts", cfg.ArtifactDir)

	comicHandler := comic.NewHandler(pipeline)
	comicHandler.RegisterRoutes(router.Group("/venues"))

	boardHandler := leaderboard.NewHandler(board)
	boardHandler.RegisterRoutes(router.Group("/leaderboard"))

	// Auth + admin (takedown) surface
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	admin := auth.NewAdmin(authCfg.AdminUsername, authCfg.AdminPasswordHash)
	authHandler := auth.NewHandler(admin, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	takedownSvc := takedown.NewService(cacheRepo, artifacts, board, hub, logger)
	takedownHandler := takedown.NewHandler(takedownSvc, board)
	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.AuthMiddleware(tokenSvc))
	takedownHandler.RegisterRoutes(adminGroup)

	sw := sweeper.New(cacheRepo, artifacts, logger)
	sw.Interval = cfg.SweepInterval
	sw.Grace = cfg.SweepGrace
	sw.BatchSize = cfg.SweepBatchSize

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sw.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("stopped")
}
