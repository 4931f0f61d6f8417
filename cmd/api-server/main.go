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
	"github.com/joho/godotenv"

	"campusmarket/internal/auth"
	"campusmarket/internal/authors"
	"campusmarket/internal/comments"
	"campusmarket/internal/feedsync"
	"campusmarket/internal/postapi"
	"campusmarket/internal/posts"
	"campusmarket/internal/present"
	"campusmarket/internal/render"
	"campusmarket/internal/search"
	"campusmarket/internal/store"
	"campusmarket/internal/votes"
	"campusmarket/pkg/database"
	"campusmarket/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := utils.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.MigrateFile(db, cfg.SchemaPath); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	// Author directory: bundled campus authors plus every registered account.
	dir := authors.NewDirectory()
	authors.SeedDefaults(dir)

	normalizer := posts.NewNormalizer(dir)

	var base store.BaseSource
	switch cfg.Driver {
	case utils.DriverRemote:
		base = store.NewRemoteSource(cfg.RemoteBaseURL, cfg.RemoteTimeout)
	default:
		base = store.NewSeedSource(cfg.SeedCandidates...)
	}

	local := store.NewLocalStore(db)
	facade := store.NewFacade(local, base, normalizer)

	searchEngine := search.NewEngine()
	renderer := render.NewRenderer(present.NewEngine())

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := feedsync.NewHub()
	router.GET("/ws", feedsync.WSHandler(hub))
	tcpSrv := feedsync.NewServer(cfg.SyncAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path, "driver": cfg.Driver})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Auth
	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: cfg.Auth.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc, dir)
	authHandler.RegisterRoutes(router.Group("/auth"))

	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	if err := authHandler.LoadDirectory(startCtx); err != nil {
		log.Printf("[api] load author directory: %v", err)
	}
	cancelStart()

	api := router.Group("/api/v1")
	protected := router.Group("/api/v1")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/sync/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Stats())
	})

	// Posts
	postHandler := postapi.NewHandler(facade, searchEngine, renderer, hub)
	postHandler.RegisterPublicRoutes(api)
	postHandler.RegisterProtectedRoutes(protected)

	// Votes
	voteHandler := votes.NewHandler(votes.NewRepo(db), local, hub)
	voteHandler.RegisterPublicRoutes(api)
	voteHandler.RegisterProtectedRoutes(protected)

	// Comments
	commentHandler := comments.NewHandler(comments.NewRepo(db), dir, local)
	commentHandler.RegisterPublicRoutes(api)
	commentHandler.RegisterProtectedRoutes(protected)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
