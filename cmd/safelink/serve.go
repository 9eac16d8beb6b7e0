package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/safelink/internal/infra/httpserver"
	"github.com/bryanwahyu/safelink/internal/infra/window"
	"github.com/bryanwahyu/safelink/internal/infra/ws"
	"github.com/bryanwahyu/safelink/internal/middleware"
)

func runServe(args []string) error {
	cfg, err := loadConfig(flag.NewFlagSet("serve", flag.ExitOnError), args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// the dispatcher opens views through the HTTP surface
	a.scans.Opener = window.NewLauncher(a.views, cfg.BaseURL(), cfg.View.Command)

	hub := ws.NewHub(a.feed, a.slot, a.classifier, middleware.OriginChecker(cfg.Server.AllowedOrigins))
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)

	checkers := map[string]middleware.HealthChecker{
		middleware.CheckSlot: middleware.CheckFunc(a.slot.Ping),
	}
	if a.store != nil {
		checkers[middleware.CheckArchive] = middleware.CheckFunc(a.store.Ping)
	}

	setup := middleware.ScanSetup{
		Analyzer:   cfg.Analyzer.Endpoint,
		SlotDriver: cfg.Slot.Driver,
		SlotKey:    cfg.Slot.Key,
		Archive:    a.store != nil,
	}

	handler := httpserver.NewRouter(a.scans, a.views, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKey:         cfg.Server.APIKey,
		Limiter:        limiter,
		Metrics:        middleware.NewMetrics(),
		Checkers:       checkers,
		Setup:          setup,
		Feed:           hub,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	// no read/write timeout: scans wait on the analysis service and /v1/ws is long-lived
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("%s: server listening on %s analyzer=%s", description, addr, cfg.Analyzer.Endpoint)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.Cleanup(10 * time.Minute)
			}
		}
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Printf("shutdown error: %v", err)
			return err
		}
		return nil
	})

	return g.Wait()
}
