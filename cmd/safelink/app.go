package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/bryanwahyu/safelink/internal/application"
	appscans "github.com/bryanwahyu/safelink/internal/application/scans"
	"github.com/bryanwahyu/safelink/internal/application/view"
	"github.com/bryanwahyu/safelink/internal/config"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/domain/verdict"
	"github.com/bryanwahyu/safelink/internal/infra/analyzer/httpclient"
	mysqlp "github.com/bryanwahyu/safelink/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/safelink/internal/infra/db/postgres"
	"github.com/bryanwahyu/safelink/internal/infra/slot/memory"
	minioStore "github.com/bryanwahyu/safelink/internal/infra/storage"
)

// app holds the wiring shared by every command
type app struct {
	cfg        *config.Config
	slot       domain.Slot
	store      *minioStore.Store
	classifier *verdict.Classifier
	feed       *appscans.Feed
	scans      *appscans.Service
	views      *view.Service

	db *sql.DB
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if err := a.initSlot(ctx); err != nil {
		return nil, err
	}

	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		a.store = store
	}

	a.classifier = verdict.NewClassifier(verdict.NewKeywordClassifier(
		cfg.Classifier.SuspiciousKeywords,
		cfg.Classifier.SafeKeywords,
	))
	a.feed = appscans.NewFeed(16)

	clock := application.SystemClock{}
	a.views = &view.Service{
		Slot:        a.slot,
		Classifier:  a.classifier,
		Clock:       clock,
		MaxSessions: cfg.View.MaxSessions,
	}
	a.scans = &appscans.Service{
		Analyzer:      httpclient.NewClient(cfg.Analyzer.Endpoint, cfg.Analyzer.Timeout),
		Slot:          a.slot,
		Feed:          a.feed,
		Classifier:    a.classifier,
		Clock:         clock,
		Window:        domain.Window{Width: cfg.View.Width, Height: cfg.View.Height},
		OpenOnFailure: cfg.View.OpenOnFailure,
		DiscardStale:  cfg.Scan.DiscardStale,
	}
	// a nil *Store must not end up inside the interface
	if a.store != nil {
		a.scans.Archive = a.store
	}
	return a, nil
}

func (a *app) initSlot(ctx context.Context) error {
	switch a.cfg.Slot.Driver {
	case "memory":
		a.slot = memory.New()
	case "mysql":
		db, err := mysqlp.Connect(ctx, a.cfg.MySQLDSN())
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		repo := mysqlp.NewSlotRepository(db, a.cfg.Slot.Key)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return err
		}
		a.db, a.slot = db, repo
	case "postgres":
		db, err := pgp.Connect(ctx, a.cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		repo := pgp.NewSlotRepository(db, a.cfg.Slot.Key)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return err
		}
		a.db, a.slot = db, repo
	default:
		return fmt.Errorf("unknown slot driver %q", a.cfg.Slot.Driver)
	}
	log.Printf("slot driver=%s key=%s", a.cfg.Slot.Driver, a.cfg.Slot.Key)
	return nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
