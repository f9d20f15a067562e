package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"

	"github.com/sukalov/karaokedesk/internal/access"
	"github.com/sukalov/karaokedesk/internal/bot"
	"github.com/sukalov/karaokedesk/internal/bot/admin"
	"github.com/sukalov/karaokedesk/internal/catalog"
	"github.com/sukalov/karaokedesk/internal/config"
	"github.com/sukalov/karaokedesk/internal/db"
	"github.com/sukalov/karaokedesk/internal/httpapi"
	"github.com/sukalov/karaokedesk/internal/logger"
	"github.com/sukalov/karaokedesk/internal/lyrics"
	"github.com/sukalov/karaokedesk/internal/lyrics/parsers/page"
	"github.com/sukalov/karaokedesk/internal/redirect"
	"github.com/sukalov/karaokedesk/internal/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Error(fmt.Sprintf("karaokedesk stopped\nError: %v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var adminBot *bot.Bot
	if cfg.BotEnabled() {
		adminBot, err = bot.New("admin", cfg.BotToken)
		if err != nil {
			return fmt.Errorf("failed to start telegram bot: %w", err)
		}
		defer adminBot.Stop()
		logger.Init(adminBot, cfg.LogChannelID)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID})
	if err != nil {
		return fmt.Errorf("failed to init firebase app: %w", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("failed to init firestore: %w", err)
	}
	defer store.Close()

	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to init firebase auth: %w", err)
	}

	var (
		catalogAudit  catalog.Auditor
		redirectAudit redirect.Auditor
		auditReader   httpapi.AuditReader
	)
	if cfg.AuditEnabled() {
		database, err := db.Open(cfg.TursoURL, cfg.TursoToken)
		if err != nil {
			return err
		}
		defer db.Close(database)

		auditLog := db.NewAuditLog(database)
		if err := auditLog.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate audit log: %w", err)
		}
		catalogAudit, redirectAudit, auditReader = auditLog, auditLog, auditLog
	}

	var cache redirect.Cache
	if cfg.RedisEnabled() {
		manager, err := redis.NewDBManager(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer manager.Close()

		if err := manager.Ping(ctx); err != nil {
			// resolving still works from firestore, only hit counts are lost
			logger.Error(fmt.Sprintf("Redis is unreachable, running without cache\nError: %v", err))
		} else {
			cache = manager
		}
	}

	songs := catalog.NewService(catalog.NewFirestoreStore(store), catalogAudit)
	redirects := redirect.NewService(redirect.NewFirestoreStore(store), cache, redirectAudit)
	gate := access.NewChecker(authClient, access.NewFirestoreAllowList(store))
	importer := lyrics.NewService(page.NewParser(cfg.ImportSelector))

	if adminBot != nil {
		admin.SetupHandlers(adminBot, songs, redirects, cfg.AdminUsernames)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Songs:     songs,
		Redirects: redirects,
		Gate:      gate,
		Importer:  importer,
		Audit:     auditReader,
		Countdown: cfg.RedirectCountdown,
	})

	logger.Success(fmt.Sprintf("karaokedesk is listening on %s", cfg.HTTPAddr))
	if err := httpapi.Run(ctx, cfg.HTTPAddr, router); err != nil {
		return err
	}
	log.Println("karaokedesk shut down")
	return nil
}
