package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/common/database"
	"github.com/JakeSchindel1/JHOnboard-sub001/common/logger"
	"github.com/JakeSchindel1/JHOnboard-sub001/common/mqtt"
	commonredis "github.com/JakeSchindel1/JHOnboard-sub001/common/redis"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/blob"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/config"
	httpapi "github.com/JakeSchindel1/JHOnboard-sub001/internal/http"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/metrics"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/repository"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/store"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "intake-data")
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 数据库：未启用或连接失败时退回内存 sqlite（本地联调）
	db, dialect := openDatabase(ctx, cfg, lg)
	defer database.Close(db)

	// KV：Redis 不可用时使用内存实现
	var kv store.KV = store.NewMemoryKV()
	var redisClient *commonredis.Client
	if cfg.RedisEnabled {
		if c, err := commonredis.Connect(ctx, &cfg.Redis); err != nil {
			lg.Warn("Redis enabled but unreachable, falling back to memory KV", zap.Error(err))
		} else {
			redisClient = c
			kv = store.NewRedisKV(c)
			defer commonredis.Close(c)
		}
	}

	sessions := wizard.NewSessions(cfg.Session.WizardTTL, lg)
	m := metrics.New(sessions.Len)

	notifiers := service.NewNotifiers(lg, m)
	if cfg.Notify.WebhookURL != "" {
		notifiers.Add(service.NewWebhookNotifier(cfg.Notify.WebhookURL, 30*time.Second))
	}
	if cfg.Notify.MQTTEnabled {
		mc, err := mqtt.NewClient(&cfg.Notify.MQTT, lg)
		if err != nil {
			lg.Warn("MQTT enabled but connect failed, notifications disabled", zap.Error(err))
		} else {
			notifiers.Add(service.NewMQTTNotifier(mc, cfg.Notify.MQTTTopic))
			defer mc.Disconnect()
		}
	}
	if cfg.Notify.StreamEnabled {
		if redisClient == nil {
			lg.Warn("Stream notifications require Redis, skipping")
		} else {
			notifiers.Add(service.NewStreamNotifier(redisClient, cfg.Notify.Stream, cfg.Notify.StreamMaxLen))
		}
	}

	var archive blob.Archive
	if cfg.Archive.Enabled {
		a, err := blob.NewS3Archive(ctx, blob.Config{
			Region:    cfg.Archive.Region,
			Bucket:    cfg.Archive.Bucket,
			Prefix:    cfg.Archive.Prefix,
			Endpoint:  cfg.Archive.Endpoint,
			PathStyle: cfg.Archive.PathStyle,
		})
		if err != nil {
			lg.Warn("PDF archive enabled but S3 setup failed, archiving disabled", zap.Error(err))
		} else {
			archive = a
		}
	}

	repo := repository.NewSQLParticipantsRepository(db, dialect)
	participants := service.NewParticipantService(repo, notifiers, m, lg)
	pdf := service.NewPDFService(service.NewPDFClient(cfg.PDF.FunctionURL, cfg.PDF.Timeout, lg), archive, m, lg).
		WithNotifiers(notifiers)
	auth := service.NewSessionService(kv, cfg.Session.KeyPrefix, cfg.Session.LoginTTL, lg)

	router := httpapi.NewRouter(lg)
	router.RegisterSubmitRoutes(httpapi.NewSubmitHandler(participants, lg))
	router.RegisterPDFRoutes(httpapi.NewPDFHandler(pdf, lg))
	authHandler := httpapi.NewAuthHandler(auth, lg)
	router.RegisterAuthRoutes(authHandler)
	if cfg.Session.DevIssuer {
		lg.Warn("Development session issuer enabled")
		router.RegisterDevSessionRoutes(authHandler)
	}
	router.RegisterIntakeSessionRoutes(httpapi.NewIntakeSessionHandler(sessions, participants, lg))
	router.RegisterAdminApplicationsRoutes(httpapi.NewAdminApplicationsHandler(participants, lg))
	router.RegisterHealthRoutes(m.Handler())

	go sessions.Run(ctx, cfg.Session.SweepInterval)

	srv := service.NewServer(cfg.HTTP.Addr, router, lg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			lg.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		lg.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func openDatabase(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*sql.DB, repository.Dialect) {
	if cfg.DBEnabled {
		db, err := database.NewDB(&cfg.Database)
		if err == nil {
			dialect := repository.DialectFor(database.DriverName(cfg.Database.Driver))
			if cfg.ApplySchema {
				if err := repository.ApplySchema(ctx, db, dialect); err != nil {
					lg.Fatal("Failed to apply schema", zap.Error(err))
				}
			}
			lg.Info("DB enabled for intake-data", zap.String("driver", cfg.Database.Driver))
			return db, dialect
		}
		lg.Warn("DB enabled but connection failed, falling back to in-memory sqlite", zap.Error(err))
	}

	memCfg := cfg.Database
	memCfg.Driver = "sqlite"
	memCfg.Path = ":memory:"
	db, err := database.NewDB(&memCfg)
	if err != nil {
		lg.Fatal("Failed to open in-memory sqlite", zap.Error(err))
	}
	if err := repository.ApplySchema(ctx, db, repository.DialectSQLite); err != nil {
		lg.Fatal("Failed to apply schema", zap.Error(err))
	}
	return db, repository.DialectSQLite
}
