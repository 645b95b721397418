package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/eisengo/backend/api/handler"
	"github.com/eisengo/backend/internal/config"
	"github.com/eisengo/backend/internal/infrastructure/blobstore"
	"github.com/eisengo/backend/internal/infrastructure/journal"
	"github.com/eisengo/backend/internal/infrastructure/monitor"
	pgInfra "github.com/eisengo/backend/internal/infrastructure/postgres"
	redisInfra "github.com/eisengo/backend/internal/infrastructure/redis"
	"github.com/eisengo/backend/internal/middleware"
	"github.com/eisengo/backend/internal/router"
	"github.com/eisengo/backend/internal/services/lifecycle"
	"github.com/eisengo/backend/internal/services/reminder"
	"github.com/eisengo/backend/pkg/httpcontext"
	"github.com/eisengo/backend/pkg/logger"
	"github.com/eisengo/backend/pkg/mailer"
	"github.com/eisengo/backend/repository/postgres"
	redisRepo "github.com/eisengo/backend/repository/redis"
	attachmentUC "github.com/eisengo/backend/usecase/attachment"
	authUC "github.com/eisengo/backend/usecase/auth"
	taskUC "github.com/eisengo/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	dispatchJournal, err := journal.Open(cfg.Reminder.JournalPath, "dispatches")
	if err != nil {
		zapLogger.Fatal("failed to open reminder journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return dispatchJournal.Close()
	})

	blobs, err := blobstore.NewStore(cfg.Storage.Root)
	if err != nil {
		zapLogger.Fatal("failed to initialize attachment storage", zap.Error(err))
	}

	mon := monitor.New(pool, redisClient, dispatchJournal, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	userCache := redisRepo.NewUserCache(redisClient, cfg.Redis.UserTTL)

	authUseCase := authUC.New(userRepo, userCache, authUC.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		TokenTTL: cfg.JWT.TokenTTL,
	}, zapLogger)
	taskUseCase := taskUC.New(taskRepo, blobs, cfg.Tasks.TitlePolicy, zapLogger)
	attachmentUseCase := attachmentUC.New(taskRepo, blobs, zapLogger)

	if cfg.Reminder.Enabled {
		smtpMailer := mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		reminderJob, err := reminder.New(userRepo, taskRepo, smtpMailer, dispatchJournal, reminder.Config{
			Times:      cfg.Reminder.Times,
			Subject:    cfg.Reminder.Subject,
			RunTimeout: cfg.Reminder.RunTimeout,
		}, zapLogger)
		if err != nil {
			zapLogger.Fatal("reminder job setup failed", zap.Error(err))
		}
		reminderJob.Start()
		manager.Register("reminder", func(ctx context.Context) error {
			reminderJob.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:       apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:       apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Attachment: apiHandler.NewAttachmentHandler(attachmentUseCase, ctxAdapter, zapLogger),
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.BearerAuth(authUseCase, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
