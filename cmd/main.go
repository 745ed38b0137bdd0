package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/immxrtalbeast/classroom_live/internal/api/http"
	"github.com/immxrtalbeast/classroom_live/internal/api/ws"
	"github.com/immxrtalbeast/classroom_live/internal/config"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/service"
	"github.com/immxrtalbeast/classroom_live/internal/storage"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
	"github.com/immxrtalbeast/classroom_live/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connectDatabase(cfg.Database, cfg.Env)
	if err != nil {
		log.Error("failed to connect database", sl.Err(err))
		os.Exit(1)
	}

	signer, err := storage.NewS3Signer(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to set up object storage", sl.Err(err))
		os.Exit(1)
	}

	principalRepo := repository.NewGormPrincipalRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	chatRepo := repository.NewGormChatRepository(db)
	pollRepo := repository.NewGormOXPollRepository(db)
	checklistRepo := repository.NewGormChecklistRepository(db)
	drawRepo := repository.NewGormDrawRepository(db)
	quizRepo := repository.NewGormQuizRepository(db)
	quizEvents := repository.NewInMemoryQuizEventLog()
	revoked := repository.NewInMemoryRevocationList()

	hub := ws.NewHub(log)

	authService := service.NewAuthService(principalRepo, revoked, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, log)
	roomService := service.NewRoomService(roomRepo, cfg.Room.CodeLength, cfg.Room.CodeAttempts, log)
	chatService := service.NewChatService(chatRepo, hub, log)
	pollService := service.NewOXPollService(pollRepo, hub, log)
	checklistService := service.NewChecklistService(checklistRepo, hub, log)
	drawService := service.NewDrawService(drawRepo, hub, log)
	quizService := service.NewQuizService(quizRepo, roomRepo, quizEvents, hub, log)
	timelineService := service.NewTimelineService(chatRepo, pollRepo, checklistRepo, drawRepo, quizRepo, quizEvents, log)
	imageService := service.NewImageService(roomRepo, signer, hub, log)

	gateway := ws.NewGateway(ws.Services{
		Auth:      authService,
		Rooms:     roomService,
		Chat:      chatService,
		OXPolls:   pollService,
		Checklist: checklistService,
		Draws:     drawService,
		Timeline:  timelineService,
	}, hub, cfg.WebSocket, log)

	router := httpapi.SetupRouter(cfg.HTTP.AllowOrigins, httpapi.AuthMiddleware(authService), httpapi.Controllers{
		Auth:    httpapi.NewAuthController(authService),
		Rooms:   httpapi.NewRoomController(roomService, timelineService, quizService, imageService),
		Quizzes: httpapi.NewQuizController(quizService),
	}, gateway)

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("starting application", slog.String("addr", cfg.HTTP.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig, env string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, errors.New("unsupported database driver: " + cfg.Driver)
	}

	logLevel := logger.Warn
	if env == envProd {
		logLevel = logger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	if err := repository.AutoMigrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// one writer avoids "database is locked" under concurrent handlers
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
