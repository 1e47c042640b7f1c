package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"diary-bot/config"
	telegram "diary-bot/internal/api"
	"diary-bot/internal/container"
	"diary-bot/internal/domain/port"
	"diary-bot/internal/infrastructure/photos"
	"diary-bot/internal/infrastructure/report"
	"diary-bot/internal/infrastructure/scheduler"
	"diary-bot/internal/infrastructure/storage"
	"diary-bot/internal/infrastructure/vision"
	"diary-bot/internal/util"
)

type entryStore interface {
	port.EntryRepository
	port.NormsRepository
	Close() error
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	util.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хранилище записей и норм
	entries, err := openEntryStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open entry store: %v", err)
	}
	defer entries.Close()

	sessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	if closer, ok := sessions.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	photoStore, err := openPhotoStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open photo store: %v", err)
	}

	renderer, err := report.NewPDFRenderer(cfg.FontPath, cfg.FontBoldPath)
	if err != nil {
		log.Fatalf("Failed to init report renderer: %v", err)
	}

	cron := scheduler.NewCronScheduler()

	// Собираем сервисы приложения
	appContainer := container.New(container.Deps{
		Sessions:  sessions,
		Entries:   entries,
		Norms:     entries,
		Photos:    photoStore,
		Processor: vision.NewPhotoNormalizer(cfg.PhotoMaxSide),
		Renderer:  renderer,
		Scheduler: cron,
	}, container.Settings{
		Limits:        cfg.NutrientLimits,
		ReportsDir:    cfg.ReportsDir,
		StatsDays:     cfg.StatsDays,
		ReminderTimes: cfg.ReminderTimes,
	})

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cron.Start()
		<-gctx.Done()
		cron.Stop()
		return nil
	})
	g.Go(func() error {
		slog.Info("bot is running",
			"database", cfg.DatabaseDriver,
			"sessions", cfg.SessionBackend,
			"photos", cfg.PhotoBackend)
		return bot.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
	slog.Info("bot stopped")
}

func openEntryStore(cfg *config.Config) (entryStore, error) {
	if cfg.DatabaseDriver == config.DriverPostgres {
		return storage.NewGormEntryRepository(cfg.DatabaseURL)
	}
	return storage.NewSQLiteEntryRepository(cfg.DatabasePath)
}

func openSessionStore(ctx context.Context, cfg *config.Config) (port.SessionRepository, error) {
	if cfg.SessionBackend != config.SessionsRedis {
		return storage.NewMemorySessionRepository(), nil
	}
	repo := storage.NewRedisSessionRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
	if err := repo.Ping(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func openPhotoStore(cfg *config.Config) (port.PhotoStorage, error) {
	if cfg.PhotoBackend == config.PhotosMinio {
		return photos.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	return photos.NewFileStore(cfg.ImagesDir)
}
