package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"

	"sortir/internal/account"
	"sortir/internal/config"
	"sortir/internal/feed"
	"sortir/internal/health"
	"sortir/internal/lock"
	"sortir/internal/logging"
	"sortir/internal/publisher"
	"sortir/internal/scheduler"
	"sortir/internal/service"
	"sortir/internal/source/ticketmaster"
	"sortir/internal/storage/mongo"
	"sortir/internal/storage/postgres"
	"sortir/internal/supervisor"
	"sortir/internal/transport/http/handlers"
	"sortir/internal/transport/http/middleware"
	"sortir/internal/transport/http/router"
)

const syncLockKey = "sortir:sync:lock"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("sortir stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN(), postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to postgres")

	mongoClient, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	eventStore := mongo.NewEventStore(mongoClient.Database(cfg.Mongo.Database))
	if err := eventStore.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("connected to mongo", "database", cfg.Mongo.Database)

	probes := []health.Probe{health.Postgres(db), health.Mongo(mongoClient)}

	var syncLock service.SyncLock = lock.NewLocal()
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		syncLock = lock.NewRedis(redisClient, syncLockKey, cfg.Scheduler.LockTTL)
		probes = append(probes, health.Redis(redisClient))
		logger.Info("using redis sync lock", "addr", cfg.Redis.Addr)
	}

	var events service.Publisher = publisher.Noop{}
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return err
		}
		events = rabbitMQ
		probes = append(probes, health.RabbitMQ(rabbitMQ.Ping))
	}
	defer events.Close()

	source := ticketmaster.New(ticketmaster.Config{
		BaseURL:        cfg.Ticketmaster.BaseURL,
		APIKey:         cfg.Ticketmaster.APIKey,
		PageSize:       cfg.Ticketmaster.PageSize,
		Timeout:        cfg.Ticketmaster.Timeout,
		MaxAttempts:    cfg.Ticketmaster.Retry.MaxAttempts,
		InitialBackoff: cfg.Ticketmaster.Retry.InitialBackoff,
		MaxBackoff:     cfg.Ticketmaster.Retry.MaxBackoff,
		RatePerSecond:  cfg.Ticketmaster.RatePerSecond,
	}, logger)
	if err := source.Validate(); err != nil {
		logger.Warn("ticketmaster source is not usable, synchronization will fail", "error", err)
	}
	probes = append(probes, health.Ticketmaster(source.Ping))

	ingestor := service.NewIngestor(eventStore, events, location, logger)
	crawler := service.NewCrawler(source, ingestor, logger, service.CrawlerConfig{
		PageDelay: cfg.Ticketmaster.PageDelay,
		DayDelay:  cfg.Ticketmaster.DayDelay,
		MaxPages:  cfg.Ticketmaster.MaxPages,
		Location:  location,
	})
	syncService := service.NewSyncService(crawler, syncLock, logger)

	runLog, err := scheduler.OpenRunLog(cfg.Scheduler.LogPath)
	if err != nil {
		return err
	}
	defer runLog.Close()

	sched, err := scheduler.NewScheduler(syncService, runLog, scheduler.Config{
		DailyAt:    cfg.Scheduler.DailyAt,
		DaysAhead:  cfg.Scheduler.DaysAhead,
		WindowDays: cfg.Scheduler.WindowDays,
		Location:   location,
		RunTimeout: cfg.Scheduler.RunTimeout,
	}, logger)
	if err != nil {
		return err
	}

	users := postgres.NewUserStore(db)
	preferences := postgres.NewPreferenceStore(db)
	favorites := postgres.NewFavoriteStore(db)
	blacklist := postgres.NewBlacklistStore(db)

	authService := account.NewAuthService(
		users,
		blacklist,
		account.NewBcryptHasher(cfg.Auth.BcryptCost),
		account.NewJWTSigner(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL),
		logger,
	)
	preferenceService := account.NewPreferenceService(preferences, postgres.NewTransactionManager(db), logger)
	favoriteService := account.NewFavoriteService(favorites, eventStore, logger)
	assembler := feed.NewAssembler(eventStore, preferences, location, logger)

	handler := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Preferences: handlers.NewPreferencesHandler(preferenceService),
		Favorites:   handlers.NewFavoritesHandler(favoriteService),
		Events:      handlers.NewEventsHandler(syncService, eventStore),
		Scheduler:   handlers.NewSchedulerHandler(sched),
		Feed:        handlers.NewFeedHandler(assembler, cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit),
		Health:      handlers.NewHealthHandler(health.NewChecker(probes...)),
	}, middleware.NewAuth(authService), router.Options{RateLimit: cfg.Server.RateLimit}, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree("sortir", supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)
	tree.Add(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.Add(supervisor.NewPurgeService(blacklist, cfg.Auth.PurgeInterval, logger))
	if cfg.Scheduler.IsEnabled() {
		tree.Add(supervisor.NewLoopService("scheduler", sched))
	} else {
		logger.Info("daily scheduler disabled")
	}

	logger.Info("starting sortir",
		"addr", cfg.Server.Addr,
		"source", source.Name(),
		"daily_at", cfg.Scheduler.DailyAt,
		"timezone", cfg.Scheduler.Timezone,
	)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("sortir stopped")
	return nil
}
