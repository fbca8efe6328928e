package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ordering-service/internal/api/http"
	"github.com/spec-kit/ordering-service/internal/api/http/handlers"
	"github.com/spec-kit/ordering-service/internal/auth"
	"github.com/spec-kit/ordering-service/internal/config"
	"github.com/spec-kit/ordering-service/internal/events"
	"github.com/spec-kit/ordering-service/internal/observability"
	"github.com/spec-kit/ordering-service/internal/persistence"
	"github.com/spec-kit/ordering-service/internal/repository"
	"github.com/spec-kit/ordering-service/internal/repository/memory"
	"github.com/spec-kit/ordering-service/internal/service"
	"github.com/spec-kit/ordering-service/internal/worker"
	"github.com/spec-kit/ordering-service/migrations"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	menus      repository.MenuRepository
	orders     repository.OrderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dependencies := map[string]handlers.Pinger{"redis": redis}
	var repos repositories
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repositories{
			users:      repository.NewUserRepository(pool),
			categories: repository.NewCategoryRepository(pool),
			menus:      repository.NewMenuRepository(pool),
			orders:     repository.NewOrderRepository(pool),
		}
		dependencies["postgres"] = pg
	} else {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			users:      store.Users(),
			categories: store.Categories(),
			menus:      store.Menus(),
			orders:     store.Orders(),
		}
	}
	users := repository.NewCachedUserRepository(repos.users, redis.Client, cfg.Redis.UserCacheTTL(), logger)

	tokens, err := auth.NewTokenManager(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTTL(),
		cfg.Auth.RefreshTTL(),
	)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), logger)

	authService := service.NewAuthService(users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, logger)
	catalogService := service.NewCatalogService(repos.categories, repos.menus)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  repos.orders,
		MenuRepo:   repos.menus,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authenticator := auth.NewSessionAuthenticator(tokens, users, logger,
		auth.WithMetrics(metrics),
		auth.WithRenewalUserCheck(cfg.Auth.RenewalVerifiesUser),
	)
	cookies := auth.CookieOptions{Secure: cfg.Auth.CookieSecure}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.NewErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, dependencies),
		Users:          handlers.NewUsersHandler(authService, cookies),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Orders:         handlers.NewOrdersHandler(orderService),
		AuthMiddleware: auth.NewAuthMiddleware(authenticator, cookies),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
