package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dcrew/floortrack/internal/cache"
	"github.com/dcrew/floortrack/internal/clock"
	"github.com/dcrew/floortrack/internal/config"
	"github.com/dcrew/floortrack/internal/database"
	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/handler"
	"github.com/dcrew/floortrack/internal/logger"
	"github.com/dcrew/floortrack/internal/repository"
	"github.com/dcrew/floortrack/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Services is the wired application core shared by the HTTP server and floorctl.
type Services struct {
	Clock      domain.Clock
	Store      domain.RegistryStore
	StockStore domain.StockStore
	Cache      domain.StatsCache
	Registry   *service.Registry
	Attendance *service.AttendanceService
	Employees  *service.EmployeeService
	Production *service.ProductionService
	Stock      *service.StockService
	Search     *service.SearchService
	Reports    *service.ReportService
}

type App struct {
	Echo     *echo.Echo
	Services *Services
	closers  []func() error
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

// Initialize loads configuration, wires the services and mounts the API.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes(handler.Handlers{
		Attendance: handler.NewAttendanceHandler(a.Services.Attendance, a.Services.Employees, a.Services.Reports),
		Employee:   handler.NewEmployeeHandler(a.Services.Employees, a.Services.Search),
		Production: handler.NewProductionHandler(a.Services.Production),
		Stock:      handler.NewStockHandler(a.Services.Stock),
		Admin:      handler.NewAdminHandler(a.Services.Search),
	})
	return nil
}

// Setup loads configuration and builds the services without any HTTP wiring.
func (a *App) Setup(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	clk := clock.NewSystem(cfg.Location())

	store, err := a.registryStore(ctx)
	if err != nil {
		return err
	}

	var (
		ledger domain.ProductionLedger
		stock  domain.StockStore
	)
	if cfg.STORE_BACKEND == config.StoreMemory {
		ledger = repository.NewMemoryProductionLedger()
		stock = repository.NewMemoryStockStore()
	} else {
		ledger = repository.NewFileProductionLedger(cfg.DATA_DIR)
		stock = repository.NewFileStockStore(cfg.DATA_DIR)
	}

	statsCache, err := a.statsCache(ctx)
	if err != nil {
		return err
	}

	var index domain.IdentityIndex
	if cfg.ELASTIC_URL != "" {
		es, err := database.NewElasticSearchClient(ctx, cfg.ELASTIC_URL, "")
		if err != nil {
			return fmt.Errorf("failed to initialize elasticsearch: %w", err)
		}
		a.closers = append(a.closers, func() error { es.Close(); return nil })
		index = es
		logger.InfoLog(ctx, "Identity search enabled at %s", cfg.ELASTIC_URL)
	}

	registry := service.NewRegistry(store)
	opts := []service.AttendanceOption{
		service.WithStatsPolicy(domain.StatsPolicy{
			PredictedOutput:  cfg.PREDICTED_OUTPUT,
			DepartmentTarget: cfg.DEPARTMENT_TARGET,
			UnitOutput:       cfg.UNIT_OUTPUT,
		}),
	}
	if statsCache != nil {
		opts = append(opts, service.WithStatsCache(statsCache))
	}
	if index != nil {
		opts = append(opts, service.WithIdentityIndex(index))
	}

	employees := service.NewEmployeeService(registry, clk, index)
	reports, err := service.NewReportService(employees, clk, cfg.REPORT_TEMPLATE_PATH)
	if err != nil {
		return err
	}

	a.Services = &Services{
		Clock:      clk,
		Store:      store,
		StockStore: stock,
		Cache:      statsCache,
		Registry:   registry,
		Attendance: service.NewAttendanceService(registry, clk, opts...),
		Employees:  employees,
		Production: service.NewProductionService(ledger, registry, clk),
		Stock:      service.NewStockService(stock, clk),
		Search:     service.NewSearchService(registry, index, clk),
		Reports:    reports,
	}
	return nil
}

func (a *App) registryStore(ctx context.Context) (domain.RegistryStore, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.STORE_BACKEND {
	case config.StoreMemory:
		logger.WarnLog(ctx, "Using the in-memory registry; attendance is lost on restart")
		return repository.NewMemoryRegistry(), nil

	case config.StorePostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		pg := repository.NewPostgresRegistry(db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		logger.InfoLog(ctx, "Database connection established successfully")
		return pg, nil

	case config.StoreDatastore:
		client, err := database.NewDatastoreClient(ctx, cfg.DATASTORE_PROJECT_ID)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return repository.NewDatastoreRegistry(client), nil

	default:
		store := repository.NewFileRegistry(cfg.DATA_DIR)
		logger.InfoLog(ctx, "Using registry file %s", filepath.Clean(store.Path()))
		return store, nil
	}
}

func (a *App) statsCache(ctx context.Context) (domain.StatsCache, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.STATS_CACHE {
	case config.CacheLocal:
		return cache.NewLocalStatsCache(cfg.STATS_CACHE_TTL), nil
	case config.CacheRedis:
		client, err := database.NewRedisClient(ctx, cfg.REDIS_URI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return cache.NewRedisStatsCache(client, cfg.STATS_CACHE_TTL), nil
	default:
		return nil, nil
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		},
	}))
	a.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Event(c.Request().Context()).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.DefaultEnvConfig.CORS_ALLOW_ORIGINS,
	}))
}

func (a *App) RegisterRoutes(h handler.Handlers) {
	handler.RegisterRoutes(a.Echo, h)
}

func (a *App) Run() error {
	return a.Echo.Start(":" + strconv.Itoa(config.DefaultEnvConfig.APP_PORT))
}

// Shutdown stops the HTTP server and releases every backend connection.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Close()
	return err
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.WarnLog(context.Background(), "failed to close backend: %v", err)
		}
	}
	a.closers = nil
}
