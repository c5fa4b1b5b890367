// Package wire provides dependency injection for the storeops application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	cliadapter "github.com/example/storeops/internal/adapters/cli"
	"github.com/example/storeops/internal/adapters/sqlite"
	"github.com/example/storeops/internal/app"
	"github.com/example/storeops/internal/config"
	"github.com/example/storeops/internal/db"
	"github.com/example/storeops/internal/logger"
	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/scheduler"
)

var (
	envFile string

	cfg        *config.Config
	baseLogger *zap.Logger
	database   *sql.DB

	milkOrderService primary.MilkOrderService
	rtdeService      primary.RTDEService
	catalogService   primary.CatalogService
	activityService  primary.ActivityService

	configOnce sync.Once
	once       sync.Once
)

// SetEnvFile selects the .env file read on first use. Must be called before
// any other accessor; later calls have no effect.
func SetEnvFile(path string) {
	envFile = path
}

// Config returns the loaded store configuration.
func Config() *config.Config {
	configOnce.Do(initConfig)
	return cfg
}

// Logger returns the root logger.
func Logger() *zap.Logger {
	configOnce.Do(initConfig)
	return baseLogger
}

// DB returns the process-wide database connection.
func DB() *sql.DB {
	once.Do(initServices)
	return database
}

// MilkOrderService returns the singleton MilkOrderService instance.
func MilkOrderService() primary.MilkOrderService {
	once.Do(initServices)
	return milkOrderService
}

// RTDEService returns the singleton RTDEService instance.
func RTDEService() primary.RTDEService {
	once.Do(initServices)
	return rtdeService
}

// CatalogService returns the singleton CatalogService instance.
func CatalogService() primary.CatalogService {
	once.Do(initServices)
	return catalogService
}

// ActivityService returns the singleton ActivityService instance.
func ActivityService() primary.ActivityService {
	once.Do(initServices)
	return activityService
}

// Scheduler returns a new expiry-sweep scheduler using the configured
// schedule and store timezone.
func Scheduler() *scheduler.Scheduler {
	c := Config()
	return scheduler.NewScheduler(c.RTDE.SweepSchedule, c.Location(), RTDEService(), logger.Named(Logger(), "scheduler"))
}

// Sync flushes buffered log entries.
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func initConfig() {
	var err error
	cfg, err = config.Load(envFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	baseLogger, err = logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()
	base := Logger()

	var err error
	database, err = db.GetDB(c.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with the injected DB
	milkTypeRepo := sqlite.NewMilkTypeRepository(database)
	milkSessionRepo := sqlite.NewMilkSessionRepository(database)
	rtdeItemRepo := sqlite.NewRTDEItemRepository(database)
	rtdeSessionRepo := sqlite.NewRTDESessionRepository(database)
	activityLogRepo := sqlite.NewActivityLogRepository(database)
	activityWriter := sqlite.NewLogWriterAdapter(activityLogRepo)

	// Services (primary ports implementation)
	milkOrderService = app.NewMilkOrderService(milkTypeRepo, milkSessionRepo, activityWriter, logger.Named(base, "svc.milkorder"), time.Now)
	rtdeService = app.NewRTDEService(rtdeSessionRepo, rtdeItemRepo, activityWriter, c.RTDE.SessionWindow, logger.Named(base, "svc.rtde"), time.Now)
	catalogService = app.NewCatalogService(milkTypeRepo, rtdeItemRepo, logger.Named(base, "svc.catalog"))
	activityService = app.NewActivityService(activityLogRepo)
}

// MilkOrderAdapter returns a new MilkOrderAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MilkOrderAdapter() *cliadapter.MilkOrderAdapter {
	return MilkOrderAdapterWithOutput(os.Stdout)
}

// MilkOrderAdapterWithOutput returns a new MilkOrderAdapter writing to the given output.
func MilkOrderAdapterWithOutput(out io.Writer) *cliadapter.MilkOrderAdapter {
	once.Do(initServices)
	return cliadapter.NewMilkOrderAdapter(milkOrderService, out)
}

// RTDEAdapter returns a new RTDEAdapter writing to stdout.
func RTDEAdapter() *cliadapter.RTDEAdapter {
	return RTDEAdapterWithOutput(os.Stdout)
}

// RTDEAdapterWithOutput returns a new RTDEAdapter writing to the given output.
func RTDEAdapterWithOutput(out io.Writer) *cliadapter.RTDEAdapter {
	once.Do(initServices)
	return cliadapter.NewRTDEAdapter(rtdeService, out)
}
