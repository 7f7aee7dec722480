package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/djmax1976/nuvana-backoffice/api/routes"
	"github.com/djmax1976/nuvana-backoffice/internal/apikeys"
	"github.com/djmax1976/nuvana-backoffice/internal/auth"
	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	"github.com/djmax1976/nuvana-backoffice/internal/companies"
	"github.com/djmax1976/nuvana-backoffice/internal/employees"
	"github.com/djmax1976/nuvana-backoffice/internal/lotterybins"
	"github.com/djmax1976/nuvana-backoffice/internal/querymetrics"
	"github.com/djmax1976/nuvana-backoffice/internal/stores"
	syncsvc "github.com/djmax1976/nuvana-backoffice/internal/sync"
	"github.com/djmax1976/nuvana-backoffice/internal/transactions"
	"github.com/djmax1976/nuvana-backoffice/pkg/auth/session"
	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
	"github.com/djmax1976/nuvana-backoffice/pkg/metrics"
	"github.com/djmax1976/nuvana-backoffice/pkg/migrate"
	"github.com/djmax1976/nuvana-backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	queryRecorder := querymetrics.NewRecorder(metrics.NewQueryMetrics(prometheus.DefaultRegisterer), querymetrics.Options{})
	if err := dbClient.DB().Use(querymetrics.NewPlugin(queryRecorder)); err != nil {
		logg.Error(context.Background(), "failed to install query metrics plugin", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	companyRepo := companies.NewRepository(gormDB)
	storeRepo := stores.NewRepository(gormDB)
	binRepo := lotterybins.NewRepository(gormDB)
	employeeRepo := employees.NewRepository(gormDB)
	cashierRepo := cashiers.NewRepository(gormDB)
	keyRepo := apikeys.NewRepository(gormDB)
	ledgerRepo := transactions.NewRepository(gormDB)
	cursorRepo := syncsvc.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       auth.NewRepository(gormDB),
		CompanyRepo:    companyRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	companyService, err := companies.NewService(companyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	storeService, err := stores.NewService(storeRepo, companyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	lotteryService, err := lotterybins.NewService(dbClient, binRepo, storeRepo, cfg.Lottery)
	if err != nil {
		logg.Error(context.Background(), "failed to create lottery service", err)
		os.Exit(1)
	}

	employeeService, err := employees.NewService(employeeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create employee service", err)
		os.Exit(1)
	}

	cashierService, err := cashiers.NewService(cashierRepo, cfg.Pin)
	if err != nil {
		logg.Error(context.Background(), "failed to create cashier service", err)
		os.Exit(1)
	}

	keyService, err := apikeys.NewService(keyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create api key service", err)
		os.Exit(1)
	}

	transactionService, err := transactions.NewService(dbClient, ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create transaction service", err)
		os.Exit(1)
	}

	syncService, err := syncsvc.NewService(cursorRepo, cashierRepo, binRepo, transactionService, redisClient, cfg.Sync)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			QueryRecorder:  queryRecorder,
			Auth:           authService,
			Companies:      companyService,
			Stores:         storeService,
			LotteryBins:    lotteryService,
			Employees:      employeeService,
			Cashiers:       cashierService,
			APIKeys:        keyService,
			Transactions:   transactionService,
			Sync:           syncService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
