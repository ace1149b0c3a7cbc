package main

import (
	"context"
	"log"
	"moneywise-server/src/api"
	"moneywise-server/src/config"
	"moneywise-server/src/db"
	"moneywise-server/src/logger"
	"moneywise-server/src/middleware"
	"moneywise-server/src/plaid"
	"moneywise-server/src/repository"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.Development, logger.LogLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.Get()

	// Connect to database
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("DB connection failed", zap.Error(err))
	}
	defer pool.Close()

	cache, err := db.NewCache()
	if err != nil {
		lg.Fatal("cache init failed", zap.Error(err))
	}
	defer cache.Close()

	repo := repository.NewPostgresRepository(pool)

	var linker services.BankLinker
	if cfg.PlaidEnabled() {
		client, err := plaid.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)
		if err != nil {
			lg.Fatal("plaid client init failed", zap.Error(err))
		}
		linker = client
		lg.Info("bank linking enabled", zap.String("plaid_env", cfg.PlaidEnv))
	}

	svc := api.Services{
		Marketplace:  services.NewMarketplaceService(repo, cache, cfg.UniquePurchases),
		Savings:      services.NewSavingsService(repo),
		Dashboard:    services.NewDashboardService(repo),
		Reports:      services.NewReportService(repo),
		Goals:        services.NewGoalService(repo),
		Budgets:      services.NewBudgetService(repo),
		Transactions: services.NewTransactionService(repo),
		Accounts:     services.NewAccountService(repo, linker),
		Profiles:     services.NewProfileService(repo, cache),
	}
	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.SupabaseURL)

	// Router
	router := api.NewRouter(auth, svc, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	})

	lg.Info("API server running", zap.String("port", cfg.Port), zap.Bool("demo_mode", cfg.DemoMode))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}
