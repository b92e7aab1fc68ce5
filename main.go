package main

//go:generate swag init

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/openbooks/accounting/config"
	"github.com/openbooks/accounting/db"
	_ "github.com/openbooks/accounting/docs"
	"github.com/openbooks/accounting/handlers"
)

// @title           Bookkeeping API
// @version         1.0.0
// @description     Double-entry bookkeeping: chart of accounts, journal transactions, trial balance and financial statements, and period closing.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Configure structured logging
	level := slog.LevelInfo
	if cfg.Server.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared state for handlers
	handlers.DB = database
	handlers.StrictPosting = cfg.Ledger.StrictPosting

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth(cfg.Auth.User, cfg.Auth.Pass))

		// Accounts
		r.Get("/accounts", handlers.ListAccounts)
		r.Post("/accounts", handlers.CreateAccount)
		r.Get("/accounts/{id}", handlers.GetAccount)
		r.Put("/accounts/{id}", handlers.UpdateAccount)
		r.Delete("/accounts/{id}", handlers.DeleteAccount)
		r.Get("/accounts/{id}/ledger", handlers.GetAccountLedger)

		// Transactions
		r.Get("/transactions", handlers.ListTransactions)
		r.Post("/transactions", handlers.CreateTransaction)
		r.Get("/transactions/{id}", handlers.GetTransaction)
		r.Put("/transactions/{id}", handlers.UpdateTransaction)
		r.Delete("/transactions/{id}", handlers.DeleteTransaction)

		// Balanced journal entries
		r.Post("/entries", handlers.CreateEntry)

		// Reports
		r.Get("/reports/trial-balance", handlers.GetTrialBalance)
		r.Get("/reports/income-statement", handlers.GetIncomeStatement)
		r.Get("/reports/balance-sheet", handlers.GetBalanceSheet)
		r.Get("/reports/general-ledger", handlers.GetGeneralLedger)

		// Period closing
		r.Post("/closing", handlers.ClosePeriod)

		// Dashboard
		r.Get("/dashboard", handlers.GetDashboard)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
