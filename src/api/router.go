package api

import (
	"moneywise-server/src/handlers"
	"moneywise-server/src/logger"
	"moneywise-server/src/middleware"
	"moneywise-server/src/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Marketplace  *services.MarketplaceService
	Savings      *services.SavingsService
	Dashboard    *services.DashboardService
	Reports      *services.ReportService
	Goals        *services.GoalService
	Budgets      *services.BudgetService
	Transactions *services.TransactionService
	Accounts     *services.AccountService
	Profiles     *services.ProfileService
}

type Options struct {
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(auth *middleware.Authenticator, svc Services, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger.Get()))
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/auth/signout", handlers.SignOut)

	r.Route("/api", func(r chi.Router) {
		r.With(auth.SessionMiddleware, middleware.DemoModeMiddleware(opts.DemoMode)).Group(func(r chi.Router) {
			// Marketplace
			r.Get("/marketplace", handlers.ListTemplates(svc.Marketplace))
			r.Get("/marketplace/{template_id}", handlers.GetTemplate(svc.Marketplace))
			r.Post("/marketplace/{template_id}/purchase", handlers.PurchaseTemplate(svc.Marketplace))
			r.Post("/marketplace/{template_id}/apply", handlers.ApplyTemplate(svc.Marketplace))
			r.Post("/marketplace/{template_id}/ratings", handlers.RateTemplate(svc.Marketplace))

			// Savings plans
			r.Post("/savings", handlers.CreateSavingsPlan(svc.Savings))
			r.Get("/savings", handlers.ListSavingsPlans(svc.Savings))
			r.Get("/savings/{plan_id}", handlers.GetSavingsPlan(svc.Savings))
			r.Post("/savings/{plan_id}/publish", handlers.PublishSavingsPlan(svc.Marketplace))

			// Dashboard
			r.Get("/dashboard", handlers.GetDashboard(svc.Dashboard))
			r.Get("/dashboard/overview", handlers.GetDashboardOverview(svc.Dashboard))
			r.Get("/reports", handlers.GetMonthlyReport(svc.Reports))

			// Goals and budgets
			r.Get("/goals", handlers.ListGoals(svc.Goals))
			r.Post("/goals", handlers.CreateGoal(svc.Goals))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(svc.Budgets))
			r.Post("/budgets", handlers.CreateBudget(svc.Budgets))

			// Accounts and transactions
			r.Get("/accounts", handlers.ListAccounts(svc.Accounts))
			r.Post("/accounts", handlers.CreateAccount(svc.Accounts))
			r.Get("/transactions", handlers.ListTransactions(svc.Transactions))
			r.Post("/transactions", handlers.CreateTransaction(svc.Transactions))
			r.Get("/categories", handlers.ListCategories(svc.Transactions))

			// Plaid
			if svc.Accounts.LinkingEnabled() {
				r.Post("/accounts/link-token", handlers.CreateLinkToken(svc.Accounts))
				r.Post("/accounts/exchange-public-token", handlers.ExchangePublicToken(svc.Accounts))
				r.Post("/accounts/sync", handlers.SyncAccounts(svc.Accounts))
			}

			// Profile
			r.Get("/profile", handlers.GetProfile(svc.Profiles))
			r.Put("/profile", handlers.UpdateProfile(svc.Profiles))
			r.Get("/onboarding", handlers.GetOnboarding(svc.Profiles))
			r.Post("/onboarding", handlers.CompleteOnboarding(svc.Profiles))
		})
	})

	return r
}
