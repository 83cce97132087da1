package api

import (
	"net/http"

	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Uploaded attachments and avatars
	uploadServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", uploadServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool))
		r.Post("/auth/login", handlers.Login(pool))

		// Quick entry works without a login; the target user is resolved by email
		r.Get("/quick-transactions", handlers.GetQuickDirectory(pool))
		r.Post("/quick-transactions", handlers.CreateQuickTransaction(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/users/profile", handlers.GetProfile(pool))
			r.Put("/users/profile", handlers.UpdateProfile(pool))
			r.Post("/users/change-password", handlers.ChangePassword(pool))
			r.Delete("/users", handlers.DeleteUser(pool))
			r.Get("/users/export", handlers.ExportTransactions(pool))

			// Settings
			r.Get("/users/settings", handlers.GetSettings(pool))
			r.Post("/users/settings", handlers.SaveSettings(pool))
			r.Patch("/users/settings/{key}", handlers.UpdateSettingValue(pool))
			r.Delete("/users/settings", handlers.DeleteSettings(pool))

			// Accounts
			r.Post("/accounts", handlers.CreateAccount(pool))
			r.Get("/accounts", handlers.GetAllAccountsForUser(pool))
			r.Get("/accounts/{account_id}", handlers.GetAccountByID(pool))
			r.Put("/accounts/{account_id}", handlers.UpdateAccount(pool))
			r.Delete("/accounts/{account_id}", handlers.DeleteAccount(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetCategoriesForUser(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.ListTransactions(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Budgets
			r.Post("/budgets", handlers.UpsertBudget(pool))
			r.Get("/budgets", handlers.GetBudgetsForUser(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Goals
			r.Post("/goals", handlers.CreateGoal(pool))
			r.Get("/goals", handlers.GetGoalsForUser(pool))
			r.Put("/goals/{goal_id}", handlers.UpdateGoal(pool))
			r.Patch("/goals/{goal_id}/progress", handlers.UpdateGoalProgress(pool))
			r.Delete("/goals/{goal_id}", handlers.DeleteGoal(pool))

			// Dashboard
			r.Get("/dashboard/summary", handlers.GetDashboardSummary(pool))
			r.Get("/dashboard/charts", handlers.GetDashboardCharts(pool))

			// Reports
			r.Get("/reports/monthly", handlers.GetMonthlyReport(pool))
			r.Get("/reports/yearly", handlers.GetYearlyReport(pool))
			r.Post("/reports/custom", handlers.GetCustomReport(pool))

			// Uploads
			r.Post("/uploads/images", handlers.UploadImage(cfg.UploadDir))
		})
	})

	return r
}
