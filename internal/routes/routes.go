package routes

import (
	"net/http"

	"github.com/Jaber-riyan/Mamar-Bank/internal/handlers"
	appmw "github.com/Jaber-riyan/Mamar-Bank/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(h *handlers.Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/auth/login", handlers.LoginHandler)
	r.With(appmw.Authenticated).Get("/auth/me", handlers.MeHandler)

	r.With(appmw.Authenticated).Get("/accounts", handlers.GetAccountsHandler)
	r.With(appmw.Authenticated).Get("/accounts/{id}/balance", h.AccountBalanceHandler)

	r.With(appmw.Authenticated).Get("/transactions", h.TransactionsHandler)
	r.With(appmw.Authenticated).Post("/transactions/deposit", h.DepositHandler)
	r.With(appmw.Authenticated).Post("/transactions/withdraw", h.WithdrawHandler)
	r.With(appmw.Authenticated).Post("/transactions/transfer", h.TransferHandler)

	r.With(appmw.Authenticated).Post("/loans", h.LoanRequestHandler)
	r.With(appmw.Authenticated).Get("/loans", h.LoansHandler)
	r.With(appmw.Authenticated).Post("/loans/{id}/pay", h.PayLoanHandler)

	r.Route("/admin", func(r chi.Router) {
		r.Use(appmw.Authenticated, appmw.AdminOnly)
		r.Post("/loans/{id}/approve", h.ApproveLoanHandler)
		r.Post("/suspend", h.SuspendHandler)
		r.Post("/resume", h.ResumeHandler)
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
