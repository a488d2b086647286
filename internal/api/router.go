// Package api assembles the HTTP surface: routes, handlers and middleware.
package api

import (
	"net/http"

	"github.com/dvloznov/finsmart/internal/advisor"
	"github.com/dvloznov/finsmart/internal/api/handlers"
	"github.com/dvloznov/finsmart/internal/api/middleware"
	"github.com/dvloznov/finsmart/internal/jobs"
	"github.com/rs/zerolog"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Sessions handlers.Sessions
	Advisor  advisor.Advisor
	Jobs     jobs.JobStore
	Log      zerolog.Logger
}

// NewHandler returns the full HTTP handler with middleware applied.
func NewHandler(d Deps) http.Handler {
	sessionHandler := handlers.NewSessionHandler(d.Sessions)
	ledgerHandler := handlers.NewLedgerHandler()
	reportsHandler := handlers.NewReportsHandler(d.Advisor)
	jobsHandler := handlers.NewJobsHandler(d.Jobs)

	signedIn := middleware.RequireSession(d.Sessions)
	guarded := func(h http.HandlerFunc) http.Handler { return signedIn(h) }
	withID := func(h func(http.ResponseWriter, *http.Request, string)) http.Handler {
		return signedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.PathValue("id")
			if id == "" {
				middleware.WriteError(w, http.StatusBadRequest, "id is required")
				return
			}
			h(w, r, id)
		}))
	}

	mux := http.NewServeMux()

	// Session endpoints
	mux.HandleFunc("GET /api/session", sessionHandler.Current)
	mux.HandleFunc("POST /api/session/guest", sessionHandler.StartGuest)
	mux.HandleFunc("POST /api/session/login", sessionHandler.SignIn)
	mux.HandleFunc("POST /api/session/register", sessionHandler.Register)
	mux.HandleFunc("POST /api/session/logout", sessionHandler.SignOut)

	// Ledger endpoints
	mux.Handle("GET /api/snapshot", guarded(ledgerHandler.Snapshot))
	mux.Handle("GET /api/accounts", guarded(ledgerHandler.ListAccounts))
	mux.Handle("POST /api/accounts", guarded(ledgerHandler.CreateAccount))
	mux.Handle("PUT /api/accounts/{id}", withID(ledgerHandler.UpdateAccount))
	mux.Handle("DELETE /api/accounts/{id}", withID(ledgerHandler.DeleteAccount))
	mux.Handle("GET /api/transactions", guarded(ledgerHandler.ListTransactions))
	mux.Handle("POST /api/transactions", guarded(ledgerHandler.CreateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", withID(ledgerHandler.DeleteTransaction))
	mux.Handle("GET /api/categories", guarded(ledgerHandler.ListCategories))

	// Reports endpoints
	mux.Handle("GET /api/dashboard", guarded(reportsHandler.Dashboard))
	mux.Handle("GET /api/reports", guarded(reportsHandler.Reports))
	mux.Handle("POST /api/advice", guarded(reportsHandler.Advice))

	// Jobs endpoints
	mux.Handle("GET /api/jobs", guarded(jobsHandler.ListJobs))
	mux.Handle("GET /api/jobs/{id}", withID(jobsHandler.GetJob))

	mux.HandleFunc("GET /health", handlers.Health)

	return middleware.Recovery(d.Log)(
		middleware.RequestID(
			middleware.Logger(d.Log)(
				middleware.CORS(mux),
			),
		),
	)
}
