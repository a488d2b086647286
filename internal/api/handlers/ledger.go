package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dvloznov/finsmart/internal/api/middleware"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/ledger"
	"github.com/dvloznov/finsmart/internal/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to accounts created without one.
const DefaultCurrency = "TWD"

// LedgerHandler serves accounts, transactions and categories of the
// signed-in session. Routes must be wrapped in middleware.RequireSession.
type LedgerHandler struct {
	now func() time.Time
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler() *LedgerHandler {
	return &LedgerHandler{now: time.Now}
}

// Snapshot handles GET /api/snapshot
func (h *LedgerHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.ContainerFromContext(r.Context())
	middleware.WriteJSON(w, http.StatusOK, c.Snapshot())
}

// ListAccounts handles GET /api/accounts
func (h *LedgerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.ContainerFromContext(r.Context())
	snap := c.Snapshot()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts":     snap.Accounts,
		"count":        len(snap.Accounts),
		"totalBalance": snap.TotalBalance(),
	})
}

type accountRequest struct {
	Name     string             `json:"name"`
	Balance  decimal.Decimal    `json:"balance"`
	Type     domain.AccountType `json:"type"`
	Currency string             `json:"currency"`
}

func (req *accountRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if !req.Type.Valid() {
		return "type must be one of Savings, Checking, Credit Card, Cash"
	}
	return ""
}

func (req *accountRequest) account(id string) domain.Account {
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return domain.Account{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Balance:  req.Balance,
		Type:     req.Type,
		Currency: currency,
	}
}

// CreateAccount handles POST /api/accounts
func (h *LedgerHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	c, _ := middleware.ContainerFromContext(r.Context())
	account := req.account(uuid.NewString())
	c.AddAccount(r.Context(), account)

	middleware.WriteJSON(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT /api/accounts/{id}. The balance in the body
// replaces the stored balance as is. Unknown ids answer 404.
func (h *LedgerHandler) UpdateAccount(w http.ResponseWriter, r *http.Request, accountID string) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	c, _ := middleware.ContainerFromContext(r.Context())
	snap := c.UpdateAccount(r.Context(), req.account(accountID))

	stored, ok := ledger.FindAccount(snap.Accounts, accountID)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Account not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, stored)
}

// DeleteAccount handles DELETE /api/accounts/{id}. The account's
// transactions are deleted with it.
func (h *LedgerHandler) DeleteAccount(w http.ResponseWriter, r *http.Request, accountID string) {
	c, _ := middleware.ContainerFromContext(r.Context())
	c.DeleteAccount(r.Context(), accountID)
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions handles GET /api/transactions?q=&type=
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := report.Filter{Query: query.Get("q")}

	switch t := strings.ToUpper(query.Get("type")); t {
	case "", "ALL":
	case string(domain.TransactionTypeIncome), string(domain.TransactionTypeExpense):
		filter.Type = domain.TransactionType(t)
	default:
		middleware.WriteError(w, http.StatusBadRequest, "type must be ALL, INCOME or EXPENSE")
		return
	}

	c, _ := middleware.ContainerFromContext(r.Context())
	txs := report.FilterTransactions(c.Snapshot().Transactions, filter)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

type transactionRequest struct {
	AccountID   string                 `json:"accountId"`
	CategoryID  string                 `json:"categoryId"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
}

// CreateTransaction handles POST /api/transactions
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case req.AccountID == "" || req.CategoryID == "":
		middleware.WriteError(w, http.StatusBadRequest, "accountId and categoryId are required")
		return
	case strings.TrimSpace(req.Description) == "":
		middleware.WriteError(w, http.StatusBadRequest, "description is required")
		return
	case !req.Amount.IsPositive():
		middleware.WriteError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	case !req.Type.Valid():
		middleware.WriteError(w, http.StatusBadRequest, "type must be INCOME or EXPENSE")
		return
	}

	date, err := parseDate(req.Date, h.now)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD or RFC 3339")
		return
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
	}

	c, _ := middleware.ContainerFromContext(r.Context())
	c.AddTransaction(r.Context(), tx)

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /api/transactions/{id}. Unknown ids are a no-op.
func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, transactionID string) {
	c, _ := middleware.ContainerFromContext(r.Context())
	c.DeleteTransaction(r.Context(), transactionID)
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories
func (h *LedgerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.ContainerFromContext(r.Context())
	cats := c.Snapshot().Categories

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": cats,
		"count":      len(cats),
	})
}

// parseDate accepts a calendar date or a full timestamp. Empty means now.
func parseDate(s string, now func() time.Time) (time.Time, error) {
	if s == "" {
		return now().UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
