package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dvloznov/finsmart/internal/auth"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/jobs"
	"github.com/dvloznov/finsmart/internal/jobs/inmemory"
	"github.com/dvloznov/finsmart/internal/persistence/local"
	"github.com/dvloznov/finsmart/internal/persistence/memory"
	"github.com/dvloznov/finsmart/internal/session"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type fakeAdvisor struct{ text string }

func (f fakeAdvisor) Advice(ctx context.Context, txs []domain.Transaction, cats []domain.Category, accounts []domain.Account) string {
	return f.text
}

type testServer struct {
	handler http.Handler
	store   *memory.Store
	jobs    *inmemory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	jobStore := inmemory.NewStore(0)
	// The queue is never started, so published jobs stay pending.
	queue := inmemory.NewQueue(64, 1, jobStore, zerolog.Nop())
	t.Cleanup(func() { queue.Close() })

	manager := session.NewManager(
		auth.NewStatic(),
		store,
		session.NewQueueMirror(queue, zerolog.Nop()),
		local.NewGuestFile(filepath.Join(t.TempDir(), "guest.json")),
		zerolog.Nop(),
	)

	return &testServer{
		handler: NewHandler(Deps{
			Sessions: manager,
			Advisor:  fakeAdvisor{text: "Save more."},
			Jobs:     jobStore,
			Log:      zerolog.Nop(),
		}),
		store: store,
		jobs:  jobStore,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestDataRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/snapshot", "/api/accounts", "/api/transactions", "/api/dashboard", "/api/reports", "/api/jobs"} {
		if rec := s.do(t, http.MethodGet, path, ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, rec.Code)
		}
	}
	if rec := s.do(t, http.MethodGet, "/api/session", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /api/session = %d, want 401", rec.Code)
	}
}

func TestGuestSessionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/session/guest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("guest = %d: %s", rec.Code, rec.Body)
	}
	got := decode[struct {
		User domain.User `json:"user"`
		Kind string      `json:"kind"`
	}](t, rec)
	if got.User != domain.DemoUser || got.Kind != "guest" {
		t.Errorf("session = %+v", got)
	}

	rec = s.do(t, http.MethodPost, "/api/transactions",
		`{"accountId":"acc1","categoryId":"1","amount":"200","type":"EXPENSE","date":"2024-01-02","description":"Dinner"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction = %d: %s", rec.Code, rec.Body)
	}

	snap := decode[domain.Snapshot](t, s.do(t, http.MethodGet, "/api/snapshot", ""))
	if len(snap.Transactions) != 5 || snap.Transactions[0].Description != "Dinner" {
		t.Errorf("transactions = %+v", snap.Transactions)
	}
	if !snap.Accounts[0].Balance.Equal(decimal.NewFromInt(49800)) {
		t.Errorf("acc1 balance = %s, want 49800", snap.Accounts[0].Balance)
	}

	if s.store.Saves() != 0 {
		t.Errorf("guest session saved %d snapshots remotely", s.store.Saves())
	}

	if rec := s.do(t, http.MethodPost, "/api/session/logout", ""); rec.Code != http.StatusNoContent {
		t.Errorf("logout = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/snapshot", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("snapshot after logout = %d, want 401", rec.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{name: "register", path: "/api/session/register", body: `{"name":"Mei","email":"mei@example.com","password":"secret1"}`, wantCode: http.StatusCreated},
		{name: "duplicate email", path: "/api/session/register", body: `{"name":"Mei","email":"MEI@example.com","password":"secret1"}`, wantCode: http.StatusConflict},
		{name: "weak password", path: "/api/session/register", body: `{"name":"Lin","email":"lin@example.com","password":"123"}`, wantCode: http.StatusBadRequest},
		{name: "missing name", path: "/api/session/register", body: `{"email":"lin@example.com","password":"secret1"}`, wantCode: http.StatusBadRequest},
		{name: "wrong password", path: "/api/session/login", body: `{"email":"mei@example.com","password":"nope"}`, wantCode: http.StatusUnauthorized},
		{name: "bad json", path: "/api/session/login", body: `{`, wantCode: http.StatusBadRequest},
		{name: "login", path: "/api/session/login", body: `{"email":"mei@example.com","password":"secret1"}`, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("POST %s = %d, want %d: %s", tt.path, rec.Code, tt.wantCode, rec.Body)
			}
		})
	}

	// Registration seeds and saves once; the login reloads the stored snapshot.
	if s.store.Saves() != 1 {
		t.Errorf("saves = %d, want 1", s.store.Saves())
	}
}

func TestAccountsCRUD(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/session/register", `{"name":"Mei","email":"mei@example.com","password":"secret1"}`)

	rec := s.do(t, http.MethodPost, "/api/accounts", `{"name":"Wallet","balance":1000,"type":"Cash"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body)
	}
	created := decode[domain.Account](t, rec)
	if created.ID == "" || created.Currency != "TWD" || !created.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("created = %+v", created)
	}

	rec = s.do(t, http.MethodPut, "/api/accounts/"+created.ID, `{"name":"Wallet","balance":"12.5","type":"Cash","currency":"USD"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body)
	}

	list := decode[struct {
		Accounts []domain.Account `json:"accounts"`
		Count    int              `json:"count"`
	}](t, s.do(t, http.MethodGet, "/api/accounts", ""))
	want := domain.Account{ID: created.ID, Name: "Wallet", Balance: decimal.RequireFromString("12.5"), Type: domain.AccountTypeCash, Currency: "USD"}
	if list.Count != 3 {
		t.Fatalf("count = %d, want 3", list.Count)
	}
	if diff := cmp.Diff(want, list.Accounts[2]); diff != "" {
		t.Errorf("updated account mismatch (-want +got):\n%s", diff)
	}

	rec = s.do(t, http.MethodPut, "/api/accounts/nope", `{"name":"Ghost","balance":"5","type":"Cash"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update unknown = %d, want 404: %s", rec.Code, rec.Body)
	}
	after := decode[struct {
		Accounts []domain.Account `json:"accounts"`
	}](t, s.do(t, http.MethodGet, "/api/accounts", ""))
	if diff := cmp.Diff(list.Accounts, after.Accounts); diff != "" {
		t.Errorf("update of unknown account changed accounts (-before +after):\n%s", diff)
	}

	if rec := s.do(t, http.MethodDelete, "/api/accounts/acc1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	snap := decode[domain.Snapshot](t, s.do(t, http.MethodGet, "/api/snapshot", ""))
	for _, tx := range snap.Transactions {
		if tx.AccountID == "acc1" {
			t.Errorf("transaction %s of deleted account survived", tx.ID)
		}
	}

	// Three mutations were mirrored; the unknown update was not.
	mirrored := decode[struct {
		Count int `json:"count"`
	}](t, s.do(t, http.MethodGet, "/api/jobs", ""))
	if mirrored.Count != 3 {
		t.Errorf("jobs = %d, want 3", mirrored.Count)
	}
}

func TestBoundaryValidation(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/session/guest", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "account without name", method: http.MethodPost, path: "/api/accounts", body: `{"name":" ","type":"Cash"}`},
		{name: "account with bad type", method: http.MethodPost, path: "/api/accounts", body: `{"name":"X","type":"Gold"}`},
		{name: "transaction zero amount", method: http.MethodPost, path: "/api/transactions", body: `{"accountId":"acc1","categoryId":"1","amount":0,"type":"EXPENSE","description":"x"}`},
		{name: "transaction negative amount", method: http.MethodPost, path: "/api/transactions", body: `{"accountId":"acc1","categoryId":"1","amount":"-5","type":"EXPENSE","description":"x"}`},
		{name: "transaction without description", method: http.MethodPost, path: "/api/transactions", body: `{"accountId":"acc1","categoryId":"1","amount":5,"type":"EXPENSE"}`},
		{name: "transaction without account", method: http.MethodPost, path: "/api/transactions", body: `{"categoryId":"1","amount":5,"type":"EXPENSE","description":"x"}`},
		{name: "transaction bad date", method: http.MethodPost, path: "/api/transactions", body: `{"accountId":"acc1","categoryId":"1","amount":5,"type":"EXPENSE","description":"x","date":"yesterday"}`},
		{name: "bad type filter", method: http.MethodGet, path: "/api/transactions?type=TRANSFER"},
	}

	before := decode[domain.Snapshot](t, s.do(t, http.MethodGet, "/api/snapshot", ""))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := s.do(t, tt.method, tt.path, tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("%s %s = %d, want 400", tt.method, tt.path, rec.Code)
			}
		})
	}

	after := decode[domain.Snapshot](t, s.do(t, http.MethodGet, "/api/snapshot", ""))
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("rejected requests changed the snapshot (-before +after):\n%s", diff)
	}
}

func TestTransactionsListAndDelete(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/session/guest", "")

	list := decode[struct {
		Transactions []domain.Transaction `json:"transactions"`
	}](t, s.do(t, http.MethodGet, "/api/transactions?q=LUNCH&type=expense", ""))
	if len(list.Transactions) != 1 || list.Transactions[0].ID != "t2" {
		t.Errorf("filtered = %+v", list.Transactions)
	}

	if rec := s.do(t, http.MethodDelete, "/api/transactions/t2", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, "/api/transactions/missing", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete unknown = %d", rec.Code)
	}

	snap := decode[domain.Snapshot](t, s.do(t, http.MethodGet, "/api/snapshot", ""))
	if len(snap.Transactions) != 3 || !snap.Accounts[0].Balance.Equal(decimal.NewFromInt(50150)) {
		t.Errorf("after delete: %d transactions, acc1 = %s", len(snap.Transactions), snap.Accounts[0].Balance)
	}
}

func TestReportsAndAdvice(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/session/guest", "")

	dash := decode[struct {
		TotalBalance decimal.Decimal      `json:"totalBalance"`
		AccountCount int                  `json:"accountCount"`
		Recent       []domain.Transaction `json:"recent"`
	}](t, s.do(t, http.MethodGet, "/api/dashboard", ""))
	if !dash.TotalBalance.Equal(decimal.NewFromInt(48800)) || dash.AccountCount != 2 || len(dash.Recent) != 4 {
		t.Errorf("dashboard = %+v", dash)
	}

	reports := decode[struct {
		Trend      []json.RawMessage `json:"trend"`
		ByCategory []struct {
			Name string `json:"name"`
		} `json:"byCategory"`
	}](t, s.do(t, http.MethodGet, "/api/reports", ""))
	if len(reports.Trend) != 6 || len(reports.ByCategory) != 3 {
		t.Errorf("reports = %d months, %d categories", len(reports.Trend), len(reports.ByCategory))
	}

	advice := decode[map[string]string](t, s.do(t, http.MethodPost, "/api/advice", ""))
	if advice["advice"] != "Save more." {
		t.Errorf("advice = %v", advice)
	}
}

func TestJobsRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/session/guest", "")

	if rec := s.do(t, http.MethodGet, "/api/jobs/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown job = %d, want 404", rec.Code)
	}
	got := decode[struct {
		Count int `json:"count"`
	}](t, s.do(t, http.MethodGet, "/api/jobs", ""))
	if got.Count != 0 {
		t.Errorf("guest jobs = %d, want 0", got.Count)
	}
}

func TestGetJobIsScopedToSessionUser(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/session/guest", "")

	ctx := context.Background()
	own := &jobs.MirrorSnapshotJob{JobID: "own", UserID: domain.DemoUser.ID, Status: jobs.JobStatusCompleted}
	other := &jobs.MirrorSnapshotJob{JobID: "other", UserID: "someone-else", Status: jobs.JobStatusCompleted}
	for _, job := range []*jobs.MirrorSnapshotJob{own, other} {
		if err := s.jobs.SaveJob(ctx, job); err != nil {
			t.Fatalf("SaveJob(%s): %v", job.JobID, err)
		}
	}

	tests := []struct {
		id       string
		wantCode int
	}{
		{id: "own", wantCode: http.StatusOK},
		{id: "other", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if rec := s.do(t, http.MethodGet, "/api/jobs/"+tt.id, ""); rec.Code != tt.wantCode {
				t.Errorf("GET /api/jobs/%s = %d, want %d", tt.id, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	if rec := s.do(t, http.MethodOptions, "/api/accounts", ""); rec.Code != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", rec.Code)
	}
}
