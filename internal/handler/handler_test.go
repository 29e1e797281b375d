package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocoexperiments/pokett-be/internal/auth"
	"github.com/cocoexperiments/pokett-be/internal/expense"
	"github.com/cocoexperiments/pokett-be/internal/group"
	"github.com/cocoexperiments/pokett-be/internal/ledger"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/storage/sqlite"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	jwt    *auth.JWTManager
	store  *sqlite.SQLiteStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	l := ledger.New(store, nil, nil)
	router := SetupRouter(Deps{
		Ledger:     l,
		Recorder:   expense.NewRecorder(store, l),
		Aggregator: group.NewAggregator(store, l),
		Users:      store,
		JWT:        jwtManager,
	})
	return &testAPI{t: t, router: router, jwt: jwtManager, store: store}
}

// do sends a request as user (anonymous when user is empty) and decodes the
// response body into out when out is non-nil.
func (a *testAPI) do(method, path string, user models.UserID, body any, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		token, err := a.jwt.Generate(&models.User{ID: user})
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
	}
	return rec.Code
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestHealthIsPublic(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAPIRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	var body rpc.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/balances", "", nil, &body))
	assert.NotEmpty(t, body.Error)
}

func TestExpenseAndSettleFlow(t *testing.T) {
	api := newTestAPI(t)

	var created rpc.Expense
	status := api.do(http.MethodPost, "/api/expenses", "alice", map[string]any{
		"amount":      90,
		"categoryId":  "food",
		"description": "Dinner",
		"paidBy":      "alice",
		"shares": []map[string]any{
			{"userId": "alice", "amount": 30},
			{"userId": "bob", "amount": "30"},
			{"userId": "carol", "amount": 30},
		},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Amount.Equal(d("90")))

	var got rpc.Expense
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/expenses/"+created.ID, "bob", nil, &got))
	assert.Equal(t, "Dinner", got.Description)

	var balances []rpc.Balance
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/balances", "alice", nil, &balances))
	require.Len(t, balances, 2)
	assert.Equal(t, "bob", balances[0].UserID)
	assert.True(t, balances[0].Amount.Equal(d("30")))

	var settled rpc.SettleResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/balances/settle", "bob",
		map[string]any{"userId": "alice", "amount": 30}, &settled))
	assert.NotEmpty(t, settled.Message)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/balances", "bob", nil, &balances))
	assert.Empty(t, balances)
}

func TestGroupRoutes(t *testing.T) {
	api := newTestAPI(t)

	var g rpc.Group
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/groups", "alice",
		map[string]any{"name": "Trip", "members": []string{"alice", "bob"}}, &g))
	require.NotEmpty(t, g.ID)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/expenses", "alice", map[string]any{
		"groupId": g.ID, "amount": 40, "categoryId": "fuel", "paidBy": "bob",
		"shares": []map[string]any{{"userId": "alice", "amount": 20}, {"userId": "bob", "amount": 20}},
	}, nil))

	var stats rpc.GetGroupStatsResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/groups/"+g.ID+"/stats", "alice", nil, &stats))
	assert.True(t, stats.TotalSpent.Equal(d("40")))
	require.Len(t, stats.MemberBalances, 2)
	assert.True(t, stats.MemberBalances[0].TotalBalance.Equal(d("-20")))
	assert.Len(t, stats.MemberBalances[0].Owes, 1)
	assert.Empty(t, stats.MemberBalances[0].IsOwed)

	var groupBalances []rpc.Balance
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/balances?groupId="+g.ID, "alice", nil, &groupBalances))
	assert.Len(t, groupBalances, 1)

	var expenses []rpc.Expense
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/expenses?groupId="+g.ID, "alice", nil, &expenses))
	assert.Len(t, expenses, 1)

	var fetched rpc.Group
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/groups/"+g.ID, "bob", nil, &fetched))
	assert.Len(t, fetched.ExpenseIDs, 1)
}

func TestErrorStatuses(t *testing.T) {
	api := newTestAPI(t)

	var body rpc.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/groups/nope/stats", "alice", nil, &body))
	assert.Equal(t, "Group with ID nope not found", body.Error)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/expenses/nope", "alice", nil, &body))
	assert.Equal(t, "Expense with ID nope not found", body.Error)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/expenses", "alice",
		map[string]any{"amount": 10, "categoryId": "x", "paidBy": "alice", "shares": []any{}}, &body))

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/balances/settle", "alice",
		map[string]any{"userId": "alice", "amount": 10}, &body))
	assert.Equal(t, "cannot settle a balance with yourself", body.Error)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/balances/settle", "alice",
		map[string]any{"userId": "bob", "amount": -10}, &body))
	assert.Equal(t, "amount must not be negative", body.Error)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/balances/settle", "alice",
		map[string]any{"userId": "bob"}, &body))
	assert.Equal(t, "amount is required", body.Error)
}

func TestCreateExpenseRequiresAmounts(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]any
		wantErr string
	}{
		{
			name: "missing expense amount",
			body: map[string]any{"categoryId": "food", "paidBy": "alice",
				"shares": []map[string]any{{"userId": "bob", "amount": 10}}},
			wantErr: "amount is required",
		},
		{
			name: "missing share amount",
			body: map[string]any{"amount": 10, "categoryId": "food", "paidBy": "alice",
				"shares": []map[string]any{{"userId": "bob"}}},
			wantErr: "shares[0].amount is required",
		},
		{
			name: "null expense amount",
			body: map[string]any{"amount": nil, "categoryId": "food", "paidBy": "alice",
				"shares": []map[string]any{{"userId": "bob", "amount": 10}}},
			wantErr: "amount is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			var body rpc.ErrorResponse
			assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/expenses", "alice", tt.body, &body))
			assert.Equal(t, tt.wantErr, body.Error)

			var expenses []rpc.Expense
			require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/expenses", "alice", nil, &expenses))
			assert.Empty(t, expenses)
		})
	}
}

// Settling zero leaves the net untouched but collapses the pair's records.
func TestSettleZeroConsolidates(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, api.store.InsertBalance(ctx, &models.Balance{Creditor: "bob", Debtor: "alice", Amount: d("50")}))
	require.NoError(t, api.store.InsertBalance(ctx, &models.Balance{Creditor: "alice", Debtor: "bob", Amount: d("30")}))

	var settled rpc.SettleResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/balances/settle", "alice",
		map[string]any{"userId": "bob", "amount": 0}, &settled))
	assert.Equal(t, "Balance settled successfully", settled.Message)

	records, err := api.store.ListBalances(ctx, "alice", models.Global)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.UserID("bob"), records[0].Creditor)
	assert.Equal(t, models.UserID("alice"), records[0].Debtor)
	assert.True(t, records[0].Amount.Equal(d("20")))
}

func TestFriends(t *testing.T) {
	api := newTestAPI(t)

	var me rpc.User
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/users", "bob",
		map[string]any{"name": "Bob Builder", "email": "bob@example.com"}, &me))
	assert.Equal(t, "bob", me.ID)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/expenses", "alice", map[string]any{
		"amount": 20, "categoryId": "x", "paidBy": "alice",
		"shares": []map[string]any{{"userId": "bob", "amount": 10}, {"userId": "carol", "amount": 10}},
	}, nil))

	var friends []rpc.User
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/me/friends", "alice", nil, &friends))
	require.Len(t, friends, 2)
	assert.Equal(t, "Bob Builder", friends[0].Name)
	assert.Equal(t, "carol", friends[1].ID)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/me/friends?name=build", "alice", nil, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].ID)

	var body rpc.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/users", "bob",
		map[string]any{"name": "Bob", "email": "not-an-email"}, &body))
}
