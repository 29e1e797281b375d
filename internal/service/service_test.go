package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/auth"
	"github.com/cocoexperiments/pokett-be/internal/expense"
	"github.com/cocoexperiments/pokett-be/internal/group"
	"github.com/cocoexperiments/pokett-be/internal/ledger"
	"github.com/cocoexperiments/pokett-be/internal/middleware"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/storage/sqlite"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
	"github.com/cocoexperiments/pokett-be/pkg/rpc/rpcconnect"
)

type testClients struct {
	balances rpcconnect.BalanceServiceClient
	expenses rpcconnect.ExpenseServiceClient
	groups   rpcconnect.GroupServiceClient
	jwt      *auth.JWTManager
	store    *sqlite.SQLiteStore
}

// setupTestServer serves all three services over httptest with auth enabled.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	l := ledger.New(store, nil, nil)
	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(rpcconnect.NewBalanceServiceHandler(NewBalanceService(l), interceptors))
	mux.Handle(rpcconnect.NewExpenseServiceHandler(NewExpenseService(expense.NewRecorder(store, l)), interceptors))
	mux.Handle(rpcconnect.NewGroupServiceHandler(NewGroupService(group.NewAggregator(store, l)), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		balances: rpcconnect.NewBalanceServiceClient(http.DefaultClient, server.URL),
		expenses: rpcconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		groups:   rpcconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		jwt:      jwtManager,
		store:    store,
	}
}

// as returns a request authenticated as user.
func as[T any](t *testing.T, c *testClients, user models.UserID, msg *T) *connect.Request[T] {
	t.Helper()

	token, err := c.jwt.Generate(&models.User{ID: user})
	require.NoError(t, err, "failed to generate token")
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.balances.GetBalances(context.Background(), connect.NewRequest(&rpc.GetBalancesRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestExpenseUpdatesBalances(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	created, err := c.expenses.CreateExpense(ctx, as(t, c, "alice", &rpc.CreateExpenseRequest{
		Amount:      nd("60"),
		CategoryID:  "food",
		Description: "Pizza",
		PaidBy:      "alice",
		Shares: []rpc.ShareRequest{
			{UserID: "alice", Amount: nd("20")},
			{UserID: "bob", Amount: nd("20")},
			{UserID: "carol", Amount: nd("20")},
		},
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.Msg.Expense.ID)

	resp, err := c.balances.GetBalances(ctx, as(t, c, "bob", &rpc.GetBalancesRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Balances, 1)
	assert.Equal(t, "alice", resp.Msg.Balances[0].UserID)
	assert.True(t, resp.Msg.Balances[0].Amount.Equal(d("-20")), "got %s", resp.Msg.Balances[0].Amount)

	got, err := c.expenses.GetExpense(ctx, as(t, c, "bob", &rpc.GetExpenseRequest{ID: created.Msg.Expense.ID}))
	require.NoError(t, err)
	assert.Equal(t, "Pizza", got.Msg.Expense.Description)
	assert.Len(t, got.Msg.Expense.Shares, 3)
}

func TestCreateExpenseRequiresAmounts(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *rpc.CreateExpenseRequest
		wantMsg string
	}{
		{
			name: "missing expense amount",
			req: &rpc.CreateExpenseRequest{CategoryID: "food", PaidBy: "alice",
				Shares: []rpc.ShareRequest{{UserID: "bob", Amount: nd("10")}}},
			wantMsg: "amount is required",
		},
		{
			name: "missing share amount",
			req: &rpc.CreateExpenseRequest{Amount: nd("10"), CategoryID: "food", PaidBy: "alice",
				Shares: []rpc.ShareRequest{{UserID: "bob", Amount: nd("10")}, {UserID: "carol"}}},
			wantMsg: "shares[1].amount is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.expenses.CreateExpense(ctx, as(t, c, "alice", tt.req))
			require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "err: %v", err)
			var connectErr *connect.Error
			require.True(t, errors.As(err, &connectErr))
			assert.Equal(t, tt.wantMsg, connectErr.Message())
		})
	}

	list, err := c.expenses.ListExpenses(ctx, as(t, c, "alice", &rpc.ListExpensesRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses)
}

func TestSettleFlow(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.expenses.CreateExpense(ctx, as(t, c, "bob", &rpc.CreateExpenseRequest{
		Amount: nd("50"), CategoryID: "taxi", PaidBy: "bob",
		Shares: []rpc.ShareRequest{{UserID: "alice", Amount: nd("50")}},
	}))
	require.NoError(t, err)

	settled, err := c.balances.Settle(ctx, as(t, c, "alice", &rpc.SettleRequest{UserID: "bob", Amount: nd("30")}))
	require.NoError(t, err)
	assert.Equal(t, SettledMessage, settled.Msg.Message)

	resp, err := c.balances.GetBalances(ctx, as(t, c, "alice", &rpc.GetBalancesRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Balances, 1)
	assert.True(t, resp.Msg.Balances[0].Amount.Equal(d("-20")), "got %s", resp.Msg.Balances[0].Amount)
}

func TestSettleZeroConsolidates(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, c.store.InsertBalance(ctx, &models.Balance{Creditor: "bob", Debtor: "alice", Amount: d("50")}))
	require.NoError(t, c.store.InsertBalance(ctx, &models.Balance{Creditor: "alice", Debtor: "bob", Amount: d("30")}))

	_, err := c.balances.Settle(ctx, as(t, c, "alice", &rpc.SettleRequest{UserID: "bob", Amount: nd("0")}))
	require.NoError(t, err)

	records, err := c.store.ListBalances(ctx, "alice", models.Global)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.UserID("bob"), records[0].Creditor)
	assert.True(t, records[0].Amount.Equal(d("20")))
}

func TestSettleValidation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *rpc.SettleRequest
	}{
		{"missing user", &rpc.SettleRequest{Amount: nd("10")}},
		{"self", &rpc.SettleRequest{UserID: "alice", Amount: nd("10")}},
		{"missing amount", &rpc.SettleRequest{UserID: "bob"}},
		{"negative amount", &rpc.SettleRequest{UserID: "bob", Amount: nd("-5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.balances.Settle(ctx, as(t, c, "alice", tt.req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "err: %v", err)
		})
	}
}

func TestValidateSettle(t *testing.T) {
	assert.NoError(t, ValidateSettle("alice", "bob", nd("0")))
	assert.NoError(t, ValidateSettle("alice", "bob", nd("0.01")))
	assert.ErrorIs(t, ValidateSettle("alice", "bob", nd("-0.01")), apperr.ErrValidation)
	assert.ErrorIs(t, ValidateSettle("alice", "bob", decimal.NullDecimal{}), apperr.ErrValidation)
}

func TestGroupStatsFlow(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	created, err := c.groups.CreateGroup(ctx, as(t, c, "alice", &rpc.CreateGroupRequest{
		Name:    "Roommates",
		Members: []string{"alice", "bob"},
	}))
	require.NoError(t, err)
	groupID := created.Msg.Group.ID

	_, err = c.expenses.CreateExpense(ctx, as(t, c, "alice", &rpc.CreateExpenseRequest{
		GroupID: groupID, Amount: nd("100"), CategoryID: "rent", PaidBy: "alice",
		Shares: []rpc.ShareRequest{{UserID: "alice", Amount: nd("50")}, {UserID: "bob", Amount: nd("50")}},
	}))
	require.NoError(t, err)

	stats, err := c.groups.GetGroupStats(ctx, as(t, c, "bob", &rpc.GetGroupStatsRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.True(t, stats.Msg.TotalSpent.Equal(d("100")), "totalSpent = %s", stats.Msg.TotalSpent)
	require.Len(t, stats.Msg.MemberBalances, 2)
	bob := stats.Msg.MemberBalances[1]
	assert.Equal(t, "bob", bob.UserID)
	assert.True(t, bob.TotalBalance.Equal(d("-50")), "bob total = %s", bob.TotalBalance)
	assert.Len(t, bob.Owes, 1)

	g, err := c.groups.GetGroup(ctx, as(t, c, "bob", &rpc.GetGroupRequest{ID: groupID}))
	require.NoError(t, err)
	assert.Len(t, g.Msg.Group.ExpenseIDs, 1)

	list, err := c.expenses.ListExpenses(ctx, as(t, c, "bob", &rpc.ListExpensesRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Expenses, 1)

	groupBalances, err := c.balances.GetBalances(ctx, as(t, c, "bob", &rpc.GetBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Len(t, groupBalances.Msg.Balances, 1)

	global, err := c.balances.GetBalances(ctx, as(t, c, "bob", &rpc.GetBalancesRequest{}))
	require.NoError(t, err)
	assert.Empty(t, global.Msg.Balances, "group expense leaked into global balances")
}

func TestNotFoundErrors(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.groups.GetGroupStats(ctx, as(t, c, "alice", &rpc.GetGroupStatsRequest{GroupID: "nope"}))
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, "Group with ID nope not found", connectErr.Message())

	_, err = c.expenses.GetExpense(ctx, as(t, c, "alice", &rpc.GetExpenseRequest{ID: "missing"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = c.expenses.CreateExpense(ctx, as(t, c, "alice", &rpc.CreateExpenseRequest{
		Amount: nd("1"), CategoryID: "x", PaidBy: "alice",
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "missing shares: %v", err)
}
