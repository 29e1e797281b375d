// Package rpcconnect wires the pokett.v1 services to Connect handlers and
// clients. Every handler and client uses rpc.JSONCodec.
package rpcconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/cocoexperiments/pokett-be/pkg/rpc"
)

const (
	// BalanceServiceName is the fully-qualified name of the BalanceService service.
	BalanceServiceName = "pokett.v1.BalanceService"
	// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
	ExpenseServiceName = "pokett.v1.ExpenseService"
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "pokett.v1.GroupService"
)

// Procedure paths, as they appear in request URLs.
const (
	BalanceServiceGetBalancesProcedure = "/pokett.v1.BalanceService/GetBalances"
	BalanceServiceSettleProcedure      = "/pokett.v1.BalanceService/Settle"

	ExpenseServiceCreateExpenseProcedure = "/pokett.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure    = "/pokett.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure  = "/pokett.v1.ExpenseService/ListExpenses"

	GroupServiceCreateGroupProcedure   = "/pokett.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure      = "/pokett.v1.GroupService/GetGroup"
	GroupServiceGetGroupStatsProcedure = "/pokett.v1.GroupService/GetGroupStats"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(rpc.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(rpc.JSONCodec{})}, opts...)
}

// route dispatches on the exact procedure path.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// BalanceServiceHandler is implemented by the balance service.
type BalanceServiceHandler interface {
	GetBalances(context.Context, *connect.Request[rpc.GetBalancesRequest]) (*connect.Response[rpc.GetBalancesResponse], error)
	Settle(context.Context, *connect.Request[rpc.SettleRequest]) (*connect.Response[rpc.SettleResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BalanceServiceName + "/", route(map[string]http.Handler{
		BalanceServiceGetBalancesProcedure: connect.NewUnaryHandler(BalanceServiceGetBalancesProcedure, svc.GetBalances, opts...),
		BalanceServiceSettleProcedure:      connect.NewUnaryHandler(BalanceServiceSettleProcedure, svc.Settle, opts...),
	})
}

// BalanceServiceClient is a client for the pokett.v1.BalanceService service.
type BalanceServiceClient interface {
	GetBalances(context.Context, *connect.Request[rpc.GetBalancesRequest]) (*connect.Response[rpc.GetBalancesResponse], error)
	Settle(context.Context, *connect.Request[rpc.SettleRequest]) (*connect.Response[rpc.SettleResponse], error)
}

// NewBalanceServiceClient constructs a client for the pokett.v1.BalanceService
// service. baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getBalances: connect.NewClient[rpc.GetBalancesRequest, rpc.GetBalancesResponse](httpClient, baseURL+BalanceServiceGetBalancesProcedure, opts...),
		settle:      connect.NewClient[rpc.SettleRequest, rpc.SettleResponse](httpClient, baseURL+BalanceServiceSettleProcedure, opts...),
	}
}

type balanceServiceClient struct {
	getBalances *connect.Client[rpc.GetBalancesRequest, rpc.GetBalancesResponse]
	settle      *connect.Client[rpc.SettleRequest, rpc.SettleResponse]
}

func (c *balanceServiceClient) GetBalances(ctx context.Context, req *connect.Request[rpc.GetBalancesRequest]) (*connect.Response[rpc.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) Settle(ctx context.Context, req *connect.Request[rpc.SettleRequest]) (*connect.Response[rpc.SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the expense service.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ExpenseServiceName + "/", route(map[string]http.Handler{
		ExpenseServiceCreateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceGetExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceListExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
	})
}

// ExpenseServiceClient is a client for the pokett.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error)
}

// NewExpenseServiceClient constructs a client for the pokett.v1.ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense: connect.NewClient[rpc.CreateExpenseRequest, rpc.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:    connect.NewClient[rpc.GetExpenseRequest, rpc.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[rpc.ListExpensesRequest, rpc.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense *connect.Client[rpc.CreateExpenseRequest, rpc.CreateExpenseResponse]
	getExpense    *connect.Client[rpc.GetExpenseRequest, rpc.GetExpenseResponse]
	listExpenses  *connect.Client[rpc.ListExpensesRequest, rpc.ListExpensesResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error)
	GetGroupStats(context.Context, *connect.Request[rpc.GetGroupStatsRequest]) (*connect.Response[rpc.GetGroupStatsResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", route(map[string]http.Handler{
		GroupServiceCreateGroupProcedure:   connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:      connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceGetGroupStatsProcedure: connect.NewUnaryHandler(GroupServiceGetGroupStatsProcedure, svc.GetGroupStats, opts...),
	})
}

// GroupServiceClient is a client for the pokett.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error)
	GetGroupStats(context.Context, *connect.Request[rpc.GetGroupStatsRequest]) (*connect.Response[rpc.GetGroupStatsResponse], error)
}

// NewGroupServiceClient constructs a client for the pokett.v1.GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:   connect.NewClient[rpc.CreateGroupRequest, rpc.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:      connect.NewClient[rpc.GetGroupRequest, rpc.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		getGroupStats: connect.NewClient[rpc.GetGroupStatsRequest, rpc.GetGroupStatsResponse](httpClient, baseURL+GroupServiceGetGroupStatsProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup   *connect.Client[rpc.CreateGroupRequest, rpc.CreateGroupResponse]
	getGroup      *connect.Client[rpc.GetGroupRequest, rpc.GetGroupResponse]
	getGroupStats *connect.Client[rpc.GetGroupStatsRequest, rpc.GetGroupStatsResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupStats(ctx context.Context, req *connect.Request[rpc.GetGroupStatsRequest]) (*connect.Response[rpc.GetGroupStatsResponse], error) {
	return c.getGroupStats.CallUnary(ctx, req)
}
