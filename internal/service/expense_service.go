package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/cocoexperiments/pokett-be/internal/expense"
	"github.com/cocoexperiments/pokett-be/internal/middleware"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
	"github.com/cocoexperiments/pokett-be/pkg/rpc/rpcconnect"
)

// Recorder is the expense recorder as seen by the transports.
type Recorder interface {
	CreateExpense(ctx context.Context, params expense.CreateParams) (*models.Expense, error)
	GetExpense(ctx context.Context, id models.ExpenseID) (*models.Expense, error)
	ListExpenses(ctx context.Context, group models.GroupID) ([]*models.Expense, error)
}

var _ rpcconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	recorder Recorder
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(recorder Recorder) *ExpenseService {
	return &ExpenseService{recorder: recorder}
}

// CreateExpense records an expense and updates balances for its shares.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	params, err := CreateParamsFromRPC(req.Msg)
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}
	e, err := s.recorder.CreateExpense(ctx, params)
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}
	return connect.NewResponse(&rpc.CreateExpenseResponse{Expense: ExpenseToRPC(e)}), nil
}

// GetExpense retrieves one expense.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error) {
	e, err := s.recorder.GetExpense(ctx, models.ExpenseID(req.Msg.ID))
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}
	return connect.NewResponse(&rpc.GetExpenseResponse{Expense: ExpenseToRPC(e)}), nil
}

// ListExpenses lists expenses newest first, optionally for one group.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error) {
	expenses, err := s.recorder.ListExpenses(ctx, models.GroupID(req.Msg.GroupID))
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}
	return connect.NewResponse(&rpc.ListExpensesResponse{Expenses: ExpensesToRPC(expenses)}), nil
}
