package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/middleware"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
	"github.com/cocoexperiments/pokett-be/pkg/rpc/rpcconnect"
)

// Ledger is the balance ledger as seen by the transports.
type Ledger interface {
	GetUserBalances(ctx context.Context, userID models.UserID, group models.GroupID) ([]models.UserBalance, error)
	Settle(ctx context.Context, userA, userB models.UserID, amount decimal.Decimal) error
	Friends(ctx context.Context, userID models.UserID) ([]models.UserID, error)
}

var _ rpcconnect.BalanceServiceHandler = (*BalanceService)(nil)

// BalanceService implements the Connect BalanceService for the calling user.
type BalanceService struct {
	ledger Ledger
}

// NewBalanceService creates a new BalanceService backed by ledger.
func NewBalanceService(ledger Ledger) *BalanceService {
	return &BalanceService{ledger: ledger}
}

// GetBalances returns the caller's balances in the global scope or in one group.
func (s *BalanceService) GetBalances(ctx context.Context, req *connect.Request[rpc.GetBalancesRequest]) (*connect.Response[rpc.GetBalancesResponse], error) {
	caller := middleware.GetUserID(ctx)

	balances, err := s.ledger.GetUserBalances(ctx, caller, models.GroupID(req.Msg.GroupID))
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}

	return connect.NewResponse(&rpc.GetBalancesResponse{Balances: BalancesToRPC(balances)}), nil
}

// Settle records a payment from the caller to another user.
func (s *BalanceService) Settle(ctx context.Context, req *connect.Request[rpc.SettleRequest]) (*connect.Response[rpc.SettleResponse], error) {
	caller := middleware.GetUserID(ctx)
	other := models.UserID(req.Msg.UserID)

	if err := ValidateSettle(caller, other, req.Msg.Amount); err != nil {
		return nil, middleware.ToConnectError(err)
	}

	if err := s.ledger.Settle(ctx, caller, other, req.Msg.Amount.Decimal); err != nil {
		slog.Error("Settle failed", "user_id", caller, "other_user_id", other, "error", err)
		return nil, middleware.ToConnectError(err)
	}

	return connect.NewResponse(&rpc.SettleResponse{Message: SettledMessage}), nil
}

// SettledMessage is returned after a successful settlement.
const SettledMessage = "Balance settled successfully"

// ValidateSettle checks a settlement request. The ledger applies any amount
// it is given, so the sign is enforced here. A zero amount is allowed and
// only consolidates the pair's records.
func ValidateSettle(caller, other models.UserID, amount decimal.NullDecimal) error {
	if other == "" {
		return apperr.Validation("userId is required")
	}
	if other == caller {
		return apperr.Validation("cannot settle a balance with yourself")
	}
	if !amount.Valid {
		return apperr.Validation("amount is required")
	}
	if amount.Decimal.IsNegative() {
		return apperr.Validation("amount must not be negative")
	}
	return nil
}
