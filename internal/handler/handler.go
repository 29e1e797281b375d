package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cocoexperiments/pokett-be/internal/middleware"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/service"
	"github.com/cocoexperiments/pokett-be/internal/storage"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
)

// Handler serves the REST routes.
type Handler struct {
	ledger     service.Ledger
	recorder   service.Recorder
	aggregator service.Aggregator
	users      storage.UserStore
}

func caller(c *gin.Context) models.UserID {
	return middleware.GetUserID(c.Request.Context())
}

// GetBalances returns the caller's signed balances.
// GET /api/balances?groupId=xxx
func (h *Handler) GetBalances(c *gin.Context) {
	var req rpc.GetBalancesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ParamError(c, err)
		return
	}

	balances, err := h.ledger.GetUserBalances(c.Request.Context(), caller(c), models.GroupID(req.GroupID))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, service.BalancesToRPC(balances))
}

// Settle pays another user in the global scope.
// POST /api/balances/settle {userId, amount}
func (h *Handler) Settle(c *gin.Context) {
	var req rpc.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ParamError(c, err)
		return
	}

	me, other := caller(c), models.UserID(req.UserID)
	if err := service.ValidateSettle(me, other, req.Amount); err != nil {
		Error(c, err)
		return
	}

	if err := h.ledger.Settle(c.Request.Context(), me, other, req.Amount.Decimal); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rpc.SettleResponse{Message: service.SettledMessage})
}

// CreateExpense records an expense and applies its shares to balances.
// POST /api/expenses
func (h *Handler) CreateExpense(c *gin.Context) {
	var req rpc.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ParamError(c, err)
		return
	}

	params, err := service.CreateParamsFromRPC(&req)
	if err != nil {
		Error(c, err)
		return
	}
	e, err := h.recorder.CreateExpense(c.Request.Context(), params)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.ExpenseToRPC(e))
}

// ListExpenses lists expenses newest first.
// GET /api/expenses?groupId=xxx
func (h *Handler) ListExpenses(c *gin.Context) {
	var req rpc.ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ParamError(c, err)
		return
	}

	expenses, err := h.recorder.ListExpenses(c.Request.Context(), models.GroupID(req.GroupID))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ExpensesToRPC(expenses))
}

// GetExpense returns one expense.
// GET /api/expenses/:id
func (h *Handler) GetExpense(c *gin.Context) {
	e, err := h.recorder.GetExpense(c.Request.Context(), models.ExpenseID(c.Param("id")))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ExpenseToRPC(e))
}

// CreateGroup creates a group.
// POST /api/groups {name, members}
func (h *Handler) CreateGroup(c *gin.Context) {
	var req rpc.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ParamError(c, err)
		return
	}

	g, err := h.aggregator.CreateGroup(c.Request.Context(), req.Name, service.UserIDsFromRPC(req.Members))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.GroupToRPC(g))
}

// GetGroup returns a group with its members and expense IDs.
// GET /api/groups/:id
func (h *Handler) GetGroup(c *gin.Context) {
	g, err := h.aggregator.GetGroup(c.Request.Context(), models.GroupID(c.Param("id")))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, service.GroupToRPC(g))
}

// GetGroupStats returns total spend and member balances.
// GET /api/groups/:id/stats
func (h *Handler) GetGroupStats(c *gin.Context) {
	stats, err := h.aggregator.GetGroupStats(c.Request.Context(), models.GroupID(c.Param("id")))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, service.StatsToRPC(stats))
}

// CreateUser registers or updates the caller's profile in the directory.
// POST /api/users {name, email}
func (h *Handler) CreateUser(c *gin.Context) {
	var req rpc.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ParamError(c, err)
		return
	}

	user := &models.User{ID: caller(c), Name: strings.TrimSpace(req.Name), Email: req.Email}
	if user.Name == "" {
		ParamError(c, errNameRequired)
		return
	}
	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.UserToRPC(user))
}

// GetFriends lists the users the caller has a balance with, in any scope.
// GET /api/users/me/friends?name=xxx
func (h *Handler) GetFriends(c *gin.Context) {
	ctx := c.Request.Context()

	ids, err := h.ledger.Friends(ctx, caller(c))
	if err != nil {
		Error(c, err)
		return
	}

	known, err := h.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		Error(c, err)
		return
	}

	filter := strings.ToLower(strings.TrimSpace(c.Query("name")))
	friends := make([]rpc.User, 0, len(ids))
	for _, id := range ids {
		u, ok := known[id]
		if !ok {
			u = &models.User{ID: id}
		}
		if filter != "" && !strings.Contains(strings.ToLower(u.Name), filter) {
			continue
		}
		friends = append(friends, service.UserToRPC(u))
	}
	c.JSON(http.StatusOK, friends)
}
