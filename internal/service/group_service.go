package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/cocoexperiments/pokett-be/internal/group"
	"github.com/cocoexperiments/pokett-be/internal/middleware"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
	"github.com/cocoexperiments/pokett-be/pkg/rpc/rpcconnect"
)

// Aggregator is the group aggregator as seen by the transports.
type Aggregator interface {
	CreateGroup(ctx context.Context, name string, members []models.UserID) (*models.Group, error)
	GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error)
	GetGroupStats(ctx context.Context, id models.GroupID) (*group.Stats, error)
}

var _ rpcconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	aggregator Aggregator
}

// NewGroupService creates a new GroupService.
func NewGroupService(aggregator Aggregator) *GroupService {
	return &GroupService{aggregator: aggregator}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	g, err := s.aggregator.CreateGroup(ctx, req.Msg.Name, UserIDsFromRPC(req.Msg.Members))
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}

	slog.Info("Group created", "group_id", g.ID, "members_count", len(g.Members))

	return connect.NewResponse(&rpc.CreateGroupResponse{Group: GroupToRPC(g)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	g, err := s.aggregator.GetGroup(ctx, models.GroupID(req.Msg.ID))
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}
	return connect.NewResponse(&rpc.GetGroupResponse{Group: GroupToRPC(g)}), nil
}

// GetGroupStats returns total spend and member balances for a group.
func (s *GroupService) GetGroupStats(ctx context.Context, req *connect.Request[rpc.GetGroupStatsRequest]) (*connect.Response[rpc.GetGroupStatsResponse], error) {
	stats, err := s.aggregator.GetGroupStats(ctx, models.GroupID(req.Msg.GroupID))
	if err != nil {
		return nil, middleware.ToConnectError(err)
	}
	return connect.NewResponse(StatsToRPC(stats)), nil
}
