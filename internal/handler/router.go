// Package handler serves the REST API with gin.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cocoexperiments/pokett-be/internal/auth"
	"github.com/cocoexperiments/pokett-be/internal/service"
	"github.com/cocoexperiments/pokett-be/internal/storage"
)

// Deps are the components behind the REST routes.
type Deps struct {
	Ledger     service.Ledger
	Recorder   service.Recorder
	Aggregator service.Aggregator
	Users      storage.UserStore
	JWT        *auth.JWTManager
}

// SetupRouter builds the gin engine. Every route under /api requires a
// bearer token; /health is public.
func SetupRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())

	h := &Handler{
		ledger:     deps.Ledger,
		recorder:   deps.Recorder,
		aggregator: deps.Aggregator,
		users:      deps.Users,
	}

	api := r.Group("/api", AuthMiddleware(deps.JWT))
	{
		balances := api.Group("/balances")
		{
			balances.GET("", h.GetBalances)
			balances.POST("/settle", h.Settle)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("", h.CreateExpense)
			expenses.GET("", h.ListExpenses)
			expenses.GET("/:id", h.GetExpense)
		}

		groups := api.Group("/groups")
		{
			groups.POST("", h.CreateGroup)
			groups.GET("/:id", h.GetGroup)
			groups.GET("/:id/stats", h.GetGroupStats)
		}

		users := api.Group("/users")
		{
			users.POST("", h.CreateUser)
			users.GET("/me/friends", h.GetFriends)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
