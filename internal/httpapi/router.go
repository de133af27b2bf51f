package httpapi

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/config"
	authsvc "github.com/stablemate/stablemate/internal/service/auth"
	"github.com/stablemate/stablemate/internal/service/conversation"
	"github.com/stablemate/stablemate/internal/service/explore"
	"github.com/stablemate/stablemate/internal/service/stable"
	"github.com/stablemate/stablemate/internal/session"
)

// Handler bundles the services behind the JSON API.
type Handler struct {
	appCtx       *app.AppContext
	sessions     *session.Store
	auth         *authsvc.Service
	stable       *stable.Service
	explore      *explore.Service
	conversation *conversation.Service
}

func NewHandler(appCtx *app.AppContext, sessions *session.Store) *Handler {
	return &Handler{
		appCtx:       appCtx,
		sessions:     sessions,
		auth:         authsvc.NewService(appCtx, sessions),
		stable:       stable.NewService(appCtx),
		explore:      explore.NewService(appCtx),
		conversation: conversation.NewService(appCtx),
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.appCtx.Logger))

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		authed := api.Group("", RequireSession(h.sessions))
		{
			authed.POST("/auth/logout", h.Logout)
			authed.GET("/auth/me", h.Me)
			authed.PUT("/auth/me", h.UpdateProfile)

			authed.GET("/horses", h.ListMyHorses)
			authed.POST("/horses", h.CreateHorse)
			authed.PUT("/horses/:id", h.UpdateHorse)
			authed.DELETE("/horses/:id", h.DeleteHorse)
			authed.GET("/horses/:id/likes", h.ListLikers)
			authed.GET("/horses/:id/likes/count", h.LikedCount)

			authed.GET("/discover", h.Discover)
			authed.POST("/swipes", h.Swipe)

			authed.GET("/matches", h.ListMatches)
			authed.GET("/matches/:id/messages", h.ListMessages)
			authed.POST("/matches/:id/messages", h.SendMessage)
		}
	}

	return r
}

// Serve runs the HTTP server on the configured address.
func Serve(cfg *config.Config, h *Handler) error {
	router := NewRouter(cfg, h)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return router.Run(addr)
}
