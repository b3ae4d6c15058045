package handlers

import (
	"closet-sync/internal/config"
	"closet-sync/internal/database"
	"closet-sync/internal/logger"
	"closet-sync/internal/middleware"
	"closet-sync/internal/services"
	"closet-sync/internal/stylist"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Config    *config.Config
	Store     database.Store
	Ingestion *services.Ingestion
	Replier   stylist.Replier
	Images    Images
	Log       *zap.Logger
}

// NewRouter wires every route of the backend.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	images := d.Images
	if images == nil {
		images = LocalImages{BaseURL: "http://localhost:" + cfg.Port}
	}

	uploadHandler := NewUploadHandler(d.Store, d.Ingestion, cfg.MinimumItems)
	closetHandler := NewClosetHandler(d.Store)
	coinsHandler := NewCoinsHandler(d.Store)
	outfitsHandler := NewOutfitsHandler(d.Store, images, cfg.SupabaseSignedURLs)
	profilesHandler := NewProfilesHandler(d.Store)
	chatHandler := NewChatHandler(d.Store, d.Replier)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.OrNop(d.Log)))

	// Health check (no auth)
	router.GET("/health", HealthHandler)

	if cfg.Environment != "production" {
		router.POST("/api/v1/dev/token", NewDevHandler(cfg.SupabaseJWTSecret).IssueToken)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	api.Use(ensureUser(d.Store, cfg.StartingCoins))

	api.GET("/upload-count", uploadHandler.UploadCount)
	api.GET("/clothing-items", closetHandler.ListItems)
	api.POST("/clothing-items", uploadHandler.RegisterItem)
	api.PATCH("/clothing-items/:id/unused", closetHandler.MarkUnused)
	api.PATCH("/clothing-items/:id/restore", closetHandler.Restore)

	api.GET("/coins", coinsHandler.GetBalance)
	api.POST("/coins/spend", coinsHandler.Spend)
	api.POST("/coins/add", coinsHandler.Add)

	api.GET("/outfits", outfitsHandler.ListOutfits)
	api.POST("/outfits", outfitsHandler.CreateOutfit)
	api.POST("/outfits/generate-avatar", outfitsHandler.GenerateAvatar)
	api.PATCH("/outfits/:id/favorite", outfitsHandler.ToggleFavorite)
	api.PATCH("/outfits/:id", outfitsHandler.UpdateOutfit)

	api.GET("/profile", profilesHandler.GetProfile)

	api.GET("/chat/sessions", chatHandler.ListSessions)
	api.POST("/chat/sessions", chatHandler.CreateSession)
	api.GET("/chat/sessions/:id", chatHandler.GetSession)
	api.PATCH("/chat/sessions/:id", chatHandler.RenameSession)
	api.DELETE("/chat/sessions/:id", chatHandler.DeleteSession)
	api.POST("/chat/sessions/:id/messages", chatHandler.SendMessage)

	return router
}

// ensureUser creates the profile and wallet on a user's first request.
func ensureUser(store database.Store, startingCoins int) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			c.Abort()
			return
		}
		if err := store.EnsureUser(c.Request.Context(), uid, startingCoins); err != nil {
			respondError(c, err, "failed to load user")
			c.Abort()
			return
		}
		c.Next()
	}
}
