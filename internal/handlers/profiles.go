package handlers

import (
	"net/http"

	"closet-sync/internal/database"
	"github.com/gin-gonic/gin"
)

type ProfilesHandler struct {
	store database.Store
}

func NewProfilesHandler(store database.Store) *ProfilesHandler {
	return &ProfilesHandler{store: store}
}

// GetProfile godoc
// @Summary     Current user's profile
// @Description Returns the durable avatar of the signed-in user.
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.Profile
// @Failure     401 {object} models.ErrorResponse
// @Router      /profile [get]
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	profile, err := h.store.Profile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to get profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
