package handlers

import (
	"net/http"
	"strings"
	"time"

	"closet-sync/internal/middleware"
	"closet-sync/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const devTokenTTL = 24 * time.Hour

type DevHandler struct {
	jwtSecret string
}

func NewDevHandler(jwtSecret string) *DevHandler {
	return &DevHandler{jwtSecret: jwtSecret}
}

// IssueToken godoc
// @Summary     Mint a development token
// @Description Signs an access token for the given user id with the server's JWT secret. A random id is used when none is given. Not available in production.
// @Tags        dev
// @Accept      json
// @Produce     json
// @Param       request body models.DevTokenRequest false "User"
// @Success     200 {object} models.DevTokenResponse
// @Router      /dev/token [post]
func (h *DevHandler) IssueToken(c *gin.Context) {
	var req models.DevTokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	uid := strings.TrimSpace(req.UserID)
	if uid == "" {
		uid = uuid.NewString()
	}

	token, err := middleware.IssueToken(h.jwtSecret, uid, devTokenTTL)
	if err != nil {
		respondError(c, err, "failed to issue token")
		return
	}
	c.JSON(http.StatusOK, models.DevTokenResponse{Token: token})
}
