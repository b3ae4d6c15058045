package handlers

import (
	"net/http"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"github.com/gin-gonic/gin"
)

type CoinsHandler struct {
	store database.Store
}

func NewCoinsHandler(store database.Store) *CoinsHandler {
	return &CoinsHandler{store: store}
}

// GetBalance godoc
// @Summary     Coin balance
// @Tags        coins
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.BalanceResponse
// @Router      /coins [get]
func (h *CoinsHandler) GetBalance(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	balance, err := h.store.Balance(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to get balance")
		return
	}
	c.JSON(http.StatusOK, models.BalanceResponse{Balance: balance})
}

// Spend godoc
// @Summary     Spend coins
// @Description Debits the wallet. Fails with 400 when the balance is too low; the balance never goes negative.
// @Tags        coins
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CoinsRequest true "Amount"
// @Success     200 {object} models.BalanceResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /coins/spend [post]
func (h *CoinsHandler) Spend(c *gin.Context) {
	h.adjust(c, -1)
}

// Add godoc
// @Summary     Add coins
// @Tags        coins
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CoinsRequest true "Amount"
// @Success     200 {object} models.BalanceResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /coins/add [post]
func (h *CoinsHandler) Add(c *gin.Context) {
	h.adjust(c, 1)
}

func (h *CoinsHandler) adjust(c *gin.Context, sign int) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Amount <= 0 {
		badRequest(c, "amount must be positive")
		return
	}

	balance, err := h.store.AdjustBalance(c.Request.Context(), uid, sign*req.Amount)
	if err != nil {
		respondError(c, err, "failed to update balance")
		return
	}
	c.JSON(http.StatusOK, models.BalanceResponse{Balance: balance})
}
