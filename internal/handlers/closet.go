package handlers

import (
	"net/http"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"github.com/gin-gonic/gin"
)

type ClosetHandler struct {
	store database.Store
}

func NewClosetHandler(store database.Store) *ClosetHandler {
	return &ClosetHandler{store: store}
}

// ListItems godoc
// @Summary     List garments
// @Tags        closet
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ItemsResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /clothing-items [get]
func (h *ClosetHandler) ListItems(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	items, err := h.store.ListItems(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to list items")
		return
	}
	c.JSON(http.StatusOK, models.ItemsResponse{Items: items})
}

// MarkUnused godoc
// @Summary     Move a garment out of the closet
// @Tags        closet
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Item ID"
// @Success     200 {object} models.ClothingItem
// @Failure     404 {object} models.ErrorResponse
// @Router      /clothing-items/{id}/unused [patch]
func (h *ClosetHandler) MarkUnused(c *gin.Context) {
	h.setUnused(c, true)
}

// Restore godoc
// @Summary     Put a garment back in the closet
// @Tags        closet
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Item ID"
// @Success     200 {object} models.ClothingItem
// @Failure     404 {object} models.ErrorResponse
// @Router      /clothing-items/{id}/restore [patch]
func (h *ClosetHandler) Restore(c *gin.Context) {
	h.setUnused(c, false)
}

func (h *ClosetHandler) setUnused(c *gin.Context, unused bool) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	item, err := h.store.SetItemUnused(c.Request.Context(), uid, c.Param("id"), unused)
	if err != nil {
		respondError(c, err, "failed to update item")
		return
	}
	c.JSON(http.StatusOK, item)
}
