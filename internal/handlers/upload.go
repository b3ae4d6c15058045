package handlers

import (
	"net/http"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"closet-sync/internal/services"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	store        database.Store
	ingestion    *services.Ingestion
	minimumItems int
}

func NewUploadHandler(store database.Store, ingestion *services.Ingestion, minimumItems int) *UploadHandler {
	return &UploadHandler{
		store:        store,
		ingestion:    ingestion,
		minimumItems: minimumItems,
	}
}

// RegisterItem godoc
// @Summary     Register an uploaded garment
// @Description Records a garment whose images were uploaded to storage and queues it for ingestion.
// @Description The item counts towards upload-count once ingestion has labeled it.
// @Tags        closet
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RegisterItemRequest true "Garment"
// @Success     201 {object} models.ClothingItem
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /clothing-items [post]
func (h *UploadHandler) RegisterItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !req.Category.Valid() {
		badRequest(c, "category must be top, bottom or shoes")
		return
	}

	item, err := h.store.CreateItem(c.Request.Context(), uid, models.ClothingItem{
		Category:  req.Category,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		respondError(c, err, "failed to register item")
		return
	}

	if h.ingestion != nil {
		h.ingestion.Enqueue(uid, item)
	}
	c.JSON(http.StatusCreated, item)
}

// UploadCount godoc
// @Summary     Ingestion progress
// @Description Returns how many uploaded garments finished ingestion and whether the onboarding minimum is met.
// @Tags        closet
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UploadProgress
// @Failure     401 {object} models.ErrorResponse
// @Router      /upload-count [get]
func (h *UploadHandler) UploadCount(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	count, err := h.store.CountLabeledItems(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to count items")
		return
	}
	c.JSON(http.StatusOK, models.UploadProgress{
		Count:         count,
		HasMetMinimum: count >= h.minimumItems,
	})
}
