package handlers

import (
	"net/http"
	"strings"
	"time"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"closet-sync/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// signedURLTTL bounds how long a generated try-on link stays valid.
const signedURLTTL = time.Hour

type OutfitsHandler struct {
	store      database.Store
	images     Images
	signedURLs bool
}

func NewOutfitsHandler(store database.Store, images Images, signedURLs bool) *OutfitsHandler {
	return &OutfitsHandler{
		store:      store,
		images:     images,
		signedURLs: signedURLs,
	}
}

// ListOutfits godoc
// @Summary     List saved outfits
// @Description Returns the user's outfits, newest first.
// @Tags        outfits
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OutfitsResponse
// @Router      /outfits [get]
func (h *OutfitsHandler) ListOutfits(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	outfits, err := h.store.ListOutfits(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to list outfits")
		return
	}
	for i := range outfits {
		outfits[i] = h.present(outfits[i])
	}
	c.JSON(http.StatusOK, models.OutfitsResponse{Outfits: outfits})
}

// CreateOutfit godoc
// @Summary     Save an outfit
// @Description Stores an outfit referencing existing garments. imageKey is the storage key of the try-on image.
// @Tags        outfits
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateOutfitRequest true "Outfit"
// @Success     201 {object} models.Outfit
// @Failure     400 {object} models.ErrorResponse
// @Router      /outfits [post]
func (h *OutfitsHandler) CreateOutfit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateOutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || len(req.ClothingItemIDs) == 0 {
		badRequest(c, "title and clothingItemIds are required")
		return
	}
	for _, id := range req.ClothingItemIDs {
		if _, err := h.store.GetItem(c.Request.Context(), uid, id); err != nil {
			respondError(c, err, "unknown clothing item "+id)
			return
		}
	}

	outfit, err := h.store.CreateOutfit(c.Request.Context(), uid, models.Outfit{
		Title:           req.Title,
		ClothingItemIDs: req.ClothingItemIDs,
		ImageURL:        h.images.KeyFromURL(req.ImageKey),
		IsFavorite:      req.IsFavorite,
		IsRecurring:     req.IsRecurring,
	})
	if err != nil {
		respondError(c, err, "failed to create outfit")
		return
	}
	c.JSON(http.StatusCreated, h.present(outfit))
}

// ToggleFavorite godoc
// @Summary     Flip an outfit's favorite flag
// @Tags        outfits
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Outfit ID"
// @Success     200 {object} models.Outfit
// @Failure     404 {object} models.ErrorResponse
// @Router      /outfits/{id}/favorite [patch]
func (h *OutfitsHandler) ToggleFavorite(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	outfit, err := h.store.ToggleFavorite(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to toggle favorite")
		return
	}
	c.JSON(http.StatusOK, h.present(outfit))
}

// UpdateOutfit godoc
// @Summary     Update an outfit
// @Description Only isRecurring can be changed.
// @Tags        outfits
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Outfit ID"
// @Param       request body models.UpdateOutfitRequest true "Changes"
// @Success     200 {object} models.Outfit
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /outfits/{id} [patch]
func (h *OutfitsHandler) UpdateOutfit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.UpdateOutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.IsRecurring == nil {
		badRequest(c, "isRecurring is required")
		return
	}

	outfit, err := h.store.SetRecurring(c.Request.Context(), uid, c.Param("id"), *req.IsRecurring)
	if err != nil {
		respondError(c, err, "failed to update outfit")
		return
	}
	c.JSON(http.StatusOK, h.present(outfit))
}

// GenerateAvatar godoc
// @Summary     Generate a try-on avatar
// @Description Produces the avatar image wearing the given top and bottom and returns its URL.
// @Tags        outfits
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateAvatarRequest true "Garments"
// @Success     200 {object} models.GenerateAvatarResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /outfits/generate-avatar [post]
func (h *OutfitsHandler) GenerateAvatar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.GenerateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	want := []struct {
		id       string
		category models.Category
	}{{req.TopID, models.CategoryTop}, {req.BottomID, models.CategoryBottom}}
	for _, w := range want {
		id, category := w.id, w.category
		if id == "" {
			badRequest(c, "topId and bottomId are required")
			return
		}
		item, err := h.store.GetItem(c.Request.Context(), uid, id)
		if err != nil {
			respondError(c, err, "unknown clothing item "+id)
			return
		}
		if item.Category != category {
			badRequest(c, id+" is not a "+string(category))
			return
		}
	}

	key := supabase.GeneratedKey(uid, uuid.NewString())
	url := h.images.PublicURL(key)
	if signer, ok := h.images.(Signer); ok && h.signedURLs {
		signed, err := signer.SignedURL(key, signedURLTTL)
		if err != nil {
			respondError(c, err, "failed to sign avatar url")
			return
		}
		url = signed
	}
	c.JSON(http.StatusOK, models.GenerateAvatarResponse{GeneratedAvatarURL: url})
}

// present turns the stored image key into a URL.
func (h *OutfitsHandler) present(o models.Outfit) models.Outfit {
	if o.ImageURL != "" {
		o.ImageURL = h.images.PublicURL(o.ImageURL)
	}
	return o
}
