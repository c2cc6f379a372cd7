package handler

import (
	orderingapp "github.com/epicoop/backend/internal/application/ordering"
	"github.com/epicoop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BasketHandler handles the member's live basket against an open
// catalogue. All operations act on the authenticated member's own
// baskets.
type BasketHandler struct {
	BaseHandler
	basketService *orderingapp.BasketService
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(basketService *orderingapp.BasketService) *BasketHandler {
	return &BasketHandler{basketService: basketService}
}

// OpenBasketRequest opens or resumes the basket for a catalogue
type OpenBasketRequest struct {
	CatalogueID uuid.UUID `json:"catalogue_id" binding:"required"`
}

// basketLineRequest carries basket and product IDs from the path
type basketLineRequest struct {
	ID        string `uri:"id" binding:"required,uuid"`
	ProductID string `uri:"product_id" binding:"required,uuid"`
}

// Open returns the member's open basket for the catalogue, creating
// it on first use
func (h *BasketHandler) Open(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req OpenBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	basket, err := h.basketService.GetOrCreate(c.Request.Context(), memberID, req.CatalogueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// Get retrieves one of the member's baskets
func (h *BasketHandler) Get(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid basket ID")
		return
	}

	basket, err := h.basketService.Get(c.Request.Context(), memberID, uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// SetLine sets a product quantity in the basket. A zero quantity
// removes the line.
func (h *BasketHandler) SetLine(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid basket ID")
		return
	}

	var req orderingapp.SetBasketLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	basket, err := h.basketService.SetLine(c.Request.Context(), memberID, uri.UUID(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// RemoveLine removes a product from the basket
func (h *BasketHandler) RemoveLine(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri basketLineRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid basket or product ID")
		return
	}

	basket, err := h.basketService.RemoveLine(c.Request.Context(), memberID, mustUUID(uri.ID), mustUUID(uri.ProductID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// Abandon discards the member's open basket
func (h *BasketHandler) Abandon(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid basket ID")
		return
	}

	if err := h.basketService.Abandon(c.Request.Context(), memberID, uri.UUID()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
