package handler

import (
	"context"

	catalogapp "github.com/epicoop/backend/internal/application/catalog"
	"github.com/epicoop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// catalogueTransition is a status change scoped to the acting referent
type catalogueTransition func(context.Context, catalogapp.Actor, uuid.UUID) (*catalogapp.CatalogueResponse, error)

// CatalogueHandler handles order catalogue API endpoints. Referents
// only manage their own catalogues; admins manage all of them.
type CatalogueHandler struct {
	BaseHandler
	catalogueService *catalogapp.CatalogueService
}

// NewCatalogueHandler creates a new CatalogueHandler
func NewCatalogueHandler(catalogueService *catalogapp.CatalogueService) *CatalogueHandler {
	return &CatalogueHandler{catalogueService: catalogueService}
}

// entryIDRequest carries catalogue and product IDs from the path
type entryIDRequest struct {
	ID        string `uri:"id" binding:"required,uuid"`
	ProductID string `uri:"product_id" binding:"required,uuid"`
}

func (h *CatalogueHandler) actor(c *gin.Context) (catalogapp.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return catalogapp.Actor{}, false
	}
	return catalogapp.Actor{UserID: userID, IsAdmin: isAdmin(c)}, true
}

// Create creates a draft catalogue owned by the acting referent
func (h *CatalogueHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req catalogapp.CreateCatalogueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	catalogue, err := h.catalogueService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, catalogue)
}

// GetByID retrieves a catalogue with its entries
func (h *CatalogueHandler) GetByID(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid catalogue ID")
		return
	}

	catalogue, err := h.catalogueService.GetByID(c.Request.Context(), uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, catalogue)
}

// List lists catalogues with pagination and filters
func (h *CatalogueHandler) List(c *gin.Context) {
	var filter catalogapp.CatalogueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.catalogueService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a draft catalogue
func (h *CatalogueHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid catalogue ID")
		return
	}

	var req catalogapp.UpdateCatalogueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	catalogue, err := h.catalogueService.Update(c.Request.Context(), actor, uri.UUID(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, catalogue)
}

// AddEntry attaches a product to a draft catalogue
func (h *CatalogueHandler) AddEntry(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid catalogue ID")
		return
	}

	var req catalogapp.AddCatalogueEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	catalogue, err := h.catalogueService.AddEntry(c.Request.Context(), actor, uri.UUID(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, catalogue)
}

// RemoveEntry detaches a product from a draft catalogue
func (h *CatalogueHandler) RemoveEntry(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri entryIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid catalogue or product ID")
		return
	}

	catalogue, err := h.catalogueService.RemoveEntry(c.Request.Context(), actor, mustUUID(uri.ID), mustUUID(uri.ProductID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, catalogue)
}

// Open opens the catalogue for member orders
func (h *CatalogueHandler) Open(c *gin.Context) {
	h.transition(c, h.catalogueService.Open)
}

// Close closes the catalogue and freezes its baskets
func (h *CatalogueHandler) Close(c *gin.Context) {
	h.transition(c, h.catalogueService.Close)
}

// Delete deletes a draft catalogue
func (h *CatalogueHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid catalogue ID")
		return
	}

	if err := h.catalogueService.Delete(c.Request.Context(), actor, uri.UUID()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CatalogueHandler) transition(c *gin.Context, change catalogueTransition) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid catalogue ID")
		return
	}

	catalogue, err := change(c.Request.Context(), actor, uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, catalogue)
}
