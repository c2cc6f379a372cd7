package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	orderingapp "github.com/epicoop/backend/internal/application/ordering"
	"github.com/epicoop/backend/internal/infrastructure/export"
	"github.com/epicoop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles member order API endpoints. Members see their
// own orders; referents see orders against their catalogues; admins
// see everything.
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) actor(c *gin.Context) (orderingapp.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return orderingapp.Actor{}, false
	}
	return orderingapp.Actor{UserID: userID, IsAdmin: isAdmin(c)}, true
}

// Place converts the member's basket into a frozen order
func (h *OrderHandler) Place(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderingapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Place(c.Request.Context(), memberID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetMine retrieves one of the member's own orders
func (h *OrderHandler) GetMine(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetForMember(c.Request.Context(), memberID, uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListMine lists the member's own orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	memberID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.ListForMember(c.Request.Context(), memberID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// List lists orders for preparation. Referents must filter by one of
// their catalogues; only admins list across catalogues.
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Export downloads the matching orders as a CSV file. The encoding
// query parameter switches between utf-8 and windows-1252 output.
func (h *OrderHandler) Export(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	enc, ok := export.ParseEncoding(c.Query("encoding"))
	if !ok {
		h.BadRequest(c, "Unsupported encoding")
		return
	}

	orders, err := h.orderService.Export(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("commandes_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", export.ContentTypeFor(enc))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Status(http.StatusOK)

	if err := export.WriteOrders(c.Writer, enc, orders); err != nil {
		// Headers are already out; nothing sane to send back.
		_ = c.Error(err)
	}
}

// MarkPrepared records that the order's goods are set aside
func (h *OrderHandler) MarkPrepared(c *gin.Context) {
	h.transition(c, h.orderService.MarkPrepared)
}

// MarkDelivered records that the member picked the order up
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.orderService.MarkDelivered)
}

// Cancel cancels an order with a reason
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), actor, uri.UUID(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

func (h *OrderHandler) transition(c *gin.Context, change func(context.Context, orderingapp.Actor, uuid.UUID) (*orderingapp.OrderResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := change(c.Request.Context(), actor, uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
