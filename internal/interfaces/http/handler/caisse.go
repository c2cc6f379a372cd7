package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	caisseapp "github.com/epicoop/backend/internal/application/caisse"
	"github.com/epicoop/backend/internal/infrastructure/export"
	"github.com/epicoop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaisseHandler handles the point of sale endpoints. Every cart
// operation acts on the authenticated cashier's own live cart and
// returns the full recomputed cart state.
type CaisseHandler struct {
	BaseHandler
	cartService     *caisseapp.CartService
	draftService    *caisseapp.DraftService
	checkoutService *caisseapp.CheckoutService
}

// NewCaisseHandler creates a new CaisseHandler
func NewCaisseHandler(
	cartService *caisseapp.CartService,
	draftService *caisseapp.DraftService,
	checkoutService *caisseapp.CheckoutService,
) *CaisseHandler {
	return &CaisseHandler{
		cartService:     cartService,
		draftService:    draftService,
		checkoutService: checkoutService,
	}
}

// draftIDRequest carries a draft ID path parameter
type draftIDRequest struct {
	ID string `uri:"id" binding:"required,max=50"`
}

func (h *CaisseHandler) cashierID(c *gin.Context) (uuid.UUID, bool) {
	cashierID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return cashierID, true
}

// lineIndex parses the :index path parameter
func (h *CaisseHandler) lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.BadRequest(c, "Invalid line index")
		return 0, false
	}
	return index, true
}

// GetCart returns the cashier's live cart
func (h *CaisseHandler) GetCart(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), cashierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// SetMember attaches or detaches the member buying at the caisse
func (h *CaisseHandler) SetMember(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.SetMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.SetMember(c.Request.Context(), cashierID, req.MemberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddProduct adds one unit of a product to the cart
func (h *CaisseHandler) AddProduct(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddProduct(c.Request.Context(), cashierID, req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddByBarcode adds a product to the cart from a scanned barcode
func (h *CaisseHandler) AddByBarcode(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.AddByBarcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddByBarcode(c.Request.Context(), cashierID, req.Barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// SetQuantity changes the quantity of a cart line
func (h *CaisseHandler) SetQuantity(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	var req caisseapp.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), cashierID, index, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveLine removes a cart line
func (h *CaisseHandler) RemoveLine(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveLine(c.Request.Context(), cashierID, index)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddRefund adds a negative avoir line to the cart
func (h *CaisseHandler) AddRefund(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.AddRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddRefund(c.Request.Context(), cashierID, req.Amount, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddMembershipFee adds an adhesion line to the cart
func (h *CaisseHandler) AddMembershipFee(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.AddMembershipFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddMembershipFee(c.Request.Context(), cashierID, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddPaymentLine appends an empty payment entry to the cart
func (h *CaisseHandler) AddPaymentLine(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.AddPaymentLine(c.Request.Context(), cashierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// SetPayment fills one payment entry with a method and amount
func (h *CaisseHandler) SetPayment(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	var req caisseapp.SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.SetPayment(c.Request.Context(), cashierID, index, req.Method, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemovePayment removes one payment entry
func (h *CaisseHandler) RemovePayment(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemovePayment(c.Request.Context(), cashierID, index)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// ClearCart empties the cashier's live cart
func (h *CaisseHandler) ClearCart(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), cashierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// ListDrafts lists parked tickets, most recently saved first
func (h *CaisseHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.draftService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drafts)
}

// SaveDraft parks a copy of the cashier's live cart under a ticket id.
// The live cart stays as it is; the cashier keeps serving from it.
func (h *CaisseHandler) SaveDraft(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	draft, err := h.draftService.Save(c.Request.Context(), cashierID, req.DraftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, draft)
}

// LoadDraft restores a parked ticket into the cashier's live cart
func (h *CaisseHandler) LoadDraft(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var uri draftIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid draft ID")
		return
	}

	cart, err := h.draftService.Load(c.Request.Context(), cashierID, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// DeleteDraft discards a parked ticket
func (h *CaisseHandler) DeleteDraft(c *gin.Context) {
	var uri draftIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid draft ID")
		return
	}

	if err := h.draftService.Delete(c.Request.Context(), uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Checkout freezes the live cart into a recorded sale
func (h *CaisseHandler) Checkout(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req caisseapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.checkoutService.ValidateSale(c.Request.Context(), cashierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetSale returns one recorded sale
func (h *CaisseHandler) GetSale(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.checkoutService.GetSale(c.Request.Context(), uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListSales returns the sales journal, optionally bounded by dates
func (h *CaisseHandler) ListSales(c *gin.Context) {
	var filter caisseapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkoutService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ExportSales downloads the sales journal as a CSV file. Without
// explicit bounds the export covers the last month.
func (h *CaisseHandler) ExportSales(c *gin.Context) {
	var filter caisseapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	enc, ok := export.ParseEncoding(c.Query("encoding"))
	if !ok {
		h.BadRequest(c, "Unsupported encoding")
		return
	}

	to := time.Now()
	if filter.To != nil {
		// The upper bound day is included in the export.
		to = filter.To.AddDate(0, 0, 1)
	}
	from := to.AddDate(0, -1, 0)
	if filter.From != nil {
		from = *filter.From
	}

	sales, err := h.checkoutService.ExportSales(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("ventes_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", export.ContentTypeFor(enc))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Status(http.StatusOK)

	if err := export.WriteSales(c.Writer, enc, sales); err != nil {
		_ = c.Error(err)
	}
}
