package catalog

import (
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   *int   `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code       string           `json:"code" binding:"required,min=1,max=50"`
	Name       string           `json:"name" binding:"required,min=1,max=200"`
	Unit       string           `json:"unit" binding:"required,min=1,max=20"`
	Barcode    string           `json:"barcode" binding:"max=50"`
	CategoryID *uuid.UUID       `json:"category_id"`
	SupplierID *uuid.UUID       `json:"supplier_id"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Increment  *decimal.Decimal `json:"increment"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Barcode    *string          `json:"barcode" binding:"omitempty,max=50"`
	CategoryID *uuid.UUID       `json:"category_id"`
	SupplierID *uuid.UUID       `json:"supplier_id"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Increment  *decimal.Decimal `json:"increment"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Barcode    string          `json:"barcode"`
	CategoryID *uuid.UUID      `json:"category_id"`
	SupplierID *uuid.UUID      `json:"supplier_id"`
	Unit       string          `json:"unit"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Increment  decimal.Decimal `json:"increment"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
	CategoryID *uuid.UUID `form:"category_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		Barcode:    p.Barcode,
		CategoryID: p.CategoryID,
		SupplierID: p.SupplierID,
		Unit:       p.Unit,
		UnitPrice:  p.UnitPrice,
		Increment:  p.Increment,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Version:    p.Version,
	}
}

// CreateCatalogueRequest represents a request to create a catalogue
type CreateCatalogueRequest struct {
	Name    string    `json:"name" binding:"required,min=1,max=200"`
	OpensAt time.Time `json:"opens_at" binding:"required"`
	ClosesAt time.Time `json:"closes_at" binding:"required"`
}

// UpdateCatalogueRequest represents a request to update a draft catalogue
type UpdateCatalogueRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=1,max=200"`
	OpensAt  *time.Time `json:"opens_at"`
	ClosesAt *time.Time `json:"closes_at"`
}

// AddCatalogueEntryRequest attaches a product to a draft catalogue
type AddCatalogueEntryRequest struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	PriceOverride *decimal.Decimal `json:"price_override"`
}

// CatalogueEntryResponse represents a catalogue entry in API responses
type CatalogueEntryResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	SortOrder     int              `json:"sort_order"`
}

// CatalogueResponse represents a catalogue in API responses
type CatalogueResponse struct {
	ID         uuid.UUID                `json:"id"`
	Name       string                   `json:"name"`
	ReferentID uuid.UUID                `json:"referent_id"`
	OpensAt    time.Time                `json:"opens_at"`
	ClosesAt   time.Time                `json:"closes_at"`
	Status     string                   `json:"status"`
	Entries    []CatalogueEntryResponse `json:"entries"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
	Version    int                      `json:"version"`
}

// CatalogueListFilter represents filter options for catalogue list
type CatalogueListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=draft open closed"`
	ReferentID *uuid.UUID `form:"referent_id"`
	Orderable  bool       `form:"orderable"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCatalogueResponse converts a domain Catalogue to CatalogueResponse
func ToCatalogueResponse(c *catalog.Catalogue) *CatalogueResponse {
	entries := make([]CatalogueEntryResponse, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = CatalogueEntryResponse{
			ID:            e.ID,
			ProductID:     e.ProductID,
			PriceOverride: e.PriceOver,
			SortOrder:     e.SortOrder,
		}
	}

	return &CatalogueResponse{
		ID:         c.ID,
		Name:       c.Name,
		ReferentID: c.ReferentID,
		OpensAt:    c.OpensAt,
		ClosesAt:   c.ClosesAt,
		Status:     string(c.Status),
		Entries:    entries,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}
