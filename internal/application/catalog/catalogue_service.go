package catalog

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CatalogueService handles catalogue lifecycle operations. Mutating
// operations check that the acting referent owns the catalogue; admins
// bypass the check via the actingAsAdmin flag resolved by middleware.
type CatalogueService struct {
	catalogueRepo catalog.CatalogueRepository
	productRepo   catalog.ProductRepository
}

// NewCatalogueService creates a new CatalogueService
func NewCatalogueService(
	catalogueRepo catalog.CatalogueRepository,
	productRepo catalog.ProductRepository,
) *CatalogueService {
	return &CatalogueService{
		catalogueRepo: catalogueRepo,
		productRepo:   productRepo,
	}
}

// Actor identifies who performs a catalogue operation
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// CanManage reports whether the actor may edit the catalogue
func (a Actor) CanManage(c *catalog.Catalogue) bool {
	return a.IsAdmin || c.IsOwnedBy(a.UserID)
}

// Create creates a draft catalogue owned by the acting referent
func (s *CatalogueService) Create(ctx context.Context, actor Actor, req CreateCatalogueRequest) (*CatalogueResponse, error) {
	catalogue, err := catalog.NewCatalogue(req.Name, actor.UserID, req.OpensAt, req.ClosesAt)
	if err != nil {
		return nil, err
	}

	if err := s.catalogueRepo.Save(ctx, catalogue); err != nil {
		return nil, err
	}

	return ToCatalogueResponse(catalogue), nil
}

// GetByID retrieves a catalogue by ID
func (s *CatalogueService) GetByID(ctx context.Context, id uuid.UUID) (*CatalogueResponse, error) {
	catalogue, err := s.catalogueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCatalogueResponse(catalogue), nil
}

// List retrieves catalogues with pagination
func (s *CatalogueService) List(ctx context.Context, filter CatalogueListFilter) (*shared.Paginated[CatalogueResponse], error) {
	if filter.Orderable {
		catalogues, err := s.catalogueRepo.FindOrderable(ctx, time.Now())
		if err != nil {
			return nil, err
		}
		responses := make([]CatalogueResponse, len(catalogues))
		for i := range catalogues {
			responses[i] = *ToCatalogueResponse(&catalogues[i])
		}
		page := shared.NewPaginated(responses, int64(len(responses)), 1, max(len(responses), 1))
		return &page, nil
	}

	domainFilter := toDomainFilter("", filter.Status, filter.Page, filter.PageSize, "", "", "opens_at")

	var (
		catalogues []catalog.Catalogue
		err        error
	)
	if filter.ReferentID != nil {
		catalogues, err = s.catalogueRepo.FindByReferent(ctx, *filter.ReferentID, domainFilter)
	} else {
		catalogues, err = s.catalogueRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.catalogueRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CatalogueResponse, len(catalogues))
	for i := range catalogues {
		responses[i] = *ToCatalogueResponse(&catalogues[i])
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a draft catalogue
func (s *CatalogueService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateCatalogueRequest) (*CatalogueResponse, error) {
	catalogue, err := s.ownedCatalogue(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	name := catalogue.Name
	if req.Name != nil {
		name = *req.Name
	}
	opensAt := catalogue.OpensAt
	if req.OpensAt != nil {
		opensAt = *req.OpensAt
	}
	closesAt := catalogue.ClosesAt
	if req.ClosesAt != nil {
		closesAt = *req.ClosesAt
	}

	if err := catalogue.Update(name, opensAt, closesAt); err != nil {
		return nil, err
	}

	if err := s.catalogueRepo.Save(ctx, catalogue); err != nil {
		return nil, err
	}

	return ToCatalogueResponse(catalogue), nil
}

// AddEntry attaches a product to a draft catalogue
func (s *CatalogueService) AddEntry(ctx context.Context, actor Actor, id uuid.UUID, req AddCatalogueEntryRequest) (*CatalogueResponse, error) {
	catalogue, err := s.ownedCatalogue(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Inactive products cannot be catalogued")
	}

	var override *valueobject.Money
	if req.PriceOverride != nil {
		money := valueobject.NewMoneyEUR(*req.PriceOverride)
		override = &money
	}

	if _, err := catalogue.AddEntry(req.ProductID, override); err != nil {
		return nil, err
	}

	if err := s.catalogueRepo.Save(ctx, catalogue); err != nil {
		return nil, err
	}

	return ToCatalogueResponse(catalogue), nil
}

// RemoveEntry detaches a product from a draft catalogue
func (s *CatalogueService) RemoveEntry(ctx context.Context, actor Actor, id, productID uuid.UUID) (*CatalogueResponse, error) {
	catalogue, err := s.ownedCatalogue(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := catalogue.RemoveEntry(productID); err != nil {
		return nil, err
	}

	if err := s.catalogueRepo.Save(ctx, catalogue); err != nil {
		return nil, err
	}

	return ToCatalogueResponse(catalogue), nil
}

// Open publishes a catalogue
func (s *CatalogueService) Open(ctx context.Context, actor Actor, id uuid.UUID) (*CatalogueResponse, error) {
	return s.transition(ctx, actor, id, (*catalog.Catalogue).Open)
}

// Close ends ordering on a catalogue
func (s *CatalogueService) Close(ctx context.Context, actor Actor, id uuid.UUID) (*CatalogueResponse, error) {
	return s.transition(ctx, actor, id, (*catalog.Catalogue).Close)
}

// Delete deletes a draft catalogue
func (s *CatalogueService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	catalogue, err := s.ownedCatalogue(ctx, actor, id)
	if err != nil {
		return err
	}
	if catalogue.Status != catalog.CatalogueStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft catalogue can be deleted")
	}

	return s.catalogueRepo.Delete(ctx, id)
}

func (s *CatalogueService) transition(ctx context.Context, actor Actor, id uuid.UUID, change func(*catalog.Catalogue) error) (*CatalogueResponse, error) {
	catalogue, err := s.ownedCatalogue(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := change(catalogue); err != nil {
		return nil, err
	}
	if err := s.catalogueRepo.Save(ctx, catalogue); err != nil {
		return nil, err
	}
	return ToCatalogueResponse(catalogue), nil
}

func (s *CatalogueService) ownedCatalogue(ctx context.Context, actor Actor, id uuid.UUID) (*catalog.Catalogue, error) {
	catalogue, err := s.catalogueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(catalogue) {
		return nil, shared.ErrForbidden
	}
	return catalogue, nil
}
