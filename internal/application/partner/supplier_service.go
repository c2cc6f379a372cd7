package partner

import (
	"context"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/partner"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := supplier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.PostalCode != "" {
		if err := supplier.SetAddress(req.Address, req.City, req.PostalCode); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	return ToSupplierResponse(supplier), nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// List retrieves suppliers with pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = "asc"
		if filter.OrderDir == "desc" {
			domainFilter.OrderDir = "desc"
		}
	} else {
		domainFilter.OrderBy = "name"
		domainFilter.OrderDir = "asc"
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = *ToSupplierResponse(&suppliers[i])
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := supplier.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contact := supplier.ContactName
		if req.ContactName != nil {
			contact = *req.ContactName
		}
		phone := supplier.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		email := supplier.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := supplier.SetContact(contact, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.City != nil || req.PostalCode != nil {
		address := supplier.Address
		if req.Address != nil {
			address = *req.Address
		}
		city := supplier.City
		if req.City != nil {
			city = *req.City
		}
		postal := supplier.PostalCode
		if req.PostalCode != nil {
			postal = *req.PostalCode
		}
		if err := supplier.SetAddress(address, city, postal); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	return ToSupplierResponse(supplier), nil
}

// Merge folds the source supplier into the target: every product of the
// source is reassigned, the source is deactivated and marked merged.
// Merging a supplier into itself is refused.
func (s *SupplierService) Merge(ctx context.Context, sourceID, targetID uuid.UUID) (*SupplierResponse, error) {
	if sourceID == targetID {
		return nil, shared.NewDomainError("SELF_MERGE", "A supplier cannot be merged into itself")
	}

	source, err := s.supplierRepo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.supplierRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsMerged() {
		return nil, shared.NewDomainError("INVALID_TARGET", "Cannot merge into a supplier that was itself merged")
	}

	if err := source.MergeInto(target.ID); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	products, err := s.productRepo.FindBySupplier(ctx, sourceID, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		tid := target.ID
		products[i].SetSupplier(&tid)
		if err := s.productRepo.Save(ctx, &products[i]); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, source); err != nil {
		return nil, err
	}

	s.logger.Info("supplier merged",
		zap.String("source", source.Code),
		zap.String("target", target.Code),
		zap.Int("products_moved", len(products)))

	return ToSupplierResponse(target), nil
}

// Activate activates a supplier
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Supplier).Activate)
}

// Deactivate deactivates a supplier
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Supplier).Deactivate)
}

// Delete deletes a supplier; suppliers still carrying products are kept
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("SUPPLIER_IN_USE", "Supplier still has products assigned")
	}

	return s.supplierRepo.Delete(ctx, id)
}

func (s *SupplierService) changeStatus(ctx context.Context, id uuid.UUID, change func(*partner.Supplier) error) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(supplier); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}
