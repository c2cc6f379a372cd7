package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogueRepository implements CatalogueRepository using GORM
type GormCatalogueRepository struct {
	db *gorm.DB
}

// NewGormCatalogueRepository creates a new GormCatalogueRepository
func NewGormCatalogueRepository(db *gorm.DB) *GormCatalogueRepository {
	return &GormCatalogueRepository{db: db}
}

// FindByID finds a catalogue by its ID with entries
func (r *GormCatalogueRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Catalogue, error) {
	var catalogue catalog.Catalogue
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&catalogue, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &catalogue, nil
}

// FindAll finds all catalogues matching the filter
func (r *GormCatalogueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Catalogue, error) {
	var catalogues []catalog.Catalogue
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Catalogue{}), filter)
	if err := query.Preload("Entries").Find(&catalogues).Error; err != nil {
		return nil, err
	}
	return catalogues, nil
}

// FindByReferent finds all catalogues owned by a referent
func (r *GormCatalogueRepository) FindByReferent(ctx context.Context, referentID uuid.UUID, filter shared.Filter) ([]catalog.Catalogue, error) {
	var catalogues []catalog.Catalogue
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Catalogue{}).Where("referent_id = ?", referentID),
		filter,
	)
	if err := query.Preload("Entries").Find(&catalogues).Error; err != nil {
		return nil, err
	}
	return catalogues, nil
}

// FindOrderable finds all catalogues open for orders at the given time
func (r *GormCatalogueRepository) FindOrderable(ctx context.Context, at time.Time) ([]catalog.Catalogue, error) {
	var catalogues []catalog.Catalogue
	if err := r.db.WithContext(ctx).
		Where("status = ? AND opens_at <= ? AND closes_at > ?", catalog.CatalogueStatusOpen, at, at).
		Order("closes_at ASC").
		Preload("Entries").
		Find(&catalogues).Error; err != nil {
		return nil, err
	}
	return catalogues, nil
}

// Save creates or updates a catalogue with its entries. Removed
// entries are deleted so the stored set mirrors the aggregate.
func (r *GormCatalogueRepository) Save(ctx context.Context, catalogue *catalog.Catalogue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(catalogue).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(catalogue.Entries))
		for i, entry := range catalogue.Entries {
			keep[i] = entry.ID
		}
		query := tx.Where("catalogue_id = ?", catalogue.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		return query.Delete(&catalog.CatalogueEntry{}).Error
	})
}

// Delete deletes a catalogue and its entries
func (r *GormCatalogueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.CatalogueEntry{}, "catalogue_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Catalogue{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts catalogues matching the filter
func (r *GormCatalogueRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearchAndFilters(r.db.WithContext(ctx).Model(&catalog.Catalogue{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCatalogueRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearchAndFilters(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, catalogueSortFields, "opens_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormCatalogueRepository) applySearchAndFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "referent_id":
			query = query.Where("referent_id = ?", value)
		}
	}
	return query
}

// Ensure GormCatalogueRepository implements CatalogueRepository
var _ catalog.CatalogueRepository = (*GormCatalogueRepository)(nil)
