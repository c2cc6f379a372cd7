package persistence

import (
	"context"
	"errors"

	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBasketRepository implements BasketRepository using GORM
type GormBasketRepository struct {
	db *gorm.DB
}

// NewGormBasketRepository creates a new GormBasketRepository
func NewGormBasketRepository(db *gorm.DB) *GormBasketRepository {
	return &GormBasketRepository{db: db}
}

// FindByID finds a basket by its ID
func (r *GormBasketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Basket, error) {
	var basket ordering.Basket
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&basket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &basket, nil
}

// FindOpenByMemberAndCatalogue finds a member's open basket for a catalogue
func (r *GormBasketRepository) FindOpenByMemberAndCatalogue(ctx context.Context, memberID, catalogueID uuid.UUID) (*ordering.Basket, error) {
	var basket ordering.Basket
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("member_id = ? AND catalogue_id = ? AND status = ?",
			memberID, catalogueID, ordering.BasketStatusOpen).
		First(&basket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &basket, nil
}

// FindByMember finds all baskets belonging to a member
func (r *GormBasketRepository) FindByMember(ctx context.Context, memberID uuid.UUID, filter shared.Filter) ([]ordering.Basket, error) {
	var baskets []ordering.Basket
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Where("member_id = ?", memberID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("updated_at DESC")

	if err := query.Find(&baskets).Error; err != nil {
		return nil, err
	}
	return baskets, nil
}

// FindOpenByCatalogue finds all open baskets against a catalogue
func (r *GormBasketRepository) FindOpenByCatalogue(ctx context.Context, catalogueID uuid.UUID) ([]ordering.Basket, error) {
	var baskets []ordering.Basket
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("catalogue_id = ? AND status = ?", catalogueID, ordering.BasketStatusOpen).
		Find(&baskets).Error; err != nil {
		return nil, err
	}
	return baskets, nil
}

// Save creates or updates a basket with its lines. Lines removed from
// the aggregate are deleted.
func (r *GormBasketRepository) Save(ctx context.Context, basket *ordering.Basket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(basket).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(basket.Lines))
		for i, line := range basket.Lines {
			keep[i] = line.ID
		}
		query := tx.Where("basket_id = ?", basket.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		return query.Delete(&ordering.BasketLine{}).Error
	})
}

// Delete deletes a basket and its lines
func (r *GormBasketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ordering.BasketLine{}, "basket_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&ordering.Basket{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormBasketRepository implements BasketRepository
var _ ordering.BasketRepository = (*GormBasketRepository)(nil)
