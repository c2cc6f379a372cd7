package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM. Sales are
// append-only; Save is only ever called with a freshly recorded sale
// or to flag the receipt as sent.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*caisse.Sale, error) {
	var sale caisse.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*caisse.Sale, error) {
	var sale caisse.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		Where("number = ?", number).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]caisse.Sale, error) {
	var sales []caisse.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&caisse.Sale{}).
			Preload("Lines").
			Preload("Payments"),
		filter,
	)
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindBetween finds all sales recorded in [from, to)
func (r *GormSaleRepository) FindBetween(ctx context.Context, from, to time.Time) ([]caisse.Sale, error) {
	var sales []caisse.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Order("sold_at ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Save creates or updates a sale with its lines and payments
func (r *GormSaleRepository) Save(ctx context.Context, sale *caisse.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearchAndFilters(r.db.WithContext(ctx).Model(&caisse.Sale{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextNumber reserves the next sale number for the business day of soldAt.
// Format: V-YYYYMMDD-NNNN (e.g., V-20260829-0001)
func (r *GormSaleRepository) NextNumber(ctx context.Context, soldAt time.Time) (string, error) {
	prefix := fmt.Sprintf("V-%s-", soldAt.Format("20060102"))

	var lastSale caisse.Sale
	err := r.db.WithContext(ctx).
		Model(&caisse.Sale{}).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&lastSale).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastSale.Number != "" {
		parts := strings.Split(lastSale.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%04d", prefix, nextNum)

	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&caisse.Sale{}).
			Where("number = ?", number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			break
		}
		nextNum++
		number = fmt.Sprintf("%s%04d", prefix, nextNum)
	}

	return number, nil
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearchAndFilters(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, saleSortFields, "sold_at")
	orderDir := filter.OrderDir
	if filter.OrderBy == "" && orderDir == "" {
		orderDir = "desc"
	}
	query = query.Order(orderBy + " " + ValidateSortOrder(orderDir))

	return query
}

func (r *GormSaleRepository) applySearchAndFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "cashier_id":
			query = query.Where("cashier_id = ?", value)
		case "member_id":
			query = query.Where("member_id = ?", value)
		}
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ caisse.SaleRepository = (*GormSaleRepository)(nil)
