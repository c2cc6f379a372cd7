package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type fakeBasketRepo struct {
	baskets map[uuid.UUID]*ordering.Basket
}

func newFakeBasketRepo() *fakeBasketRepo {
	return &fakeBasketRepo{baskets: make(map[uuid.UUID]*ordering.Basket)}
}

func (r *fakeBasketRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Basket, error) {
	if basket, ok := r.baskets[id]; ok {
		return basket, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBasketRepo) FindOpenByMemberAndCatalogue(_ context.Context, memberID, catalogueID uuid.UUID) (*ordering.Basket, error) {
	for _, basket := range r.baskets {
		if basket.MemberID == memberID && basket.CatalogueID == catalogueID && basket.Status == ordering.BasketStatusOpen {
			return basket, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBasketRepo) FindByMember(_ context.Context, memberID uuid.UUID, _ shared.Filter) ([]ordering.Basket, error) {
	var out []ordering.Basket
	for _, basket := range r.baskets {
		if basket.MemberID == memberID {
			out = append(out, *basket)
		}
	}
	return out, nil
}

func (r *fakeBasketRepo) FindOpenByCatalogue(_ context.Context, catalogueID uuid.UUID) ([]ordering.Basket, error) {
	var out []ordering.Basket
	for _, basket := range r.baskets {
		if basket.CatalogueID == catalogueID && basket.Status == ordering.BasketStatusOpen {
			out = append(out, *basket)
		}
	}
	return out, nil
}

func (r *fakeBasketRepo) Save(_ context.Context, basket *ordering.Basket) error {
	r.baskets[basket.ID] = basket
	return nil
}

func (r *fakeBasketRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.baskets, id)
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*ordering.Order
	seq    int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*ordering.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	if order, ok := r.orders[id]; ok {
		return order, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, number string) (*ordering.Order, error) {
	for _, order := range r.orders {
		if order.Number == number {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]ordering.Order, error) {
	out := make([]ordering.Order, 0, len(r.orders))
	for _, order := range r.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByMember(_ context.Context, memberID uuid.UUID, _ shared.Filter) ([]ordering.Order, error) {
	var out []ordering.Order
	for _, order := range r.orders {
		if order.MemberID == memberID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByCatalogue(_ context.Context, catalogueID uuid.UUID, _ shared.Filter) ([]ordering.Order, error) {
	var out []ordering.Order
	for _, order := range r.orders {
		if order.CatalogueID == catalogueID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *ordering.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) NextNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("C-%s-%04d", time.Now().Format("20060102"), r.seq), nil
}

type fakeCatalogueRepo struct {
	catalogues map[uuid.UUID]*catalog.Catalogue
}

func newFakeCatalogueRepo() *fakeCatalogueRepo {
	return &fakeCatalogueRepo{catalogues: make(map[uuid.UUID]*catalog.Catalogue)}
}

func (r *fakeCatalogueRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Catalogue, error) {
	if catalogue, ok := r.catalogues[id]; ok {
		return catalogue, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCatalogueRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Catalogue, error) {
	out := make([]catalog.Catalogue, 0, len(r.catalogues))
	for _, catalogue := range r.catalogues {
		out = append(out, *catalogue)
	}
	return out, nil
}

func (r *fakeCatalogueRepo) FindByReferent(_ context.Context, referentID uuid.UUID, _ shared.Filter) ([]catalog.Catalogue, error) {
	var out []catalog.Catalogue
	for _, catalogue := range r.catalogues {
		if catalogue.ReferentID == referentID {
			out = append(out, *catalogue)
		}
	}
	return out, nil
}

func (r *fakeCatalogueRepo) FindOrderable(_ context.Context, at time.Time) ([]catalog.Catalogue, error) {
	var out []catalog.Catalogue
	for _, catalogue := range r.catalogues {
		if catalogue.IsOrderable(at) {
			out = append(out, *catalogue)
		}
	}
	return out, nil
}

func (r *fakeCatalogueRepo) Save(_ context.Context, catalogue *catalog.Catalogue) error {
	r.catalogues[catalogue.ID] = catalogue
	return nil
}

func (r *fakeCatalogueRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.catalogues, id)
	return nil
}

func (r *fakeCatalogueRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.catalogues)), nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.Code == code {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, barcode string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.Barcode == barcode {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, *product)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByCategory(_ context.Context, categoryID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, product := range r.products {
		if product.CategoryID != nil && *product.CategoryID == categoryID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindBySupplier(_ context.Context, supplierID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, product := range r.products {
		if product.SupplierID != nil && *product.SupplierID == supplierID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindActive(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, product := range r.products {
		if product.IsActive() {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, product := range r.products {
		if product.CategoryID != nil && *product.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	for _, product := range r.products {
		if product.SupplierID != nil && *product.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, product := range r.products {
		if product.Code == code {
			return true, nil
		}
	}
	return false, nil
}
