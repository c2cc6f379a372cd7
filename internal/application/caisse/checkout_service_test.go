package caisse

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCartStore struct {
	carts map[uuid.UUID]*caisse.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[uuid.UUID]*caisse.Cart)}
}

func (s *fakeCartStore) Get(_ context.Context, cashierID uuid.UUID) (*caisse.Cart, error) {
	if cart, ok := s.carts[cashierID]; ok {
		return cart, nil
	}
	return caisse.NewCart(), nil
}

func (s *fakeCartStore) Save(_ context.Context, cashierID uuid.UUID, cart *caisse.Cart) error {
	s.carts[cashierID] = cart
	return nil
}

func (s *fakeCartStore) Delete(_ context.Context, cashierID uuid.UUID) error {
	delete(s.carts, cashierID)
	return nil
}

type fakeDraftStore struct {
	drafts map[string]caisse.CartDraft
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]caisse.CartDraft)}
}

func (s *fakeDraftStore) List(_ context.Context) ([]caisse.CartDraft, error) {
	out := make([]caisse.CartDraft, 0, len(s.drafts))
	for _, d := range s.drafts {
		out = append(out, d)
	}
	return out, nil
}

func (s *fakeDraftStore) Get(_ context.Context, id string) (*caisse.CartDraft, error) {
	if d, ok := s.drafts[id]; ok {
		return &d, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakeDraftStore) Save(_ context.Context, draft *caisse.CartDraft) error {
	s.drafts[draft.ID] = *draft
	return nil
}

func (s *fakeDraftStore) Delete(_ context.Context, id string) error {
	delete(s.drafts, id)
	return nil
}

type fakeSaleRepo struct {
	sales   []caisse.Sale
	seq     int
	saveErr error
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*caisse.Sale, error) {
	for i := range r.sales {
		if r.sales[i].ID == id {
			return &r.sales[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) FindByNumber(_ context.Context, number string) (*caisse.Sale, error) {
	for i := range r.sales {
		if r.sales[i].Number == number {
			return &r.sales[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]caisse.Sale, error) {
	return r.sales, nil
}

func (r *fakeSaleRepo) FindBetween(_ context.Context, from, to time.Time) ([]caisse.Sale, error) {
	out := make([]caisse.Sale, 0)
	for _, s := range r.sales {
		if !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Save(_ context.Context, sale *caisse.Sale) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	for i := range r.sales {
		if r.sales[i].ID == sale.ID {
			r.sales[i] = *sale
			return nil
		}
	}
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *fakeSaleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.sales)), nil
}

func (r *fakeSaleRepo) NextNumber(_ context.Context, soldAt time.Time) (string, error) {
	r.seq++
	return fmt.Sprintf("V-%s-%04d", soldAt.Format("20060102"), r.seq), nil
}

type fakeMailer struct {
	sent []string
	fail bool
}

func (m *fakeMailer) SendReceipt(_ context.Context, to string, _ *caisse.Sale) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func checkoutFixture(t *testing.T) (*CheckoutService, *fakeCartStore, *fakeDraftStore, *fakeSaleRepo, *fakeMailer, uuid.UUID) {
	t.Helper()
	carts := newFakeCartStore()
	drafts := newFakeDraftStore()
	repo := &fakeSaleRepo{}
	mailer := &fakeMailer{}
	svc := NewCheckoutService(repo, carts, drafts, mailer, zap.NewNop())

	cashierID := uuid.New()
	cart := caisse.NewCart()
	_, err := cart.AddProduct(caisse.ProductRef{
		ID:        uuid.New(),
		Label:     "Lentilles vertes",
		UnitPrice: decimal.NewFromFloat(3.40),
		Unit:      "kg",
		Increment: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	cart.AddPaymentLine()
	require.NoError(t, cart.SetPayment(0, caisse.PaymentCard, decimal.NewFromFloat(3.40)))
	require.NoError(t, carts.Save(context.Background(), cashierID, cart))

	return svc, carts, drafts, repo, mailer, cashierID
}

func TestCheckoutValidateSale(t *testing.T) {
	ctx := context.Background()

	t.Run("records sale and clears cart", func(t *testing.T) {
		svc, carts, _, repo, _, cashierID := checkoutFixture(t)

		sale, err := svc.ValidateSale(ctx, cashierID, CheckoutRequest{})
		require.NoError(t, err)

		assert.NotEmpty(t, sale.Number)
		assert.True(t, sale.Total.Equal(decimal.NewFromFloat(3.40)))
		require.Len(t, repo.sales, 1)

		cart, err := carts.Get(ctx, cashierID)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("empty cart refused", func(t *testing.T) {
		svc, _, _, _, _, _ := checkoutFixture(t)

		_, err := svc.ValidateSale(ctx, uuid.New(), CheckoutRequest{})
		assert.Error(t, err)
	})

	t.Run("underpaid cart refused", func(t *testing.T) {
		svc, carts, _, repo, _, cashierID := checkoutFixture(t)
		cart, err := carts.Get(ctx, cashierID)
		require.NoError(t, err)
		require.NoError(t, cart.SetPayment(0, caisse.PaymentCard, decimal.NewFromFloat(1.00)))

		_, err = svc.ValidateSale(ctx, cashierID, CheckoutRequest{})
		require.Error(t, err)
		assert.Empty(t, repo.sales)
	})

	t.Run("removes source draft", func(t *testing.T) {
		svc, carts, drafts, _, _, cashierID := checkoutFixture(t)
		cart, err := carts.Get(ctx, cashierID)
		require.NoError(t, err)
		draft, err := caisse.NewCartDraft("ticket-7", cart)
		require.NoError(t, err)
		require.NoError(t, drafts.Save(ctx, draft))

		_, err = svc.ValidateSale(ctx, cashierID, CheckoutRequest{DraftID: "ticket-7"})
		require.NoError(t, err)

		_, err = drafts.Get(ctx, "ticket-7")
		assert.Error(t, err)
	})

	t.Run("receipt sent when email given", func(t *testing.T) {
		svc, _, _, repo, mailer, cashierID := checkoutFixture(t)

		sale, err := svc.ValidateSale(ctx, cashierID, CheckoutRequest{ReceiptEmail: "membre@coop.fr"})
		require.NoError(t, err)

		assert.True(t, sale.ReceiptSent)
		assert.Equal(t, []string{"membre@coop.fr"}, mailer.sent)
		require.Len(t, repo.sales, 1)
		assert.True(t, repo.sales[0].ReceiptSent, "flag is persisted after delivery")
	})

	t.Run("save failure sends no receipt", func(t *testing.T) {
		svc, _, _, repo, mailer, cashierID := checkoutFixture(t)
		repo.saveErr = errors.New("database unavailable")

		_, err := svc.ValidateSale(ctx, cashierID, CheckoutRequest{ReceiptEmail: "membre@coop.fr"})
		require.Error(t, err)
		assert.Empty(t, repo.sales)
		assert.Empty(t, mailer.sent, "no receipt for an unrecorded sale")
	})

	t.Run("receipt failure does not fail checkout", func(t *testing.T) {
		svc, _, _, repo, mailer, cashierID := checkoutFixture(t)
		mailer.fail = true

		sale, err := svc.ValidateSale(ctx, cashierID, CheckoutRequest{ReceiptEmail: "membre@coop.fr"})
		require.NoError(t, err)

		assert.False(t, sale.ReceiptSent)
		require.Len(t, repo.sales, 1)
	})
}

func TestDraftService(t *testing.T) {
	ctx := context.Background()
	carts := newFakeCartStore()
	drafts := newFakeDraftStore()
	svc := NewDraftService(drafts, carts)

	cashierID := uuid.New()
	cart := caisse.NewCart()
	_, err := cart.AddProduct(caisse.ProductRef{
		ID:        uuid.New(),
		Label:     "Savon",
		UnitPrice: decimal.NewFromFloat(4.20),
		Unit:      "piece",
		Increment: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.NoError(t, carts.Save(ctx, cashierID, cart))

	t.Run("save and list", func(t *testing.T) {
		saved, err := svc.Save(ctx, cashierID, "pause-midi")
		require.NoError(t, err)
		assert.Equal(t, "pause-midi", saved.ID)
		assert.Equal(t, 1, saved.ArticleCount)

		listed, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 1)

		live, err := carts.Get(ctx, cashierID)
		require.NoError(t, err)
		assert.False(t, live.IsEmpty(), "parking copies the cart, the live one stays")
	})

	t.Run("save same id replaces", func(t *testing.T) {
		_, err := cart.AddProduct(caisse.ProductRef{
			ID:        uuid.New(),
			Label:     "Shampoing",
			UnitPrice: decimal.NewFromFloat(6.00),
			Unit:      "piece",
			Increment: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		require.NoError(t, carts.Save(ctx, cashierID, cart))

		saved, err := svc.Save(ctx, cashierID, "pause-midi")
		require.NoError(t, err)
		assert.Equal(t, 2, saved.ArticleCount)

		listed, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 1, "same id overwrites instead of duplicating")
	})

	t.Run("load replaces live cart", func(t *testing.T) {
		otherCashier := uuid.New()
		restored, err := svc.Load(ctx, otherCashier, "pause-midi")
		require.NoError(t, err)
		assert.Equal(t, 2, restored.ArticleCount)
		assert.Empty(t, restored.Payments, "payments are not part of drafts")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "pause-midi"))
		listed, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("empty cart cannot be parked", func(t *testing.T) {
		_, err := svc.Save(ctx, uuid.New(), "vide")
		assert.Error(t, err)
	})
}
