package catalog

import (
	"testing"
	"time"

	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogue(t *testing.T) *Catalogue {
	t.Helper()
	opens := time.Now().Add(-time.Hour)
	closes := time.Now().Add(7 * 24 * time.Hour)
	catalogue, err := NewCatalogue("Commande fromages septembre", uuid.New(), opens, closes)
	require.NoError(t, err)
	return catalogue
}

func TestNewCatalogue(t *testing.T) {
	t.Run("valid catalogue starts as draft", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		assert.Equal(t, CatalogueStatusDraft, catalogue.Status)
		assert.Empty(t, catalogue.Entries)
		assert.Len(t, catalogue.DomainEvents(), 1)
	})

	t.Run("window must close after it opens", func(t *testing.T) {
		now := time.Now()
		_, err := NewCatalogue("Inversé", uuid.New(), now, now.Add(-time.Hour))
		assert.Error(t, err)

		_, err = NewCatalogue("Vide", uuid.New(), now, now)
		assert.Error(t, err)
	})

	t.Run("referent required", func(t *testing.T) {
		now := time.Now()
		_, err := NewCatalogue("Sans référent", uuid.Nil, now, now.Add(time.Hour))
		assert.Error(t, err)
	})
}

func TestCatalogueEntries(t *testing.T) {
	t.Run("add and remove entries in draft", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		productID := uuid.New()

		entry, err := catalogue.AddEntry(productID, nil)
		require.NoError(t, err)
		assert.Nil(t, entry.PriceOver)

		_, err = catalogue.AddEntry(productID, nil)
		assert.Error(t, err, "same product twice should fail")

		require.NoError(t, catalogue.RemoveEntry(productID))
		assert.Empty(t, catalogue.Entries)

		err = catalogue.RemoveEntry(productID)
		assert.Error(t, err)
	})

	t.Run("price override recorded", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		override := valueobject.NewMoneyEURFromFloat(3.20)

		entry, err := catalogue.AddEntry(uuid.New(), &override)
		require.NoError(t, err)
		require.NotNil(t, entry.PriceOver)
		assert.True(t, entry.PriceOver.Equal(decimal.NewFromFloat(3.20)))
	})

	t.Run("negative override rejected", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		override := valueobject.NewMoneyEUR(decimal.NewFromFloat(-1))

		_, err := catalogue.AddEntry(uuid.New(), &override)
		assert.Error(t, err)
	})
}

func TestCatalogueLifecycle(t *testing.T) {
	t.Run("cannot open without entries", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		assert.Error(t, catalogue.Open())
	})

	t.Run("draft to open to closed", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		_, err := catalogue.AddEntry(uuid.New(), nil)
		require.NoError(t, err)
		catalogue.ClearDomainEvents()

		require.NoError(t, catalogue.Open())
		assert.Equal(t, CatalogueStatusOpen, catalogue.Status)

		require.NoError(t, catalogue.Close())
		assert.Equal(t, CatalogueStatusClosed, catalogue.Status)

		events := catalogue.DomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeCatalogueOpened, events[0].EventType())
		assert.Equal(t, EventTypeCatalogueClosed, events[1].EventType())
	})

	t.Run("closed catalogue cannot reopen", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		_, err := catalogue.AddEntry(uuid.New(), nil)
		require.NoError(t, err)
		require.NoError(t, catalogue.Open())
		require.NoError(t, catalogue.Close())

		assert.Error(t, catalogue.Open())
	})

	t.Run("open catalogue cannot be edited", func(t *testing.T) {
		catalogue := newTestCatalogue(t)
		productID := uuid.New()
		_, err := catalogue.AddEntry(productID, nil)
		require.NoError(t, err)
		require.NoError(t, catalogue.Open())

		_, err = catalogue.AddEntry(uuid.New(), nil)
		assert.Error(t, err)
		assert.Error(t, catalogue.RemoveEntry(productID))
		assert.Error(t, catalogue.Update("Renommé", catalogue.OpensAt, catalogue.ClosesAt))
	})
}

func TestCatalogueIsOrderable(t *testing.T) {
	opens := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	closes := time.Date(2026, 9, 8, 20, 0, 0, 0, time.UTC)
	catalogue, err := NewCatalogue("Septembre", uuid.New(), opens, closes)
	require.NoError(t, err)
	_, err = catalogue.AddEntry(uuid.New(), nil)
	require.NoError(t, err)

	t.Run("draft is never orderable", func(t *testing.T) {
		assert.False(t, catalogue.IsOrderable(opens.Add(time.Hour)))
	})

	require.NoError(t, catalogue.Open())

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", opens.Add(-time.Minute), false},
		{"at opening", opens, true},
		{"inside window", opens.Add(48 * time.Hour), true},
		{"at closing", closes, false},
		{"after window", closes.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalogue.IsOrderable(tt.at))
		})
	}
}

func TestCatalogueEntryPrice(t *testing.T) {
	catalogue := newTestCatalogue(t)
	plainID := uuid.New()
	overriddenID := uuid.New()
	override := valueobject.NewMoneyEURFromFloat(5.50)

	_, err := catalogue.AddEntry(plainID, nil)
	require.NoError(t, err)
	_, err = catalogue.AddEntry(overriddenID, &override)
	require.NoError(t, err)

	productPrice := decimal.NewFromFloat(6.00)

	price, err := catalogue.EntryPrice(plainID, productPrice)
	require.NoError(t, err)
	assert.True(t, price.Equal(productPrice), "no override falls back to product price")

	price, err = catalogue.EntryPrice(overriddenID, productPrice)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(5.50)))

	_, err = catalogue.EntryPrice(uuid.New(), productPrice)
	assert.Error(t, err)
}

func TestCatalogueOwnership(t *testing.T) {
	referentID := uuid.New()
	catalogue, err := NewCatalogue("Vrac", referentID, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, catalogue.IsOwnedBy(referentID))
	assert.False(t, catalogue.IsOwnedBy(uuid.New()))
}
