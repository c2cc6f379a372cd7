package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("valid supplier", func(t *testing.T) {
		supplier, err := NewSupplier("ferme-dupont", "Ferme Dupont")
		require.NoError(t, err)
		assert.Equal(t, "FERME-DUPONT", supplier.Code)
		assert.Equal(t, "Ferme Dupont", supplier.Name)
		assert.Equal(t, SupplierStatusActive, supplier.Status)
		assert.Nil(t, supplier.MergedInto)
		assert.Len(t, supplier.DomainEvents(), 1)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewSupplier("", "Ferme Dupont")
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewSupplier("ferme", "")
		assert.Error(t, err)
	})
}

func TestSupplierContact(t *testing.T) {
	supplier, err := NewSupplier("brasserie", "Brasserie du Canal")
	require.NoError(t, err)

	t.Run("valid contact", func(t *testing.T) {
		require.NoError(t, supplier.SetContact("Jean Morel", "+33 6 12 34 56 78", "contact@brasserie.fr"))
		assert.Equal(t, "Jean Morel", supplier.ContactName)
	})

	t.Run("invalid email", func(t *testing.T) {
		assert.Error(t, supplier.SetContact("Jean Morel", "", "pas-un-email"))
	})

	t.Run("invalid phone", func(t *testing.T) {
		assert.Error(t, supplier.SetContact("Jean Morel", "abc", ""))
	})
}

func TestSupplierMerge(t *testing.T) {
	t.Run("merge into another supplier", func(t *testing.T) {
		supplier, err := NewSupplier("doublon", "Ferme Dupond")
		require.NoError(t, err)
		supplier.ClearDomainEvents()
		targetID := uuid.New()

		require.NoError(t, supplier.MergeInto(targetID))

		assert.True(t, supplier.IsMerged())
		assert.Equal(t, SupplierStatusInactive, supplier.Status)
		require.NotNil(t, supplier.MergedInto)
		assert.Equal(t, targetID, *supplier.MergedInto)

		events := supplier.DomainEvents()
		require.Len(t, events, 1)
		merged, ok := events[0].(*SupplierMergedEvent)
		require.True(t, ok)
		assert.Equal(t, targetID, merged.TargetID)
	})

	t.Run("cannot merge into itself", func(t *testing.T) {
		supplier, err := NewSupplier("unique", "Ferme Unique")
		require.NoError(t, err)

		err = supplier.MergeInto(supplier.ID)
		require.Error(t, err)
		assert.False(t, supplier.IsMerged())
	})

	t.Run("cannot merge twice", func(t *testing.T) {
		supplier, err := NewSupplier("doublon2", "Ferme Dupon")
		require.NoError(t, err)
		require.NoError(t, supplier.MergeInto(uuid.New()))

		assert.Error(t, supplier.MergeInto(uuid.New()))
	})

	t.Run("merged supplier cannot be reactivated", func(t *testing.T) {
		supplier, err := NewSupplier("doublon3", "Ferme Dupont bis")
		require.NoError(t, err)
		require.NoError(t, supplier.MergeInto(uuid.New()))

		assert.Error(t, supplier.Activate())
	})
}

func TestSupplierLifecycle(t *testing.T) {
	supplier, err := NewSupplier("maraicher", "Le Grand Maraîcher")
	require.NoError(t, err)

	require.NoError(t, supplier.Deactivate())
	assert.False(t, supplier.IsActive())
	assert.Error(t, supplier.Deactivate())

	require.NoError(t, supplier.Activate())
	assert.True(t, supplier.IsActive())
}
