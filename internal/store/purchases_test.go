package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/mithai/internal/db"
)

func TestCreatePurchaseComputesTotal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buyer := mustAccount(t, database, "buyer@example.com")
	owner := mustAccount(t, database, "owner@example.com")
	sweet := mustSweet(t, database, "Kaju Katli", "Dry Fruit", 500, 20, owner.ID)

	p, err := CreatePurchase(ctx, database, buyer.ID, sweet.ID, 5, 500)
	require.NoError(t, err)

	assert.Equal(t, buyer.ID, p.AccountID)
	assert.Equal(t, sweet.ID, p.SweetID)
	assert.Equal(t, 5, p.Quantity)
	assert.Equal(t, 500.0, p.PurchasedAtPrice)
	assert.Equal(t, 2500.0, p.TotalAmount)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestListPurchasesByAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buyer := mustAccount(t, database, "buyer@example.com")
	other := mustAccount(t, database, "other@example.com")
	ladoo := mustSweet(t, database, "Ladoo", "Classic", 10, 20, other.ID)
	peda := mustSweet(t, database, "Peda", "Milk", 20, 20, other.ID)

	first, _ := CreatePurchase(ctx, database, buyer.ID, ladoo.ID, 1, 10)
	second, _ := CreatePurchase(ctx, database, buyer.ID, peda.ID, 2, 20)
	CreatePurchase(ctx, database, other.ID, peda.ID, 3, 20)

	purchases, err := ListPurchasesByAccount(ctx, database, buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)

	assert.Equal(t, second.ID, purchases[0].ID)
	assert.Equal(t, first.ID, purchases[1].ID)
	require.NotNil(t, purchases[0].Sweet)
	assert.Equal(t, "Peda", purchases[0].Sweet.Name)
}

func TestListPurchasesKeepsEntryForDeletedSweet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buyer := mustAccount(t, database, "buyer@example.com")
	sweet := mustSweet(t, database, "Ladoo", "Classic", 10, 20, buyer.ID)

	CreatePurchase(ctx, database, buyer.ID, sweet.ID, 1, 10)
	_, err := DeleteSweet(ctx, database, sweet.ID)
	require.NoError(t, err)

	purchases, err := ListPurchasesByAccount(ctx, database, buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Nil(t, purchases[0].Sweet)
	assert.Equal(t, 10.0, purchases[0].TotalAmount)
}
