package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/events"
	"github.com/erazemk/mithai/internal/model"
	"github.com/erazemk/mithai/internal/store"
)

// QuantityCommand carries the number of units to purchase or restock.
type QuantityCommand struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=1000000"`
}

// Purchase takes quantity units of a sweet out of stock and records a ledger
// entry at the sweet's current price. Both writes commit together or not at
// all; stock is never taken below zero, however many purchases race.
func (s *Service) Purchase(ctx context.Context, sweetID, buyerID int64, cmd QuantityCommand) (*model.Purchase, error) {
	if err := s.check(cmd); err != nil {
		return nil, err
	}

	var purchase *model.Purchase
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		price, ok, err := store.DecrementStock(ctx, tx, sweetID, cmd.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			exists, err := store.SweetExists(ctx, tx, sweetID)
			if err != nil {
				return err
			}
			if !exists {
				return errs.E(errs.NotFound, "sweet not found")
			}
			return errs.E(errs.InsufficientStock, "insufficient stock")
		}

		total := price * float64(cmd.Quantity)
		if math.IsInf(total, 0) || math.IsNaN(total) {
			return errs.E(errs.Validation, "purchase total is out of range")
		}

		purchase, err = store.CreatePurchase(ctx, tx, buyerID, sweetID, cmd.Quantity, price)
		return err
	})
	if errors.Is(err, store.ErrRollbackFailed) {
		s.log.Error("purchase rollback failed",
			zap.Int64("sweet_id", sweetID),
			zap.Int64("account_id", buyerID),
			zap.Int("quantity", cmd.Quantity),
			zap.Error(err),
		)
		return nil, errs.Wrap(errs.Inconsistent, "purchase left the store in an inconsistent state", err)
	}
	if err != nil {
		return nil, internal(err)
	}

	s.log.Info("purchase completed",
		zap.Int64("purchase_id", purchase.ID),
		zap.Int64("sweet_id", sweetID),
		zap.Int64("account_id", buyerID),
		zap.Int("quantity", purchase.Quantity),
		zap.Float64("total", purchase.TotalAmount),
	)
	s.invalidateCatalog(ctx)
	s.publish(ctx, events.Event{
		Type:       events.TypePurchaseCompleted,
		SweetID:    sweetID,
		AccountID:  buyerID,
		PurchaseID: purchase.ID,
		Quantity:   purchase.Quantity,
		Amount:     purchase.TotalAmount,
	})
	return purchase, nil
}

// Restock adds quantity units to a sweet's stock and returns the sweet.
// Any authenticated account may restock any sweet.
func (s *Service) Restock(ctx context.Context, sweetID, callerID int64, cmd QuantityCommand) (*model.Sweet, error) {
	if err := s.check(cmd); err != nil {
		return nil, err
	}

	ok, err := store.IncrementStock(ctx, s.db, sweetID, cmd.Quantity)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		exists, err := store.SweetExists(ctx, s.db, sweetID)
		if err != nil {
			return nil, internal(err)
		}
		if !exists {
			return nil, errs.E(errs.NotFound, "sweet not found")
		}
		return nil, errs.E(errs.Validation,
			fmt.Sprintf("restock would exceed the maximum stock of %d", model.MaxQuantity))
	}

	sweet, err := store.GetSweet(ctx, s.db, sweetID)
	if err != nil {
		return nil, internal(err)
	}
	if sweet == nil {
		return nil, errs.E(errs.NotFound, "sweet not found")
	}

	s.log.Info("sweet restocked",
		zap.Int64("sweet_id", sweetID),
		zap.Int64("account_id", callerID),
		zap.Int("quantity", cmd.Quantity),
	)
	s.invalidateCatalog(ctx)
	s.publish(ctx, events.Event{
		Type:      events.TypeSweetRestocked,
		SweetID:   sweetID,
		AccountID: callerID,
		Quantity:  cmd.Quantity,
	})
	return sweet, nil
}

// ListPurchases returns buyerID's ledger entries, newest first, each with
// the current catalog data of its sweet (nil if since deleted).
func (s *Service) ListPurchases(ctx context.Context, buyerID int64) ([]model.Purchase, error) {
	purchases, err := store.ListPurchasesByAccount(ctx, s.db, buyerID)
	if err != nil {
		return nil, internal(err)
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	return purchases, nil
}
