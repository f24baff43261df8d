package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/mithai/internal/model"
)

// DecrementStock atomically takes quantity units off a sweet's stock, but only
// if at least that many are on hand. On success it returns the sweet's price
// as of the decrement. ok is false when nothing was changed, either because
// the sweet does not exist or because stock is insufficient.
func DecrementStock(ctx context.Context, q DBTX, sweetID int64, quantity int) (price float64, ok bool, err error) {
	if quantity <= 0 {
		return 0, false, fmt.Errorf("quantity must be positive")
	}

	err = q.QueryRowContext(ctx,
		`UPDATE sweets SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity >= ?
		 RETURNING price`,
		quantity, sweetID, quantity,
	).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("decrementing stock: %w", err)
	}
	return price, true, nil
}

// IncrementStock atomically adds quantity units to a sweet's stock as long
// as the result stays within model.MaxQuantity. ok is false when nothing was
// changed, either because the sweet does not exist or because the cap would
// be exceeded.
func IncrementStock(ctx context.Context, q DBTX, sweetID int64, quantity int) (ok bool, err error) {
	if quantity <= 0 || quantity > model.MaxQuantity {
		return false, fmt.Errorf("quantity must be between 1 and %d", model.MaxQuantity)
	}

	result, err := q.ExecContext(ctx,
		`UPDATE sweets SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity <= ?`,
		quantity, sweetID, model.MaxQuantity-quantity,
	)
	if err != nil {
		return false, fmt.Errorf("incrementing stock: %w", err)
	}
	return affected(result)
}

// SweetExists reports whether a sweet with the given ID exists.
func SweetExists(ctx context.Context, q DBTX, sweetID int64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sweets WHERE id = ?`, sweetID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking sweet: %w", err)
	}
	return n > 0, nil
}
