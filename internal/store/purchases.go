package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/mithai/internal/model"
)

// CreatePurchase records a ledger entry. The unit price is stored as given
// and the total is computed once here; neither is ever recomputed.
func CreatePurchase(ctx context.Context, q DBTX, accountID, sweetID int64, quantity int, unitPrice float64) (*model.Purchase, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	total := unitPrice * float64(quantity)

	result, err := q.ExecContext(ctx,
		`INSERT INTO purchases (account_id, sweet_id, quantity, purchased_at_price, total_amount)
		 VALUES (?, ?, ?, ?, ?)`,
		accountID, sweetID, quantity, unitPrice, total,
	)
	if err != nil {
		return nil, fmt.Errorf("recording purchase: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting purchase id: %w", err)
	}

	p := &model.Purchase{}
	err = q.QueryRowContext(ctx,
		`SELECT id, account_id, sweet_id, quantity, purchased_at_price, total_amount, created_at
		 FROM purchases WHERE id = ?`, id,
	).Scan(&p.ID, &p.AccountID, &p.SweetID, &p.Quantity, &p.PurchasedAtPrice, &p.TotalAmount, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading purchase: %w", err)
	}
	return p, nil
}

// ListPurchasesByAccount returns an account's ledger entries, newest first,
// each joined with the current catalog data of its sweet.
func ListPurchasesByAccount(ctx context.Context, q DBTX, accountID int64) ([]model.Purchase, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT p.id, p.account_id, p.sweet_id, p.quantity, p.purchased_at_price, p.total_amount, p.created_at,
		        s.id, s.name, s.category, s.price, s.quantity, s.owner_id, s.image_mime, s.created_at, s.updated_at
		 FROM purchases p
		 LEFT JOIN sweets s ON s.id = p.sweet_id
		 WHERE p.account_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		var (
			sID, sQuantity, sOwner sql.NullInt64
			sName, sCategory, sMime sql.NullString
			sPrice                  sql.NullFloat64
			sCreated, sUpdated      sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.AccountID, &p.SweetID, &p.Quantity, &p.PurchasedAtPrice, &p.TotalAmount, &p.CreatedAt,
			&sID, &sName, &sCategory, &sPrice, &sQuantity, &sOwner, &sMime, &sCreated, &sUpdated); err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}
		if sID.Valid {
			p.Sweet = &model.Sweet{
				ID:        sID.Int64,
				Name:      sName.String,
				Category:  sCategory.String,
				Price:     sPrice.Float64,
				Quantity:  int(sQuantity.Int64),
				OwnerID:   sOwner.Int64,
				ImageMime: sMime.String,
				CreatedAt: sCreated.Time,
				UpdatedAt: sUpdated.Time,
			}
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
