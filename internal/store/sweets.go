package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/mithai/internal/db"
	"github.com/erazemk/mithai/internal/model"
)

// SweetPatch holds the fields of a partial sweet update. Nil fields are left
// unchanged.
type SweetPatch struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

const sweetSelect = `SELECT s.id, s.name, s.category, s.price, s.quantity, s.owner_id, s.image_mime,
	        s.created_at, s.updated_at, a.id, a.name, a.email
	 FROM sweets s
	 JOIN accounts a ON a.id = s.owner_id`

// CreateSweet creates a new sweet owned by ownerID.
func CreateSweet(ctx context.Context, q DBTX, name, category string, price float64, quantity int, ownerID int64) (*model.Sweet, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO sweets (name, category, price, quantity, owner_id) VALUES (?, ?, ?, ?, ?)`,
		name, category, price, quantity, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sweet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sweet id: %w", err)
	}

	return GetSweet(ctx, q, id)
}

// GetSweet returns a sweet by ID with its owner joined, or nil.
func GetSweet(ctx context.Context, q DBTX, id int64) (*model.Sweet, error) {
	rows, err := q.QueryContext(ctx, sweetSelect+` WHERE s.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting sweet: %w", err)
	}
	defer rows.Close()

	sweets, err := scanSweets(rows)
	if err != nil {
		return nil, err
	}
	if len(sweets) == 0 {
		return nil, nil
	}
	return &sweets[0], nil
}

// GetSweetOwner returns the owner ID of a sweet. found is false if the sweet
// does not exist.
func GetSweetOwner(ctx context.Context, q DBTX, id int64) (ownerID int64, found bool, err error) {
	err = q.QueryRowContext(ctx, `SELECT owner_id FROM sweets WHERE id = ?`, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("getting sweet owner: %w", err)
	}
	return ownerID, true, nil
}

// ListSweets returns sweets matching filter, newest first.
func ListSweets(ctx context.Context, q DBTX, filter model.SweetFilter) ([]model.Sweet, error) {
	query := sweetSelect + ` WHERE 1=1`
	var args []any

	for _, token := range filter.NameTokens {
		query += ` AND ` + db.FoldFunc + `(s.name) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(db.Fold(token))+"%")
	}
	if filter.Category != "" {
		query += ` AND s.category = ?`
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		query += ` AND s.price >= ?`
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += ` AND s.price <= ?`
		args = append(args, *filter.MaxPrice)
	}

	query += ` ORDER BY s.created_at DESC, s.id DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sweets: %w", err)
	}
	defer rows.Close()

	return scanSweets(rows)
}

// ListSweetsByOwner returns the sweets created by ownerID, newest first.
func ListSweetsByOwner(ctx context.Context, q DBTX, ownerID int64) ([]model.Sweet, error) {
	rows, err := q.QueryContext(ctx,
		sweetSelect+` WHERE s.owner_id = ? ORDER BY s.created_at DESC, s.id DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sweets by owner: %w", err)
	}
	defer rows.Close()

	return scanSweets(rows)
}

// UpdateSweet applies a partial update in a single statement. It reports
// whether a row was updated.
func UpdateSweet(ctx context.Context, q DBTX, id int64, patch SweetPatch) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE sweets SET
		     name = COALESCE(?, name),
		     category = COALESCE(?, category),
		     price = COALESCE(?, price),
		     quantity = COALESCE(?, quantity),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		patch.Name, patch.Category, patch.Price, patch.Quantity, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating sweet: %w", err)
	}
	return affected(result)
}

// DeleteSweet permanently removes a sweet. It reports whether a row was deleted.
func DeleteSweet(ctx context.Context, q DBTX, id int64) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM sweets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting sweet: %w", err)
	}
	return affected(result)
}

// SetSweetImage sets a sweet's image data.
func SetSweetImage(ctx context.Context, q DBTX, id int64, image []byte, mime string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE sweets SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting sweet image: %w", err)
	}
	return affected(result)
}

// GetSweetImage returns a sweet's image data and MIME type. data is nil if
// the sweet does not exist or has no image.
func GetSweetImage(ctx context.Context, q DBTX, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image, image_mime FROM sweets WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting sweet image: %w", err)
	}
	return image, mime.String, nil
}

func scanSweets(rows *sql.Rows) ([]model.Sweet, error) {
	var sweets []model.Sweet
	for rows.Next() {
		var s model.Sweet
		var imageMime sql.NullString
		owner := &model.PublicAccount{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.OwnerID, &imageMime,
			&s.CreatedAt, &s.UpdatedAt, &owner.ID, &owner.Name, &owner.Email); err != nil {
			return nil, fmt.Errorf("scanning sweet: %w", err)
		}
		s.ImageMime = imageMime.String
		s.Owner = owner
		sweets = append(sweets, s)
	}
	return sweets, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}
