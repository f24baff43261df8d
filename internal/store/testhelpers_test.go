package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/mithai/internal/model"
)

func mustAccount(t *testing.T, q DBTX, email string) *model.Account {
	t.Helper()
	a, err := CreateAccount(context.Background(), q, "Test "+email, email, "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", email, err)
	}
	return a
}

func mustSweet(t *testing.T, q *sql.DB, name, category string, price float64, quantity int, ownerID int64) *model.Sweet {
	t.Helper()
	s, err := CreateSweet(context.Background(), q, name, category, price, quantity, ownerID)
	if err != nil {
		t.Fatalf("CreateSweet(%s): %v", name, err)
	}
	return s
}
