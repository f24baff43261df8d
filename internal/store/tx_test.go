package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxCommits(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sweets SET quantity").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), database, func(tx *sql.Tx) error {
		_, err := IncrementStock(context.Background(), tx, 1, 3)
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	failure := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO purchases").WillReturnError(failure)
	mock.ExpectRollback()

	err = WithTx(context.Background(), database, func(tx *sql.Tx) error {
		_, err := CreatePurchase(context.Background(), tx, 1, 1, 1, 10)
		return err
	})
	assert.ErrorIs(t, err, failure)
	assert.NotErrorIs(t, err, ErrRollbackFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReportsFailedRollback(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	failure := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO purchases").WillReturnError(failure)
	mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

	err = WithTx(context.Background(), database, func(tx *sql.Tx) error {
		_, err := CreatePurchase(context.Background(), tx, 1, 1, 1, 10)
		return err
	})
	assert.ErrorIs(t, err, failure)
	assert.ErrorIs(t, err, ErrRollbackFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxBeginFailure(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	called := false
	err = WithTx(context.Background(), database, func(tx *sql.Tx) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
